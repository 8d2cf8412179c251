package graytext

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"go.yhsif.com/immutable"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"go.yhsif.com/graytext/grayscale"
)

// Format is an output image format.
type Format string

// Supported output formats.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// MaxJPEGSide is the largest width or height a JPEG file can store.
const MaxJPEGSide = 1<<16 - 1

var (
	jpegExts = immutable.SetLiteral(".jpg", ".jpeg", ".jpe", ".jfif")
	pngExts  = immutable.SetLiteral(".png")
	bmpExts  = immutable.SetLiteral(".bmp")
	tiffExts = immutable.SetLiteral(".tif", ".tiff")
)

// FormatFor picks the output format from the extension of path.
//
// Unknown or missing extensions fall back to FormatJPEG.
func FormatFor(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	default:
		return FormatJPEG
	case jpegExts.Contains(ext):
		return FormatJPEG
	case pngExts.Contains(ext):
		return FormatPNG
	case bmpExts.Contains(ext):
		return FormatBMP
	case tiffExts.Contains(ext):
		return FormatTIFF
	}
}

// EncodeImage writes img to w in the given format.
//
// quality is only used by FormatJPEG, <= 0 means the encoder's default.
//
// An image the format can't hold returns ErrShape before anything is written.
// Failures from w return ErrIO.
func EncodeImage(w io.Writer, img image.Image, format Format, quality int) error {
	if format == FormatJPEG {
		if b := img.Bounds(); b.Dx() > MaxJPEGSide || b.Dy() > MaxJPEGSide {
			return fmt.Errorf(
				"graytext.EncodeImage: %w: %d x %d is over the jpeg limit of %d",
				ErrShape,
				b.Dy(),
				b.Dx(),
				MaxJPEGSide,
			)
		}
	}
	w = ioWriter{w}
	switch format {
	default:
		return fmt.Errorf("graytext.EncodeImage: unsupported format %q", format)
	case FormatJPEG:
		buf, err := (&grayscale.Image{Image: img}).ToJPEG(quality)
		if err != nil {
			return fmt.Errorf("graytext.EncodeImage: unable to encode jpeg: %w", err)
		}
		if _, err := buf.WriteTo(w); err != nil {
			return fmt.Errorf("graytext.EncodeImage: %w", err)
		}
		return nil
	case FormatPNG:
		return wrapEncodeErr(format, png.Encode(w, img))
	case FormatBMP:
		return wrapEncodeErr(format, bmp.Encode(w, img))
	case FormatTIFF:
		return wrapEncodeErr(format, tiff.Encode(w, img, &tiff.Options{
			Compression: tiff.Deflate,
		}))
	}
}

func wrapEncodeErr(format Format, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return fmt.Errorf("graytext.EncodeImage: %w", err)
	}
	return fmt.Errorf("graytext.EncodeImage: unable to encode %s: %w", format, err)
}

// ioWriter tags every write failure with ErrIO, so they stay distinguishable
// from encoder failures once an encoder returns them.
type ioWriter struct {
	w io.Writer
}

func (w ioWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, err
}
