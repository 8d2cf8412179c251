package graytext

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func TestFormatFor(t *testing.T) {
	for _, c := range []struct {
		path     string
		expected Format
	}{
		{"out.jpg", FormatJPEG},
		{"out.JPEG", FormatJPEG},
		{"dir.png/out", FormatJPEG},
		{"out.txt", FormatJPEG},
		{"out.png", FormatPNG},
		{"/tmp/a.b/out.Png", FormatPNG},
		{"out.bmp", FormatBMP},
		{"out.tif", FormatTIFF},
		{"out.tiff", FormatTIFF},
	} {
		t.Run(c.path, func(t *testing.T) {
			if got := FormatFor(c.path); got != c.expected {
				t.Errorf("FormatFor(%q) expected %q, got %q", c.path, c.expected, got)
			}
		})
	}
}

func TestEncodeImageUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, image.NewGray(image.Rect(0, 0, 1, 1)), "gif", 0); err == nil {
		t.Error("EncodeImage expected error for unsupported format")
	}
}

func TestEncodeImageTooLargeForJPEG(t *testing.T) {
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, MaxJPEGSide+1, 1),
		image.Rect(0, 0, 1, MaxJPEGSide+1),
	} {
		var buf bytes.Buffer
		err := EncodeImage(&buf, image.NewGray(rect), FormatJPEG, 0)
		if !errors.Is(err, ErrShape) {
			t.Errorf("EncodeImage(%v) expected ErrShape, got %v", rect, err)
		}
		if errors.Is(err, ErrIO) {
			t.Errorf("EncodeImage(%v) expected no ErrIO, got %v", rect, err)
		}
		if buf.Len() != 0 {
			t.Errorf("EncodeImage(%v) expected nothing written, got %d bytes", rect, buf.Len())
		}
	}

	// Other formats have no such limit.
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, MaxJPEGSide+1, 1))
	if err := EncodeImage(&buf, img, FormatPNG, 0); err != nil {
		t.Errorf("EncodeImage png failed: %v", err)
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestEncodeImageWriteFailure(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for _, format := range []Format{FormatJPEG, FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(string(format), func(t *testing.T) {
			err := EncodeImage(failingWriter{}, img, format, 0)
			if !errors.Is(err, ErrIO) {
				t.Errorf("EncodeImage expected ErrIO, got %v", err)
			}
			if !errors.Is(err, errWrite) {
				t.Errorf("EncodeImage expected errWrite, got %v", err)
			}
		})
	}
}
