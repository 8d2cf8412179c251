package graytext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	// Input formats accepted by EncodeFile, on top of the ones registered by
	// imports in format.go.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"go.yhsif.com/graytext/grayscale"
	"go.yhsif.com/graytext/internal/fsutil"
	"go.yhsif.com/graytext/logger"
)

// EncodeArgs defines the args used by EncodeFile function.
type EncodeArgs struct {
	// Path of the image to read, required.
	Input string

	// Path of the text grid to write, required.
	//
	// Existing file will be overwritten.
	Output string

	// If > 0, the image is downscaled to fit in Fit x Fit, preserving the
	// aspect ratio, before being written out.
	Fit int
}

// EncodeFile decodes the image at args.Input and writes its grayscale pixels
// to args.Output as a text grid.
//
// A missing or undecodable input returns ErrImageDecode, failing to write the
// output returns ErrIO.
func EncodeFile(ctx context.Context, args EncodeArgs) error {
	f, err := os.Open(args.Input)
	if err != nil {
		return fmt.Errorf("graytext.EncodeFile: %w: %w", ErrImageDecode, err)
	}
	defer f.Close()

	img, format, orig, err := grayscale.FromReader(f)
	if err != nil {
		return fmt.Errorf(
			"graytext.EncodeFile: %w: %q: %w",
			ErrImageDecode,
			args.Input,
			err,
		)
	}
	gray := img.Gray()
	bounds := gray.Bounds()
	gray = grayscale.Downscale(gray, args.Fit)
	grid, err := FromImage(gray)
	if err != nil {
		return fmt.Errorf("graytext.EncodeFile: %w", err)
	}
	logger.For(ctx).DebugContext(
		ctx,
		"Decoded image",
		"file", args.Input,
		"format", format,
		"size", orig.Len(),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"gridWidth", grid.Width,
		"gridHeight", grid.Height,
	)

	n, err := fsutil.WriteFile(args.Output, fsutil.Func(func(w io.Writer) error {
		return WriteGrid(w, grid)
	}))
	if err != nil {
		return fmt.Errorf("graytext.EncodeFile: %w", wrapWriteErr(err))
	}
	logger.For(ctx).DebugContext(
		ctx,
		"Wrote text grid",
		"file", args.Output,
		"size", n,
	)
	return nil
}

// ReadGridFile reads a text grid from path.
func ReadGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graytext.ReadGridFile: %w: %w", ErrIO, err)
	}
	defer f.Close()

	grid, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("graytext.ReadGridFile: %q: %w", path, err)
	}
	return grid, nil
}

// DecodeArgs defines the args used by DecodeFile function.
type DecodeArgs struct {
	// Path of the text grid to read, required.
	Input string

	// Path of the image to write, required.
	//
	// The format is picked by FormatFor. Existing file will be overwritten.
	Output string

	// JPEG quality in [1, 100], optional.
	//
	// The encoder's default quality is used when <= 0.
	Quality int
}

// DecodeFile parses the text grid at args.Input and writes it to args.Output
// as a grayscale image.
//
// IO failures return ErrIO, a malformed grid returns ErrFormat, and a grid
// with a wrong number of values, or too large for the output format, returns
// ErrShape. Nothing is written in any of those cases.
func DecodeFile(ctx context.Context, args DecodeArgs) error {
	grid, err := ReadGridFile(args.Input)
	if err != nil {
		return fmt.Errorf("graytext.DecodeFile: %w", err)
	}
	format := FormatFor(args.Output)
	logger.For(ctx).DebugContext(
		ctx,
		"Read text grid",
		"file", args.Input,
		"width", grid.Width,
		"height", grid.Height,
		"format", format,
	)

	img := grid.Image()
	n, err := fsutil.WriteFile(args.Output, fsutil.Func(func(w io.Writer) error {
		return EncodeImage(w, img, format, args.Quality)
	}))
	if err != nil {
		return fmt.Errorf("graytext.DecodeFile: %w", wrapWriteErr(err))
	}
	logger.For(ctx).DebugContext(
		ctx,
		"Wrote image",
		"file", args.Output,
		"size", n,
	)
	return nil
}

// wrapWriteErr adds ErrIO to filesystem failures from fsutil.WriteFile.
//
// Errors from the content writers already carry their own sentinel.
func wrapWriteErr(err error) error {
	if errors.Is(err, fsutil.ErrFS) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return err
}
