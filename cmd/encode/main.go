// Command encode converts an image into a grayscale text grid.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.yhsif.com/graytext"
	"go.yhsif.com/graytext/logger"
)

const usage = "Usage: encode [-fit N] [-v] <input-image> <output.txt>"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != exitOK {
		os.Exit(code)
	}
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fit := fs.Int(
		"fit",
		0,
		"Downscale the image to fit in fit x fit before encoding, 0 to keep the original size",
	)
	verbose := fs.Bool(
		"v",
		false,
		"Enable debug logs",
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}

	l := logger.New(stderr, *verbose)
	ctx := logger.SetContext(context.Background(), l)
	if err := graytext.EncodeFile(ctx, graytext.EncodeArgs{
		Input:  fs.Arg(0),
		Output: fs.Arg(1),
		Fit:    *fit,
	}); err != nil {
		l.ErrorContext(
			ctx,
			"Failed to encode image",
			"err", err,
			"input", fs.Arg(0),
			"output", fs.Arg(1),
		)
		return exitError
	}
	return exitOK
}
