// Command decode converts a grayscale text grid back into an image.
//
// The output format follows the output file extension, JPEG by default.
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

const usage = "Usage: decode [-quality Q] [-v] <input.txt> <output-image>"

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
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	quality := fs.Int(
		"quality",
		0,
		"JPEG quality in [1, 100], 0 to use the encoder default",
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
	if *quality < 0 || *quality > 100 {
		fmt.Fprintf(stdout, "-quality must be in [0, 100], got %d\n", *quality)
		return exitUsage
	}

	l := logger.New(stderr, *verbose)
	ctx := logger.SetContext(context.Background(), l)
	if err := graytext.DecodeFile(ctx, graytext.DecodeArgs{
		Input:   fs.Arg(0),
		Output:  fs.Arg(1),
		Quality: *quality,
	}); err != nil {
		l.ErrorContext(
			ctx,
			"Failed to decode text grid",
			"err", err,
			"input", fs.Arg(0),
			"output", fs.Arg(1),
		)
		return exitError
	}
	return exitOK
}
