// Command match finds where a template text grid appears in an image text
// grid.
//
// It prints "<row> <col>" of the best placement, and exits with 0 when the
// placement is good enough to count as found, 1 otherwise.
//
// With -scale or -rotate the template is also rescaled or rotated, and always
// scored with ncc.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.yhsif.com/graytext"
	"go.yhsif.com/graytext/logger"
	"go.yhsif.com/graytext/match"
)

const usage = "Usage: match [-method ssd|ncc] [-sensitivity S] [-scale | -rotate] [-v] <image.txt> <template.txt>"

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
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	method := fs.String(
		"method",
		string(match.MethodSSD),
		"Scoring method, ssd or ncc",
	)
	sensitivity := fs.Float64(
		"sensitivity",
		1,
		"Scales the ssd acceptance threshold, higher accepts worse matches",
	)
	scale := fs.Bool(
		"scale",
		false,
		"Also search the template scale",
	)
	rotate := fs.Bool(
		"rotate",
		false,
		"Also search the template rotation",
	)
	verbose := fs.Bool(
		"v",
		false,
		"Enable debug logs",
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 || (*scale && *rotate) {
		fs.Usage()
		return exitUsage
	}

	l := logger.New(stderr, *verbose)
	ctx := logger.SetContext(context.Background(), l)
	grids := make([]*graytext.Grid, 2)
	for i := range grids {
		g, err := graytext.ReadGridFile(fs.Arg(i))
		if err != nil {
			l.ErrorContext(
				ctx,
				"Failed to read text grid",
				"err", err,
				"file", fs.Arg(i),
			)
			return exitError
		}
		grids[i] = g
	}

	var result match.Result
	var err error
	attrs := []any{"method", *method}
	switch {
	default:
		result, err = match.Find(grids[0], grids[1], match.Options{
			Method:      match.Method(*method),
			Sensitivity: *sensitivity,
		})
	case *scale:
		var scaled match.ScaledResult
		scaled, err = match.FindScaled(ctx, grids[0], grids[1], match.ScaleOptions{})
		result = scaled.Result
		attrs = []any{"method", match.MethodNCC, "scale", scaled.Scale}
	case *rotate:
		var rotated match.RotatedResult
		rotated, err = match.FindRotated(ctx, grids[0], grids[1], match.RotateOptions{})
		result = rotated.Result
		attrs = []any{"method", match.MethodNCC, "angle", rotated.Angle}
	}
	if err != nil {
		l.ErrorContext(
			ctx,
			"Failed to match template",
			"err", err,
			"image", fs.Arg(0),
			"template", fs.Arg(1),
		)
		return exitError
	}
	l.DebugContext(
		ctx,
		"Best placement",
		append(
			attrs,
			"row", result.Row,
			"col", result.Col,
			"score", result.Score,
			"found", result.Found,
		)...,
	)
	fmt.Fprintf(stdout, "%d %d\n", result.Row, result.Col)
	if !result.Found {
		return exitError
	}
	return exitOK
}
