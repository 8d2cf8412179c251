// Package graytext converts images into plain text grayscale pixel grids and
// back.
//
// The text format (TextGrid) is:
//
//	<height> <width>
//	<height lines, each with width space separated integers 0-255>
package graytext // import "go.yhsif.com/graytext"

import (
	"bytes"
	"fmt"
)

// Grid is a row-major grayscale pixel grid.
//
// Pix[row*Width+col] is the intensity of the pixel at (row, col).
type Grid struct {
	Height int
	Width  int
	Pix    []uint8
}

// NewGrid allocates a zeroed height x width grid.
func NewGrid(height, width int) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf(
			"graytext.NewGrid: %w: dimensions must be positive, got %d x %d",
			ErrShape,
			height,
			width,
		)
	}
	return &Grid{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width),
	}, nil
}

// Len returns the number of pixels declared by the dimensions.
func (g *Grid) Len() int {
	return g.Height * g.Width
}

// Validate checks that dimensions are positive and Pix holds exactly
// Height*Width values.
func (g *Grid) Validate() error {
	if g.Height <= 0 || g.Width <= 0 {
		return fmt.Errorf(
			"graytext.Grid: %w: dimensions must be positive, got %d x %d",
			ErrShape,
			g.Height,
			g.Width,
		)
	}
	if len(g.Pix) != g.Len() {
		return fmt.Errorf(
			"graytext.Grid: %w: %d x %d needs %d values, got %d",
			ErrShape,
			g.Height,
			g.Width,
			g.Len(),
			len(g.Pix),
		)
	}
	return nil
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) uint8 {
	return g.Pix[row*g.Width+col]
}

// Set sets the value at (row, col).
func (g *Grid) Set(row, col int, v uint8) {
	g.Pix[row*g.Width+col] = v
}

// Row returns row i as a sub-slice of Pix.
func (g *Grid) Row(i int) []uint8 {
	return g.Pix[i*g.Width : (i+1)*g.Width]
}

// Equal reports whether g and other have the same dimensions and pixels.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Height == other.Height &&
		g.Width == other.Width &&
		bytes.Equal(g.Pix, other.Pix)
}
