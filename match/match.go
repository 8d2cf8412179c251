// Package match locates a template grid inside a larger source grid.
package match // import "go.yhsif.com/graytext/match"

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"go.yhsif.com/graytext"
)

// ErrTemplateTooLarge is returned when the template doesn't fit in the
// source in at least one dimension.
var ErrTemplateTooLarge = errors.New("template larger than source")

// Method selects how a placement is scored.
type Method string

// Supported methods.
const (
	// MethodSSD scores by sum of squared differences, lower is better.
	MethodSSD Method = "ssd"

	// MethodNCC scores by normalized cross correlation, higher is better.
	MethodNCC Method = "ncc"
)

// NCCThreshold is the minimal NCC score for a match to be reported as found.
const NCCThreshold = 0.9

// Per pixel SSD budget at sensitivity 1, a third of the squared value range
// over 16.
const ssdPixelBudget = float64(256*256/3) / 16

// Result is the best placement of the template.
//
// Row and Col are the source coordinates of the template's top-left pixel.
type Result struct {
	Row   int
	Col   int
	Score float64
	Found bool
}

// Options defines the options used by Find function.
type Options struct {
	// Scoring method, MethodSSD if empty.
	Method Method

	// Scales the SSD acceptance threshold, 1 if <= 0.
	Sensitivity float64
}

// Find dispatches to SSD or NCC according to opts.Method.
func Find(source, template *graytext.Grid, opts Options) (Result, error) {
	switch opts.Method {
	default:
		return Result{}, fmt.Errorf("match.Find: unknown method %q", opts.Method)
	case "", MethodSSD:
		sensitivity := opts.Sensitivity
		if sensitivity <= 0 {
			sensitivity = 1
		}
		return ssd(source, template, sensitivity)
	case MethodNCC:
		return NCC(source, template)
	}
}

// SSD finds the placement with the lowest sum of squared differences.
//
// Ties keep the first placement in row-major order. Found is set when the
// score is under the default sensitivity threshold.
func SSD(source, template *graytext.Grid) (Result, error) {
	return ssd(source, template, 1)
}

func ssd(source, template *graytext.Grid, sensitivity float64) (Result, error) {
	w, err := newWindows(source, template, nil)
	if err != nil {
		return Result{}, fmt.Errorf("match.SSD: %w", err)
	}
	threshold := ssdPixelBudget * float64(template.Len()) * sensitivity
	best := Result{Score: math.Inf(1)}
	for row := 0; row <= source.Height-template.Height; row++ {
		for col := 0; col <= source.Width-template.Width; col++ {
			st, s2 := w.sums(row, col)
			score := s2 - 2*st + w.t2
			if score < best.Score {
				best = Result{Row: row, Col: col, Score: score}
			}
		}
	}
	best.Found = best.Score < threshold
	return best, nil
}

// NCC finds the placement with the highest normalized cross correlation.
//
// A placement where either side is all zero scores 0. Ties keep the first
// placement in row-major order. Found is set when the score is over
// NCCThreshold.
func NCC(source, template *graytext.Grid) (Result, error) {
	w, err := newWindows(source, template, nil)
	if err != nil {
		return Result{}, fmt.Errorf("match.NCC: %w", err)
	}
	return w.ncc(source, template), nil
}

// NCCMasked is NCC counting only the template pixels whose mask value is
// true, on both the template and the source side.
//
// mask is in row-major order and must have one value per template pixel, nil
// counts every pixel.
func NCCMasked(source, template *graytext.Grid, mask []bool) (Result, error) {
	w, err := newWindows(source, template, mask)
	if err != nil {
		return Result{}, fmt.Errorf("match.NCCMasked: %w", err)
	}
	return w.ncc(source, template), nil
}

func (w *windows) ncc(source, template *graytext.Grid) Result {
	best := Result{Score: math.Inf(-1)}
	for row := 0; row <= source.Height-template.Height; row++ {
		for col := 0; col <= source.Width-template.Width; col++ {
			st, s2 := w.sums(row, col)
			var score float64
			if denom := math.Sqrt(s2 * w.t2); denom > 0 {
				score = st / denom
			}
			if score > best.Score {
				best = Result{Row: row, Col: col, Score: score}
			}
		}
	}
	best.Found = best.Score > NCCThreshold
	return best
}

// windows holds both grids as float64 rows for the dot products.
//
// With a mask, masked out template values are zeroed and the source energy
// comes from squares dotted with the mask rows.
type windows struct {
	source   [][]float64
	squares  [][]float64
	template [][]float64
	mask     [][]float64
	tw       int
	t2       float64
}

func newWindows(source, template *graytext.Grid, mask []bool) (*windows, error) {
	if err := validate(source, template); err != nil {
		return nil, err
	}
	if template.Height > source.Height || template.Width > source.Width {
		return nil, fmt.Errorf(
			"%w: template %d x %d, source %d x %d",
			ErrTemplateTooLarge,
			template.Height,
			template.Width,
			source.Height,
			source.Width,
		)
	}
	if mask != nil && len(mask) != template.Len() {
		return nil, fmt.Errorf(
			"%w: mask has %d values, template has %d pixels",
			graytext.ErrShape,
			len(mask),
			template.Len(),
		)
	}
	w := &windows{
		source:   toRows(source),
		template: toRows(template),
		tw:       template.Width,
	}
	if mask != nil {
		w.mask = make([][]float64, template.Height)
		for i := range w.mask {
			w.mask[i] = make([]float64, template.Width)
			for j := range w.mask[i] {
				if mask[i*template.Width+j] {
					w.mask[i][j] = 1
				}
			}
			floats.Mul(w.template[i], w.mask[i])
		}
		w.squares = make([][]float64, source.Height)
		for i, row := range w.source {
			w.squares[i] = floats.MulTo(make([]float64, len(row)), row, row)
		}
	}
	for _, row := range w.template {
		w.t2 += floats.Dot(row, row)
	}
	return w, nil
}

// sums returns sum(s*t) and sum(s*s) of the source window at (row, col).
func (w *windows) sums(row, col int) (st, s2 float64) {
	for i, trow := range w.template {
		srow := w.source[row+i][col : col+w.tw]
		st += floats.Dot(srow, trow)
		if w.mask == nil {
			s2 += floats.Dot(srow, srow)
		} else {
			s2 += floats.Dot(w.squares[row+i][col : col+w.tw], w.mask[i])
		}
	}
	return st, s2
}

func toRows(g *graytext.Grid) [][]float64 {
	rows := make([][]float64, g.Height)
	for i := range rows {
		rows[i] = make([]float64, g.Width)
		for j, v := range g.Row(i) {
			rows[i][j] = float64(v)
		}
	}
	return rows
}
