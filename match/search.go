package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.yhsif.com/graytext"
	"go.yhsif.com/graytext/logger"
)

// Default sweep sizes.
const (
	DefaultScaleSteps  = 8
	DefaultRotateSteps = 16
)

const (
	// Longer template side, in pixels, at the default MinScale.
	minScaledSide = 16

	// Golden-section iterations around every refined peak.
	refineIterations = 10

	// How many sweep peaks get refined.
	refinePeaks = 2
)

var invPhi = (math.Sqrt(5) - 1) / 2

// ScaleOptions defines the options used by FindScaled function.
type ScaleOptions struct {
	// Smallest scale tried.
	//
	// If <= 0, the scale bringing the longer template side to 16 pixels, but
	// no more than 1.
	MinScale float64

	// Largest scale tried.
	//
	// If <= 0, the largest scale where the template still fits in the source.
	MaxScale float64

	// Number of log spaced scales in the sweep, DefaultScaleSteps if <= 0.
	Steps int
}

// ScaledResult is the best placement of a rescaled template.
//
// Row and Col are the top-left of the rescaled template.
type ScaledResult struct {
	Result

	Scale float64
}

// FindScaled searches the scale and the placement of template in source with
// the highest NCC score.
//
// Scales are swept on a log scale from MinScale to MaxScale, then the best
// local maxima of the sweep are refined with golden-section search. The
// template is rescaled with nearest neighbor sampling.
func FindScaled(ctx context.Context, source, template *graytext.Grid, opts ScaleOptions) (ScaledResult, error) {
	if err := validate(source, template); err != nil {
		return ScaledResult{}, fmt.Errorf("match.FindScaled: %w", err)
	}
	maxScale := opts.MaxScale
	if maxScale <= 0 {
		maxScale = min(
			float64(source.Height)/float64(template.Height),
			float64(source.Width)/float64(template.Width),
		)
	}
	minScale := opts.MinScale
	if minScale <= 0 {
		minScale = min(1, minScaledSide/float64(max(template.Height, template.Width)))
	}
	minScale = min(minScale, maxScale)
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultScaleSteps
	}
	scales := make([]float64, steps)
	for i := range scales {
		scales[i] = minScale
		if steps > 1 {
			scales[i] *= math.Pow(maxScale/minScale, float64(i)/float64(steps-1))
		}
	}

	s := &searcher{
		name: "scale",
		eval: func(scale float64) (Result, error) {
			scaled, err := scaleGrid(template, scale)
			if err != nil {
				return Result{}, err
			}
			return NCC(source, scaled)
		},
	}
	err := s.run(ctx, scales, false, func(i int) (lo, hi float64) {
		return scales[max(i-1, 0)], scales[min(i+1, steps-1)]
	})
	if err != nil {
		return ScaledResult{}, fmt.Errorf("match.FindScaled: %w", err)
	}
	return ScaledResult{Result: s.best, Scale: s.bestX}, nil
}

// RotateOptions defines the options used by FindRotated function.
type RotateOptions struct {
	// Number of evenly spaced angles in the sweep over a full turn,
	// DefaultRotateSteps if <= 0.
	Steps int
}

// RotatedResult is the best placement of a rotated template.
//
// Row and Col are the top-left of the rotated template's bounding box.
type RotatedResult struct {
	Result

	// Clockwise on screen, in radians in [0, 2*Pi).
	Angle float64
}

// FindRotated searches the rotation and the placement of template in source
// with the highest NCC score.
//
// Angles are swept over a full turn, then the best local maxima of the sweep
// are refined with golden-section search. The template is rotated with
// bilinear sampling, and only the pixels covered by the rotated template are
// scored.
func FindRotated(ctx context.Context, source, template *graytext.Grid, opts RotateOptions) (RotatedResult, error) {
	if err := validate(source, template); err != nil {
		return RotatedResult{}, fmt.Errorf("match.FindRotated: %w", err)
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultRotateSteps
	}
	step := 2 * math.Pi / float64(steps)
	angles := make([]float64, steps)
	for i := range angles {
		angles[i] = float64(i) * step
	}

	s := &searcher{
		name: "angle",
		eval: func(angle float64) (Result, error) {
			rotated, mask, err := rotateGrid(template, angle)
			if err != nil {
				return Result{}, err
			}
			return NCCMasked(source, rotated, mask)
		},
	}
	err := s.run(ctx, angles, true, func(i int) (lo, hi float64) {
		return angles[i] - step, angles[i] + step
	})
	if err != nil {
		return RotatedResult{}, fmt.Errorf("match.FindRotated: %w", err)
	}
	angle := math.Mod(s.bestX, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return RotatedResult{Result: s.best, Angle: angle}, nil
}

func validate(source, template *graytext.Grid) error {
	if err := source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := template.Validate(); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	return nil
}

// searcher maximizes the NCC score of a template transformed by a single
// parameter, and keeps the best result over every evaluation.
type searcher struct {
	name string
	eval func(x float64) (Result, error)

	best  Result
	bestX float64
	found bool
	err   error
}

// score evaluates x.
//
// A transformed template that doesn't fit in the source scores -Inf, as does
// any x after a failed evaluation.
func (s *searcher) score(x float64) float64 {
	if s.err != nil {
		return math.Inf(-1)
	}
	r, err := s.eval(x)
	if err != nil {
		if !errors.Is(err, ErrTemplateTooLarge) {
			s.err = err
		}
		return math.Inf(-1)
	}
	// Ties keep the earlier evaluation.
	if !s.found || r.Score > s.best.Score {
		s.best, s.bestX, s.found = r, x, true
	}
	return r.Score
}

// run sweeps xs, then refines around the best local maxima with the range
// returned by bracket for their index.
//
// With circular, the first and the last xs are neighbors.
func (s *searcher) run(ctx context.Context, xs []float64, circular bool, bracket func(i int) (lo, hi float64)) error {
	scores := make([]float64, len(xs))
	for i, x := range xs {
		scores[i] = s.score(x)
		logger.For(ctx).DebugContext(
			ctx,
			"Sweep step",
			s.name, x,
			"score", scores[i],
		)
	}
	if s.err != nil {
		return s.err
	}

	peaks := localMaxima(scores, circular)
	sort.SliceStable(peaks, func(a, b int) bool {
		return scores[peaks[a]] > scores[peaks[b]]
	})
	for _, i := range peaks[:min(len(peaks), refinePeaks)] {
		lo, hi := bracket(i)
		s.golden(lo, hi)
		if s.err != nil {
			return s.err
		}
	}
	if !s.found {
		return fmt.Errorf("%w at every %s tried", ErrTemplateTooLarge, s.name)
	}
	logger.For(ctx).DebugContext(
		ctx,
		"Refined",
		s.name, s.bestX,
		"score", s.best.Score,
		"row", s.best.Row,
		"col", s.best.Col,
	)
	return nil
}

// golden narrows [lo, hi] down around a maximum of the score.
func (s *searcher) golden(lo, hi float64) {
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := s.score(x1), s.score(x2)
	for i := 0; i < refineIterations; i++ {
		if f1 > f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = s.score(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = s.score(x2)
		}
	}
}

// localMaxima returns the indexes of scores not lower than their neighbors.
//
// -Inf scores are never maxima.
func localMaxima(scores []float64, circular bool) []int {
	n := len(scores)
	var peaks []int
	for i, score := range scores {
		if math.IsInf(score, -1) {
			continue
		}
		left, right := math.Inf(-1), math.Inf(-1)
		switch {
		case i > 0:
			left = scores[i-1]
		case circular && n > 1:
			left = scores[n-1]
		}
		switch {
		case i < n-1:
			right = scores[i+1]
		case circular && n > 1:
			right = scores[0]
		}
		if score >= left && score >= right {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
