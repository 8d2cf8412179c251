package match

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"go.yhsif.com/graytext"
)

// Keeps quarter turns from growing the canvas over float noise.
const sizeEpsilon = 1e-6

// scaleGrid resizes g by scale with nearest neighbor sampling.
//
// Each side is at least 1 pixel.
func scaleGrid(g *graytext.Grid, scale float64) (*graytext.Grid, error) {
	h := max(1, int(float64(g.Height)*scale))
	w := max(1, int(float64(g.Width)*scale))
	src := g.Image()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return graytext.FromImage(dst)
}

// rotateGrid turns g by angle radians around its center, clockwise on
// screen, with bilinear sampling.
//
// The returned grid is the bounding box of the turned template. mask has one
// value per pixel of it, true where the pixel comes from the template.
func rotateGrid(g *graytext.Grid, angle float64) (_ *graytext.Grid, mask []bool, _ error) {
	sin, cos := math.Sincos(angle)
	w, h := float64(g.Width), float64(g.Height)
	cw := max(1, int(math.Ceil(math.Abs(w*cos)+math.Abs(h*sin)-sizeEpsilon)))
	ch := max(1, int(math.Ceil(math.Abs(w*sin)+math.Abs(h*cos)-sizeEpsilon)))
	// Moves the template's center onto the canvas' center.
	s2d := f64.Aff3{
		cos, -sin, float64(cw)/2 - (cos*w/2 - sin*h/2),
		sin, cos, float64(ch)/2 - (sin*w/2 + cos*h/2),
	}

	src := g.Image()
	dst := image.NewGray(image.Rect(0, 0, cw, ch))
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)

	// The same transform over an opaque cover marks the reached pixels.
	cover := image.NewAlpha(src.Bounds())
	for i := range cover.Pix {
		cover.Pix[i] = 0xff
	}
	reached := image.NewAlpha(dst.Bounds())
	draw.BiLinear.Transform(reached, s2d, cover, cover.Bounds(), draw.Src, nil)

	rotated, err := graytext.FromImage(dst)
	if err != nil {
		return nil, nil, err
	}
	mask = make([]bool, len(reached.Pix))
	for i, a := range reached.Pix {
		mask[i] = a > 0
	}
	return rotated, mask, nil
}
