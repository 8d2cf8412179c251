package graytext

import (
	"fmt"
	"image"

	"go.yhsif.com/graytext/grayscale"
)

// FromImage converts img into a Grid.
//
// Non-gray images are converted with the BT.601 luma weights. The grid always
// starts at the top-left corner of img's bounds.
func FromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf(
			"graytext.FromImage: %w: empty image %v",
			ErrImageDecode,
			bounds,
		)
	}
	gray, ok := img.(*image.Gray)
	if !ok || gray.Rect.Min != (image.Point{}) {
		gray = (&grayscale.Image{Image: img}).Gray()
	}
	g, err := NewGrid(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, fmt.Errorf("graytext.FromImage: %w", err)
	}
	for row := 0; row < g.Height; row++ {
		copy(g.Row(row), gray.Pix[gray.PixOffset(0, row):])
	}
	return g, nil
}

// Image returns g as a single channel image.
//
// Pixel i of g is at (i % Width, i / Width). The returned image does not share
// memory with g.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Pix)
	return img
}
