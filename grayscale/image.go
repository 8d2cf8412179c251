package grayscale

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Image represents a grayscaled image.
type Image struct {
	image.Image
}

// ColorModel overrides the original ColorModel with color.GrayModel.
func (g *Image) ColorModel() color.Model {
	return color.GrayModel
}

// At overrides the original At with color.GrayModel conversion applied.
//
// color.GrayModel uses the ITU-R BT.601 luma weights.
func (g *Image) At(x, y int) color.Color {
	return g.ColorModel().Convert(g.Image.At(x, y))
}

// Gray returns the luma of the image as an 8-bit buffer, with the origin
// moved to (0, 0).
//
// If the original image is already an *image.Gray anchored at (0, 0) it's
// returned as-is.
func (g *Image) Gray() *image.Gray {
	if gray, ok := g.Image.(*image.Gray); ok && gray.Rect.Min == (image.Point{}) {
		return gray
	}
	bounds := g.Image.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), g.Image, bounds.Min, draw.Src)
	return dst
}

// ToJPEG encodes the image to a single channel JPEG.
//
// quality <= 0 means the encoder's default quality.
func (g *Image) ToJPEG(quality int) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	// Only an *image.Gray gets the 1 component encoding.
	if err := jpeg.Encode(buf, g.Gray(), jpegOptions(quality)); err != nil {
		return nil, err
	}
	return buf, nil
}

func jpegOptions(quality int) *jpeg.Options {
	if quality <= 0 {
		return nil
	}
	return &jpeg.Options{
		Quality: min(quality, 100),
	}
}
