package grayscale

import (
	"image"
	"math"
)

// Downscale downscales img to be able to fit in fit x fit preserving the
// original aspect ratio.
//
// Every destination pixel is the area weighted average of the source pixels
// it covers.
//
// If fit <= 0 or if the original image is already smaller than fit x fit,
// the original image will be returned as-is.
func Downscale(img *image.Gray, fit int) *image.Gray {
	if fit <= 0 {
		return img
	}
	origMin := img.Bounds().Min
	origSizeX := img.Bounds().Dx()
	origSizeY := img.Bounds().Dy()
	var scaled bool
	ratio := 1.0
	if ratioX := float64(fit) / float64(origSizeX); ratioX < ratio {
		scaled = true
		ratio = ratioX
	}
	if ratioY := float64(fit) / float64(origSizeY); ratioY < ratio {
		scaled = true
		ratio = ratioY
	}
	if !scaled {
		return img
	}
	newMax := image.Point{
		X: max(1, int(math.Round(float64(origSizeX)*ratio))),
		Y: max(1, int(math.Round(float64(origSizeY)*ratio))),
	}
	newImg := image.NewGray(image.Rectangle{Max: newMax})

	// Use the exact per-axis ratios so the last spans end at the edges.
	ratioX := float64(newMax.X) / float64(origSizeX)
	ratioY := float64(newMax.Y) / float64(origSizeY)
	yStarts := make([]int, newMax.Y)
	yWeights := make([][]float64, newMax.Y)
	for y := 0; y < newMax.Y; y++ {
		yStarts[y], yWeights[y] = spanWeights(
			float64(y)/ratioY,
			float64(y+1)/ratioY,
			origSizeY,
		)
	}
	for x := 0; x < newMax.X; x++ {
		xStart, xWeights := spanWeights(
			float64(x)/ratioX,
			float64(x+1)/ratioX,
			origSizeX,
		)
		for y := 0; y < newMax.Y; y++ {
			var c, n float64
			for i, xw := range xWeights {
				for j, yw := range yWeights[y] {
					weight := xw * yw
					n += weight
					c += float64(img.GrayAt(
						xStart+i+origMin.X,
						yStarts[y]+j+origMin.Y,
					).Y) * weight
				}
			}
			newImg.Pix[newImg.PixOffset(x, y)] = uint8(math.Round(c / n))
		}
	}
	return newImg
}

const minWeight = 1e-9

// spanWeights returns the first source index covered by [lo, hi) and how much
// of each covered source pixel falls inside the span.
func spanWeights(lo, hi float64, size int) (start int, weights []float64) {
	hi = math.Min(hi, float64(size))
	start = int(math.Floor(lo))
	end := min(int(math.Ceil(hi)), size)
	if end <= start {
		end = start + 1
	}
	weights = make([]float64, end-start)
	for i := range weights {
		p := float64(start + i)
		weights[i] = math.Min(p+1, hi) - math.Max(p, lo)
		if weights[i] <= 0 {
			// rounding noise at the edges
			weights[i] = minWeight
		}
	}
	return start, weights
}
