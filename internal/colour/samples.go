package colour

import (
	"image"
	"math"

	"github.com/muesli/clusters"
)

// Samples flattens the image into clustering observations, one per pixel.
// A positive maxSamples switches to grid sampling: every step-th pixel of
// every step-th row, with the smallest step that keeps the grid within
// maxSamples. The grid always spans the whole image.
func Samples(img image.Image, maxSamples int) clusters.Observations {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return clusters.Observations{}
	}

	step := sampleStep(w, h, maxSamples)
	obs := make(clusters.Observations, 0, gridSize(w, h, step))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := CentroidOf(img.At(x, y))
			obs = append(obs, clusters.Coordinates{c[0], c[1], c[2]})
		}
	}
	return obs
}

// sampleStep returns the grid stride for a w x h image.
func sampleStep(w, h, maxSamples int) int {
	if maxSamples <= 0 || w*h <= maxSamples {
		return 1
	}
	step := max(int(math.Ceil(math.Sqrt(float64(w*h)/float64(maxSamples)))), 1)
	for gridSize(w, h, step) > maxSamples {
		step++
	}
	return step
}

// gridSize is the number of pixels visited with the given stride.
func gridSize(w, h, step int) int {
	return ((w + step - 1) / step) * ((h + step - 1) / step)
}

// distinctColours counts the distinct colours among the observations.
func distinctColours(obs clusters.Observations) int {
	seen := make(map[[3]float64]struct{}, len(obs))
	for _, o := range obs {
		c := o.Coordinates()
		seen[[3]float64{c[0], c[1], c[2]}] = struct{}{}
	}
	return len(seen)
}
