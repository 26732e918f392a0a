package colour

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// RandomKMeansExtractor clusters with the stock muesli/kmeans partition.
// That package seeds its initial centers from the clock, so repeated calls on
// the same image may return different centroids.
type RandomKMeansExtractor struct {
	maxSamples int
}

// NewRandomKMeansExtractor creates a RandomKMeansExtractor.
func NewRandomKMeansExtractor(maxSamples int) *RandomKMeansExtractor {
	return &RandomKMeansExtractor{maxSamples: maxSamples}
}

// Extract implements Extractor.
func (e *RandomKMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	obs, err := prepare(img, count, e.maxSamples)
	if err != nil {
		return nil, err
	}

	// kmeans places its initial centers in the unit cube, so cluster in
	// [0, 1] and scale the centers back afterwards.
	scaled := make(clusters.Observations, len(obs))
	for i, o := range obs {
		c := o.Coordinates()
		scaled[i] = clusters.Coordinates{c[0] / 255, c[1] / 255, c[2] / 255}
	}

	cc, err := kmeans.New().Partition(scaled, count)
	if err != nil {
		return nil, fmt.Errorf("failed to partition samples: %w", err)
	}

	centroids := make([]Centroid, len(cc))
	for i, c := range cc {
		centroids[i] = Centroid{c.Center[0] * 255, c.Center[1] * 255, c.Center[2] * 255}
	}
	return NewPaletteWithWeights(centroids, clusterWeights(cc, len(scaled))), nil
}

// ProminentExtractor delegates to prominentcolor, which downsizes the image
// before clustering and orders its result by cluster size.
type ProminentExtractor struct {
	arguments  int
	resizeSize uint
}

// NewProminentExtractor creates a ProminentExtractor that keeps the full
// frame (no cropping) and clusters in RGB space.
func NewProminentExtractor() *ProminentExtractor {
	return &ProminentExtractor{
		arguments:  prominentcolor.ArgumentNoCropping,
		resizeSize: uint(prominentcolor.DefaultSize),
	}
}

// Extract implements Extractor.
func (e *ProminentExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if _, err := prepare(img, count, 0); err != nil {
		return nil, err
	}

	items, err := prominentcolor.KmeansWithAll(count, img, e.arguments, e.resizeSize, nil)
	if err != nil {
		return nil, fmt.Errorf("prominentcolor failed: %w", err)
	}
	if len(items) < count {
		return nil, invalidInput("downscaled image has %d distinct colors, fewer than the %d requested", len(items), count)
	}

	total := 0
	for _, item := range items {
		total += item.Cnt
	}

	centroids := make([]Centroid, len(items))
	weights := make([]float64, len(items))
	for i, item := range items {
		centroids[i] = Centroid{float64(item.Color.R), float64(item.Color.G), float64(item.Color.B)}
		if total > 0 {
			weights[i] = float64(item.Cnt) / float64(total)
		}
	}
	return NewPaletteWithWeights(centroids, weights), nil
}
