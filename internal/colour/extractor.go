// Package colour provides dominant colour extraction and palette presentation.
package colour

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"github.com/muesli/clusters"
	"go.uber.org/multierr"
)

// DefaultColourCount is the palette size used when none is requested.
const DefaultColourCount = 5

// DefaultSeed seeds the reproducible k-means extractor.
const DefaultSeed int64 = 42

// MaxColourCount bounds the number of clusters an extractor accepts.
const MaxColourCount = 256

// Extractor defines the interface for color extraction algorithms.
type Extractor interface {
	// Extract extracts a color palette from an image.
	// The count parameter specifies the number of colors to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the color extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans runs seeded k-means++ and Lloyd iterations. Identical
	// input and seed always give identical centroids in identical order.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmKMeansRandom runs the stock muesli/kmeans partition, which
	// seeds itself from the clock. Results vary between runs.
	AlgorithmKMeansRandom Algorithm = "kmeans-random"

	// AlgorithmProminent uses prominentcolor's k-means++ on a downscaled
	// copy of the image. Its output is ordered by cluster size.
	AlgorithmProminent Algorithm = "prominent"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmKMeansRandom,
		AlgorithmProminent,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int

	// Seed seeds AlgorithmKMeans.
	Seed int64

	// MaxIterations caps the Lloyd iterations of AlgorithmKMeans.
	MaxIterations int

	// Tolerance is the total centroid shift below which AlgorithmKMeans
	// stops iterating.
	Tolerance float64

	// MaxSamples limits the pixels handed to the clusterer. Zero clusters
	// every pixel.
	MaxSamples int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:     AlgorithmKMeans,
		ColorCount:    DefaultColourCount,
		Seed:          DefaultSeed,
		MaxIterations: 300,
		Tolerance:     1e-4,
		MaxSamples:    0,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	var err error
	if !IsValidAlgorithm(c.Algorithm) {
		err = multierr.Append(err, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms()))
	}
	if c.ColorCount < 1 {
		err = multierr.Append(err, fmt.Errorf("color count must be at least 1, got %d", c.ColorCount))
	}
	if c.ColorCount > MaxColourCount {
		err = multierr.Append(err, fmt.Errorf("color count too large: %d (maximum: %d)", c.ColorCount, MaxColourCount))
	}
	if c.MaxIterations < 1 {
		err = multierr.Append(err, fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations))
	}
	if c.Tolerance < 0 {
		err = multierr.Append(err, fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance))
	}
	if c.MaxSamples < 0 {
		err = multierr.Append(err, fmt.Errorf("max samples must not be negative, got %d", c.MaxSamples))
	}
	return err
}

// NewExtractor creates a new Extractor based on the configured algorithm.
// A nil logger discards all output.
func NewExtractor(cfg ExtractorConfig, logger hclog.Logger) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	switch cfg.Algorithm {
	case AlgorithmKMeans:
		return NewKMeansExtractor(cfg, logger), nil
	case AlgorithmKMeansRandom:
		return NewRandomKMeansExtractor(cfg.MaxSamples), nil
	case AlgorithmProminent:
		return NewProminentExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}

// ExtractColours returns the centroids of count clusters of the image's
// pixels using the reproducible k-means extractor with DefaultSeed.
// The order of the result is the clustering order, not a dominance ranking.
func ExtractColours(img image.Image, count int) ([]Centroid, error) {
	cfg := DefaultExtractorConfig()
	cfg.ColorCount = count
	palette, err := NewKMeansExtractor(cfg, hclog.NewNullLogger()).Extract(img, count)
	if err != nil {
		return nil, err
	}
	return palette.Centroids, nil
}

// prepare applies the checks shared by every extractor and returns the
// observations to cluster.
func prepare(img image.Image, count, maxSamples int) (clusters.Observations, error) {
	if img == nil {
		return nil, invalidInput("image cannot be nil")
	}
	if count < 1 {
		return nil, invalidInput("color count must be at least 1, got %d", count)
	}
	if count > MaxColourCount {
		return nil, invalidInput("color count too large: %d (maximum: %d)", count, MaxColourCount)
	}

	obs := Samples(img, maxSamples)
	if len(obs) == 0 {
		return nil, invalidInput("image has no pixels")
	}
	distinct := distinctColours(obs)
	if distinct < count && maxSamples > 0 {
		// The grid missed colours; cluster every pixel instead.
		obs = Samples(img, 0)
		distinct = distinctColours(obs)
	}
	if distinct < count {
		return nil, invalidInput("image has %d distinct colors, fewer than the %d requested", distinct, count)
	}
	return obs, nil
}

// clusterWeights returns each cluster's share of the observations.
func clusterWeights(cc clusters.Clusters, total int) []float64 {
	weights := make([]float64, len(cc))
	if total == 0 {
		return weights
	}
	for i, c := range cc {
		weights[i] = float64(len(c.Observations)) / float64(total)
	}
	return weights
}
