package colour

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractorConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*ExtractorConfig) {}},
		{name: "unknown algorithm", mutate: func(c *ExtractorConfig) { c.Algorithm = "mediancut" }, wantErr: "unknown algorithm"},
		{name: "zero colours", mutate: func(c *ExtractorConfig) { c.ColorCount = 0 }, wantErr: "at least 1"},
		{name: "too many colours", mutate: func(c *ExtractorConfig) { c.ColorCount = 257 }, wantErr: "too large"},
		{name: "zero iterations", mutate: func(c *ExtractorConfig) { c.MaxIterations = 0 }, wantErr: "max iterations"},
		{name: "negative samples", mutate: func(c *ExtractorConfig) { c.MaxSamples = -1 }, wantErr: "max samples"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExtractorConfigValidateReportsAll(t *testing.T) {
	cfg := DefaultExtractorConfig()
	cfg.Algorithm = "bogus"
	cfg.ColorCount = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected an error")
	}
	if !strings.Contains(err.Error(), "unknown algorithm") || !strings.Contains(err.Error(), "at least 1") {
		t.Errorf("Validate() error = %v, want both problems reported", err)
	}
}

func TestNewExtractor(t *testing.T) {
	for _, alg := range ValidAlgorithms() {
		t.Run(string(alg), func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			cfg.Algorithm = alg

			extractor, err := NewExtractor(cfg, nil)
			if err != nil {
				t.Fatalf("NewExtractor(%s) error = %v", alg, err)
			}
			if extractor == nil {
				t.Fatalf("NewExtractor(%s) returned nil", alg)
			}
		})
	}

	cfg := DefaultExtractorConfig()
	cfg.Algorithm = "dominant"
	if _, err := NewExtractor(cfg, nil); err == nil {
		t.Error("NewExtractor(dominant) expected an error")
	}
}

func TestRandomKMeansExtractor(t *testing.T) {
	img := newBandedImage([][3]uint8{
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}, {0, 0, 0},
	})

	palette, err := NewRandomKMeansExtractor(0).Extract(img, 5)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if palette.Len() != 5 {
		t.Errorf("Len() = %d, want 5", palette.Len())
	}
	for _, c := range palette.Centroids {
		rgb := c.RGB()
		if RGBToHex([3]float64{float64(rgb.R), float64(rgb.G), float64(rgb.B)}) != c.Hex() {
			t.Errorf("centroid %v does not format consistently", c)
		}
	}
}

func TestAlternativeExtractorsRejectTooFewColours(t *testing.T) {
	img := newBandedImage([][3]uint8{{255, 0, 0}})

	extractors := map[string]Extractor{
		"kmeans-random": NewRandomKMeansExtractor(0),
		"prominent":     NewProminentExtractor(),
	}
	for name, extractor := range extractors {
		t.Run(name, func(t *testing.T) {
			_, err := extractor.Extract(img, 2)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Extract() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
