package colour

import (
	"errors"
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/muesli/clusters"
)

// newTestImage builds a w x h image from row-major pixels.
func newTestImage(w, h int, pixels [][3]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, p := range pixels {
		img.Set(i%w, i/w, color.RGBA{R: p[0], G: p[1], B: p[2], A: 255})
	}
	return img
}

// newBandedImage fills a 10 x (10*len(colours)) image with one band per colour.
func newBandedImage(colours [][3]uint8) *image.RGBA {
	const band = 10
	pixels := make([][3]uint8, 0, band*band*len(colours))
	for _, c := range colours {
		for range band * band {
			pixels = append(pixels, c)
		}
	}
	return newTestImage(band, band*len(colours), pixels)
}

// newGradientImage returns an image with many distinct colours.
func newGradientImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / size),
				G: uint8(y * 255 / size),
				B: uint8((x + y) * 127 / size),
				A: 255,
			})
		}
	}
	return img
}

func centroidSet(cs []Centroid) map[Centroid]bool {
	set := make(map[Centroid]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return set
}

func TestExtractColoursTwoByTwo(t *testing.T) {
	img := newTestImage(2, 2, [][3]uint8{
		{255, 0, 0}, {255, 0, 0},
		{0, 0, 255}, {0, 0, 255},
	})

	centroids, err := ExtractColours(img, 2)
	if err != nil {
		t.Fatalf("ExtractColours() error = %v", err)
	}
	if len(centroids) != 2 {
		t.Fatalf("ExtractColours() returned %d centroids, want 2", len(centroids))
	}

	set := centroidSet(centroids)
	if !set[Centroid{255, 0, 0}] || !set[Centroid{0, 0, 255}] {
		t.Errorf("ExtractColours() = %v, want red and blue", centroids)
	}

	hexes := map[string]bool{}
	for _, c := range centroids {
		hexes[RGBToHex(c)] = true
	}
	if !hexes["#ff0000"] || !hexes["#0000ff"] {
		t.Errorf("hex values = %v, want #ff0000 and #0000ff", hexes)
	}
}

func TestExtractColoursDefaultCount(t *testing.T) {
	colours := [][3]uint8{
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}, {40, 40, 40},
	}

	centroids, err := ExtractColours(newBandedImage(colours), DefaultColourCount)
	if err != nil {
		t.Fatalf("ExtractColours() error = %v", err)
	}
	if len(centroids) != 5 {
		t.Fatalf("ExtractColours() returned %d centroids, want 5", len(centroids))
	}

	set := centroidSet(centroids)
	for _, c := range colours {
		want := Centroid{float64(c[0]), float64(c[1]), float64(c[2])}
		if !set[want] {
			t.Errorf("missing centroid %v in %v", want, centroids)
		}
	}
}

func TestExtractColoursManyColours(t *testing.T) {
	centroids, err := ExtractColours(newGradientImage(40), 5)
	if err != nil {
		t.Fatalf("ExtractColours() error = %v", err)
	}
	if len(centroids) != 5 {
		t.Fatalf("ExtractColours() returned %d centroids, want 5", len(centroids))
	}
	for _, c := range centroids {
		for _, v := range c {
			if v < 0 || v > 255 || math.IsNaN(v) {
				t.Errorf("centroid %v has a channel outside [0, 255]", c)
			}
		}
	}
}

func TestExtractColoursDeterministic(t *testing.T) {
	img := newGradientImage(48)

	first, err := ExtractColours(img, 5)
	if err != nil {
		t.Fatalf("ExtractColours() error = %v", err)
	}
	for range 3 {
		again, err := ExtractColours(img, 5)
		if err != nil {
			t.Fatalf("ExtractColours() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ExtractColours() not reproducible:\n%v\n%v", first, again)
		}
	}
}

func TestExtractColoursTooFewDistinct(t *testing.T) {
	img := newBandedImage([][3]uint8{{255, 0, 0}, {0, 0, 255}})

	_, err := ExtractColours(img, 5)
	if err == nil {
		t.Fatal("ExtractColours() expected an error")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error %v does not match ErrInvalidInput", err)
	}
	var inputErr *InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Errorf("error %T is not an *InvalidInputError", err)
	}
}

func TestExtractColoursInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		img   image.Image
		count int
	}{
		{name: "nil image", img: nil, count: 5},
		{name: "empty image", img: image.NewRGBA(image.Rect(0, 0, 0, 0)), count: 1},
		{name: "zero count", img: newGradientImage(4), count: 0},
		{name: "count too large", img: newGradientImage(4), count: MaxColourCount + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractColours(tt.img, tt.count)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ExtractColours() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestKMeansExtractorWeights(t *testing.T) {
	pixels := [][3]uint8{
		{255, 0, 0}, {255, 0, 0}, {255, 0, 0},
		{0, 0, 255},
	}
	extractor := NewKMeansExtractor(DefaultExtractorConfig(), nil)

	palette, err := extractor.Extract(newTestImage(2, 2, pixels), 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	sum := 0.0
	for i, w := range palette.Weights {
		sum += w
		want := 0.75
		if palette.Centroids[i] == (Centroid{0, 0, 255}) {
			want = 0.25
		}
		if w != want {
			t.Errorf("weight of %v = %v, want %v", palette.Centroids[i], w, want)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

// newSplitImage returns a w x h image that is red above row split and blue
// from row split down.
func newSplitImage(w, h, split int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		c := color.RGBA{R: 255, A: 255}
		if y >= split {
			c = color.RGBA{B: 255, A: 255}
		}
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSamples(t *testing.T) {
	img := newGradientImage(100)

	if got := len(Samples(img, 0)); got != 100*100 {
		t.Errorf("Samples(img, 0) = %d observations, want %d", got, 100*100)
	}
	if got := len(Samples(img, 500)); got > 500 || got == 0 {
		t.Errorf("Samples(img, 500) = %d observations, want 1..500", got)
	}
	if got := len(Samples(image.NewRGBA(image.Rect(0, 0, 0, 0)), 0)); got != 0 {
		t.Errorf("Samples(empty) = %d observations, want 0", got)
	}
}

func TestSamplesSpanWholeImage(t *testing.T) {
	// 200x150 with blue only in the bottom 10 rows.
	img := newSplitImage(200, 150, 140)
	blue := clusters.Coordinates{0, 0, 255}

	tests := []struct {
		name       string
		maxSamples int
	}{
		{"just under total", 200*150 - 1},
		{"two thirds of total", 20000},
		{"quarter of total", 200 * 150 / 4},
		{"small budget", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Samples(img, tt.maxSamples)
			if len(obs) == 0 || len(obs) > tt.maxSamples {
				t.Fatalf("Samples() = %d observations, want 1..%d", len(obs), tt.maxSamples)
			}
			if got := obs[len(obs)-1].Coordinates(); !reflect.DeepEqual(got, blue) {
				t.Errorf("last sample = %v, want the bottom band %v", got, blue)
			}
			if got := distinctColours(obs); got != 2 {
				t.Errorf("distinct colours in samples = %d, want 2", got)
			}
		})
	}
}

func TestSampledExtractionSeesBottomRows(t *testing.T) {
	cfg := DefaultExtractorConfig()
	cfg.MaxSamples = 20000

	palette, err := NewKMeansExtractor(cfg, nil).Extract(newSplitImage(200, 150, 100), 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := map[Centroid]bool{{255, 0, 0}: true, {0, 0, 255}: true}
	if got := centroidSet(palette.Centroids); !reflect.DeepEqual(got, want) {
		t.Errorf("Centroids = %v, want red and blue", palette.Centroids)
	}
}

func TestSampledExtractionFallsBackToEveryPixel(t *testing.T) {
	// A single blue pixel on an odd coordinate, which a stride-2 grid skips.
	img := newSplitImage(100, 100, 100)
	img.Set(1, 1, color.RGBA{B: 255, A: 255})

	cfg := DefaultExtractorConfig()
	cfg.MaxSamples = 2500
	if got := distinctColours(Samples(img, cfg.MaxSamples)); got != 1 {
		t.Fatalf("grid saw %d distinct colours, want 1", got)
	}

	palette, err := NewKMeansExtractor(cfg, nil).Extract(img, 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := map[Centroid]bool{{255, 0, 0}: true, {0, 0, 255}: true}
	if got := centroidSet(palette.Centroids); !reflect.DeepEqual(got, want) {
		t.Errorf("Centroids = %v, want red and blue", palette.Centroids)
	}
}

func TestSampledExtractionStillReturnsCount(t *testing.T) {
	cfg := DefaultExtractorConfig()
	cfg.MaxSamples = 300

	palette, err := NewKMeansExtractor(cfg, nil).Extract(newGradientImage(120), 5)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if palette.Len() != 5 {
		t.Errorf("Len() = %d, want 5", palette.Len())
	}
}
