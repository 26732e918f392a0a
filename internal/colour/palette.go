// Package colour provides dominant colour extraction and palette presentation.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"iter"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Centroid is a cluster center in RGB space with float64 channels in [0, 255].
type Centroid [3]float64

// CentroidOf converts a color.Color to a Centroid.
func CentroidOf(c color.Color) Centroid {
	rgb := ToRGB(c)
	return Centroid{float64(rgb.R), float64(rgb.G), float64(rgb.B)}
}

// RGB truncates each channel toward zero and clamps it to [0, 255].
func (c Centroid) RGB() RGB {
	return RGB{R: channel(c[0]), G: channel(c[1]), B: channel(c[2])}
}

// Hex returns the truncated centroid as a hex string.
func (c Centroid) Hex() string {
	return c.RGB().Hex()
}

func channel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Color returns the RGB value as an opaque color.RGBA.
func (rgb RGB) Color() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to straight (non-premultiplied) RGB. Alpha
// is dropped, so a transparent pixel keeps the colour it was stored with.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// RGBToHex truncates each channel toward zero and formats the result as
// "#rrggbb". Channels are not clamped: values outside [0, 255] produce a
// malformed string, so callers must pass pre-clamped values.
func RGBToHex(rgb [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", int(rgb[0]), int(rgb[1]), int(rgb[2]))
}

// Entry is the presentation form of one centroid.
type Entry struct {
	Hex    string  `json:"hex"`
	RGB    [3]int  `json:"rgb"`
	Weight float64 `json:"weight,omitempty"`
}

// NewEntry builds the palette entry for a centroid.
func NewEntry(c Centroid) Entry {
	rgb := c.RGB()
	return Entry{
		Hex: rgb.Hex(),
		RGB: [3]int{int(rgb.R), int(rgb.G), int(rgb.B)},
	}
}

// Tuple returns the entry's RGB triple in the format "(r, g, b)".
func (e Entry) Tuple() string {
	return fmt.Sprintf("(%d, %d, %d)", e.RGB[0], e.RGB[1], e.RGB[2])
}

// Palette is the ordered set of cluster centers extracted from an image.
// The order is the order the clustering produced; it is not ranked by weight.
type Palette struct {
	Centroids []Centroid
	// Weights holds the share of samples in each cluster, parallel to
	// Centroids. It is nil when the extractor does not report cluster sizes.
	Weights []float64
}

// NewPaletteWithWeights creates a Palette. Weights may be nil when the
// extractor does not report cluster sizes.
func NewPaletteWithWeights(centroids []Centroid, weights []float64) *Palette {
	return &Palette{
		Centroids: centroids,
		Weights:   weights,
	}
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.Centroids)
}

// Entries returns the palette entries in palette order.
func (p *Palette) Entries() []Entry {
	return lo.Map(p.Centroids, func(c Centroid, i int) Entry {
		entry := NewEntry(c)
		if i < len(p.Weights) {
			entry.Weight = p.Weights[i]
		}
		return entry
	})
}

// Hex returns the hex strings of the palette colors.
func (p *Palette) Hex() []string {
	return lo.Map(p.Centroids, func(c Centroid, _ int) string {
		return c.Hex()
	})
}

// ToRGBSlice converts the palette centroids to RGB structs.
func (p *Palette) ToRGBSlice() []RGB {
	return lo.Map(p.Centroids, func(c Centroid, _ int) RGB {
		return c.RGB()
	})
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int     `json:"count"`
	Colors []Entry `json:"colors"`
}

// JSON returns the palette in its JSON output shape.
func (p *Palette) JSON() PaletteJSON {
	return PaletteJSON{
		Count:  p.Len(),
		Colors: p.Entries(),
	}
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p.JSON(), "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if p.Len() == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colors:\n", p.Len())
	for i, e := range p.Entries() {
		fmt.Fprintf(&sb, "  %2d: %s %s\n", i+1, e.Hex, e.Tuple())
	}
	return sb.String()
}

// All iterates over the centroids in palette order.
func (p *Palette) All() iter.Seq2[int, Centroid] {
	return func(yield func(int, Centroid) bool) {
		for i, c := range p.Centroids {
			if !yield(i, c) {
				return
			}
		}
	}
}
