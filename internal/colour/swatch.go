package colour

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultPatchSize is the edge length in pixels of a swatch patch.
const DefaultPatchSize = 100

// labelBand is the height of the text band under each patch in a strip.
const labelBand = 20

// lightLabelThreshold is the CIE L* (0-1) above which labels are drawn dark.
const lightLabelThreshold = 0.6

// PlotColours renders one uniform size x size patch per centroid, in palette
// order. Each patch is filled with the centroid's truncated RGB value. A
// non-positive size uses DefaultPatchSize.
func PlotColours(centroids []Centroid, size int) []*image.RGBA {
	if size <= 0 {
		size = DefaultPatchSize
	}

	patches := make([]*image.RGBA, len(centroids))
	for i, c := range centroids {
		patch := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(patch, patch.Bounds(), image.NewUniform(c.RGB().Color()), image.Point{}, draw.Src)
		patches[i] = patch
	}
	return patches
}

// LabelColour returns black or white, whichever reads better on c.
func LabelColour(c RGB) color.RGBA {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	l, _, _ := cf.Lab()
	if l > lightLabelThreshold {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

// RenderStrip lays the palette's patches side by side with each hex code
// written in a band beneath its patch.
func RenderStrip(p *Palette, size int) *image.RGBA {
	if size <= 0 {
		size = DefaultPatchSize
	}

	strip := image.NewRGBA(image.Rect(0, 0, size*p.Len(), size+labelBand))
	face := basicfont.Face7x13

	patches := PlotColours(p.Centroids, size)
	for i, c := range p.All() {
		x0 := i * size
		rgb := c.RGB()

		draw.Draw(strip, image.Rect(x0, 0, x0+size, size), patches[i], image.Point{}, draw.Src)
		draw.Draw(strip, image.Rect(x0, size, x0+size, size+labelBand), image.NewUniform(rgb.Color()), image.Point{}, draw.Src)

		label := rgb.Hex()
		width := font.MeasureString(face, label).Ceil()
		d := &font.Drawer{
			Dst:  strip,
			Src:  image.NewUniform(LabelColour(rgb)),
			Face: face,
			Dot:  fixed.P(x0+(size-width)/2, size+labelBand-(labelBand-face.Ascent)/2),
		}
		d.DrawString(label)
	}
	return strip
}
