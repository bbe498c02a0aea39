package testutil

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
)

// NewPairWithRect builds a heatmap pair with a rectangle of text confidence
// filled in, and zero link scores everywhere.
func NewPairWithRect(width, height, x0, y0, x1, y1 int, confidence float32) *heatmap.Pair {
	p := heatmap.NewPair(width, height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.Text[y*width+x] = confidence
		}
	}
	return p
}

// FillLinkRect fills a rectangle of link confidence into a pair.
func FillLinkRect(p *heatmap.Pair, x0, y0, x1, y1 int, confidence float32) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.Link[y*p.Width+x] = confidence
		}
	}
}

// NewGrayImage returns a uniform NRGBA image for pipeline and server tests.
func NewGrayImage(width, height int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}
