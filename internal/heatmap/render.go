package heatmap

import (
	"image"
	"image/color"
)

// RenderRGB renders a pair as an RGB image for inspection: text scores in
// the red channel, link scores in green, blue left empty.
func RenderRGB(p *Pair) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := range p.Height {
		for x := range p.Width {
			img.SetNRGBA(x, y, color.NRGBA{
				R: scaleByte(p.TextAt(x, y)),
				G: scaleByte(p.LinkAt(x, y)),
				B: 0,
				A: 255,
			})
		}
	}
	return img
}

// RenderKernel renders the gaussian template as a grayscale image.
func RenderKernel(k *GaussianKernel) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, k.Size(), k.Size()))
	for y := range k.Size() {
		for x := range k.Size() {
			img.SetGray(x, y, color.Gray{Y: k.At(x, y)})
		}
	}
	return img
}

func scaleByte(v float32) uint8 {
	s := v * 255
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}
