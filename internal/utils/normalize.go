package utils

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// Per-channel normalization constants (ImageNet, RGB order). The network
// consumes (v - mean*255) / (std*255).
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// NormalizeImage converts an image to the network input domain as an NHWC
// float32 buffer (row-major, channel-last, RGB). Returns the buffer and the
// image width and height.
func NormalizeImage(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("input image is nil")}
	}

	// Clone to NRGBA so alpha is stripped and channel access is uniform.
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("invalid image dimensions")}
	}

	data := make([]float32, height*width*3)
	for y := range height {
		for x := range width {
			r, g, b, _ := nrgba.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			base := (y*width + x) * 3
			data[base] = normalizeChannel(float32(r>>8), 0)
			data[base+1] = normalizeChannel(float32(g>>8), 1)
			data[base+2] = normalizeChannel(float32(b>>8), 2)
		}
	}
	return data, width, height, nil
}

// NormalizeSlice normalizes raw 8-bit channel values already laid out as
// NHWC RGB. The input is not modified.
func NormalizeSlice(pixels []uint8, width, height int) ([]float32, error) {
	if len(pixels) != width*height*3 {
		return nil, &ImageProcessingError{
			Operation: "normalize",
			Err:       fmt.Errorf("pixel buffer length %d does not match %dx%dx3", len(pixels), width, height),
		}
	}
	data := make([]float32, len(pixels))
	for i, v := range pixels {
		data[i] = normalizeChannel(float32(v), i%3)
	}
	return data, nil
}

// DenormalizeSlice inverts NormalizeSlice, clipping to [0,255] and rounding
// to 8-bit. Up to rounding it is the exact inverse.
func DenormalizeSlice(data []float32, width, height int) ([]uint8, error) {
	if len(data) != width*height*3 {
		return nil, &ImageProcessingError{
			Operation: "denormalize",
			Err:       fmt.Errorf("buffer length %d does not match %dx%dx3", len(data), width, height),
		}
	}
	pixels := make([]uint8, len(data))
	for i, v := range data {
		c := i % 3
		raw := float64(v*channelStd[c]*255 + channelMean[c]*255)
		pixels[i] = clampUint8(math.Round(raw))
	}
	return pixels, nil
}

// DenormalizeImage inverts NormalizeImage into an NRGBA image.
func DenormalizeImage(data []float32, width, height int) (*image.NRGBA, error) {
	pixels, err := DenormalizeSlice(data, width, height)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			base := (y*width + x) * 3
			off := img.PixOffset(x, y)
			img.Pix[off] = pixels[base]
			img.Pix[off+1] = pixels[base+1]
			img.Pix[off+2] = pixels[base+2]
			img.Pix[off+3] = 255
		}
	}
	return img, nil
}

func normalizeChannel(v float32, c int) float32 {
	return (v - channelMean[c]*255) / (channelStd[c] * 255)
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// EnsureEvenDimensions crops an image down by at most one pixel per axis so
// both dimensions are even, as required by the half-resolution target maps.
func EnsureEvenDimensions(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w%2 == 0 && h%2 == 0 {
		return img
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w-w%2, b.Min.Y+h-h%2))
}
