package detector

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// ResultJSON is the serializable representation of one image's detections.
type ResultJSON struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Boxes  []BoxJSON `json:"boxes"`
}

// BoxJSON serializes one polygon box.
type BoxJSON struct {
	Points [4]PointJSON `json:"points"`
}

// PointJSON serializes one corner.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoxesToJSON converts boxes to indented JSON with the image dimensions.
func BoxesToJSON(boxes []Box, width, height int) ([]byte, error) {
	out := ResultJSON{Width: width, Height: height, Boxes: make([]BoxJSON, 0, len(boxes))}
	for _, b := range boxes {
		var bj BoxJSON
		for i, p := range b.Points {
			bj.Points[i] = PointJSON{X: p.X, Y: p.Y}
		}
		out.Boxes = append(out.Boxes, bj)
	}
	return json.MarshalIndent(out, "", "  ")
}

// BoxesFromJSON parses a detection result document.
func BoxesFromJSON(data []byte) (ResultJSON, error) {
	var res ResultJSON
	err := json.Unmarshal(data, &res)
	return res, err
}

// ValidateBoxes performs sanity checks against image dimensions.
func ValidateBoxes(boxes []Box, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("invalid image dimensions for validation")
	}
	for i, b := range boxes {
		for _, p := range b.Points {
			if p.X < 0 || p.Y < 0 || p.X > float64(width) || p.Y > float64(height) {
				return fmt.Errorf("box %d point out of bounds", i)
			}
		}
		if bb := b.Bounding(); bb.Width() <= 0 || bb.Height() <= 0 {
			return fmt.Errorf("box %d has no area", i)
		}
	}
	return nil
}

// VisualizeOptions controls how boxes are drawn onto images.
type VisualizeOptions struct {
	Color     color.Color
	Thickness int
}

// Visualize draws boxes onto a copy of img and returns an RGBA image.
func Visualize(img image.Image, boxes []Box, opt VisualizeOptions) *image.RGBA {
	if opt.Color == nil {
		opt.Color = color.RGBA{255, 0, 0, 255}
	}
	if opt.Thickness <= 0 {
		opt.Thickness = 2
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}
	for _, box := range boxes {
		utils.DrawPolygon(dst, box.Points[:], opt.Color, opt.Thickness)
	}
	return dst
}
