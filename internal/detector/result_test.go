package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/craftdet/internal/utils"
)

func sampleBoxes() []Box {
	return []Box{
		{Points: [4]utils.Point{{X: 2, Y: 2}, {X: 10, Y: 2}, {X: 10, Y: 6}, {X: 2, Y: 6}}},
		{Points: [4]utils.Point{{X: 20, Y: 12}, {X: 30, Y: 14}, {X: 28, Y: 22}, {X: 18, Y: 20}}},
	}
}

func TestBoxesToJSON_RoundTrip(t *testing.T) {
	boxes := sampleBoxes()
	data, err := BoxesToJSON(boxes, 40, 30)
	require.NoError(t, err)

	res, err := BoxesFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
	require.Len(t, res.Boxes, 2)

	for i, b := range boxes {
		for j, p := range b.Points {
			assert.Equal(t, p.X, res.Boxes[i].Points[j].X)
			assert.Equal(t, p.Y, res.Boxes[i].Points[j].Y)
		}
	}
}

func TestBoxesToJSON_Empty(t *testing.T) {
	data, err := BoxesToJSON(nil, 10, 10)
	require.NoError(t, err)
	res, err := BoxesFromJSON(data)
	require.NoError(t, err)
	assert.Empty(t, res.Boxes)
}

func TestBoxesFromJSON_Invalid(t *testing.T) {
	_, err := BoxesFromJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestValidateBoxes(t *testing.T) {
	boxes := sampleBoxes()
	assert.NoError(t, ValidateBoxes(boxes, 40, 30))
	assert.Error(t, ValidateBoxes(boxes, 25, 30), "points past width must fail")
	assert.Error(t, ValidateBoxes(boxes, 0, 30), "invalid dimensions must fail")

	neg := []Box{{Points: [4]utils.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: -1, Y: 1}}}}
	assert.Error(t, ValidateBoxes(neg, 10, 10))

	flat := []Box{{Points: [4]utils.Point{{X: 1, Y: 3}, {X: 5, Y: 3}, {X: 5, Y: 3}, {X: 1, Y: 3}}}}
	assert.Error(t, ValidateBoxes(flat, 10, 10), "zero-area boxes must fail")
}

func TestBox_Bounding(t *testing.T) {
	b := sampleBoxes()[1]
	bb := b.Bounding()
	assert.Equal(t, 18.0, bb.MinX)
	assert.Equal(t, 12.0, bb.MinY)
	assert.Equal(t, 30.0, bb.MaxX)
	assert.Equal(t, 22.0, bb.MaxY)
}

func TestVisualize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	boxes := sampleBoxes()[:1]

	out := Visualize(src, boxes, VisualizeOptions{Color: color.RGBA{0, 255, 0, 255}, Thickness: 1})
	require.NotNil(t, out)
	assert.Equal(t, src.Bounds(), out.Bounds())

	// box corner is painted, far interior is not
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, out.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{0, 0, 0, 0}, out.RGBAAt(25, 25))
}

func TestVisualize_Defaults(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	out := Visualize(src, sampleBoxes()[:1], VisualizeOptions{})
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.RGBAAt(2, 2))
}
