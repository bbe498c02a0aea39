package heatmap

import "github.com/MeKo-Tech/craftdet/internal/utils"

// SpaceChar is the sentinel label that breaks link continuity within a line.
const SpaceChar = ' '

// CharacterQuad is an ordered 4-point polygon around a single character,
// plus its label. Point order follows the annotation convention:
// top-left, top-right, bottom-right, bottom-left.
type CharacterQuad struct {
	Points [4]utils.Point
	Char   rune
}

// NewCharacterQuad builds a quad from flat coordinates x1,y1..x4,y4.
func NewCharacterQuad(coords [8]float64, c rune) CharacterQuad {
	return CharacterQuad{
		Points: [4]utils.Point{
			{X: coords[0], Y: coords[1]},
			{X: coords[2], Y: coords[3]},
			{X: coords[4], Y: coords[5]},
			{X: coords[6], Y: coords[7]},
		},
		Char: c,
	}
}

// SpaceQuad returns the sentinel quad marking a gap between words.
func SpaceQuad() CharacterQuad {
	return CharacterQuad{Char: SpaceChar}
}

// IsSpace reports whether this quad is the space sentinel.
func (q CharacterQuad) IsSpace() bool { return q.Char == SpaceChar }

// Center returns the mean of the quad's corners.
func (q CharacterQuad) Center() utils.Point {
	var cx, cy float64
	for _, p := range q.Points {
		cx += p.X
		cy += p.Y
	}
	return utils.Point{X: cx / 4, Y: cy / 4}
}

// linkAnchors computes the two link bridge endpoints for the quad: midpoints
// between the center and the top/bottom side midpoints, halved again into
// target-map scale.
func (q CharacterQuad) linkAnchors() [2]utils.Point {
	c := q.Center()
	top := utils.Point{
		X: (q.Points[0].X + q.Points[1].X) / 2,
		Y: (q.Points[0].Y + q.Points[1].Y) / 2,
	}
	bottom := utils.Point{
		X: (q.Points[2].X + q.Points[3].X) / 2,
		Y: (q.Points[2].Y + q.Points[3].Y) / 2,
	}
	return [2]utils.Point{
		{X: (c.X + top.X) / 2 / 2, Y: (c.Y + top.Y) / 2 / 2},
		{X: (c.X + bottom.X) / 2 / 2, Y: (c.Y + bottom.Y) / 2 / 2},
	}
}

// Line is an ordered sequence of character quads in reading order. Links are
// only synthesized between consecutive non-space quads of the same line.
type Line []CharacterQuad
