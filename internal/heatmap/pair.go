package heatmap

// Pair holds the two half-resolution confidence maps the network is trained
// against: Text scores character regions, Link scores the affinity between
// adjacent characters. Values are in [0,1], row-major.
type Pair struct {
	Text   []float32
	Link   []float32
	Width  int
	Height int
}

// NewPair allocates a zeroed pair with the given map dimensions.
func NewPair(width, height int) *Pair {
	return &Pair{
		Text:   make([]float32, width*height),
		Link:   make([]float32, width*height),
		Width:  width,
		Height: height,
	}
}

// TextAt returns the text score at (x, y).
func (p *Pair) TextAt(x, y int) float32 { return p.Text[y*p.Width+x] }

// LinkAt returns the link score at (x, y).
func (p *Pair) LinkAt(x, y int) float32 { return p.Link[y*p.Width+x] }
