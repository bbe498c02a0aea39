package detector

import "github.com/MeKo-Tech/craftdet/internal/utils"

// Options controls box extraction thresholds. All values are caller
// configuration; thresholds are expected to lie in [0,1] and are not
// validated at runtime.
type Options struct {
	// DetectionThreshold is the minimum peak text score a component must
	// contain. Components made of link pixels alone are rejected by it.
	DetectionThreshold float32
	// TextThreshold binarizes the text map.
	TextThreshold float32
	// LinkThreshold binarizes the link map.
	LinkThreshold float32
	// SizeThreshold is the minimum component pixel area.
	SizeThreshold int
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		DetectionThreshold: 0.7,
		TextThreshold:      0.4,
		LinkThreshold:      0.4,
		SizeThreshold:      10,
	}
}

// Box is a detected text region: 4 points in clockwise order starting from
// the corner with the minimum coordinate sum, in original image pixel
// coordinates. Immutable once produced.
type Box struct {
	Points [4]utils.Point
}

// Bounding returns the box's axis-aligned bounding rectangle.
func (b Box) Bounding() utils.Box {
	return utils.BoundingBox(b.Points[:])
}
