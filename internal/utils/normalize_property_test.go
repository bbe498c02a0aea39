package utils

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNormalizeDenormalize_RoundTripProperty verifies the transform pair is
// an inverse up to 8-bit rounding for arbitrary pixel buffers.
func TestNormalizeDenormalize_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("denormalize(normalize(p)) recovers p within 1", prop.ForAll(
		func(seed uint8, w, h int) bool {
			pixels := make([]uint8, w*h*3)
			v := seed
			for i := range pixels {
				pixels[i] = v
				v = v*31 + 7
			}

			data, err := NormalizeSlice(pixels, w, h)
			if err != nil {
				return false
			}
			back, err := DenormalizeSlice(data, w, h)
			if err != nil {
				return false
			}
			for i := range pixels {
				diff := int(pixels[i]) - int(back[i])
				if diff < -1 || diff > 1 {
					return false
				}
			}
			return true
		},
		gen.UInt8(),
		gen.IntRange(1, 16),
		gen.IntRange(1, 16),
	))

	properties.TestingRun(t)
}

// TestNormalizeSlice_RangeProperty verifies normalized values stay within the
// fixed bounds implied by the 8-bit input domain.
func TestNormalizeSlice_RangeProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalized values are bounded", prop.ForAll(
		func(v uint8) bool {
			data, err := NormalizeSlice([]uint8{v, v, v}, 1, 1)
			if err != nil {
				return false
			}
			for _, f := range data {
				// extreme at v=0: (0-0.485*255)/(0.224*255) > -2.2
				// extreme at v=255: (255-0.406*255)/(0.224*255) < 2.7
				if f < -2.2 || f > 2.7 {
					return false
				}
			}
			return true
		},
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
