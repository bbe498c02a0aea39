package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGaussianKernel_CenterPeak(t *testing.T) {
	// odd size puts a grid point exactly on the center
	k := NewGaussianKernel(101, 1.5)
	assert.EqualValues(t, 255, k.At(50, 50))
}

func TestNewGaussianKernel_Symmetry(t *testing.T) {
	k := NewGaussianKernel(64, 2.0)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			assert.Equal(t, k.At(x, y), k.At(63-x, y), "horizontal mirror at (%d,%d)", x, y)
			assert.Equal(t, k.At(x, y), k.At(x, 63-y), "vertical mirror at (%d,%d)", x, y)
			assert.Equal(t, k.At(x, y), k.At(y, x), "diagonal mirror at (%d,%d)", x, y)
		}
	}
}

func TestNewGaussianKernel_DecaysFromCenter(t *testing.T) {
	k := NewGaussianKernel(101, 3.34)
	center := k.At(50, 50)
	prev := center
	for x := 50; x < 101; x++ {
		v := k.At(x, 50)
		assert.LessOrEqual(t, v, prev, "intensity must not increase away from center at x=%d", x)
		prev = v
	}
	assert.Less(t, k.At(100, 50), center)
}

func TestNewGaussianKernel_RatioControlsFalloff(t *testing.T) {
	wide := NewGaussianKernel(101, 1.5)
	narrow := NewGaussianKernel(101, 3.34)
	// Larger ratio scales distances up, so edge intensity drops faster.
	assert.Greater(t, wide.At(80, 50), narrow.At(80, 50))
}

func TestGaussianKernel_AtOutOfBounds(t *testing.T) {
	k := NewGaussianKernel(8, 1.5)
	assert.EqualValues(t, 0, k.At(-1, 0))
	assert.EqualValues(t, 0, k.At(0, -1))
	assert.EqualValues(t, 0, k.At(8, 0))
	assert.EqualValues(t, 0, k.At(0, 8))
}

func TestGaussianKernel_Sample(t *testing.T) {
	k := NewGaussianKernel(33, 1.5)

	// at integer coordinates sampling matches At
	assert.InDelta(t, float64(k.At(16, 16)), k.Sample(16, 16), 1e-9)
	assert.InDelta(t, float64(k.At(3, 7)), k.Sample(3, 7), 1e-9)

	// halfway samples interpolate between neighbors
	v := k.Sample(16.5, 16)
	lo := float64(minByte(k.At(16, 16), k.At(17, 16)))
	hi := float64(maxByte(k.At(16, 16), k.At(17, 16)))
	assert.GreaterOrEqual(t, v, lo)
	assert.LessOrEqual(t, v, hi)

	// outside the template contributes zero
	assert.Zero(t, k.Sample(-0.5, 5))
	assert.Zero(t, k.Sample(5, 32.5))
}

func TestGaussianKernel_Corners(t *testing.T) {
	k := NewGaussianKernel(16, 1.5)
	c := k.Corners()
	require.Len(t, c, 4)
	assert.Equal(t, 0.0, c[0].X)
	assert.Equal(t, 0.0, c[0].Y)
	assert.Equal(t, 16.0, c[2].X)
	assert.Equal(t, 16.0, c[2].Y)
}

func minByte(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxByte(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
