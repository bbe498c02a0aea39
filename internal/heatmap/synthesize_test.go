package heatmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthKernel() *GaussianKernel {
	return NewGaussianKernel(64, DefaultSynthesisRatio)
}

func squareQuad(x, y, side float64, c rune) CharacterQuad {
	return NewCharacterQuad([8]float64{
		x, y,
		x + side, y,
		x + side, y + side,
		x, y + side,
	}, c)
}

func TestSynthesizeTargets_OddDimensions(t *testing.T) {
	k := synthKernel()
	_, err := SynthesizeTargets(k, 63, 64, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOddDimension))

	_, err = SynthesizeTargets(k, 64, 63, nil)
	assert.True(t, errors.Is(err, ErrOddDimension))
}

func TestSynthesizeTargets_EmptyAnnotation(t *testing.T) {
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, nil)
	require.NoError(t, err)
	assert.Equal(t, 32, pair.Width)
	assert.Equal(t, 32, pair.Height)
	for i := range pair.Text {
		assert.Zero(t, pair.Text[i])
		assert.Zero(t, pair.Link[i])
	}
}

func TestSynthesizeTargets_SingleCharacter(t *testing.T) {
	// one square character at image coords (16,16)-(48,48);
	// at map scale its center is (16,16)
	lines := []Line{{squareQuad(16, 16, 32, 'a')}}
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, lines)
	require.NoError(t, err)

	assert.Greater(t, pair.TextAt(16, 16), float32(0.9), "kernel peak lands on quad center")
	assert.Less(t, pair.TextAt(1, 1), pair.TextAt(16, 16))

	for i, v := range pair.Text {
		assert.GreaterOrEqual(t, v, float32(0), "text[%d]", i)
		assert.LessOrEqual(t, v, float32(1), "text[%d]", i)
	}
	// a single character produces no affinity
	for i, v := range pair.Link {
		assert.Zero(t, v, "link[%d]", i)
	}
}

func TestSynthesizeTargets_AdditiveAccumulation(t *testing.T) {
	k := synthKernel()
	a := squareQuad(10, 10, 20, 'a')
	b := squareQuad(150, 150, 20, 'b')

	first, err := SynthesizeTargets(k, 200, 200, []Line{{a}})
	require.NoError(t, err)
	second, err := SynthesizeTargets(k, 200, 200, []Line{{b}})
	require.NoError(t, err)
	combined, err := SynthesizeTargets(k, 200, 200, []Line{{a}, {b}})
	require.NoError(t, err)

	// far-apart stamps sum elementwise; the combined map equals the sum of
	// the individual maps, and single-quad lines produce no affinity
	for i := range combined.Text {
		if diff := combined.Text[i] - (first.Text[i] + second.Text[i]); diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("text[%d]: combined %f != %f + %f", i, combined.Text[i], first.Text[i], second.Text[i])
		}
		if combined.Link[i] != 0 {
			t.Fatalf("link[%d]: expected zero, got %f", i, combined.Link[i])
		}
	}
}

func TestSynthesizeTargets_AdjacentCharactersLink(t *testing.T) {
	a := squareQuad(0, 0, 16, 'a')
	b := squareQuad(16, 0, 16, 'b')
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, []Line{{a, b}})
	require.NoError(t, err)

	// bridge anchors: a -> (4,2),(4,6), b -> (12,2),(12,6); the bridge
	// rectangle center is (8,4) in map coordinates
	assert.Greater(t, pair.LinkAt(8, 4), float32(0.5))

	var total float32
	for _, v := range pair.Link {
		total += v
	}
	assert.Greater(t, total, float32(0))
}

func TestSynthesizeTargets_SpaceBreaksLink(t *testing.T) {
	a := squareQuad(0, 0, 16, 'a')
	b := squareQuad(16, 0, 16, 'b')
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, []Line{{a, SpaceQuad(), b}})
	require.NoError(t, err)

	for i, v := range pair.Link {
		assert.Zero(t, v, "link[%d] must stay empty across a word gap", i)
	}
	// both characters still stamp text scores
	assert.Greater(t, pair.TextAt(4, 4), float32(0.5))
	assert.Greater(t, pair.TextAt(12, 4), float32(0.5))
}

func TestSynthesizeTargets_LinesDoNotLinkAcross(t *testing.T) {
	a := squareQuad(0, 0, 16, 'a')
	b := squareQuad(16, 0, 16, 'b')
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, []Line{{a}, {b}})
	require.NoError(t, err)

	for i, v := range pair.Link {
		assert.Zero(t, v, "link[%d] must stay empty across separate lines", i)
	}
}

func TestSynthesizeTargets_DegenerateQuad(t *testing.T) {
	q := NewCharacterQuad([8]float64{5, 5, 5, 5, 5, 5, 5, 5}, 'a')
	_, err := SynthesizeTargets(synthKernel(), 64, 64, []Line{{q}})
	assert.Error(t, err)
}

func TestSynthesizeTargets_OverlapClipsToOne(t *testing.T) {
	// the same character stamped many times saturates but never exceeds 1
	q := squareQuad(16, 16, 32, 'a')
	line := Line{}
	for i := 0; i < 8; i++ {
		line = append(line, q)
	}
	pair, err := SynthesizeTargets(synthKernel(), 64, 64, []Line{line})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, float64(pair.TextAt(16, 16)), 1e-6)
	for i, v := range pair.Text {
		assert.LessOrEqual(t, v, float32(1), "text[%d]", i)
	}
}

func TestSynthesizeBatch(t *testing.T) {
	k := synthKernel()
	annotations := []Annotation{
		{ImageHeight: 64, ImageWidth: 64, Lines: []Line{{squareQuad(16, 16, 32, 'a')}}},
		{ImageHeight: 63, ImageWidth: 64},
		{ImageHeight: 32, ImageWidth: 32},
	}

	pairs, errs := SynthesizeBatch(k, annotations, 2)
	require.Len(t, pairs, 3)
	require.Len(t, errs, 3)

	require.NoError(t, errs[0])
	assert.Equal(t, 32, pairs[0].Width)

	assert.True(t, errors.Is(errs[1], ErrOddDimension))
	assert.Nil(t, pairs[1])

	require.NoError(t, errs[2])
	assert.Equal(t, 16, pairs[2].Width)
}

func TestSynthesizeBatch_ZeroWorkers(t *testing.T) {
	pairs, errs := SynthesizeBatch(synthKernel(), []Annotation{{ImageHeight: 16, ImageWidth: 16}}, 0)
	require.Len(t, pairs, 1)
	require.NoError(t, errs[0])
}
