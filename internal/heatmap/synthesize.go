package heatmap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MeKo-Tech/craftdet/internal/mempool"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// ErrOddDimension is returned when a synthesis target's image dimensions are
// not even. The caller must fix the input; dimensions are never rounded.
var ErrOddDimension = errors.New("image dimensions must be even")

// SynthesizeTargets converts per-character quad annotations for one image
// into the pair of half-resolution training target maps. Warped kernel
// stamps accumulate additively; overlapping contributions sum before the
// final clip to [0,255] and division by 255. This matches the ground-truth
// convention the network is trained against and must not change.
func SynthesizeTargets(kernel *GaussianKernel, imageHeight, imageWidth int, lines []Line) (*Pair, error) {
	if imageHeight%2 != 0 || imageWidth%2 != 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrOddDimension, imageWidth, imageHeight)
	}

	w := imageWidth / 2
	h := imageHeight / 2
	text := mempool.GetFloat32(w * h)
	link := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(text)
	defer mempool.PutFloat32(link)

	src := kernel.Corners()

	for _, line := range lines {
		var prev *[2]utils.Point
		for _, quad := range line {
			if quad.IsSpace() {
				prev = nil
				continue
			}
			cur := quad.linkAnchors()

			if prev != nil {
				bridge := [4]utils.Point{prev[0], cur[0], cur[1], prev[1]}
				ml, err := PerspectiveTransform(src, bridge)
				if err == nil {
					// A degenerate bridge quad stamps nothing.
					if err := warpAccumulate(link, w, h, kernel, ml); err != nil {
						return nil, err
					}
				}
			}

			var charPoints [4]utils.Point
			for i, p := range quad.Points {
				charPoints[i] = utils.Point{X: p.X / 2, Y: p.Y / 2}
			}
			ma, err := PerspectiveTransform(src, charPoints)
			if err != nil {
				return nil, fmt.Errorf("character quad: %w", err)
			}
			if err := warpAccumulate(text, w, h, kernel, ma); err != nil {
				return nil, err
			}

			prev = &cur
		}
	}

	pair := NewPair(w, h)
	for i := range text {
		pair.Text[i] = clipByte(text[i]) / 255
		pair.Link[i] = clipByte(link[i]) / 255
	}
	return pair, nil
}

func clipByte(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Annotation bundles the per-image inputs for batch target synthesis.
type Annotation struct {
	ImageHeight int
	ImageWidth  int
	Lines       []Line
}

// SynthesizeBatch synthesizes targets for many images concurrently. Each
// image is independent; the shared kernel is read-only. Results are in
// input order, with per-image errors reported in place.
func SynthesizeBatch(kernel *GaussianKernel, annotations []Annotation, workers int) ([]*Pair, []error) {
	if workers <= 0 {
		workers = 1
	}
	pairs := make([]*Pair, len(annotations))
	errs := make([]error, len(annotations))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, a := range annotations {
		wg.Add(1)
		go func(i int, a Annotation) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			pairs[i], errs[i] = SynthesizeTargets(kernel, a.ImageHeight, a.ImageWidth, a.Lines)
		}(i, a)
	}
	wg.Wait()
	return pairs, errs
}
