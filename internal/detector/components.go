package detector

import (
	"github.com/MeKo-Tech/craftdet/internal/mempool"
)

// component carries the statistics for one 4-connected region of the union
// mask, accumulated during the labeling pass. maxText is the running peak of
// raw text scores inside the region, so no second sweep over the label map
// is needed to apply the detection threshold.
type component struct {
	area    int
	maxText float32
	minX    int
	minY    int
	maxX    int
	maxY    int
}

func (c component) width() int  { return c.maxX - c.minX + 1 }
func (c component) height() int { return c.maxY - c.minY + 1 }

// binarize thresholds a score map into a 0/1 mask. Values greater than or
// equal to t map to 1. The caller owns the returned pooled buffer.
func binarize(scores []float32, t float32) []uint8 {
	mask := mempool.GetUint8(len(scores))
	for i, v := range scores {
		if v >= t {
			mask[i] = 1
		}
	}
	return mask
}

// unionMask combines the text and link masks, clipped to 0/1.
func unionMask(text, link []uint8) []uint8 {
	union := mempool.GetUint8(len(text))
	for i := range text {
		if text[i] != 0 || link[i] != 0 {
			union[i] = 1
		}
	}
	return union
}

// connectedComponents labels 4-connected components of the union mask,
// returning per-component stats and the label map. Labels start at 1;
// 0 is background.
func connectedComponents(mask []uint8, textScores []float32, w, h int) ([]component, []int) {
	labels := make([]int, w*h)
	var comps []component
	queue := make([]int, 0, 256)
	label := 1

	for y := range h {
		for x := range w {
			idx := y*w + x
			if mask[idx] == 0 || labels[idx] != 0 {
				continue
			}
			comps = append(comps, floodComponent(mask, textScores, labels, queue, w, h, x, y, label))
			label++
		}
	}
	return comps, labels
}

// floodComponent performs BFS from a seed pixel, stamping the label and
// accumulating stats.
func floodComponent(mask []uint8, textScores []float32, labels []int, queue []int,
	w, h, startX, startY, label int,
) component {
	st := component{minX: startX, minY: startY, maxX: startX, maxY: startY}
	start := startY*w + startX
	labels[start] = label
	queue = append(queue[:0], start)

	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		cx, cy := idx%w, idx/w

		st.area++
		if textScores[idx] > st.maxText {
			st.maxText = textScores[idx]
		}
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] != 0 && labels[ni] == 0 {
				labels[ni] = label
				queue = append(queue, ni)
			}
		}
	}
	return st
}
