package detector

import (
	"math"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
	"github.com/MeKo-Tech/craftdet/internal/mempool"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

const (
	// heatmapScale maps half-resolution map coordinates back to image space.
	heatmapScale = 2

	// diamondRatioTolerance triggers the axis-aligned fallback for
	// near-square rotated fits. Empirically tuned, kept verbatim.
	diamondRatioTolerance = 0.1
	ratioEpsilon          = 1e-5
)

// ExtractBoxes converts a predicted heatmap pair into oriented polygon boxes
// in original image coordinates. Degenerate components are rejected rather
// than reported as errors; an image without text yields an empty slice.
func ExtractBoxes(pair *heatmap.Pair, opts Options) []Box {
	w, h := pair.Width, pair.Height
	if w <= 0 || h <= 0 || len(pair.Text) != w*h || len(pair.Link) != w*h {
		return nil
	}

	textMask := binarize(pair.Text, opts.TextThreshold)
	linkMask := binarize(pair.Link, opts.LinkThreshold)
	union := unionMask(textMask, linkMask)
	defer mempool.PutUint8(textMask)
	defer mempool.PutUint8(linkMask)
	defer mempool.PutUint8(union)

	comps, labels := connectedComponents(union, pair.Text, w, h)

	boxes := make([]Box, 0, len(comps))
	for i, c := range comps {
		if c.area < opts.SizeThreshold {
			continue
		}
		if c.maxText < opts.DetectionThreshold {
			continue
		}
		if box, ok := extractComponentBox(labels, textMask, linkMask, i+1, c, w, h); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// extractComponentBox runs the per-component stages: carve, re-dilate,
// trace, fit, correct, order, scale.
func extractComponentBox(labels []int, textMask, linkMask []uint8, label int, c component, w, h int) (Box, bool) {
	seg := buildSegmentationMap(labels, textMask, linkMask, label, c, w)
	defer mempool.PutUint8(seg)

	niter := dilationIterations(c)
	dilateWindow(seg, w, h, c, niter)

	sx := maxInt(c.minX-niter, 0)
	sy := maxInt(c.minY-niter, 0)
	ex := minInt(c.minX+c.width()+niter+1, w)
	ey := minInt(c.minY+c.height()+niter+1, h)

	contour := traceContour(seg, w, h, sx, sy, ex, ey)
	if len(contour) == 0 {
		// fully carved away
		return Box{}, false
	}

	fit := utils.MinimumAreaRectangle(contour)
	if len(fit) != 4 {
		return Box{}, false
	}

	var corners [4]utils.Point
	if isDiamond(fit) {
		// Rotated fits are unstable on near-square blobs; use the raw
		// contour's axis-aligned bounds instead.
		bb := utils.BoundingBox(contour)
		corners = [4]utils.Point{
			{X: bb.MinX, Y: bb.MinY},
			{X: bb.MaxX, Y: bb.MinY},
			{X: bb.MaxX, Y: bb.MaxY},
			{X: bb.MinX, Y: bb.MaxY},
		}
	} else {
		copy(corners[:], fit)
		corners = clockwiseFromTopLeft(corners)
	}

	copy(corners[:], utils.ScalePoints(corners[:], heatmapScale, heatmapScale))
	return Box{Points: corners}, true
}

// isDiamond reports whether the rectangle's side lengths are within the
// diamond tolerance of each other.
func isDiamond(fit []utils.Point) bool {
	a := utils.Dist(fit[0], fit[1])
	b := utils.Dist(fit[1], fit[2])
	ratio := math.Max(a, b) / (math.Min(a, b) + ratioEpsilon)
	return math.Abs(1-ratio) <= diamondRatioTolerance
}

// clockwiseFromTopLeft normalizes corner order: clockwise traversal in image
// coordinates, starting at the corner minimizing x+y.
func clockwiseFromTopLeft(pts [4]utils.Point) [4]utils.Point {
	// Shoelace sum is positive for clockwise order when y points down.
	var area float64
	for i := range 4 {
		a := pts[i]
		b := pts[(i+1)%4]
		area += a.X*b.Y - b.X*a.Y
	}
	if area < 0 {
		pts[1], pts[3] = pts[3], pts[1]
	}

	best := 0
	bestSum := pts[0].X + pts[0].Y
	for i := 1; i < 4; i++ {
		if s := pts[i].X + pts[i].Y; s < bestSum {
			bestSum = s
			best = i
		}
	}

	var out [4]utils.Point
	for i := range 4 {
		out[i] = pts[(best+i)%4]
	}
	return out
}
