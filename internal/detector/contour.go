package detector

import "github.com/MeKo-Tech/craftdet/internal/utils"

// traceContour extracts the outer boundary polygon of the segmentation
// mask's foreground using Moore-Neighbor tracing. The scan is limited to the
// given window (the component's dilated bounding box). Points are
// pixel-center coordinates. Returns nil when the mask is empty.
func traceContour(seg []uint8, w, h, sx, sy, ex, ey int) []utils.Point {
	startX, startY := findStartPixel(seg, w, sx, sy, ex, ey)
	if startX == -1 {
		return nil
	}

	isSet := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return seg[y*w+x] != 0
	}

	pts := make([]utils.Point, 0, 64)
	addPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n >= 2 {
			a := pts[n-2]
			b := pts[n-1]
			v1x, v1y := b.X-a.X, b.Y-a.Y
			v2x, v2y := p.X-b.X, p.Y-b.Y
			if v1x*v2y-v1y*v2x == 0 {
				// collinear: replace the middle point
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := startX, startY
	bx, by := startX-1, startY // backtrack starts left of the start pixel
	addPoint(cx, cy)

	firstCx, firstCy := cx, cy
	firstBx, firstBy := bx, by
	maxSteps := (ex-sx)*(ey-sy)*4 + 8

	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(isSet, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if last := pts[len(pts)-1]; last.X != float64(cx) || last.Y != float64(cy) {
			addPoint(cx, cy)
		}
		if cx == firstCx && cy == firstCy && bx == firstBx && by == firstBy {
			break
		}
	}

	// Drop a duplicated closing point.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// findStartPixel scans the window for the first foreground boundary pixel.
func findStartPixel(seg []uint8, w, sx, sy, ex, ey int) (int, int) {
	for y := sy; y < ey; y++ {
		for x := sx; x < ex; x++ {
			if seg[y*w+x] != 0 {
				return x, y
			}
		}
	}
	return -1, -1
}

// Moore 8-neighborhood in clockwise order: E, SE, S, SW, W, NW, N, NE.
var (
	mooreDx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// nextBoundaryPixel walks the Moore neighborhood clockwise from the
// backtrack position and returns the next foreground pixel along with the
// new backtrack.
func nextBoundaryPixel(isSet func(int, int) bool, cx, cy, bx, by int) (int, int, int, int, bool) {
	start := 0
	for i := range 8 {
		if mooreDx[i] == bx-cx && mooreDy[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}
	for k := range 8 {
		i := (start + k) % 8
		tx, ty := cx+mooreDx[i], cy+mooreDy[i]
		if isSet(tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
