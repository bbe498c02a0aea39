package detector

import (
	"testing"

	"github.com/MeKo-Tech/craftdet/internal/utils"
)

func rectSeg(w, h, x0, y0, x1, y1 int) []uint8 {
	seg := make([]uint8, w*h)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			seg[y*w+x] = 255
		}
	}
	return seg
}

func containsPoint(pts []utils.Point, x, y float64) bool {
	for _, p := range pts {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

func TestTraceContour_Rectangle(t *testing.T) {
	w, h := 16, 16
	seg := rectSeg(w, h, 3, 4, 10, 8)

	contour := traceContour(seg, w, h, 0, 0, w, h)
	if len(contour) < 4 {
		t.Fatalf("expected at least 4 contour points, got %d", len(contour))
	}

	// collinear removal leaves the rectangle corners
	for _, c := range [][2]float64{{3, 4}, {10, 4}, {10, 8}, {3, 8}} {
		if !containsPoint(contour, c[0], c[1]) {
			t.Errorf("contour missing corner (%v,%v): %v", c[0], c[1], contour)
		}
	}

	// all points lie on the rectangle boundary
	for _, p := range contour {
		onX := p.X == 3 || p.X == 10
		onY := p.Y == 4 || p.Y == 8
		if !onX && !onY {
			t.Errorf("point %v not on rectangle boundary", p)
		}
	}
}

func TestTraceContour_Empty(t *testing.T) {
	seg := make([]uint8, 25)
	if got := traceContour(seg, 5, 5, 0, 0, 5, 5); got != nil {
		t.Errorf("expected nil contour for empty mask, got %v", got)
	}
}

func TestTraceContour_SinglePixel(t *testing.T) {
	seg := make([]uint8, 25)
	seg[2*5+2] = 255
	contour := traceContour(seg, 5, 5, 0, 0, 5, 5)
	if len(contour) != 1 {
		t.Fatalf("expected a single contour point, got %d", len(contour))
	}
	if contour[0].X != 2 || contour[0].Y != 2 {
		t.Errorf("unexpected contour point %v", contour[0])
	}
}

func TestTraceContour_WindowRestrictsSearch(t *testing.T) {
	w, h := 10, 10
	seg := make([]uint8, w*h)
	seg[1*w+1] = 255 // outside the window
	seg[6*w+6] = 255

	contour := traceContour(seg, w, h, 5, 5, 10, 10)
	if len(contour) != 1 {
		t.Fatalf("expected 1 point, got %d", len(contour))
	}
	if contour[0].X != 6 || contour[0].Y != 6 {
		t.Errorf("trace must start inside the window, got %v", contour[0])
	}
}

func TestTraceContour_LShape(t *testing.T) {
	w, h := 12, 12
	seg := make([]uint8, w*h)
	for y := 2; y <= 8; y++ {
		for x := 2; x <= 4; x++ {
			seg[y*w+x] = 255
		}
	}
	for y := 6; y <= 8; y++ {
		for x := 5; x <= 9; x++ {
			seg[y*w+x] = 255
		}
	}

	contour := traceContour(seg, w, h, 0, 0, w, h)
	if len(contour) < 6 {
		t.Fatalf("an L shape needs at least 6 corners, got %d points", len(contour))
	}
	for _, c := range [][2]float64{{2, 2}, {4, 2}, {2, 8}, {9, 8}, {9, 6}} {
		if !containsPoint(contour, c[0], c[1]) {
			t.Errorf("contour missing corner (%v,%v)", c[0], c[1])
		}
	}
}
