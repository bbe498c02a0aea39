package heatmap

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// Homography is a 3x3 projective mapping between two quadrilaterals'
// coordinate systems, row-major with m[8] normalized to 1.
type Homography struct {
	m [9]float64
}

// PerspectiveTransform solves the homography mapping the four src points
// onto the four dst points. The standard 8x8 linear system from the four
// correspondences is solved with a QR decomposition; degenerate (collinear
// or coincident) quads yield an error.
func PerspectiveTransform(src, dst [4]utils.Point) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx})
		a.SetRow(2*i+1, []float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy})
		b.SetVec(2*i, dx)
		b.SetVec(2*i+1, dy)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return Homography{}, fmt.Errorf("degenerate point correspondence: %w", err)
	}

	var out Homography
	for i := range 8 {
		out.m[i] = h.AtVec(i)
	}
	out.m[8] = 1
	return out, nil
}

// Apply maps a point through the homography.
func (h Homography) Apply(p utils.Point) utils.Point {
	w := h.m[6]*p.X + h.m[7]*p.Y + h.m[8]
	if w == 0 {
		return utils.Point{}
	}
	return utils.Point{
		X: (h.m[0]*p.X + h.m[1]*p.Y + h.m[2]) / w,
		Y: (h.m[3]*p.X + h.m[4]*p.Y + h.m[5]) / w,
	}
}

// Invert returns the inverse homography.
func (h Homography) Invert() (Homography, error) {
	src := mat.NewDense(3, 3, []float64{
		h.m[0], h.m[1], h.m[2],
		h.m[3], h.m[4], h.m[5],
		h.m[6], h.m[7], h.m[8],
	})
	var inv mat.Dense
	if err := inv.Inverse(src); err != nil {
		return Homography{}, fmt.Errorf("singular homography: %w", err)
	}
	var out Homography
	scale := inv.At(2, 2)
	for r := range 3 {
		for c := range 3 {
			v := inv.At(r, c)
			if scale != 0 {
				v /= scale
			}
			out.m[r*3+c] = v
		}
	}
	return out, nil
}

// warpAccumulate warps the kernel through the forward homography m
// (kernel space -> map space) and adds the sampled intensities into dst.
// Only the bounding window of the warped quad is visited; out-of-bounds
// source samples contribute zero.
func warpAccumulate(dst []float32, width, height int, k *GaussianKernel, m Homography) error {
	inv, err := m.Invert()
	if err != nil {
		return err
	}

	// Bound the destination scan to the warped kernel footprint.
	corners := k.Corners()
	var warped []utils.Point
	for _, c := range corners {
		warped = append(warped, m.Apply(c))
	}
	bb := utils.BoundingBox(warped)
	x0 := clampInt(int(bb.MinX), 0, width)
	y0 := clampInt(int(bb.MinY), 0, height)
	x1 := clampInt(int(bb.MaxX)+1, 0, width)
	y1 := clampInt(int(bb.MaxY)+1, 0, height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s := inv.Apply(utils.Point{X: float64(x), Y: float64(y)})
			v := k.Sample(s.X, s.Y)
			if v != 0 {
				dst[y*width+x] += float32(v)
			}
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
