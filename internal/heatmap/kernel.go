package heatmap

import (
	"math"

	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// Default kernel parameters. The standalone template uses the wider falloff;
// target synthesis stamps a more concentrated one.
const (
	DefaultKernelSize          = 512
	DefaultKernelRatio         = 3.34
	DefaultSynthesisKernelSize = 512
	DefaultSynthesisRatio      = 1.5
)

// GaussianKernel is a fixed square isotropic intensity template stamped into
// target maps via perspective warps. It is immutable after construction and
// safe for concurrent reads.
type GaussianKernel struct {
	size int
	data []uint8
}

// NewGaussianKernel builds a size x size template. distanceRatio controls the
// falloff: the Euclidean distance from center is scaled by
// distanceRatio/(size/2) before the Gaussian is evaluated, so smaller ratios
// concentrate the intensity.
func NewGaussianKernel(size int, distanceRatio float64) *GaussianKernel {
	data := make([]uint8, size*size)
	for j := range size {
		for i := range size {
			x := gridCoord(i, size)
			y := gridCoord(j, size)
			d := math.Hypot(x, y) * distanceRatio / (float64(size) / 2)
			v := math.Round(255 * math.Exp(-0.5*d*d))
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			data[j*size+i] = uint8(v)
		}
	}
	return &GaussianKernel{size: size, data: data}
}

// gridCoord maps index i to the symmetric coordinate in [-size/2, size/2].
func gridCoord(i, size int) float64 {
	if size <= 1 {
		return 0
	}
	return math.Abs(-float64(size)/2 + float64(i)*float64(size)/float64(size-1))
}

// Size returns the kernel's side length.
func (k *GaussianKernel) Size() int { return k.size }

// At returns the intensity at (x, y). Out-of-bounds coordinates yield 0.
func (k *GaussianKernel) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= k.size || y >= k.size {
		return 0
	}
	return k.data[y*k.size+x]
}

// Sample returns a bilinearly interpolated intensity at floating-point
// kernel coordinates. Samples outside the template contribute 0.
func (k *GaussianKernel) Sample(x, y float64) float64 {
	if x < 0 || y < 0 || x > float64(k.size-1) || y > float64(k.size-1) {
		return 0
	}
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1
	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := float64(k.At(x0, y0))
	v10 := float64(k.At(x1, y0))
	v01 := float64(k.At(x0, y1))
	v11 := float64(k.At(x1, y1))
	top := v00*(1-fx) + v10*fx
	bot := v01*(1-fx) + v11*fx
	return top*(1-fy) + bot*fy
}

// Corners returns the template's own corner points, the source quadrilateral
// for every perspective warp.
func (k *GaussianKernel) Corners() [4]utils.Point {
	s := float64(k.size)
	return [4]utils.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
}
