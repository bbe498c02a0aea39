package detector

import (
	"math"

	"github.com/MeKo-Tech/craftdet/internal/mempool"
)

// buildSegmentationMap produces the per-component mask: 255 on the
// component's pixels, except where the text and link masks are both set.
// Carving those shared bridge pixels away keeps a word's box from bleeding
// into its neighbor through the affinity channel. The caller owns the
// returned pooled buffer.
func buildSegmentationMap(labels []int, textMask, linkMask []uint8, label int, c component, w int) []uint8 {
	seg := mempool.GetUint8(len(labels))
	for y := c.minY; y <= c.maxY; y++ {
		row := y * w
		for x := c.minX; x <= c.maxX; x++ {
			idx := row + x
			if labels[idx] == label && !(textMask[idx] != 0 && linkMask[idx] != 0) {
				seg[idx] = 255
			}
		}
	}
	return seg
}

// dilationIterations computes the adaptive re-expansion amount from the
// component's area and bounding box. The formula is empirically tuned and
// kept verbatim; it grows compact components back by roughly what the
// bridge carving eroded.
func dilationIterations(c component) int {
	w := float64(c.width())
	h := float64(c.height())
	return int(math.Sqrt(float64(c.area)*math.Min(w, h)/(w*h)) * 2)
}

// dilateWindow dilates seg in place with a square structuring element of
// side 1+niter, restricted to the component's padded bounding window clamped
// to map bounds. Pixels outside the window neither read nor write.
func dilateWindow(seg []uint8, w, h int, c component, niter int) {
	if niter <= 0 {
		return
	}
	sx := maxInt(c.minX-niter, 0)
	sy := maxInt(c.minY-niter, 0)
	ex := minInt(c.minX+c.width()+niter+1, w)
	ey := minInt(c.minY+c.height()+niter+1, h)
	if sx >= ex || sy >= ey {
		return
	}

	side := 1 + niter
	// Offsets mirror an anchored structuring element of even or odd side.
	lo := -(side / 2)
	hi := side - 1 - side/2

	winW := ex - sx
	winH := ey - sy
	out := mempool.GetUint8(winW * winH)
	defer mempool.PutUint8(out)

	for y := sy; y < ey; y++ {
		for x := sx; x < ex; x++ {
			var v uint8
			for dy := lo; dy <= hi && v == 0; dy++ {
				ny := y + dy
				if ny < sy || ny >= ey {
					continue
				}
				for dx := lo; dx <= hi; dx++ {
					nx := x + dx
					if nx < sx || nx >= ex {
						continue
					}
					if seg[ny*w+nx] != 0 {
						v = 255
						break
					}
				}
			}
			out[(y-sy)*winW+(x-sx)] = v
		}
	}

	for y := sy; y < ey; y++ {
		copy(seg[y*w+sx:y*w+ex], out[(y-sy)*winW:(y-sy)*winW+winW])
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
