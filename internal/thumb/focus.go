package thumb

import (
	"math"

	"lumen/internal/paint"
)

// focusPeaking marks the sharpest parts of the image. Edge strength is the
// absolute Laplacian of the luma channel; pixels far above the image-wide
// mean get a marker, stronger edges in red, the rest in yellow. The canvas
// is expected to be clipped to the image rectangle by the caller.
func focusPeaking(cr paint.Canvas, s *paint.Surface) {
	w, h := s.W, s.H
	if w < 3 || h < 3 {
		return
	}

	luma := make([]float64, w*h)
	for i := 0; i < w*h; i++ {
		r := float64(s.Pix[i*4+0])
		g := float64(s.Pix[i*4+1])
		b := float64(s.Pix[i*4+2])
		luma[i] = 0.2126*r + 0.7152*g + 0.0722*b
	}

	edge := make([]float64, w*h)
	var sum, sum2 float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			v := math.Abs(4*luma[i] - luma[i-1] - luma[i+1] - luma[i-w] - luma[i+w])
			edge[i] = v
			sum += v
			sum2 += v * v
			n++
		}
	}
	mean := sum / float64(n)
	sigma := math.Sqrt(math.Max(0, sum2/float64(n)-mean*mean))

	soft := mean + 3*sigma
	hard := mean + 6*sigma

	// sample on a coarse grid so the markers read as an overlay, not noise
	const step = 2
	for y := 1; y < h-1; y += step {
		for x := 1; x < w-1; x += step {
			v := edge[y*w+x]
			if v < soft {
				continue
			}
			if v >= hard {
				cr.SetSourceRGBA(1, 0, 0, 0.8)
			} else {
				cr.SetSourceRGBA(1, 1, 0, 0.8)
			}
			cr.Rectangle(float64(x), float64(y), step, step)
			cr.Fill()
		}
	}
}
