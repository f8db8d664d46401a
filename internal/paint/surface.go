package paint

import "image"

// Surface is a CPU pixel buffer in RGBA order, 4 bytes per pixel, tightly
// packed. It is the unit the compositor caches across frames for pan/zoom.
type Surface struct {
	W, H int
	Pix  []byte
}

// NewSurface allocates a zeroed surface. Returns nil when the allocation is
// not plausible (non-positive dimensions); callers treat nil as "nothing to
// draw this frame".
func NewSurface(w, h int) *Surface {
	if w <= 0 || h <= 0 {
		return nil
	}
	return &Surface{W: w, H: h, Pix: make([]byte, w*h*4)}
}

// SurfaceForData wraps an existing RGBA pixel buffer without copying.
// The buffer must hold at least w*h*4 bytes.
func SurfaceForData(pix []byte, w, h int) *Surface {
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return nil
	}
	return &Surface{W: w, H: h, Pix: pix}
}

// RGBA exposes the surface as an image sharing the same pixels.
func (s *Surface) RGBA() *image.RGBA {
	return &image.RGBA{Pix: s.Pix, Stride: s.W * 4, Rect: image.Rect(0, 0, s.W, s.H)}
}
