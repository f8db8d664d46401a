package thumb

import (
	"math"

	"golang.org/x/image/draw"

	"lumen/internal/paint"
	"lumen/pkg/types"
)

// GetSurface renders the best cached version of the image scaled to fit the
// given box and stores it in *surface, replacing whatever was there. It
// returns false when the cache could only offer a wrong-sized buffer, in
// which case the caller should ask again later; the 8x8 placeholder counts
// as good enough since it never improves.
func (c *Compositor) GetSurface(imgid types.ImageID, width, height int, surface **paint.Surface) bool {
	*surface = nil

	mip := c.Mips.MatchingSize(float64(width), float64(height))
	buf := c.Mips.Get(imgid, mip)

	bufOK := len(buf.Buf) > 0 && mip == buf.Size
	if !bufOK && buf.Width != 8 && buf.Height != 8 {
		c.Mips.Release(&buf)
		return false
	}

	scale := math.Min(float64(width)/float64(buf.Width), float64(height)/float64(buf.Height))
	imgWidth := int(float64(buf.Width) * scale)
	imgHeight := int(float64(buf.Height) * scale)

	out := paint.NewSurface(imgWidth, imgHeight)
	if out == nil {
		c.Mips.Release(&buf)
		return false
	}

	rgb := make([]byte, buf.Width*buf.Height*4)
	c.convert(&buf, rgb)
	tmp := paint.SurfaceForData(rgb, buf.Width, buf.Height)

	// nearest keeps the placeholder's big pixels and the 1:1 case exact
	var scaler draw.Scaler = draw.ApproxBiLinear
	if (buf.Width <= 8 && buf.Height <= 8) || math.Abs(scale-1) < 0.01 {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(out.RGBA(), out.RGBA().Bounds(), tmp.RGBA(), tmp.RGBA().Bounds(), draw.Src, nil)

	if c.FocusPeaking {
		r := paint.NewRaster(out)
		focusPeaking(r, out)
	}

	c.Mips.Release(&buf)
	*surface = out
	return true
}
