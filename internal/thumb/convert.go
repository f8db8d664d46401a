package thumb

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"lumen/internal/config"
	"lumen/internal/log"
	"lumen/pkg/types"
)

// convert fills out with the thumbnail pixels in RGBA order. Cached buffers
// arrive in BGRA; rows are converted in parallel, either by plain channel
// swap or through the display transform when color management is on.
func (c *Compositor) convert(buf *MipBuf, out []byte) {
	var tr RowTransform
	haveLock := false

	if c.Profiles != nil && c.Conf != nil && c.Conf.GetBool(config.KeyCacheColorManaged) {
		c.Profiles.RLock()
		haveLock = true

		// only sRGB and AdobeRGB thumbnails are color managed, everything
		// else goes to the screen untouched
		switch buf.ColorSpace {
		case types.ColorSpaceSRGB, types.ColorSpaceAdobeRGB:
			tr = c.Profiles.Transform(buf.ColorSpace)
		}
		if tr == nil {
			c.Profiles.RUnlock()
			haveLock = false
			if buf.ColorSpace == types.ColorSpaceNone {
				log.Warnf("thumbnail arrived without a color space set")
			} else if buf.ColorSpace != types.ColorSpaceDisplay {
				log.Warnf("thumbnail has unhandled color space %s", buf.ColorSpace)
			}
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > buf.Height {
		workers = buf.Height
	}
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	chunk := (buf.Height + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > buf.Height {
			hi = buf.Height
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				in := buf.Buf[i*buf.Width*4 : (i+1)*buf.Width*4]
				dst := out[i*buf.Width*4 : (i+1)*buf.Width*4]
				if tr != nil {
					tr(in, dst, buf.Width)
				} else {
					for j := 0; j < buf.Width*4; j += 4 {
						dst[j+0] = in[j+2]
						dst[j+1] = in[j+1]
						dst[j+2] = in[j+0]
						dst[j+3] = 0xff
					}
				}
			}
			return nil
		})
	}
	g.Wait() // workers never fail

	if haveLock {
		c.Profiles.RUnlock()
	}
}
