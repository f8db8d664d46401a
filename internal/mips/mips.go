// Package mips caches prescaled thumbnail buffers in a fixed pyramid of
// sizes. Buffers are pinned while a caller holds them and evicted in LRU
// order once the byte budget is exceeded.
package mips

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"

	"lumen/internal/log"
	"lumen/internal/thumb"
	"lumen/pkg/types"
)

// Loader produces the decoded source image for a catalog id. It runs
// outside the cache lock and may block on IO.
type Loader func(id types.ImageID) (image.Image, error)

// levels is the mipmap pyramid, smallest first. The top level doubles as
// the answer for any request larger than it.
var levels = [...]struct{ w, h int }{
	{180, 110},
	{360, 225},
	{720, 450},
	{1440, 900},
	{1920, 1200},
	{2560, 1600},
	{4096, 2560},
	{5120, 3200},
}

// DefaultBudget is the cache ceiling when the caller sets none.
const DefaultBudget = 512 << 20

// placeholderSide is the edge length of the buffer returned when an image
// cannot be decoded at all. Consumers treat 8x8 as "draw the frame, skip
// the pixels".
const placeholderSide = 8

type key struct {
	id  types.ImageID
	mip thumb.MipSize
}

type entry struct {
	buf    thumb.MipBuf
	pins   int
	doomed bool
	// lru position; only meaningful while pins == 0
	stamp uint64
}

// Cache implements thumb.MipmapCache. Safe for concurrent use.
type Cache struct {
	loader Loader
	budget int64

	mu      sync.Mutex
	entries map[key]*entry
	used    int64
	clock   uint64
}

// New builds a cache over loader with the given byte budget; budget <= 0
// means DefaultBudget.
func New(loader Loader, budget int64) *Cache {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Cache{
		loader:  loader,
		budget:  budget,
		entries: make(map[key]*entry),
	}
}

// MatchingSize returns the smallest pyramid level that covers the requested
// drawing area.
func (c *Cache) MatchingSize(width, height float64) thumb.MipSize {
	for i, lv := range levels {
		if float64(lv.w) >= width && float64(lv.h) >= height {
			return thumb.MipSize(i)
		}
	}
	return thumb.MipSize(len(levels) - 1)
}

// Get returns the buffer for the image at the given level, pinning it until
// Release. A decode failure yields an unpinned 8x8 placeholder.
func (c *Cache) Get(id types.ImageID, mip thumb.MipSize) thumb.MipBuf {
	k := key{id, mip}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		e.pins++
		c.mu.Unlock()
		return e.buf
	}
	c.mu.Unlock()

	// Load outside the lock. Two goroutines racing for the same entry both
	// decode; the loser's work is dropped at insert. Rare enough not to be
	// worth a wait queue.
	buf := c.load(id, mip)
	if len(buf.Buf) == 0 || (buf.Width == placeholderSide && buf.Height == placeholderSide) {
		return buf
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok {
		e.pins++
		return e.buf
	}
	c.entries[k] = &entry{buf: buf, pins: 1}
	c.used += int64(len(buf.Buf))
	c.trim()
	return buf
}

// Release unpins a buffer obtained from Get. Placeholders and foreign
// buffers pass through harmlessly.
func (c *Cache) Release(buf *thumb.MipBuf) {
	if buf == nil || len(buf.Buf) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key{buf.ID, buf.Size}]
	if !ok || e.pins == 0 {
		return
	}
	e.pins--
	if e.pins == 0 {
		c.clock++
		e.stamp = c.clock
		if e.doomed {
			c.drop(key{buf.ID, buf.Size}, e)
		}
	}
}

// EvictAtSize drops one image's buffer at one level. A pinned buffer is
// doomed instead and goes away on its last Release.
func (c *Cache) EvictAtSize(id types.ImageID, mip thumb.MipSize) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{id, mip}
	e, ok := c.entries[k]
	if !ok {
		return
	}
	if e.pins > 0 {
		e.doomed = true
		return
	}
	c.drop(k, e)
}

// Used returns the cached byte count, for diagnostics.
func (c *Cache) Used() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *Cache) drop(k key, e *entry) {
	c.used -= int64(len(e.buf.Buf))
	delete(c.entries, k)
}

// trim evicts unpinned entries, oldest first, until the budget holds.
// Called with the lock held.
func (c *Cache) trim() {
	for c.used > c.budget {
		var victim key
		var ve *entry
		for k, e := range c.entries {
			if e.pins > 0 {
				continue
			}
			if ve == nil || e.stamp < ve.stamp {
				victim, ve = k, e
			}
		}
		if ve == nil {
			return
		}
		c.drop(victim, ve)
	}
}

func (c *Cache) load(id types.ImageID, mip thumb.MipSize) thumb.MipBuf {
	if c.loader == nil {
		return placeholder(id, mip)
	}
	src, err := c.loader(id)
	if err != nil {
		log.Debugf("mipmap load %d: %v", id, err)
		return placeholder(id, mip)
	}

	lv := levels[int(mip)]
	sb := src.Bounds()
	scale := float64(lv.w) / float64(sb.Dx())
	if s := float64(lv.h) / float64(sb.Dy()); s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)

	// cached buffers are BGRA
	buf := make([]byte, w*h*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = dst.Pix[i+2]
		buf[i+1] = dst.Pix[i+1]
		buf[i+2] = dst.Pix[i+0]
		buf[i+3] = dst.Pix[i+3]
	}
	return thumb.MipBuf{
		ID: id, Size: mip, Width: w, Height: h,
		Buf: buf, ColorSpace: types.ColorSpaceSRGB,
	}
}

func placeholder(id types.ImageID, mip thumb.MipSize) thumb.MipBuf {
	buf := make([]byte, placeholderSide*placeholderSide*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = 0x30
		buf[i+1] = 0x30
		buf[i+2] = 0x30
		buf[i+3] = 0xff
	}
	return thumb.MipBuf{
		ID: id, Size: mip,
		Width: placeholderSide, Height: placeholderSide,
		Buf: buf, ColorSpace: types.ColorSpaceNone,
	}
}
