package thumb_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/config"
	"lumen/internal/deco"
	"lumen/internal/paint"
	"lumen/internal/thumb"
	"lumen/pkg/types"
)

type fakeMips struct {
	buf     thumb.MipBuf
	match   thumb.MipSize
	gets    int
	evicted []thumb.MipSize
}

func (f *fakeMips) MatchingSize(w, h float64) thumb.MipSize     { return f.match }
func (f *fakeMips) Get(types.ImageID, thumb.MipSize) thumb.MipBuf { f.gets++; return f.buf }
func (f *fakeMips) Release(*thumb.MipBuf)                       {}
func (f *fakeMips) EvictAtSize(_ types.ImageID, mip thumb.MipSize) {
	f.evicted = append(f.evicted, mip)
}

func bgraBuf(size thumb.MipSize, w, h int) thumb.MipBuf {
	return thumb.MipBuf{
		Size: size, Width: w, Height: h,
		Buf:        make([]byte, w*h*4),
		ColorSpace: types.ColorSpaceDisplay,
	}
}

type fakeImages struct {
	info types.ImageInfo
	ok   bool
}

func (f *fakeImages) Get(types.ImageID) (types.ImageInfo, bool)     { return f.info, f.ok }
func (f *fakeImages) TestGet(types.ImageID) (types.ImageInfo, bool) { return f.info, f.ok }

type fakeCatalog struct {
	selected bool
	grouped  bool
	altered  bool
	labels   []int
}

func (f *fakeCatalog) IsSelected(types.ImageID) bool       { return f.selected }
func (f *fakeCatalog) IsGrouped(types.ImageID) bool        { return f.grouped }
func (f *fakeCatalog) ColorLabels(types.ImageID) []int     { return f.labels }
func (f *fakeCatalog) IsAltered(types.ImageID) bool        { return f.altered }
func (f *fakeCatalog) TextPath(types.ImageID) (string, bool) { return "", false }

// slot is caller-side storage for the single full-preview surface.
type slot struct {
	surface *paint.Surface
	rgb     []byte
	id      types.ImageID
	mip     thumb.MipSize
	wd, ht  int
	lock    int32
}

func (s *slot) wire(r *thumb.Request) {
	r.FullSurface = &s.surface
	r.FullBuf = &s.rgb
	r.FullSurfaceID = &s.id
	r.FullSurfaceMip = &s.mip
	r.FullSurfaceWd = &s.wd
	r.FullSurfaceHt = &s.ht
	r.FullSurfaceLock = &s.lock
}

func newCompositor(mips *fakeMips, images *fakeImages, cat *fakeCatalog) *thumb.Compositor {
	return &thumb.Compositor{
		Images:  images,
		Mips:    mips,
		Catalog: cat,
		Conf:    config.New(),
		Palette: thumb.DefaultPalette(),
		DPI:     1,
	}
}

func newRequest(id types.ImageID, over *deco.Kind) *thumb.Request {
	return &thumb.Request{
		ImageOver: over,
		ImageID:   id,
		Canvas:    paint.NewRecorder(),
		Width:     160,
		Height:    160,
		Zoom:      4,
		Px:        10000,
		Py:        -1,
	}
}

func TestConversionSwapsChannels(t *testing.T) {
	// cached buffers are BGRA, the surface is RGBA
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 2, 2)}
	for i := 0; i < 4; i++ {
		mips.buf.Buf[i*4+0] = 10 // blue
		mips.buf.Buf[i*4+1] = 20 // green
		mips.buf.Buf[i*4+2] = 30 // red
		mips.buf.Buf[i*4+3] = 0
	}
	c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})

	var surface *paint.Surface
	ok := c.GetSurface(9, 2, 2, &surface)
	require.True(t, ok)
	require.NotNil(t, surface)

	assert.Equal(t, byte(30), surface.Pix[0], "red channel")
	assert.Equal(t, byte(20), surface.Pix[1], "green channel")
	assert.Equal(t, byte(10), surface.Pix[2], "blue channel")
	assert.Equal(t, byte(0xff), surface.Pix[3], "alpha forced opaque")
}

func TestGetSurfaceMissing(t *testing.T) {
	t.Run("wrong sized buffer is missing", func(t *testing.T) {
		// requested level 3, got level 1: caller should retry later
		mips := &fakeMips{match: 3, buf: bgraBuf(1, 100, 100)}
		c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})

		var surface *paint.Surface
		ok := c.GetSurface(9, 200, 200, &surface)
		assert.False(t, ok)
		assert.Nil(t, surface)
	})

	t.Run("8x8 placeholder is served as is", func(t *testing.T) {
		// the placeholder never improves, so it must not trigger retries
		mips := &fakeMips{match: 3, buf: bgraBuf(1, 8, 8)}
		c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})

		var surface *paint.Surface
		ok := c.GetSurface(9, 200, 200, &surface)
		assert.True(t, ok)
		assert.NotNil(t, surface)
	})
}

func TestExposeMissing(t *testing.T) {
	t.Run("wrong sized buffer reports missing", func(t *testing.T) {
		mips := &fakeMips{match: 3, buf: bgraBuf(1, 100, 100)}
		c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})
		over := deco.Desert
		missing := c.Expose(newRequest(9, &over))
		assert.True(t, missing)
	})

	t.Run("placeholder does not report missing", func(t *testing.T) {
		mips := &fakeMips{match: 3, buf: bgraBuf(1, 8, 8)}
		c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})
		over := deco.Desert
		missing := c.Expose(newRequest(9, &over))
		assert.False(t, missing)
	})
}

func TestFullSurfaceSlot(t *testing.T) {
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 4, 4)}
	c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})

	var s slot
	over := deco.Desert

	expose := func(id types.ImageID) {
		req := newRequest(id, &over)
		req.FullPreview = true
		s.wire(req)
		c.Expose(req)
	}

	expose(5)
	require.NotNil(t, s.surface, "first exposure fills the slot")
	assert.Equal(t, types.ImageID(5), s.id)
	assert.Equal(t, thumb.MipSize(2), s.mip)
	assert.Equal(t, 1, mips.gets)

	expose(5)
	assert.Equal(t, 1, mips.gets, "matching slot is reused without a cache hit")

	expose(6)
	assert.Equal(t, 2, mips.gets, "id change invalidates the slot")
	assert.Equal(t, types.ImageID(6), s.id)

	mips.match = 3
	mips.buf = bgraBuf(3, 4, 4)
	expose(6)
	assert.Equal(t, 3, mips.gets, "mip change invalidates the slot")
	assert.Equal(t, thumb.MipSize(3), s.mip)

	req := newRequest(6, &over)
	req.FullPreview = false
	s.wire(req)
	c.Expose(req)
	assert.Equal(t, 4, mips.gets, "leaving full preview invalidates the slot")
}

func TestEvictLargeMipsAfterCaching(t *testing.T) {
	// once the preview slot holds a converted copy of a near-fullsize
	// level, the cache entry is dropped to free space
	mips := &fakeMips{match: thumb.Mip7, buf: bgraBuf(thumb.Mip7, 4, 4)}
	c := newCompositor(mips, &fakeImages{}, &fakeCatalog{})

	var s slot
	over := deco.Desert
	req := newRequest(5, &over)
	req.FullPreview = true
	s.wire(req)
	c.Expose(req)

	require.Len(t, mips.evicted, 1)
	assert.Equal(t, thumb.Mip7, mips.evicted[0])
}

func TestHoverOverlay(t *testing.T) {
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 4, 4)}
	images := &fakeImages{info: types.ImageInfo{ID: 5, GroupID: 5, Filename: "a.raf", Flags: 2}, ok: true}
	c := newCompositor(mips, images, &fakeCatalog{})

	over := deco.Desert
	req := newRequest(5, &over)
	req.MouseOver = true
	rec := paint.NewRecorder()
	req.Canvas = rec
	c.Expose(req)

	assert.Greater(t, rec.Count("gradient"), 0, "hover darkens the bottom strip")
}

func TestImageOverResolution(t *testing.T) {
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 4, 4)}
	images := &fakeImages{info: types.ImageInfo{ID: 5, GroupID: 5, Filename: "a.raf", Flags: 2}, ok: true}
	c := newCompositor(mips, images, &fakeCatalog{})

	const w, h = 160.0, 160.0
	r1 := math.Min(10, 0.91*w/20)
	y := 0.955*h - r1
	star3x := 0.5*w - 5*r1 + 2*2.5*r1

	over := deco.Desert
	req := newRequest(5, &over)
	req.MouseOver = true
	req.Px = star3x
	req.Py = y
	c.Expose(req)

	assert.Equal(t, deco.Star3, over, "last hit star wins")
}

func TestRejectedImageDrawsNoStars(t *testing.T) {
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 4, 4)}
	images := &fakeImages{info: types.ImageInfo{ID: 5, GroupID: 5, Filename: "a.raf", Flags: 6}, ok: true}
	c := newCompositor(mips, images, &fakeCatalog{})

	over := deco.Desert
	req := newRequest(5, &over)
	req.MouseOver = true
	rec := paint.NewRecorder()
	req.Canvas = rec
	c.Expose(req)

	// the star path is ten line segments; the reject cross uses four
	var lineOps int
	for _, op := range rec.Ops {
		if op.Name == "line_to" {
			lineOps++
		}
	}
	assert.Less(t, lineOps, 10, "no star polygons for a rejected image")
}

func TestImageOnlyExposeSkipsDecorations(t *testing.T) {
	mips := &fakeMips{match: 2, buf: bgraBuf(2, 4, 4)}
	images := &fakeImages{info: types.ImageInfo{ID: 5, GroupID: 5, Filename: "a.raf", Flags: 3}, ok: true}
	cat := &fakeCatalog{selected: true, labels: []int{0, 2}}
	c := newCompositor(mips, images, cat)

	rec := paint.NewRecorder()
	c.ImageOnlyExpose(5, rec, 160, 160, 10, 10)

	assert.Zero(t, rec.Count("arc"), "no decoration circles in image-only mode")
	assert.Zero(t, rec.Count("gradient"), "no hover overlay in image-only mode")
}
