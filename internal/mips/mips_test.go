package mips_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/errors"
	"lumen/internal/mips"
	"lumen/internal/thumb"
	"lumen/pkg/types"
)

// countingLoader serves a solid-color source image and counts decodes.
type countingLoader struct {
	w, h  int
	loads int
	fail  bool
}

func (l *countingLoader) load(id types.ImageID) (image.Image, error) {
	l.loads++
	if l.fail {
		return nil, errors.New("decode failed")
	}
	img := image.NewRGBA(image.Rect(0, 0, l.w, l.h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 0xff // red
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

func TestMatchingSize(t *testing.T) {
	c := mips.New(nil, 0)

	assert.Equal(t, thumb.MipSize(0), c.MatchingSize(100, 80),
		"small areas map to the smallest level")
	assert.Equal(t, thumb.MipSize(1), c.MatchingSize(200, 100),
		"one dimension over the level bumps to the next")
	assert.Equal(t, thumb.MipSize(7), c.MatchingSize(9000, 6000),
		"oversized requests cap at the top level")
}

func TestGetScalesToLevel(t *testing.T) {
	ld := &countingLoader{w: 360, h: 220}
	c := mips.New(ld.load, 0)

	buf := c.Get(1, 0)
	require.NotEmpty(t, buf.Buf)
	assert.Equal(t, 180, buf.Width, "source halves to fit level 0")
	assert.Equal(t, 110, buf.Height)
	assert.Equal(t, types.ImageID(1), buf.ID)

	// red source comes back as BGRA
	assert.Equal(t, byte(0x00), buf.Buf[0], "blue channel")
	assert.Equal(t, byte(0xff), buf.Buf[2], "red channel")
	assert.Equal(t, byte(0xff), buf.Buf[3], "alpha")

	c.Release(&buf)

	again := c.Get(1, 0)
	c.Release(&again)
	assert.Equal(t, 1, ld.loads, "second get should hit the cache")
}

func TestSmallSourceIsNotUpscaled(t *testing.T) {
	ld := &countingLoader{w: 90, h: 60}
	c := mips.New(ld.load, 0)

	buf := c.Get(1, 2)
	defer c.Release(&buf)
	assert.Equal(t, 90, buf.Width)
	assert.Equal(t, 60, buf.Height)
}

func TestPlaceholderOnDecodeFailure(t *testing.T) {
	ld := &countingLoader{fail: true}
	c := mips.New(ld.load, 0)

	buf := c.Get(5, 0)
	assert.Equal(t, 8, buf.Width)
	assert.Equal(t, 8, buf.Height)
	assert.Equal(t, types.ColorSpaceNone, buf.ColorSpace)
	c.Release(&buf)

	c.Get(5, 0)
	assert.Equal(t, 2, ld.loads, "placeholders are not cached")
	assert.Zero(t, c.Used())
}

func TestEvictAtSize(t *testing.T) {
	ld := &countingLoader{w: 360, h: 220}
	c := mips.New(ld.load, 0)

	buf := c.Get(1, 0)
	require.NotZero(t, c.Used())

	t.Run("pinned buffers are doomed, not dropped", func(t *testing.T) {
		c.EvictAtSize(1, 0)
		assert.NotZero(t, c.Used(), "entry survives while pinned")
		c.Release(&buf)
		assert.Zero(t, c.Used(), "last release drops the doomed entry")
	})

	t.Run("unpinned buffers go immediately", func(t *testing.T) {
		b := c.Get(1, 0)
		c.Release(&b)
		c.EvictAtSize(1, 0)
		assert.Zero(t, c.Used())
	})

	t.Run("unknown entries are a no-op", func(t *testing.T) {
		c.EvictAtSize(99, 3)
	})
}

func TestBudgetEvictsOldestUnpinned(t *testing.T) {
	ld := &countingLoader{w: 360, h: 220}
	// one level-0 buffer is 180*110*4 bytes; budget fits exactly one
	c := mips.New(ld.load, 180*110*4+1)

	b1 := c.Get(1, 0)
	c.Release(&b1)
	b2 := c.Get(2, 0)
	c.Release(&b2)
	require.Equal(t, 2, ld.loads)

	b1 = c.Get(1, 0)
	c.Release(&b1)
	assert.Equal(t, 3, ld.loads, "image 1 was evicted to make room for image 2")

	b2 = c.Get(2, 0)
	c.Release(&b2)
	assert.Equal(t, 4, ld.loads, "image 2 was evicted in turn")
}

type fakeMeta map[types.ImageID]types.ImageInfo

func (m fakeMeta) Image(id types.ImageID) (types.ImageInfo, bool) {
	info, ok := m[id]
	return info, ok
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	meta := fakeMeta{1: {ID: 1, Filename: path}}
	load := mips.FileLoader(meta)

	t.Run("decodes catalog files", func(t *testing.T) {
		img, err := load(1)
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := load(2)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		broken := fakeMeta{3: {ID: 3, Filename: filepath.Join(dir, "gone.png")}}
		_, err := mips.FileLoader(broken)(3)
		assert.Error(t, err)
	})
}
