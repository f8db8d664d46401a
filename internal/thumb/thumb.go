// Package thumb composites photo thumbnails: the cached pixel buffer, the
// frame, and the overlay decorations, for both grid cells and the single
// image preview. It pulls pixels from the mipmap cache on a best-effort
// basis and reports when a redraw with better data is needed.
package thumb

import (
	"lumen/internal/deco"
	"lumen/internal/paint"
	"lumen/pkg/types"
)

// MipSize indexes the mipmap pyramid, smallest first.
type MipSize int

// Mip7 and above hold near-fullsize buffers that are cheaper to rebuild
// than to keep cached once a copy lives in the preview slot.
const Mip7 MipSize = 7

// MipBuf is one cached thumbnail buffer in BGRA order. A zero-length Buf
// means the cache had nothing usable yet. ID and Size identify the cache
// entry the buffer was pinned from, so Release can find it again.
type MipBuf struct {
	ID         types.ImageID
	Size       MipSize
	Width      int
	Height     int
	Buf        []byte
	ColorSpace types.ColorSpace
}

// MipmapCache serves prescaled thumbnail buffers. Get is best-effort: it may
// return a smaller level, or an 8x8 placeholder when the image cannot be
// decoded at all.
type MipmapCache interface {
	MatchingSize(width, height float64) MipSize
	Get(id types.ImageID, mip MipSize) MipBuf
	Release(buf *MipBuf)
	EvictAtSize(id types.ImageID, mip MipSize)
}

// ImageCache serves image metadata. Get blocks until the record is loaded;
// TestGet returns immediately and may miss.
type ImageCache interface {
	Get(id types.ImageID) (types.ImageInfo, bool)
	TestGet(id types.ImageID) (types.ImageInfo, bool)
}

// RowTransform converts one row of pixels between color spaces, in and out
// both 4 bytes per pixel.
type RowTransform func(in, out []byte, pixels int)

// ColorProfiles guards display transforms behind a read lock; the transform
// for a row must only run while the lock is held.
type ColorProfiles interface {
	RLock()
	RUnlock()
	// Transform returns the row transform for the given thumbnail color
	// space, or nil when the buffer should go to the screen untouched.
	// Only sRGB and AdobeRGB thumbnails are color managed.
	Transform(cs types.ColorSpace) RowTransform
}

// Catalog answers the per-image questions the compositor needs each frame.
type Catalog interface {
	IsSelected(id types.ImageID) bool
	IsGrouped(id types.ImageID) bool
	ColorLabels(id types.ImageID) []int
	IsAltered(id types.ImageID) bool
	TextPath(id types.ImageID) (string, bool)
}

// Palette holds the theme colors the compositor paints with. Alpha 0 on a
// border color disables that border.
type Palette struct {
	ThumbBG      paint.Color
	ThumbFont    paint.Color
	ThumbOutline paint.Color

	SelectedBG      paint.Color
	SelectedFont    paint.Color
	SelectedOutline paint.Color

	HoverBG      paint.Color
	HoverFont    paint.Color
	HoverOutline paint.Color

	SelectedBorder          paint.Color
	CullingSelectedBorder   paint.Color
	FilmstripSelectedBorder paint.Color
	PreviewHoverBorder      paint.Color
}

// DefaultPalette mirrors the stock dark theme.
func DefaultPalette() Palette {
	return Palette{
		ThumbBG:      paint.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		ThumbFont:    paint.Color{R: 0.425, G: 0.425, B: 0.425, A: 1},
		ThumbOutline: paint.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},

		SelectedBG:      paint.Color{R: 0.35, G: 0.35, B: 0.35, A: 1},
		SelectedFont:    paint.Color{R: 0.525, G: 0.525, B: 0.525, A: 1},
		SelectedOutline: paint.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},

		HoverBG:      paint.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		HoverFont:    paint.Color{R: 0.675, G: 0.675, B: 0.675, A: 1},
		HoverOutline: paint.Color{R: 0.35, G: 0.35, B: 0.35, A: 1},

		SelectedBorder:          paint.Color{R: 0.9, G: 0.9, B: 0.9, A: 1},
		CullingSelectedBorder:   paint.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
		FilmstripSelectedBorder: paint.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
		PreviewHoverBorder:      paint.Color{R: 0.9, G: 0.9, B: 0.9, A: 0},
	}
}

// Request carries everything one thumbnail exposure needs. The Full* slot
// pointers, when set, let the caller keep the converted full-preview buffer
// alive across frames for pan and zoom; the compositor owns invalidation.
// The slot pointers are all-or-nothing: either every FullSurface* field is
// wired to caller storage or FullSurface is nil.
type Request struct {
	ImageOver *deco.Kind
	ImageID   types.ImageID
	Canvas    paint.Canvas
	Width     float64
	Height    float64
	Zoom      int
	Px        float64
	Py        float64

	FullPreview bool
	ImageOnly   bool
	NoDeco      bool
	Filmstrip   bool
	MouseOver   bool

	FullZoom    float64
	FullZoom100 float64
	FullX       float64
	FullY       float64

	// single-slot surface cache, shared with the caller
	FullSurface     **paint.Surface
	FullBuf         *[]byte
	FullSurfaceID   *types.ImageID
	FullSurfaceMip  *MipSize
	FullSurfaceWd   *int
	FullSurfaceHt   *int
	FullSurfaceLock *int32

	FullW1    *float64
	FullH1    *float64
	FullMaxDX *float64
	FullMaxDY *float64
}
