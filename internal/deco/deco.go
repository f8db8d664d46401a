// Package deco computes thumbnail overlay decorations: where each control is
// drawn and whether the pointer hovers it. Draw and hit test come out of the
// same geometry, so the two can never disagree. Everything here is pure; the
// engine carries its inputs explicitly and never consults ambient state.
package deco

import (
	"math"

	"lumen/internal/paint"
	"lumen/pkg/types"
)

// Kind enumerates the overlay controls. Hit testing scans kinds in this
// order and the first hit wins, so the order is part of the contract.
type Kind int

const (
	// Desert is the "no control" sentinel.
	Desert Kind = iota
	Star1
	Star2
	Star3
	Star4
	Star5
	Reject
	Group
	Audio
	Altered

	kindEnd
)

// Err marks an undecided control slot.
const Err Kind = -1

// DecorationSizeLimit is the minimum thumbnail width, in pixels, below which
// no decorations are drawn or hit.
const DecorationSizeLimit = 40

// Engine holds the few pieces of UI state decoration geometry depends on.
// A zero DPI means 1.0.
type Engine struct {
	// DPI scales nominal pixel sizes for high-density displays.
	DPI float64
	// ExtendedOverlay selects the taller overlay layout with EXIF lines.
	ExtendedOverlay bool
	// ShowOverlays forces decorations even without a pointer over the
	// thumbnail.
	ShowOverlays bool
	// SelectedBorder is the fill color of set or hovered stars.
	SelectedBorder paint.Color
}

func (e *Engine) pixels(v float64) float64 {
	if e.DPI > 0 {
		return v * e.DPI
	}
	return v
}

// Process draws the control `what` (when c is non-nil) and reports whether
// the pointer at (px, py) hovers it. active enables hit testing: inactive
// controls draw their static state only. img may be nil during pure hit
// tests; rating- and reject-dependent styling then falls back to the empty
// state.
//
// The thumbnail squeezes five stars plus two symbols across its width: each
// is 2*r1 wide, spaced by r1, which is 14*r1 of content and 6*r1 of spacing;
// inner margins are 0.045*width.
func (e *Engine) Process(what Kind, active bool, c paint.Canvas, img *types.ImageInfo,
	width, height float64, zoom int, px, py float64, outline, font paint.Color) bool {

	hit := false

	r1 := math.Min(e.pixels(20.0)/2.0, 0.91*width/20.0)
	r2 := r1 / 2.5

	if c != nil {
		c.SetLineWidth(e.pixels(1))
		c.SetLineCap(paint.CapRound)
	}

	var x, y float64
	if zoom != 1 {
		if e.ExtendedOverlay {
			y = 0.93 * height
		} else {
			y = 0.955*height - r1
		}
	} else {
		y = 9.0 * r1
	}

	rejected := img != nil && img.Flags&types.FlagRejected != 0

	// which star does the pointer hover, if any; the last matching circle
	// wins the scan
	star := -1
	if active {
		for i := Star1; i <= Star5; i++ {
			if zoom != 1 {
				x = 0.5*width - 5.0*r1 + float64(i-Star1)*2.5*r1
			} else {
				x = 3.0*r1 + (float64(what-Star1)+1.5)*2.5*r1
			}
			if (px-x)*(px-x)+(py-y)*(py-y) < r1*r1 {
				star = int(i)
			}
		}
	}

	switch what {
	case Star1, Star2, Star3, Star4, Star5:
		if zoom != 1 {
			x = 0.5*width - 5.0*r1 + float64(what-Star1)*2.5*r1
		} else {
			x = 3.0*r1 + (float64(what-Star1)+1.5)*2.5*r1
		}

		if c != nil {
			paint.DrawStar(c, x, y, r1, r2)
		}

		switch {
		case active && star > int(what-Star1):
			// hovering display
			hit = true
			if c != nil {
				c.FillPreserve()
				paint.SetColor(c, e.SelectedBorder)
				c.Stroke()
				paint.SetColor(c, outline)
			}
		case c != nil && img != nil && img.Rating() > int(what-Star1) &&
			(star > int(what-Star1) || star == -1):
			// static display with stars set
			c.FillPreserve()
			paint.SetColor(c, e.SelectedBorder)
			c.Stroke()
			paint.SetColor(c, outline)
		case c != nil:
			// empty static display
			c.Stroke()
		}

	case Reject:
		if zoom != 1 {
			x = 0.045*width + r1
		} else {
			x = 3.0 * r1
		}

		if c != nil && rejected {
			c.SetSourceRGB(1, 0, 0)
		}

		if active && (px-x)*(px-x)+(py-y)*(py-y) < r1*r1 {
			hit = true
			if c != nil {
				c.NewSubPath()
				c.Arc(x, y, r1, 0, 2*math.Pi)
				c.Stroke()
			}
		}

		if c != nil {
			if rejected {
				c.SetLineWidth(e.pixels(1.5))
			}
			r3 := (r1 / math.Sqrt2) * 0.95
			c.MoveTo(x-r3, y-r3)
			c.LineTo(x+r3, y+r3)
			c.MoveTo(x+r3, y-r3)
			c.LineTo(x-r3, y+r3)
			c.ClosePath()
			c.Stroke()
			paint.SetColor(c, outline)
			c.SetLineWidth(e.pixels(1))
		}

	case Group:
		// aligned to the right, left of altered; own row unless previewing
		if zoom != 1 {
			x = width*0.955 - r1*4.5
			y = height * 0.045
		} else {
			x = (3.0 + 2.0 + 1.0 + 5*2.5 + 2.0 + 2.0) * r1
			y -= r1
		}
		if c != nil {
			c.Save()
			if img != nil && img.ID != img.GroupID {
				paint.SetColor(c, font)
			}
			paint.DrawGrouping(c, x, y, 2*r1, 2*r1)
			c.Restore()
		}
		if active && math.Abs(px-x-r1) <= 0.9*r1 && math.Abs(py-y-r1) <= 0.9*r1 {
			hit = true
		}

	case Audio:
		if zoom != 1 {
			x = width*0.955 - r1*6
			y = height*0.045 + r1
		} else {
			x = (3.0 + 2.0 + 1.0 + 5*2.5 + 2.0 + 6.0) * r1
		}
		if c != nil {
			paint.SetColor(c, font)
			paint.DrawAudio(c, x, y, r1)
		}
		if active && math.Abs(px-x) <= 1.2*r1 && math.Abs(py-y) <= 1.2*r1 {
			hit = true
		}

	case Altered:
		if zoom != 1 {
			x = width*0.955 - r1
			y = height*0.045 + r1
		} else {
			x = (3.0 + 2.0 + 1.0 + 5*2.5 + 2.0) * r1
		}
		if c != nil {
			paint.SetColor(c, font)
			paint.DrawAltered(c, x, y, r1)
		}
		if active && math.Abs(px-x) <= 1.2*r1 && math.Abs(py-y) <= 1.2*r1 {
			hit = true
		}

	default:
		// Desert and Err never hit
		return false
	}

	return hit
}

// GuessImageOver returns the control hovered by the pointer, or Desert. Only
// the metadata zone is considered (top half at zoom 1, bottom overlays
// otherwise handled by Process geometry), and thumbnails narrower than
// DecorationSizeLimit never expose controls.
func (e *Engine) GuessImageOver(width, height float64, zoom int, px, py float64) Kind {
	inMetadataZone := (px < width && py < height/2) || zoom > 1

	if (e.ShowOverlays || inMetadataZone) && width > DecorationSizeLimit {
		for k := Desert; k < kindEnd; k++ {
			if e.Process(k, true, nil, nil, width, height, zoom, px, py,
				paint.Color{}, paint.Color{}) {
				return k
			}
		}
	}
	return Desert
}
