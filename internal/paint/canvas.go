// Package paint defines the minimal 2D drawing interface the view layer
// renders through, so the geometry engine and the thumbnail compositor stay
// toolkit-agnostic. Two backends ship with it: a recorder used by tests and
// hit-test-only passes, and a raster backend on top of rasterx.
package paint

// Color is a straight-alpha RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// RGB builds an opaque color.
func RGB(r, g, b float64) Color { return Color{r, g, b, 1} }

// LineCap selects the stroke endpoint shape.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin selects the stroke corner shape.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Filter is the resampling hint used when a surface is the active source.
type Filter int

const (
	// FilterGood is smooth interpolation, the default.
	FilterGood Filter = iota
	// FilterNearest shows raw pixels; used for the 8x8 placeholder and for
	// exact 1:1 mip matches.
	FilterNearest
)

// GradientStop is one color stop of a linear gradient source.
type GradientStop struct {
	Offset float64
	Color  Color
}

// TextExtents describes the ink rectangle of a text run.
type TextExtents struct {
	Width    float64
	Height   float64
	XBearing float64
}

// Canvas is the drawing contract. The call vocabulary deliberately follows
// the classic path/fill/stroke model so adapters to native canvases stay
// mechanical. Coordinates are in device pixels unless transformed.
type Canvas interface {
	Save()
	Restore()

	Translate(x, y float64)
	Scale(sx, sy float64)

	SetLineWidth(w float64)
	SetLineCap(c LineCap)
	SetLineJoin(j LineJoin)

	SetSourceRGB(r, g, b float64)
	SetSourceRGBA(r, g, b, a float64)
	// SetSourceSurface makes a pixel surface the active source; the
	// following Fill or Paint blits it under the current transform.
	SetSourceSurface(s *Surface, x, y float64)
	SetFilter(f Filter)
	// SetLinearGradient makes an axial gradient the active source.
	SetLinearGradient(x0, y0, x1, y1 float64, stops []GradientStop)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	Arc(x, y, radius, angle1, angle2 float64)
	Rectangle(x, y, w, h float64)
	ClosePath()
	NewPath()
	NewSubPath()
	Clip()

	Fill()
	FillPreserve()
	Stroke()
	StrokePreserve()
	// Paint fills the whole clip region with the active source.
	Paint()

	SetFontSize(px float64)
	SetFontBold(bold bool)
	TextExtents(s string) TextExtents
	// ShowText fills the text at the current point.
	ShowText(s string)
	// TextPath appends the text outline to the current path. Backends
	// without outline support may degrade this to a fill.
	TextPath(s string)
}

// SetColor sets col as the active plain-color source.
func SetColor(c Canvas, col Color) {
	c.SetSourceRGBA(col.R, col.G, col.B, col.A)
}
