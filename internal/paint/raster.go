package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Raster renders Canvas calls into an RGBA surface using rasterx. It is the
// outermost adapter: only cmd-level code and tests that want real pixels
// construct one. The transform stack supports translate/scale, which is all
// the view layer uses; arcs are flattened to cubic Beziers in user space so
// non-uniform scales stay exact.
type Raster struct {
	dst  *Surface
	img  *image.RGBA
	clip image.Rectangle

	state  rasterState
	stack  []rasterState
	path   []segment
	curX   float64
	curY   float64
	hasCur bool
}

type sourceKind int

const (
	srcPlain sourceKind = iota
	srcSurface
	srcGradient
)

type rasterState struct {
	tx, ty, sx, sy float64
	lineWidth      float64
	lineCap        LineCap
	lineJoin       LineJoin
	source         sourceKind
	color          Color
	surf           *Surface
	surfX, surfY   float64
	filter         Filter
	grad           gradient
	fontSize       float64
	fontBold       bool
	clip           image.Rectangle
}

type gradient struct {
	x0, y0, x1, y1 float64
	stops          []GradientStop
}

type segKind int

const (
	segMove segKind = iota
	segLine
	segCube
	segClose
)

type segment struct {
	kind segKind
	pts  [6]float64
}

// NewRaster returns a raster canvas drawing into dst.
func NewRaster(dst *Surface) *Raster {
	r := &Raster{dst: dst, img: dst.RGBA()}
	r.clip = r.img.Bounds()
	r.state = rasterState{
		sx: 1, sy: 1,
		lineWidth: 1,
		color:     Color{0, 0, 0, 1},
		fontSize:  12,
		clip:      r.clip,
	}
	return r
}

// Surface returns the destination surface.
func (r *Raster) Surface() *Surface { return r.dst }

func (r *Raster) xform(x, y float64) (float64, float64) {
	return x*r.state.sx + r.state.tx, y*r.state.sy + r.state.ty
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.state)
}

func (r *Raster) Restore() {
	if n := len(r.stack); n > 0 {
		r.state = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
}

func (r *Raster) Translate(x, y float64) {
	r.state.tx += x * r.state.sx
	r.state.ty += y * r.state.sy
}

func (r *Raster) Scale(sx, sy float64) {
	r.state.sx *= sx
	r.state.sy *= sy
}

func (r *Raster) SetLineWidth(w float64) { r.state.lineWidth = w }
func (r *Raster) SetLineCap(c LineCap)   { r.state.lineCap = c }
func (r *Raster) SetLineJoin(j LineJoin) { r.state.lineJoin = j }

func (r *Raster) SetSourceRGB(red, g, b float64) {
	r.state.source = srcPlain
	r.state.color = Color{red, g, b, 1}
}

func (r *Raster) SetSourceRGBA(red, g, b, a float64) {
	r.state.source = srcPlain
	r.state.color = Color{red, g, b, a}
}

func (r *Raster) SetSourceSurface(s *Surface, x, y float64) {
	r.state.source = srcSurface
	r.state.surf = s
	r.state.surfX, r.state.surfY = x, y
}

func (r *Raster) SetFilter(f Filter) { r.state.filter = f }

func (r *Raster) SetLinearGradient(x0, y0, x1, y1 float64, stops []GradientStop) {
	dx0, dy0 := r.xform(x0, y0)
	dx1, dy1 := r.xform(x1, y1)
	r.state.source = srcGradient
	r.state.grad = gradient{dx0, dy0, dx1, dy1, stops}
}

func (r *Raster) MoveTo(x, y float64) {
	dx, dy := r.xform(x, y)
	r.path = append(r.path, segment{kind: segMove, pts: [6]float64{dx, dy}})
	r.curX, r.curY, r.hasCur = dx, dy, true
}

func (r *Raster) LineTo(x, y float64) {
	if !r.hasCur {
		r.MoveTo(x, y)
		return
	}
	dx, dy := r.xform(x, y)
	r.path = append(r.path, segment{kind: segLine, pts: [6]float64{dx, dy}})
	r.curX, r.curY = dx, dy
}

func (r *Raster) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	dx1, dy1 := r.xform(x1, y1)
	dx2, dy2 := r.xform(x2, y2)
	dx3, dy3 := r.xform(x3, y3)
	if !r.hasCur {
		r.path = append(r.path, segment{kind: segMove, pts: [6]float64{dx1, dy1}})
	}
	r.path = append(r.path, segment{kind: segCube, pts: [6]float64{dx1, dy1, dx2, dy2, dx3, dy3}})
	r.curX, r.curY, r.hasCur = dx3, dy3, true
}

// Arc flattens the circular arc into Beziers, one per quarter turn.
func (r *Raster) Arc(x, y, radius, a1, a2 float64) {
	if a2 < a1 {
		a2 += 2 * math.Pi
	}
	startX := x + radius*math.Cos(a1)
	startY := y + radius*math.Sin(a1)
	if r.hasCur {
		r.LineTo(startX, startY)
	} else {
		r.MoveTo(startX, startY)
	}
	for a1 < a2-1e-9 {
		step := math.Min(math.Pi/2, a2-a1)
		b := a1 + step
		// cubic approximation of the arc segment [a1, b]
		k := 4.0 / 3.0 * math.Tan(step/4)
		c1x := x + radius*(math.Cos(a1)-k*math.Sin(a1))
		c1y := y + radius*(math.Sin(a1)+k*math.Cos(a1))
		c2x := x + radius*(math.Cos(b)+k*math.Sin(b))
		c2y := y + radius*(math.Sin(b)-k*math.Cos(b))
		r.CurveTo(c1x, c1y, c2x, c2y, x+radius*math.Cos(b), y+radius*math.Sin(b))
		a1 = b
	}
}

func (r *Raster) Rectangle(x, y, w, h float64) {
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.ClosePath()
}

func (r *Raster) ClosePath() {
	r.path = append(r.path, segment{kind: segClose})
	r.hasCur = false
}

func (r *Raster) NewPath() {
	r.path = r.path[:0]
	r.hasCur = false
}

func (r *Raster) NewSubPath() {
	r.hasCur = false
}

func (r *Raster) Clip() {
	bb := r.pathBounds()
	r.state.clip = r.state.clip.Intersect(bb)
	r.NewPath()
}

func (r *Raster) pathBounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range r.path {
		if s.kind == segClose {
			continue
		}
		n := 2
		if s.kind == segCube {
			n = 6
		}
		for i := 0; i < n; i += 2 {
			minX = math.Min(minX, s.pts[i])
			maxX = math.Max(maxX, s.pts[i])
			minY = math.Min(minY, s.pts[i+1])
			maxY = math.Max(maxY, s.pts[i+1])
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

func fixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func (r *Raster) feed(adder rasterx.Adder) {
	started := false
	for _, s := range r.path {
		switch s.kind {
		case segMove:
			if started {
				adder.Stop(false)
			}
			adder.Start(fixedP(s.pts[0], s.pts[1]))
			started = true
		case segLine:
			adder.Line(fixedP(s.pts[0], s.pts[1]))
		case segCube:
			adder.CubeBezier(fixedP(s.pts[0], s.pts[1]), fixedP(s.pts[2], s.pts[3]),
				fixedP(s.pts[4], s.pts[5]))
		case segClose:
			if started {
				adder.Stop(true)
				started = false
			}
		}
	}
	if started {
		adder.Stop(false)
	}
}

func (r *Raster) nrgba() color.NRGBA {
	c := r.state.color
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (r *Raster) scanner() (*rasterx.ScannerGV, int, int) {
	b := r.img.Bounds().Intersect(r.state.clip)
	w, h := r.img.Bounds().Dx(), r.img.Bounds().Dy()
	sc := rasterx.NewScannerGV(w, h, r.img, b)
	return sc, w, h
}

func (r *Raster) fillPath() {
	switch r.state.source {
	case srcSurface:
		r.blitSurface(r.pathBounds())
	case srcGradient:
		r.fillGradient(r.pathBounds())
	default:
		sc, w, h := r.scanner()
		filler := rasterx.NewFiller(w, h, sc)
		filler.SetColor(r.nrgba())
		r.feed(filler)
		filler.Draw()
		filler.Clear()
	}
}

func (r *Raster) Fill() {
	r.fillPath()
	r.NewPath()
}

func (r *Raster) FillPreserve() {
	r.fillPath()
}

func (r *Raster) strokePath() {
	if r.state.source != srcPlain {
		return
	}
	sc, w, h := r.scanner()
	dasher := rasterx.NewDasher(w, h, sc)
	width := r.state.lineWidth * r.state.sx
	var capFn rasterx.CapFunc
	switch r.state.lineCap {
	case CapRound:
		capFn = rasterx.RoundCap
	case CapSquare:
		capFn = rasterx.SquareCap
	default:
		capFn = rasterx.ButtCap
	}
	var join rasterx.JoinMode
	switch r.state.lineJoin {
	case JoinRound:
		join = rasterx.Round
	case JoinBevel:
		join = rasterx.Bevel
	default:
		join = rasterx.Miter
	}
	dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), capFn, capFn,
		rasterx.RoundGap, join, nil, 0)
	dasher.SetColor(r.nrgba())
	r.feed(dasher)
	dasher.Draw()
	dasher.Clear()
}

func (r *Raster) Stroke() {
	r.strokePath()
	r.NewPath()
}

func (r *Raster) StrokePreserve() {
	r.strokePath()
}

func (r *Raster) Paint() {
	switch r.state.source {
	case srcSurface:
		r.blitSurface(r.state.clip)
	case srcGradient:
		r.fillGradient(r.state.clip)
	default:
		col := r.nrgba()
		rect := r.img.Bounds().Intersect(r.state.clip)
		uni := image.NewUniform(col)
		xdraw.Draw(r.img, rect, uni, image.Point{}, xdraw.Over)
	}
}

// blitSurface draws the active source surface, scaled by the current
// transform, restricted to rect and the clip.
func (r *Raster) blitSurface(rect image.Rectangle) {
	s := r.state.surf
	if s == nil {
		return
	}
	x0, y0 := r.xform(r.state.surfX, r.state.surfY)
	x1, y1 := r.xform(r.state.surfX+float64(s.W), r.state.surfY+float64(s.H))
	dest := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)))
	area := dest.Intersect(rect).Intersect(r.state.clip).Intersect(r.img.Bounds())
	if area.Empty() {
		return
	}
	src := s.RGBA()
	var scaler xdraw.Scaler = xdraw.ApproxBiLinear
	if r.state.filter == FilterNearest {
		scaler = xdraw.NearestNeighbor
	}
	// scale into the full destination rect, clipped to area
	scaler.Scale(clippedImage{r.img, area}, dest, src, src.Bounds(), xdraw.Src, nil)
}

// clippedImage restricts writes to a sub-rectangle.
type clippedImage struct {
	*image.RGBA
	area image.Rectangle
}

func (c clippedImage) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.area) {
		c.RGBA.Set(x, y, col)
	}
}

func (r *Raster) fillGradient(rect image.Rectangle) {
	g := r.state.grad
	if len(g.stops) == 0 {
		return
	}
	area := rect.Intersect(r.state.clip).Intersect(r.img.Bounds())
	axx, axy := g.x1-g.x0, g.y1-g.y0
	den := axx*axx + axy*axy
	if den == 0 {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			t := ((float64(x)-g.x0)*axx + (float64(y)-g.y0)*axy) / den
			col := gradientAt(g.stops, t)
			blend(r.img, x, y, col)
		}
	}
}

func gradientAt(stops []GradientStop, t float64) Color {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			span := stops[i].Offset - stops[i-1].Offset
			f := 0.0
			if span > 0 {
				f = (t - stops[i-1].Offset) / span
			}
			a, b := stops[i-1].Color, stops[i].Color
			return Color{
				a.R + (b.R-a.R)*f,
				a.G + (b.G-a.G)*f,
				a.B + (b.B-a.B)*f,
				a.A + (b.A-a.A)*f,
			}
		}
	}
	return stops[len(stops)-1].Color
}

func blend(img *image.RGBA, x, y int, c Color) {
	src := color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
	xdraw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(src), image.Point{}, xdraw.Over)
}

func (r *Raster) SetFontSize(px float64) { r.state.fontSize = px }
func (r *Raster) SetFontBold(bold bool)  { r.state.fontBold = bold }

// TextExtents measures with the fixed bitmap face; the fallback raster
// adapter does not scale glyphs.
func (r *Raster) TextExtents(s string) TextExtents {
	w := font.MeasureString(basicfont.Face7x13, s)
	return TextExtents{Width: float64(w) / 64, Height: 13}
}

func (r *Raster) ShowText(s string) {
	d := &font.Drawer{
		Dst:  clippedImage{r.img, r.state.clip},
		Src:  image.NewUniform(r.nrgba()),
		Face: basicfont.Face7x13,
		Dot:  fixedP(r.curX, r.curY),
	}
	d.DrawString(s)
}

// TextPath degrades to a plain fill; the bitmap face has no outlines.
func (r *Raster) TextPath(s string) {
	r.ShowText(s)
}
