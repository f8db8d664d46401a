package paint

import "math"

// DrawStar appends a five-pointed star path centered at (x, y), with outer
// radius r1 and inner radius r2. The caller fills or strokes it.
func DrawStar(c Canvas, x, y, r1, r2 float64) {
	const points = 5
	c.NewSubPath()
	for k := 0; k < 2*points; k++ {
		r := r1
		if k%2 == 1 {
			r = r2
		}
		a := -math.Pi/2 + float64(k)*math.Pi/points
		px := x + r*math.Cos(a)
		py := y + r*math.Sin(a)
		if k == 0 {
			c.MoveTo(px, py)
		} else {
			c.LineTo(px, py)
		}
	}
	c.ClosePath()
}

// DrawAltered strokes the "history stack present" swirl inside a circle of
// radius r centered at (x, y).
func DrawAltered(c Canvas, x, y, r float64) {
	c.NewSubPath()
	c.Arc(x, y, r, 0, 2*math.Pi)
	dx := r * math.Cos(math.Pi/8)
	dy := r * math.Sin(math.Pi/8)
	c.MoveTo(x-dx, y-dy)
	c.CurveTo(x, y-2*dy, x, y+2*dy, x+dx, y+dy)
	c.MoveTo(x-0.20*dx, y+0.8*dy)
	c.LineTo(x-0.80*dx, y+0.8*dy)
	c.MoveTo(x+0.20*dx, y-0.8*dy)
	c.LineTo(x+0.80*dx, y-0.8*dy)
	c.MoveTo(x+0.50*dx, y-0.8*dy-0.3*dx)
	c.LineTo(x+0.50*dx, y-0.8*dy+0.3*dx)
	c.Stroke()
}

// DrawAudio strokes a speaker with three sound arcs, sized to a circle of
// radius r centered at (x, y).
func DrawAudio(c Canvas, x, y, r float64) {
	d := 2.0 * r

	c.Save()
	c.Translate(x-d/2, y-d/2)
	c.Scale(d, d)

	c.Rectangle(0.05, 0.4, 0.2, 0.2)
	c.MoveTo(0.25, 0.6)
	c.LineTo(0.45, 0.77)
	c.LineTo(0.45, 0.23)
	c.LineTo(0.25, 0.4)

	c.NewSubPath()
	c.Arc(0.2, 0.5, 0.45, -(35.0/180.0)*math.Pi, (35.0/180.0)*math.Pi)
	c.NewSubPath()
	c.Arc(0.2, 0.5, 0.6, -(35.0/180.0)*math.Pi, (35.0/180.0)*math.Pi)
	c.NewSubPath()
	c.Arc(0.2, 0.5, 0.75, -(35.0/180.0)*math.Pi, (35.0/180.0)*math.Pi)

	c.Restore()
	c.Stroke()
}

// DrawGrouping strokes the group marker: two offset frames suggesting a
// stack of images, drawn inside the (x, y, w, h) box.
func DrawGrouping(c Canvas, x, y, w, h float64) {
	c.Save()
	c.Translate(x, y)
	c.Scale(w, h)
	c.SetLineWidth(0.06)
	c.Rectangle(0.3, 0.05, 0.65, 0.65)
	c.Stroke()
	c.Rectangle(0.05, 0.3, 0.65, 0.65)
	c.Stroke()
	c.Restore()
}

// Label swatch colors by label index; index 7 is the unfilled outline drawn
// for positions whose label is absent while others are present.
var labelColors = []Color{
	{0.9, 0.0, 0.0, 1},
	{0.9, 0.9, 0.0, 1},
	{0.0, 0.9, 0.0, 1},
	{0.0, 0.0, 0.9, 1},
	{0.9, 0.0, 0.9, 1},
	{0.3, 0.3, 0.3, 1},
	{0.3, 0.3, 0.3, 1},
	{0.45, 0.45, 0.45, 1},
}

// DrawLabel paints one color-label swatch: a filled circle with an outline,
// or only the outline for the "no label here" index 7.
func DrawLabel(c Canvas, x, y, w, h float64, col int) {
	if col < 0 || col >= len(labelColors) {
		return
	}
	r := math.Min(w, h) / 2
	c.NewSubPath()
	c.Arc(x, y, r, 0, 2*math.Pi)
	lc := labelColors[col]
	if col == 7 {
		SetColor(c, lc)
		c.Stroke()
		return
	}
	SetColor(c, lc)
	c.FillPreserve()
	c.SetSourceRGBA(0, 0, 0, 0.5)
	c.Stroke()
}
