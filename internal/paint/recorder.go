package paint

import "math"

// Op is one recorded canvas call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// Recorder is a Canvas that records every call instead of drawing. Tests
// assert against the op stream, and the geometry engine draws into a nil
// canvas for pure hit testing, so the recorder only needs to be faithful
// about geometry bookkeeping (text extents in particular).
type Recorder struct {
	Ops      []Op
	fontSize float64
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{fontSize: 12} }

func (r *Recorder) add(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

// Count returns how many ops with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Last returns the last op with the given name, or nil.
func (r *Recorder) Last(name string) *Op {
	for i := len(r.Ops) - 1; i >= 0; i-- {
		if r.Ops[i].Name == name {
			return &r.Ops[i]
		}
	}
	return nil
}

func (r *Recorder) Save()    { r.add("save") }
func (r *Recorder) Restore() { r.add("restore") }

func (r *Recorder) Translate(x, y float64) { r.add("translate", x, y) }
func (r *Recorder) Scale(sx, sy float64)   { r.add("scale", sx, sy) }

func (r *Recorder) SetLineWidth(w float64)  { r.add("line_width", w) }
func (r *Recorder) SetLineCap(c LineCap)    { r.add("line_cap", float64(c)) }
func (r *Recorder) SetLineJoin(j LineJoin)  { r.add("line_join", float64(j)) }

func (r *Recorder) SetSourceRGB(red, g, b float64)     { r.add("source_rgb", red, g, b) }
func (r *Recorder) SetSourceRGBA(red, g, b, a float64) { r.add("source_rgba", red, g, b, a) }
func (r *Recorder) SetSourceSurface(s *Surface, x, y float64) {
	r.add("source_surface", x, y, float64(s.W), float64(s.H))
}
func (r *Recorder) SetFilter(f Filter) { r.add("filter", float64(f)) }
func (r *Recorder) SetLinearGradient(x0, y0, x1, y1 float64, stops []GradientStop) {
	r.add("gradient", x0, y0, x1, y1, float64(len(stops)))
}

func (r *Recorder) MoveTo(x, y float64) { r.add("move_to", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("line_to", x, y) }
func (r *Recorder) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	r.add("curve_to", x1, y1, x2, y2, x3, y3)
}
func (r *Recorder) Arc(x, y, radius, a1, a2 float64) { r.add("arc", x, y, radius, a1, a2) }
func (r *Recorder) Rectangle(x, y, w, h float64)     { r.add("rectangle", x, y, w, h) }
func (r *Recorder) ClosePath()                       { r.add("close_path") }
func (r *Recorder) NewPath()                         { r.add("new_path") }
func (r *Recorder) NewSubPath()                      { r.add("new_sub_path") }
func (r *Recorder) Clip()                            { r.add("clip") }

func (r *Recorder) Fill()           { r.add("fill") }
func (r *Recorder) FillPreserve()   { r.add("fill_preserve") }
func (r *Recorder) Stroke()         { r.add("stroke") }
func (r *Recorder) StrokePreserve() { r.add("stroke_preserve") }
func (r *Recorder) Paint()          { r.add("paint") }

func (r *Recorder) SetFontSize(px float64) {
	r.fontSize = px
	r.add("font_size", px)
}
func (r *Recorder) SetFontBold(bold bool) {
	v := 0.0
	if bold {
		v = 1
	}
	r.add("font_bold", v)
}

// TextExtents approximates proportional metrics well enough for layout
// decisions (centering, max-width scans).
func (r *Recorder) TextExtents(s string) TextExtents {
	w := 0.6 * r.fontSize * float64(len(s))
	return TextExtents{Width: math.Round(w), Height: r.fontSize}
}

func (r *Recorder) ShowText(s string) {
	r.Ops = append(r.Ops, Op{Name: "show_text", Text: s})
}

func (r *Recorder) TextPath(s string) {
	r.Ops = append(r.Ops, Op{Name: "text_path", Text: s})
}
