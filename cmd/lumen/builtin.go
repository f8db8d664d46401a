package main

import (
	"math"
	"strconv"

	"lumen/internal/config"
	"lumen/internal/deco"
	"lumen/internal/errors"
	"lumen/internal/log"
	"lumen/internal/paint"
	"lumen/internal/thumb"
	"lumen/internal/view"
	"lumen/pkg/types"
)

func registerBuiltinViews(s *session) {
	s.mgr.RegisterBuilder(view.Builder{Name: "lighttable", Setup: s.setupLighttable})
	s.mgr.RegisterBuilder(view.Builder{Name: "darkroom", Setup: s.setupDarkroom})
}

// lighttableState is the grid view: all catalog images in collection order,
// scrolled by whole rows.
type lighttableState struct {
	s      *session
	offset int
	over   deco.Kind
}

func (s *session) setupLighttable(v *view.View) error {
	st := &lighttableState{s: s}
	v.Data = st

	v.Hooks.DisplayName = func(*view.View) string { return "Lighttable" }
	v.Hooks.Kind = func(*view.View) types.ViewType { return types.ViewLighttable }
	v.Hooks.Expose = st.expose
	v.Hooks.Leave = func(*view.View) { s.mgr.AudioStop() }
	v.Hooks.Reset = func(*view.View) { st.offset = 0 }
	v.Hooks.MouseLeave = func(*view.View) { s.mgr.MouseOverID = types.NoImage }
	v.Hooks.Scrolled = st.scrolled
	v.Hooks.ButtonPressed = st.buttonPressed
	return nil
}

func (st *lighttableState) cols() int {
	if n, err := strconv.Atoi(st.s.mgr.Conf.GetString(config.KeyImagesInRow)); err == nil && n > 0 {
		return n
	}
	return 5
}

func (st *lighttableState) expose(v *view.View, cr paint.Canvas, width, height, px, py float64) {
	st.over = deco.Desert
	ids := st.s.cat.Collection()
	cols := st.cols()
	tw := width / float64(cols)
	th := tw

	totalRows := (len(ids) + cols - 1) / cols
	visibleRows := int(math.Ceil(height/th)) + 1
	maxOffset := totalRows - 1
	if maxOffset < 0 {
		maxOffset = 0
	}
	if st.offset > maxOffset {
		st.offset = maxOffset
	}

	mouseOver := types.NoImage
	for row := 0; row < visibleRows; row++ {
		for col := 0; col < cols; col++ {
			idx := (st.offset+row)*cols + col
			if idx >= len(ids) {
				break
			}
			id := ids[idx]
			cx := float64(col) * tw
			cy := float64(row) * th
			inCell := px >= cx && px < cx+tw && py >= cy && py < cy+th
			if inCell {
				mouseOver = id
			}

			cr.Save()
			cr.Translate(cx, cy)
			req := thumb.Request{
				ImageOver: &st.over,
				ImageID:   id,
				Canvas:    cr,
				Width:     tw,
				Height:    th,
				Zoom:      cols,
				Px:        px - cx,
				Py:        py - cy,
				MouseOver: inCell,
			}
			st.s.comp.Expose(&req)
			cr.Restore()
		}
	}
	st.s.mgr.MouseOverID = mouseOver
	st.s.mgr.MouseInsideTable = mouseOver != types.NoImage

	st.s.mgr.SetScrollbar(v, 0, 0, 1, 1,
		float64(st.offset), 0, float64(totalRows), float64(visibleRows))
}

func (st *lighttableState) scrolled(v *view.View, x, y float64, up bool, state int) {
	if up {
		if st.offset > 0 {
			st.offset--
		}
		return
	}
	st.offset++
}

// buttonPressed acts on the decoration resolved during the last expose:
// stars set the rating, the cross toggles rejection, a click anywhere else
// on the image toggles its selection.
func (st *lighttableState) buttonPressed(v *view.View, x, y, pressure float64, which, kind int, state uint32) bool {
	id := st.s.mgr.MouseOverID
	if id == types.NoImage || which != 1 {
		return false
	}
	img, ok := st.s.cat.Image(id)
	if !ok {
		return false
	}

	var err error
	switch {
	case st.over >= deco.Star1 && st.over <= deco.Star5:
		rating := int(st.over - deco.Star1 + 1)
		if img.Rating() == rating {
			rating--
		}
		err = st.s.cat.SetFlags(id, img.Flags&^types.RatingMask|types.ImageFlags(rating))
	case st.over == deco.Reject:
		err = st.s.cat.SetFlags(id, img.Flags^types.FlagRejected)
	case st.over == deco.Group:
		if st.s.mgr.ExpandedGroupID == img.GroupID {
			st.s.mgr.ExpandedGroupID = types.NoImage
		} else {
			st.s.mgr.ExpandedGroupID = img.GroupID
		}
		st.s.comp.ExpandedGroupID = st.s.mgr.ExpandedGroupID
	case st.over == deco.Audio:
		if st.s.mgr.AudioPlayerID() == id {
			st.s.mgr.AudioStop()
		} else {
			st.s.mgr.AudioStart(id)
		}
	default:
		err = st.s.cat.ToggleSelection(id)
	}
	if err != nil {
		log.Errorf("lighttable action on %d: %v", id, err)
	}
	return true
}

// darkroomState is the single image view: the acted-on image rendered
// through the full-preview slot, zoomed with the wheel and panned by drag.
type darkroomState struct {
	s     *session
	imgid types.ImageID

	// slot storage for the compositor's full-surface cache
	fullSurface *paint.Surface
	fullBuf     []byte
	fullID      types.ImageID
	fullMip     thumb.MipSize
	fullWd      int
	fullHt      int
	fullLock    int32

	zoom         float64
	panX, panY   float64
	maxDX, maxDY float64
	lastX, lastY float64
}

func (s *session) setupDarkroom(v *view.View) error {
	st := &darkroomState{s: s, fullID: types.NoImage, zoom: 1}
	v.Data = st

	v.Hooks.DisplayName = func(*view.View) string { return "Darkroom" }
	v.Hooks.Kind = func(*view.View) types.ViewType { return types.ViewDarkroom }
	v.Hooks.TryEnter = st.tryEnter
	v.Hooks.Enter = func(*view.View) {
		st.imgid = s.mgr.ImageToActOn()
		st.zoom = 1
		st.panX, st.panY = 0, 0
	}
	v.Hooks.Expose = st.expose
	v.Hooks.MouseMoved = st.mouseMoved
	v.Hooks.Scrolled = st.scrolled
	return nil
}

func (st *darkroomState) tryEnter(*view.View) error {
	if st.s.mgr.ImageToActOn() == types.NoImage {
		return errors.New("no image selected to open")
	}
	return nil
}

func (st *darkroomState) expose(v *view.View, cr paint.Canvas, width, height, px, py float64) {
	over := deco.Desert
	req := thumb.Request{
		ImageOver:   &over,
		ImageID:     st.imgid,
		Canvas:      cr,
		Width:       width,
		Height:      height,
		Zoom:        1,
		Px:          px,
		Py:          py,
		FullPreview: true,
		MouseOver:   true,

		FullZoom:    st.zoom,
		FullZoom100: 8,
		FullX:       st.panX,
		FullY:       st.panY,

		FullSurface:     &st.fullSurface,
		FullBuf:         &st.fullBuf,
		FullSurfaceID:   &st.fullID,
		FullSurfaceMip:  &st.fullMip,
		FullSurfaceWd:   &st.fullWd,
		FullSurfaceHt:   &st.fullHt,
		FullSurfaceLock: &st.fullLock,

		FullMaxDX: &st.maxDX,
		FullMaxDY: &st.maxDY,
	}
	st.s.comp.Expose(&req)
}

func (st *darkroomState) mouseMoved(v *view.View, x, y, pressure float64, which int) {
	dx, dy := x-st.lastX, y-st.lastY
	st.lastX, st.lastY = x, y
	if which == 0 {
		return
	}
	st.panX = clamp(st.panX+dx, -st.maxDX, st.maxDX)
	st.panY = clamp(st.panY+dy, -st.maxDY, st.maxDY)
}

func (st *darkroomState) scrolled(v *view.View, x, y float64, up bool, state int) {
	if up {
		st.zoom = math.Min(st.zoom*1.2, 8)
	} else {
		st.zoom = math.Max(st.zoom/1.2, 1)
	}
	if st.zoom == 1 {
		st.panX, st.panY = 0, 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
