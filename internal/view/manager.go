package view

import (
	"lumen/internal/config"
	"lumen/internal/errors"
	"lumen/internal/log"
	"lumen/internal/paint"
	"lumen/pkg/types"
)

// Manager owns the loaded views and the one that is current. It runs the
// switch lifecycle, fans input out to plugins and the current view, and
// keeps the UI state that outlives a single view.
type Manager struct {
	Conf   *config.Store
	UI     UI
	Accels Accels
	Images ImageStore
	Sel    SelectionQueries

	// AudioPath resolves the sidecar audio file of an image.
	AudioPath func(id types.ImageID) (string, bool)
	// Post delivers a callback on the UI thread; nil means run inline.
	Post func(fn func())

	OnViewChanged        func(old, new *View)
	OnActiveImagesChange func()

	// BG fills the center area while no view is current.
	BG paint.Color

	builders []Builder
	views    []*View
	current  *View
	plugins  []Plugin

	// cross-view UI state
	MouseOverID       types.ImageID
	MouseInsideTable  bool
	ShowOverlays      bool
	Grouping          bool
	ExpandedGroupID   types.ImageID
	ScrollbarDragging bool

	activeImages []types.ImageID

	audio audioState
}

// NewManager returns a manager with no views loaded yet.
func NewManager(conf *config.Store) *Manager {
	return &Manager{
		Conf:            conf,
		BG:              paint.Color{R: 0.15, G: 0.15, B: 0.15, A: 1},
		MouseOverID:     types.NoImage,
		ExpandedGroupID: types.NoImage,
		audio:           newAudioState(),
	}
}

// Current returns the current view, or nil between views.
func (m *Manager) Current() *View { return m.current }

// Views returns the loaded views in switcher order.
func (m *Manager) Views() []*View { return m.views }

// AddPlugin registers a panel plugin. Registration order is the panel
// position order.
func (m *Manager) AddPlugin(p Plugin) { m.plugins = append(m.plugins, p) }

// Cleanup tears down every loaded view.
func (m *Manager) Cleanup() {
	for _, v := range m.views {
		if v.Hooks.Cleanup != nil {
			v.Hooks.Cleanup(v)
		}
	}
}

// Name returns the display name of the current view, or "".
func (m *Manager) Name() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Switch changes to the view with the given module name. The empty name
// means "no view" and is used just before shutdown.
func (m *Manager) Switch(name string) error {
	if name == "" {
		return m.SwitchTo(nil)
	}
	for _, v := range m.views {
		if v.ModuleName == name {
			return m.SwitchTo(v)
		}
	}
	return errors.NewViewError("no such view", name, errors.ViewNotFound, nil)
}

// SwitchTo runs the full switch lifecycle into nv. The order matters: the
// new view's guard runs before anything is torn down, so a veto leaves the
// old view fully in place.
func (m *Manager) SwitchTo(nv *View) error {
	old := m.current

	// accelerators may have been suspended by a text entry
	if m.Accels != nil {
		m.Accels.EnableAll()
	}

	// special case when entering nothing, just before shutdown
	if nv == nil {
		if old != nil {
			if old.Hooks.Leave != nil {
				old.Hooks.Leave(old)
			}
			for _, p := range m.plugins {
				if !VisibleIn(p, old) {
					continue
				}
				if l, ok := p.(ViewLeaver); ok {
					l.ViewLeave(old, nil)
				}
				p.GUICleanup()
				if m.Accels != nil {
					m.Accels.Disconnect(p.Name())
				}
			}
		}
		if m.UI != nil {
			m.UI.ClearContainers()
		}
		m.current = nil
		return nil
	}

	if nv.Hooks.TryEnter != nil {
		if err := nv.Hooks.TryEnter(nv); err != nil {
			return errors.NewViewError("view refused entry", nv.ModuleName,
				errors.GuardRejected, err)
		}
	}

	// cleanup the current view before initialization of the new one
	if old != nil {
		if old.Hooks.Leave != nil {
			old.Hooks.Leave(old)
		}
		if m.Accels != nil {
			m.Accels.Disconnect(old.ModuleName)
		}
		for _, p := range m.plugins {
			if !VisibleIn(p, old) {
				continue
			}
			if l, ok := p.(ViewLeaver); ok {
				l.ViewLeave(old, nv)
			}
			if m.Accels != nil {
				m.Accels.Disconnect(p.Name())
			}
		}
		if m.UI != nil {
			m.UI.ClearContainers()
		}
	}

	m.current = nv

	if m.UI != nil {
		m.UI.RestorePanels()
	}

	// add plugins in reverse registration order, so the lowest position
	// lands at the bottom of its panel
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if !VisibleIn(p, nv) {
			continue
		}
		if c, ok := p.(KeyAccelConnector); ok {
			c.ConnectKeyAccels()
		}
		if m.UI != nil {
			m.UI.AddPlugin(p)
		}
	}

	// restore expander and visibility state, then run the enter hooks
	for _, p := range m.plugins {
		if !VisibleIn(p, nv) {
			continue
		}
		if m.UI != nil {
			if p.Expandable() {
				key := config.PluginKey(nv.ModuleName, p.Name(), "expanded")
				m.UI.SetExpanded(p, m.Conf != nil && m.Conf.GetBool(key))
			} else {
				m.UI.SetVisible(p, m.pluginVisible(p))
			}
		}
		if e, ok := p.(ViewEnterer); ok {
			e.ViewEnter(old, nv)
		}
	}

	// enter the view before the plugins above may rely on it next frame
	if nv.Hooks.Enter != nil {
		nv.Hooks.Enter(nv)
	}
	if nv.Hooks.ConnectKeyAccels != nil {
		nv.Hooks.ConnectKeyAccels(nv)
	}

	if m.UI != nil {
		m.UI.UpdateScrollbars()
	}
	if m.Accels != nil {
		m.Accels.Refresh()
	}

	log.WithField("view", nv.ModuleName).Debugf("switched view")
	if m.OnViewChanged != nil {
		m.OnViewChanged(old, nv)
	}
	return nil
}

// a plugin is visible unless the user explicitly hid it
func (m *Manager) pluginVisible(p Plugin) bool {
	if m.Conf == nil {
		return true
	}
	return m.Conf.GetString("plugins/"+p.Name()+"/visible") != "false"
}

// Expose draws the current view and any plugin overlays. A pointer below
// the view area is treated as no pointer at all.
func (m *Manager) Expose(cr paint.Canvas, width, height, pointerx, pointery float64) {
	if m.current == nil {
		paint.SetColor(cr, m.BG)
		cr.Paint()
		return
	}
	m.current.Width = width
	m.current.Height = height

	if m.current.Hooks.Expose == nil {
		return
	}

	cr.Rectangle(0, 0, width, height)
	cr.Clip()
	cr.NewPath()
	cr.Save()
	px, py := pointerx, pointery
	if pointery > height {
		px = 10000
		py = -1
	}
	m.current.Hooks.Expose(m.current, cr, width, height, px, py)
	cr.Restore()

	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if e, ok := p.(PostExposer); ok && VisibleIn(p, m.current) {
			e.GUIPostExpose(cr, width, height, px, py)
		}
	}
}

// Reset tells the current view to return to its neutral state.
func (m *Manager) Reset() {
	if m.current == nil || m.current.Hooks.Reset == nil {
		return
	}
	m.current.Hooks.Reset(m.current)
}

// Configure propagates a new center size to every view, current or not.
func (m *Manager) Configure(width, height int) {
	for _, v := range m.views {
		v.Width = float64(width)
		v.Height = float64(height)
		if v.Hooks.Configure != nil {
			v.Hooks.Configure(v, width, height)
		}
	}
}

// MouseLeave offers the event to plugins first, in reverse order, then to
// the view.
func (m *Manager) MouseLeave() {
	if m.current == nil {
		return
	}
	handled := false
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if l, ok := p.(MouseLeaver); ok && VisibleIn(p, m.current) {
			if l.MouseLeave() {
				handled = true
			}
		}
	}
	if !handled && m.current.Hooks.MouseLeave != nil {
		m.current.Hooks.MouseLeave(m.current)
	}
}

// MouseEnter goes straight to the view.
func (m *Manager) MouseEnter() {
	if m.current == nil || m.current.Hooks.MouseEnter == nil {
		return
	}
	m.current.Hooks.MouseEnter(m.current)
}

// MouseMoved offers motion to every interested plugin, then to the view if
// none claimed it.
func (m *Manager) MouseMoved(x, y, pressure float64, which int) {
	if m.current == nil {
		return
	}
	handled := false
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if mm, ok := p.(MouseMover); ok && VisibleIn(p, m.current) {
			if mm.MouseMoved(x, y, pressure, which) {
				handled = true
			}
		}
	}
	if !handled && m.current.Hooks.MouseMoved != nil {
		m.current.Hooks.MouseMoved(m.current, x, y, pressure, which)
	}
}

// ButtonReleased reports whether a plugin consumed the event.
func (m *Manager) ButtonReleased(x, y float64, which int, state uint32) bool {
	if m.current == nil {
		return false
	}
	handled := false
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if br, ok := p.(ButtonReleaser); ok && VisibleIn(p, m.current) {
			if br.ButtonReleased(x, y, which, state) {
				handled = true
			}
		}
	}
	if handled {
		return true
	}
	if m.current.Hooks.ButtonReleased != nil {
		m.current.Hooks.ButtonReleased(m.current, x, y, which, state)
	}
	return false
}

// ButtonPressed stops at the first plugin that consumes the press.
func (m *Manager) ButtonPressed(x, y, pressure float64, which, kind int, state uint32) bool {
	if m.current == nil {
		return false
	}
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if bp, ok := p.(ButtonPresser); ok && VisibleIn(p, m.current) {
			if bp.ButtonPressed(x, y, pressure, which, kind, state) {
				return true
			}
		}
	}
	if m.current.Hooks.ButtonPressed != nil {
		return m.current.Hooks.ButtonPressed(m.current, x, y, pressure, which, kind, state)
	}
	return false
}

// KeyPressed goes straight to the view.
func (m *Manager) KeyPressed(key, state uint32) bool {
	if m.current == nil || m.current.Hooks.KeyPressed == nil {
		return false
	}
	return m.current.Hooks.KeyPressed(m.current, key, state)
}

// KeyReleased goes straight to the view.
func (m *Manager) KeyReleased(key, state uint32) bool {
	if m.current == nil || m.current.Hooks.KeyReleased == nil {
		return false
	}
	return m.current.Hooks.KeyReleased(m.current, key, state)
}

// Scrolled goes straight to the view.
func (m *Manager) Scrolled(x, y float64, up bool, state int) {
	if m.current == nil || m.current.Hooks.Scrolled == nil {
		return
	}
	m.current.Hooks.Scrolled(m.current, x, y, up, state)
}

// ScrollbarChanged goes straight to the view.
func (m *Manager) ScrollbarChanged(x, y float64) {
	if m.current == nil || m.current.Hooks.ScrollbarChanged == nil {
		return
	}
	m.current.Hooks.ScrollbarChanged(m.current, x, y)
}

// SetScrollbar publishes a view's scroll model. Identical values are
// dropped without touching the UI, which matters because views publish on
// every expose.
func (m *Manager) SetScrollbar(v *View, hpos, hlower, hsize, hwinsize, vpos, vlower, vsize, vwinsize float64) {
	next := Scrollbar{
		VPos: vpos, VLower: vlower, VSize: vsize, VViewportSize: vwinsize,
		HPos: hpos, HLower: hlower, HSize: hsize, HViewportSize: hwinsize,
	}
	if v.Scrollbar == next {
		return
	}
	v.Scrollbar = next

	if m.UI != nil {
		m.UI.RedrawBorders()
		if !m.ScrollbarDragging {
			m.UI.UpdateScrollbars()
		}
	}
}
