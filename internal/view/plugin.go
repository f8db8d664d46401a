package view

import (
	"fmt"

	"lumen/internal/paint"
	"lumen/pkg/types"
)

// Plugin is a side panel module (filters, history, metadata editors, ...).
// Plugins are registered once and attached to whichever view they declare
// themselves visible in.
type Plugin interface {
	Name() string
	Container() types.Container
	// Views returns the view types the plugin wants to appear in.
	Views() types.ViewType
	Expandable() bool
	GUICleanup()
}

// VisibleIn reports whether the plugin belongs to the given view.
func VisibleIn(p Plugin, v *View) bool {
	if v == nil {
		return false
	}
	return p.Views()&v.Kind() != 0
}

// Optional plugin capabilities. The manager type-asserts for these at the
// call site, so a plugin only implements what it reacts to.

// ViewEnterer is told after its view has been entered.
type ViewEnterer interface {
	ViewEnter(old, new *View)
}

// ViewLeaver is told before its view is left. new is nil when the
// application is shutting down.
type ViewLeaver interface {
	ViewLeave(old, new *View)
}

// PostExposer draws on top of the view's center area.
type PostExposer interface {
	GUIPostExpose(cr paint.Canvas, width, height, px, py float64)
}

// MouseMover gets pointer motion before the view; returning true consumes
// the event.
type MouseMover interface {
	MouseMoved(x, y, pressure float64, which int) bool
}

// MouseLeaver gets the pointer-left event before the view.
type MouseLeaver interface {
	MouseLeave() bool
}

// ButtonPresser gets button presses before the view.
type ButtonPresser interface {
	ButtonPressed(x, y, pressure float64, which, kind int, state uint32) bool
}

// ButtonReleaser gets button releases before the view.
type ButtonReleaser interface {
	ButtonReleased(x, y float64, which int, state uint32) bool
}

// KeyAccelConnector wires plugin accelerators when its view is entered.
type KeyAccelConnector interface {
	ConnectKeyAccels()
}

// UI abstracts the window shell the manager populates on view switches.
type UI interface {
	// ClearContainers removes every plugin widget from every panel.
	ClearContainers()
	// AddPlugin places the plugin's widget in its panel.
	AddPlugin(p Plugin)
	// SetExpanded restores an expandable plugin's expander state.
	SetExpanded(p Plugin, expanded bool)
	// SetVisible shows or hides a non-expandable plugin widget.
	SetVisible(p Plugin, visible bool)
	// RestorePanels re-applies the panel layout of the new view.
	RestorePanels()
	UpdateScrollbars()
	RedrawBorders()
}

// Accels abstracts keyboard accelerator bookkeeping.
type Accels interface {
	// EnableAll re-enables accelerators if they were suspended.
	EnableAll()
	// Disconnect drops every accelerator owned by the named view or plugin.
	Disconnect(owner string)
	// Refresh rebuilds the sticky accels overlay, if shown.
	Refresh()
}

// MouseActionKind enumerates the gestures a view can document.
type MouseActionKind int

const (
	MouseActionLeft MouseActionKind = iota
	MouseActionRight
	MouseActionMiddle
	MouseActionScroll
	MouseActionDoubleLeft
	MouseActionDoubleRight
	MouseActionDragDrop
	MouseActionLeftDrag
	MouseActionRightDrag
)

func (k MouseActionKind) String() string {
	switch k {
	case MouseActionLeft:
		return "left click"
	case MouseActionRight:
		return "right click"
	case MouseActionMiddle:
		return "middle click"
	case MouseActionScroll:
		return "scroll"
	case MouseActionDoubleLeft:
		return "left double-click"
	case MouseActionDoubleRight:
		return "right double-click"
	case MouseActionDragDrop:
		return "drag and drop"
	case MouseActionLeftDrag:
		return "left click+drag"
	case MouseActionRightDrag:
		return "right click+drag"
	}
	return "unknown"
}

// MouseAction is one documented gesture, shown in the accels overlay.
type MouseAction struct {
	Kind MouseActionKind
	// Modifier is the key chord prefix ("ctrl", "shift+alt", ...), empty
	// for a bare gesture.
	Modifier string
	Name     string
}

// Label formats the gesture the way the accels overlay lists it.
func (a MouseAction) Label() string {
	if a.Modifier == "" {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s+%s", a.Modifier, a.Kind)
}
