// Package view manages the application's top level views (lighttable,
// darkroom, ...): loading and ordering them, switching between them with the
// enter/leave lifecycle, routing input, and tracking the cross-view UI state
// like active images and the image under the pointer.
package view

import (
	"lumen/internal/paint"
	"lumen/pkg/types"
)

// View is one loaded view module. The manager owns the lifecycle; modules
// fill in Hooks and keep their own state in Data.
type View struct {
	// ModuleName is the stable registry key ("lighttable", "darkroom", ...).
	ModuleName string

	Hooks Hooks

	// Data belongs to the module.
	Data interface{}

	// set to non-insane defaults before the first expose/configure
	Width  float64
	Height float64

	Scrollbar Scrollbar
}

// Scrollbar is the scroll model a view publishes for the window borders.
type Scrollbar struct {
	VPos, VLower, VSize, VViewportSize float64
	HPos, HLower, HSize, HViewportSize float64
}

// Hooks are the optional module entry points. Any of them may be nil; the
// manager checks before calling.
type Hooks struct {
	// DisplayName returns the localized name shown in the switcher.
	DisplayName func(v *View) string
	// Kind returns the view type bit used for plugin visibility.
	Kind  func(v *View) types.ViewType
	Flags func(v *View) Flags

	Init    func(v *View) error
	GUIInit func(v *View)
	Cleanup func(v *View)

	Expose func(v *View, cr paint.Canvas, width, height, px, py float64)

	// TryEnter guards the switch: a non-nil error vetoes it before any
	// state has changed.
	TryEnter func(v *View) error
	Enter    func(v *View)
	Leave    func(v *View)
	Reset    func(v *View)

	MouseEnter func(v *View)
	MouseLeave func(v *View)
	MouseMoved func(v *View, x, y, pressure float64, which int)

	ButtonPressed  func(v *View, x, y, pressure float64, which, kind int, state uint32) bool
	ButtonReleased func(v *View, x, y float64, which int, state uint32) bool
	KeyPressed     func(v *View, key, state uint32) bool
	KeyReleased    func(v *View, key, state uint32) bool

	Configure        func(v *View, width, height int)
	Scrolled         func(v *View, x, y float64, up bool, state int)
	ScrollbarChanged func(v *View, x, y float64)

	ConnectKeyAccels func(v *View)
	MouseActions     func(v *View) []MouseAction
}

// Flags mark special view behaviors.
type Flags uint32

const (
	// FlagHidden keeps the view out of the switcher.
	FlagHidden Flags = 1 << iota
)

// Name returns the display name, falling back to the module name.
func (v *View) Name() string {
	if v.Hooks.DisplayName != nil {
		return v.Hooks.DisplayName(v)
	}
	return v.ModuleName
}

// Kind returns the view's type bit, or ViewNone when the module does not say.
func (v *View) Kind() types.ViewType {
	if v.Hooks.Kind != nil {
		return v.Hooks.Kind(v)
	}
	return types.ViewNone
}

// Flags returns the module's flags; views without the hook have none.
func (v *View) Flags() Flags {
	if v.Hooks.Flags != nil {
		return v.Hooks.Flags(v)
	}
	return 0
}
