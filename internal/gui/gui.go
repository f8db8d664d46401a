//go:build !nogui

// Package gui hosts the view manager in a fyne window: the current view is
// rendered through the raster backend into the window, and pointer, wheel
// and key events are forwarded to the manager's dispatch.
package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"lumen/internal/log"
	"lumen/internal/paint"
	"lumen/internal/view"
)

// Available reports whether this build carries the GUI.
func Available() bool { return true }

// App is the viewer application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	mgr     *view.Manager
	area    *viewArea
}

// New creates the viewer around an already wired manager.
func New(mgr *view.Manager) *App {
	fyneApp := app.NewWithID("io.lumen.viewer")
	a := &App{fyneApp: fyneApp, mgr: mgr}
	a.window = fyneApp.NewWindow("Lumen")
	a.area = newViewArea(a)
	return a
}

// Run shows the window and blocks until it closes. The manager is switched
// to "no view" on the way out so leave hooks run.
func (a *App) Run() error {
	var names []string
	for _, v := range a.mgr.Views() {
		if v.Flags()&view.FlagHidden == 0 {
			names = append(names, v.Name())
		}
	}

	switcher := widget.NewSelect(names, func(name string) {
		for _, v := range a.mgr.Views() {
			if v.Name() != name {
				continue
			}
			if err := a.mgr.SwitchTo(v); err != nil {
				log.Warnf("could not switch to %s: %v", v.ModuleName, err)
			}
			a.area.Refresh()
			return
		}
	})
	if len(names) > 0 {
		switcher.SetSelected(names[0])
	}

	a.window.SetContent(container.NewBorder(switcher, nil, nil, nil, a.area))
	a.window.Resize(fyne.NewSize(1024, 768))
	a.window.Canvas().SetOnTypedKey(a.typedKey)

	a.window.ShowAndRun()

	return a.mgr.Switch("")
}

// keycodes for the keys the views care about; values follow X11 keysyms.
var keyCodes = map[fyne.KeyName]uint32{
	fyne.KeyEscape: 0xff1b,
	fyne.KeySpace:  0x0020,
	fyne.KeyLeft:   0xff51,
	fyne.KeyUp:     0xff52,
	fyne.KeyRight:  0xff53,
	fyne.KeyDown:   0xff54,
	fyne.KeyReturn: 0xff0d,
}

func (a *App) typedKey(ev *fyne.KeyEvent) {
	code, ok := keyCodes[ev.Name]
	if !ok {
		return
	}
	if a.mgr.KeyPressed(code, 0) {
		a.area.Refresh()
	}
	a.mgr.KeyReleased(code, 0)
}

// viewArea is the center widget: a raster the manager draws into, plus the
// event forwarding. Pointer coordinates are converted to pixel space so they
// line up with what Expose drew, HiDPI included.
type viewArea struct {
	widget.BaseWidget
	app    *App
	raster *canvas.Raster

	ptrX, ptrY float64
	button     int
	scale      float64
	lastW      int
	lastH      int
}

func newViewArea(a *App) *viewArea {
	v := &viewArea{app: a, ptrX: 10000, ptrY: -1, scale: 1}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *viewArea) draw(w, h int) image.Image {
	surface := paint.NewSurface(w, h)
	if surface == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if size := v.Size(); size.Width > 0 {
		v.scale = float64(w) / float64(size.Width)
	}
	if w != v.lastW || h != v.lastH {
		v.lastW, v.lastH = w, h
		v.app.mgr.Configure(w, h)
	}

	cr := paint.NewRaster(surface)
	v.app.mgr.Expose(cr, float64(w), float64(h), v.ptrX, v.ptrY)
	return surface.RGBA()
}

func (v *viewArea) toPixels(p fyne.Position) (float64, float64) {
	return float64(p.X) * v.scale, float64(p.Y) * v.scale
}

func (v *viewArea) MouseIn(ev *desktop.MouseEvent) {
	v.app.mgr.MouseEnter()
}

func (v *viewArea) MouseMoved(ev *desktop.MouseEvent) {
	v.ptrX, v.ptrY = v.toPixels(ev.Position)
	v.app.mgr.MouseMoved(v.ptrX, v.ptrY, 1, v.button)
	v.Refresh()
}

func (v *viewArea) MouseOut() {
	v.ptrX, v.ptrY = 10000, -1
	v.app.mgr.MouseLeave()
	v.Refresh()
}

func (v *viewArea) MouseDown(ev *desktop.MouseEvent) {
	x, y := v.toPixels(ev.Position)
	v.button = buttonNumber(ev.Button)
	v.app.mgr.ButtonPressed(x, y, 1, v.button, 1, 0)
	v.Refresh()
}

func (v *viewArea) MouseUp(ev *desktop.MouseEvent) {
	x, y := v.toPixels(ev.Position)
	v.app.mgr.ButtonReleased(x, y, buttonNumber(ev.Button), 0)
	v.button = 0
	v.Refresh()
}

func (v *viewArea) Scrolled(ev *fyne.ScrollEvent) {
	v.app.mgr.Scrolled(v.ptrX, v.ptrY, ev.Scrolled.DY > 0, 0)
	v.Refresh()
}

func buttonNumber(b desktop.MouseButton) int {
	switch b {
	case desktop.MouseButtonSecondary:
		return 3
	case desktop.MouseButtonTertiary:
		return 2
	default:
		return 1
	}
}
