//go:build nogui

// Stubs for builds with the GUI disabled.
package gui

import (
	"lumen/internal/errors"
	"lumen/internal/view"
)

// Available reports whether this build carries the GUI.
func Available() bool { return false }

// App is a placeholder in no-GUI builds.
type App struct{}

// New returns a stub application.
func New(mgr *view.Manager) *App { return &App{} }

// Run always fails in no-GUI builds.
func (a *App) Run() error {
	return errors.New("this build has no GUI support")
}
