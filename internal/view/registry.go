package view

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"lumen/internal/errors"
	"lumen/internal/log"
)

// Builder describes a registerable view module. Setup fills in the hooks;
// a Setup error means the module cannot run in this host and is skipped.
type Builder struct {
	Name  string
	Setup func(v *View) error
}

// RegisterBuilder makes a view module available to LoadViews.
func (m *Manager) RegisterBuilder(b Builder) {
	m.builders = append(m.builders, b)
}

// LoadViews instantiates every registered builder whose name matches one of
// the glob patterns (no patterns means all) and sorts the result into the
// stable switcher order. A module that fails to set up is logged and
// skipped; it never takes the application down.
func (m *Manager) LoadViews(patterns ...string) error {
	var globs []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return errors.NewViewError("bad view pattern", p, errors.InvalidConfig, err)
		}
		globs = append(globs, g)
	}
	match := func(name string) bool {
		if len(globs) == 0 {
			return true
		}
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}

	for _, b := range m.builders {
		if !match(b.Name) {
			continue
		}
		v := &View{
			ModuleName: b.Name,
			Width:      100,
			Height:     100,
			Scrollbar: Scrollbar{
				VSize: 1, VViewportSize: 1,
				HSize: 1, HViewportSize: 1,
			},
		}
		log.WithField("view", b.Name).Debugf("loading view module")
		if err := b.Setup(v); err != nil {
			log.Errorf("could not load view %s: %v", b.Name, err)
			continue
		}
		if v.Hooks.Init != nil {
			if err := v.Hooks.Init(v); err != nil {
				log.Errorf("could not init view %s: %v", b.Name, err)
				continue
			}
		}
		if m.UI != nil && v.Hooks.GUIInit != nil {
			v.Hooks.GUIInit(v)
		}
		m.views = append(m.views, v)
	}

	sortViews(m.views)
	return nil
}

// viewOrder pins the most used views to the front of the switcher;
// everything else sorts alphabetically by display name.
var viewOrder = []string{"lighttable", "darkroom"}

func sortViews(views []*View) {
	pos := func(v *View) int {
		for i, name := range viewOrder {
			if v.ModuleName == name {
				return i
			}
		}
		return len(viewOrder)
	}
	sort.SliceStable(views, func(i, j int) bool {
		pi, pj := pos(views[i]), pos(views[j])
		if pi != pj {
			return pi < pj
		}
		return strings.Compare(views[i].Name(), views[j].Name()) < 0
	})
}
