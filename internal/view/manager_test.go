package view_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/config"
	"lumen/internal/errors"
	"lumen/internal/paint"
	"lumen/internal/view"
	"lumen/pkg/types"
)

type fakePlugin struct {
	name    string
	views   types.ViewType
	log     *[]string
	consume bool
}

func (p *fakePlugin) Name() string               { return p.name }
func (p *fakePlugin) Container() types.Container { return types.ContainerRightCenter }
func (p *fakePlugin) Views() types.ViewType      { return p.views }
func (p *fakePlugin) Expandable() bool           { return true }
func (p *fakePlugin) GUICleanup()                { *p.log = append(*p.log, "cleanup:"+p.name) }

func (p *fakePlugin) ViewEnter(old, new *view.View) {
	*p.log = append(*p.log, "enter:"+p.name)
}
func (p *fakePlugin) ViewLeave(old, new *view.View) {
	*p.log = append(*p.log, "leave:"+p.name)
}
func (p *fakePlugin) MouseMoved(x, y, pressure float64, which int) bool {
	*p.log = append(*p.log, "moved:"+p.name)
	return p.consume
}

type fakeUI struct {
	log *[]string
}

func (u *fakeUI) ClearContainers()                      { *u.log = append(*u.log, "ui:clear") }
func (u *fakeUI) AddPlugin(p view.Plugin)               { *u.log = append(*u.log, "ui:add:"+p.Name()) }
func (u *fakeUI) SetExpanded(p view.Plugin, e bool)     { *u.log = append(*u.log, fmt.Sprintf("ui:expanded:%s:%v", p.Name(), e)) }
func (u *fakeUI) SetVisible(p view.Plugin, v bool)      {}
func (u *fakeUI) RestorePanels()                        { *u.log = append(*u.log, "ui:panels") }
func (u *fakeUI) UpdateScrollbars()                     { *u.log = append(*u.log, "ui:scrollbars") }
func (u *fakeUI) RedrawBorders()                        { *u.log = append(*u.log, "ui:borders") }

func testView(name string, kind types.ViewType, log *[]string) view.Builder {
	return view.Builder{
		Name: name,
		Setup: func(v *view.View) error {
			v.Hooks = view.Hooks{
				Kind:  func(*view.View) types.ViewType { return kind },
				Enter: func(*view.View) { *log = append(*log, "view-enter:"+name) },
				Leave: func(*view.View) { *log = append(*log, "view-leave:"+name) },
			}
			return nil
		},
	}
}

func newTestManager(t *testing.T, log *[]string) *view.Manager {
	t.Helper()
	m := view.NewManager(config.New())
	m.UI = &fakeUI{log: log}
	m.RegisterBuilder(testView("lighttable", types.ViewLighttable, log))
	m.RegisterBuilder(testView("darkroom", types.ViewDarkroom, log))
	require.NoError(t, m.LoadViews())
	return m
}

func TestSwitch(t *testing.T) {
	t.Run("switch runs leave then enter", func(t *testing.T) {
		var log []string
		m := newTestManager(t, &log)

		require.NoError(t, m.Switch("lighttable"))
		require.NoError(t, m.Switch("darkroom"))

		assert.Equal(t, "darkroom", m.Current().ModuleName)
		var idxLeave, idxEnter int
		for i, e := range log {
			if e == "view-leave:lighttable" {
				idxLeave = i
			}
			if e == "view-enter:darkroom" {
				idxEnter = i
			}
		}
		assert.Less(t, idxLeave, idxEnter, "old view leaves before new view enters")
	})

	t.Run("unknown view is an error", func(t *testing.T) {
		var log []string
		m := newTestManager(t, &log)
		err := m.Switch("slideshow")
		require.Error(t, err)
		assert.True(t, errors.IsViewNotFound(err))
	})

	t.Run("guard veto leaves everything untouched", func(t *testing.T) {
		var log []string
		m := newTestManager(t, &log)
		m.RegisterBuilder(view.Builder{
			Name: "locked",
			Setup: func(v *view.View) error {
				v.Hooks = view.Hooks{
					Kind:     func(*view.View) types.ViewType { return types.ViewTethering },
					TryEnter: func(*view.View) error { return errors.New("no camera connected") },
				}
				return nil
			},
		})
		require.NoError(t, m.LoadViews("locked"))
		require.NoError(t, m.Switch("lighttable"))
		log = log[:0]

		err := m.Switch("locked")
		require.Error(t, err)
		assert.True(t, errors.IsGuardRejected(err))
		assert.Equal(t, "lighttable", m.Current().ModuleName, "current view unchanged")
		assert.NotContains(t, log, "view-leave:lighttable", "old view was not left")
	})

	t.Run("switch to none tears down", func(t *testing.T) {
		var log []string
		m := newTestManager(t, &log)
		p := &fakePlugin{name: "filter", views: types.ViewLighttable, log: &log}
		m.AddPlugin(p)
		require.NoError(t, m.Switch("lighttable"))
		log = log[:0]

		require.NoError(t, m.Switch(""))
		assert.Nil(t, m.Current())
		assert.Contains(t, log, "view-leave:lighttable")
		assert.Contains(t, log, "leave:filter")
		assert.Contains(t, log, "cleanup:filter", "plugin GUIs are destroyed on shutdown")
		assert.Contains(t, log, "ui:clear")
	})
}

func TestPluginAttachOrder(t *testing.T) {
	// plugins are added to panels in reverse registration order, so the
	// lowest position ends up at the bottom
	var log []string
	m := newTestManager(t, &log)
	for _, name := range []string{"a", "b", "c"} {
		m.AddPlugin(&fakePlugin{name: name, views: types.ViewLighttable, log: &log})
	}

	require.NoError(t, m.Switch("lighttable"))

	var added []string
	for _, e := range log {
		if len(e) > 7 && e[:7] == "ui:add:" {
			added = append(added, e[7:])
		}
	}
	assert.Equal(t, []string{"c", "b", "a"}, added)
}

func TestViewOrder(t *testing.T) {
	// lighttable and darkroom come first whatever the registration order;
	// the rest sorts by name
	var log []string
	m := view.NewManager(config.New())
	m.RegisterBuilder(testView("map", types.ViewMap, &log))
	m.RegisterBuilder(testView("darkroom", types.ViewDarkroom, &log))
	m.RegisterBuilder(testView("print", types.ViewPrint, &log))
	m.RegisterBuilder(testView("lighttable", types.ViewLighttable, &log))
	require.NoError(t, m.LoadViews())

	var names []string
	for _, v := range m.Views() {
		names = append(names, v.ModuleName)
	}
	assert.Equal(t, []string{"lighttable", "darkroom", "map", "print"}, names)
}

func TestLoadViewsPatterns(t *testing.T) {
	var log []string
	m := view.NewManager(config.New())
	m.RegisterBuilder(testView("lighttable", types.ViewLighttable, &log))
	m.RegisterBuilder(testView("darkroom", types.ViewDarkroom, &log))
	m.RegisterBuilder(testView("map", types.ViewMap, &log))

	require.NoError(t, m.LoadViews("light*", "map"))
	require.Len(t, m.Views(), 2)

	err := m.LoadViews("[bad")
	assert.Error(t, err)
}

func TestInputDispatch(t *testing.T) {
	// plugins see motion before the view, in reverse registration order,
	// and a consuming plugin keeps the view out of it
	var log []string
	m := newTestManager(t, &log)
	viewSaw := false
	require.NoError(t, m.Switch("lighttable"))
	m.Current().Hooks.MouseMoved = func(v *view.View, x, y, p float64, w int) { viewSaw = true }

	a := &fakePlugin{name: "a", views: types.ViewLighttable, log: &log}
	b := &fakePlugin{name: "b", views: types.ViewLighttable, log: &log, consume: true}
	m.AddPlugin(a)
	m.AddPlugin(b)

	m.MouseMoved(1, 2, 0, 0)

	assert.Equal(t, []string{"moved:b", "moved:a"}, log[len(log)-2:])
	assert.False(t, viewSaw, "consumed event does not reach the view")
}

func TestExposeClampsPointer(t *testing.T) {
	var log []string
	m := newTestManager(t, &log)
	require.NoError(t, m.Switch("lighttable"))

	var gotPx, gotPy float64
	m.Current().Hooks.Expose = func(v *view.View, cr paint.Canvas, w, h, px, py float64) {
		gotPx, gotPy = px, py
	}

	rec := paint.NewRecorder()
	m.Expose(rec, 800, 600, 100, 700)

	assert.Equal(t, 10000.0, gotPx, "pointer below the view is pushed out of range")
	assert.Equal(t, -1.0, gotPy)
}

func TestSetScrollbarDedup(t *testing.T) {
	var log []string
	m := newTestManager(t, &log)
	require.NoError(t, m.Switch("lighttable"))
	v := m.Current()
	log = log[:0]

	m.SetScrollbar(v, 0, 0, 10, 5, 0, 0, 20, 5)
	first := len(log)
	assert.Greater(t, first, 0, "changed values reach the UI")

	m.SetScrollbar(v, 0, 0, 10, 5, 0, 0, 20, 5)
	assert.Len(t, log, first, "identical values are dropped")

	m.SetScrollbar(v, 1, 0, 10, 5, 0, 0, 20, 5)
	assert.Greater(t, len(log), first)
}

func TestActOn(t *testing.T) {
	sel := &fakeSel{selected: map[types.ImageID]bool{1: true, 2: true}, ordered: []types.ImageID{1, 2}}
	images := &fakeStore{groups: map[types.ImageID]types.ImageID{1: 1, 2: 2, 3: 3, 7: 7}}

	newM := func() *view.Manager {
		m := view.NewManager(config.New())
		m.Sel = sel
		m.Images = images
		return m
	}

	t.Run("hover inside selection acts on whole selection", func(t *testing.T) {
		m := newM()
		m.MouseOverID = 1
		m.MouseInsideTable = true
		assert.Equal(t, []types.ImageID{1, 2}, m.ImagesToActOn(true))
	})

	t.Run("hover outside selection acts on hovered image alone", func(t *testing.T) {
		m := newM()
		m.MouseOverID = 3
		m.MouseInsideTable = true
		assert.Equal(t, []types.ImageID{3}, m.ImagesToActOn(true))
	})

	t.Run("no hover prefers active images", func(t *testing.T) {
		m := newM()
		m.MouseOverID = types.NoImage
		m.ActiveImagesAdd(7, false)
		assert.Equal(t, []types.ImageID{7}, m.ImagesToActOn(true))
		assert.Equal(t, types.ImageID(7), m.ImageToActOn())
	})

	t.Run("no hover no active falls back to selection", func(t *testing.T) {
		m := newM()
		m.MouseOverID = types.NoImage
		assert.Equal(t, []types.ImageID{1, 2}, m.ImagesToActOn(true))
		assert.Equal(t, types.ImageID(1), m.ImageToActOn())
	})

	t.Run("grouping pulls in hidden members", func(t *testing.T) {
		grouped := &fakeSel{
			selected: map[types.ImageID]bool{},
			ordered:  nil,
			members:  map[types.ImageID][]types.ImageID{10: {10, 11, 12}},
			hasColl:  true,
		}
		m := view.NewManager(config.New())
		m.Sel = grouped
		m.Images = &fakeStore{groups: map[types.ImageID]types.ImageID{10: 10}}
		m.Grouping = true
		m.MouseOverID = 10
		m.MouseInsideTable = true

		assert.Equal(t, []types.ImageID{10, 11, 12}, m.ImagesToActOn(false))
		assert.Equal(t, []types.ImageID{10}, m.ImagesToActOn(true),
			"visible-only ignores hidden group members")
	})
}

func TestActiveImagesAllowDuplicates(t *testing.T) {
	m := view.NewManager(config.New())
	raised := 0
	m.OnActiveImagesChange = func() { raised++ }

	m.ActiveImagesAdd(4, true)
	m.ActiveImagesAdd(4, true)
	assert.Equal(t, []types.ImageID{4, 4}, m.ActiveImages())
	assert.Equal(t, 2, raised)

	m.ActiveImagesReset(true)
	assert.Empty(t, m.ActiveImages())
	assert.Equal(t, 3, raised)

	m.ActiveImagesReset(true)
	assert.Equal(t, 3, raised, "resetting an empty list raises nothing")
}

type fakeSel struct {
	selected map[types.ImageID]bool
	ordered  []types.ImageID
	members  map[types.ImageID][]types.ImageID
	hasColl  bool
}

func (f *fakeSel) IsSelected(id types.ImageID) bool     { return f.selected[id] }
func (f *fakeSel) SelectedOrdered() []types.ImageID     { return f.ordered }
func (f *fakeSel) GroupMembers(g types.ImageID) []types.ImageID { return f.members[g] }
func (f *fakeSel) HasCollection() bool                  { return f.hasColl }

type fakeStore struct {
	groups map[types.ImageID]types.ImageID
}

func (f *fakeStore) Get(id types.ImageID) (types.ImageInfo, bool) {
	g, ok := f.groups[id]
	if !ok {
		return types.ImageInfo{}, false
	}
	return types.ImageInfo{ID: id, GroupID: g}, true
}
