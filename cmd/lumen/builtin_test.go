package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/catalog"
	"lumen/internal/config"
	"lumen/internal/errors"
	"lumen/internal/mips"
	"lumen/internal/paint"
	"lumen/internal/thumb"
	"lumen/internal/view"
	"lumen/pkg/types"
)

func newTestSession(t *testing.T) *session {
	t.Helper()
	conf = config.New()

	cat, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	cache := mips.New(nil, 0)
	comp := &thumb.Compositor{
		Images:          catalogImages{cat},
		Mips:            cache,
		Catalog:         cat,
		Conf:            conf,
		Palette:         thumb.DefaultPalette(),
		ExpandedGroupID: types.NoImage,
	}
	mgr := view.NewManager(conf)
	mgr.Images = cat
	mgr.Sel = cat
	mgr.AudioPath = cat.AudioPath

	s := &session{cat: cat, cache: cache, comp: comp, mgr: mgr}
	registerBuiltinViews(s)
	require.NoError(t, mgr.LoadViews())
	return s
}

func TestBuiltinViewOrder(t *testing.T) {
	s := newTestSession(t)

	views := s.mgr.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "lighttable", views[0].ModuleName)
	assert.Equal(t, "Lighttable", views[0].Name())
	assert.Equal(t, "darkroom", views[1].ModuleName)
}

func TestDarkroomNeedsAnImage(t *testing.T) {
	s := newTestSession(t)

	err := s.mgr.Switch("darkroom")
	require.Error(t, err, "empty catalog leaves nothing to open")
	assert.True(t, errors.IsGuardRejected(err))

	require.NoError(t, s.cat.AddImage(types.ImageInfo{ID: 1, GroupID: 1, Filename: "a.jpg"}, 0))
	require.NoError(t, s.cat.SetSelection(1, true))

	require.NoError(t, s.mgr.Switch("darkroom"))
	st := s.mgr.Current().Data.(*darkroomState)
	assert.Equal(t, types.ImageID(1), st.imgid)
}

func TestLighttableClickTogglesSelection(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.cat.AddImage(types.ImageInfo{ID: 1, GroupID: 1, Filename: "a.jpg"}, 0))
	require.NoError(t, s.mgr.Switch("lighttable"))

	v := s.mgr.Current()
	cr := paint.NewRecorder()

	// pointer over the middle of the first cell
	v.Hooks.Expose(v, cr, 500, 300, 50, 50)
	require.Equal(t, types.ImageID(1), s.mgr.MouseOverID)

	handled := v.Hooks.ButtonPressed(v, 50, 50, 1, 1, 1, 0)
	assert.True(t, handled)
	assert.True(t, s.cat.IsSelected(1), "plain click on the image selects it")

	v.Hooks.Expose(v, cr, 500, 300, 50, 50)
	v.Hooks.ButtonPressed(v, 50, 50, 1, 1, 1, 0)
	assert.False(t, s.cat.IsSelected(1), "second click deselects")
}

func TestLighttableScrollClamps(t *testing.T) {
	s := newTestSession(t)
	for i := types.ImageID(1); i <= 12; i++ {
		require.NoError(t, s.cat.AddImage(types.ImageInfo{ID: i, GroupID: i, Filename: "x.jpg"}, int(i)))
	}
	require.NoError(t, s.mgr.Switch("lighttable"))

	v := s.mgr.Current()
	st := v.Data.(*lighttableState)
	cr := paint.NewRecorder()

	v.Hooks.Scrolled(v, 0, 0, true, 0)
	assert.Equal(t, 0, st.offset, "scrolling up at the top stays put")

	for i := 0; i < 10; i++ {
		v.Hooks.Scrolled(v, 0, 0, false, 0)
	}
	v.Hooks.Expose(v, cr, 500, 300, 10000, -1)
	assert.Equal(t, 2, st.offset, "expose clamps the offset to the last row")
}
