package main

import (
	"lumen/internal/catalog"
	"lumen/internal/mips"
	"lumen/internal/thumb"
	"lumen/internal/view"
	"lumen/pkg/types"
)

// session wires the catalog, the mipmap cache, the compositor and the view
// manager together for one command invocation.
type session struct {
	cat   *catalog.Catalog
	cache *mips.Cache
	comp  *thumb.Compositor
	mgr   *view.Manager
}

// catalogImages adapts the synchronous catalog to the compositor's image
// cache interface. With no background loader both lookups behave the same.
type catalogImages struct {
	cat *catalog.Catalog
}

func (c catalogImages) Get(id types.ImageID) (types.ImageInfo, bool)     { return c.cat.Image(id) }
func (c catalogImages) TestGet(id types.ImageID) (types.ImageInfo, bool) { return c.cat.Image(id) }

func openSession(patterns ...string) (*session, error) {
	path, err := catalogPath()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(path)
	if err != nil {
		return nil, err
	}

	cache := mips.New(mips.FileLoader(cat), 0)

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
	if err := mgr.LoadViews(patterns...); err != nil {
		cat.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) close() {
	s.mgr.Cleanup()
	s.cat.Close()
}
