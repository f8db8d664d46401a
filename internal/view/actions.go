package view

import (
	"lumen/pkg/types"
)

// ImageStore is the metadata lookup the act-on logic needs.
type ImageStore interface {
	Get(id types.ImageID) (types.ImageInfo, bool)
}

// SelectionQueries is the slice of the catalog the act-on logic reads.
type SelectionQueries interface {
	IsSelected(id types.ImageID) bool
	// SelectedOrdered returns the selection restricted to the current
	// collection, in collection order.
	SelectedOrdered() []types.ImageID
	// GroupMembers returns the collection members of a group, including
	// ones hidden by group collapsing.
	GroupMembers(groupID types.ImageID) []types.ImageID
	// HasCollection reports whether a collection is active at all.
	HasCollection() bool
}

// ActiveImagesReset empties the active images list. raise controls whether
// listeners hear about it.
func (m *Manager) ActiveImagesReset(raise bool) {
	if len(m.activeImages) < 1 {
		return
	}
	m.activeImages = nil
	if raise && m.OnActiveImagesChange != nil {
		m.OnActiveImagesChange()
	}
}

// ActiveImagesAdd appends an image to the active list. Duplicates are
// allowed; callers reset first when they want a clean slate.
func (m *Manager) ActiveImagesAdd(id types.ImageID, raise bool) {
	m.activeImages = append(m.activeImages, id)
	if raise && m.OnActiveImagesChange != nil {
		m.OnActiveImagesChange()
	}
}

// ActiveImages returns the active list. The slice belongs to the manager.
func (m *Manager) ActiveImages() []types.ImageID {
	return m.activeImages
}

func (m *Manager) actOnInsert(list *[]types.ImageID, id types.ImageID, onlyVisible bool) {
	appendUnique := func(id types.ImageID) {
		for _, v := range *list {
			if v == id {
				return
			}
		}
		*list = append(*list, id)
	}

	if onlyVisible {
		appendUnique(id)
		return
	}

	if m.Images == nil {
		appendUnique(id)
		return
	}
	info, ok := m.Images.Get(id)
	if !ok {
		return
	}
	groupID := info.GroupID

	if !m.Grouping || m.ExpandedGroupID == groupID ||
		m.Sel == nil || !m.Sel.HasCollection() {
		appendUnique(id)
		return
	}
	for _, member := range m.Sel.GroupMembers(groupID) {
		appendUnique(member)
	}
}

// ImagesToActOn returns the images a global action (rating, export, delete)
// applies to. Precedence: pointing at a selected image inside the table
// acts on the whole selection; pointing elsewhere acts on that image alone;
// with no pointer the active images win, then the selection.
//
// With onlyVisible false the result also pulls in group members hidden by
// collapsed groups.
func (m *Manager) ImagesToActOn(onlyVisible bool) []types.ImageID {
	var l []types.ImageID
	mouseover := m.MouseOverID

	if mouseover > 0 {
		if m.MouseInsideTable {
			insideSel := m.Sel != nil && m.Sel.IsSelected(mouseover)
			if insideSel {
				for _, id := range m.Sel.SelectedOrdered() {
					m.actOnInsert(&l, id, onlyVisible)
				}
			} else {
				m.actOnInsert(&l, mouseover, onlyVisible)
			}
		} else {
			// filmstrip case, the pointer is in the center widget
			m.actOnInsert(&l, mouseover, onlyVisible)
		}
	} else {
		if len(m.activeImages) > 0 {
			for _, id := range m.activeImages {
				m.actOnInsert(&l, id, onlyVisible)
			}
		} else if m.Sel != nil {
			for _, id := range m.Sel.SelectedOrdered() {
				m.actOnInsert(&l, id, onlyVisible)
			}
		}
	}

	return l
}

// ImageToActOn returns the single image a global action applies to:
// pointer first, then the first active image, then the first selected one.
func (m *Manager) ImageToActOn() types.ImageID {
	if m.MouseOverID > 0 {
		return m.MouseOverID
	}
	if len(m.activeImages) > 0 {
		return m.activeImages[0]
	}
	if m.Sel != nil {
		if sel := m.Sel.SelectedOrdered(); len(sel) > 0 {
			return sel[0]
		}
	}
	return types.NoImage
}
