package types

// ViewType is a capability flag identifying what kind of full-window mode a
// view implements. Views report a bitmask so a plugin can declare itself
// visible in several of them at once.
type ViewType uint32

const (
	ViewLighttable ViewType = 1 << iota
	ViewDarkroom
	ViewTethering
	ViewMap
	ViewSlideshow
	ViewPrint
	ViewKnowledge // reserved

	ViewNone ViewType = 0
	ViewAll  ViewType = 0xffffffff
)

// Container names a panel slot plugins can ask to be inserted into.
type Container int

const (
	ContainerLeftTop Container = iota
	ContainerLeftCenter
	ContainerLeftBottom
	ContainerRightTop
	ContainerRightCenter
	ContainerRightBottom
	ContainerTop
	ContainerBottom

	// ContainerCount bounds iteration over all slots.
	ContainerCount
)
