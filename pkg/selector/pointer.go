package selector

// PointerEvent is a pointer press somewhere on the host surface.
type PointerEvent struct {
	X, Y int
}

// Subscription is a live listener registration.
// Unsubscribe must be safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// PointerSource is the global pointer-press feed used for outside
// dismissal. The controller subscribes only while open.
type PointerSource interface {
	Subscribe(fn func(PointerEvent)) Subscription
}

// Region is an area of the host surface, such as the trigger or the
// floating options surface.
type Region interface {
	Contains(x, y int) bool
}

// RegionFunc adapts a function to Region.
type RegionFunc func(x, y int) bool

// Contains calls f.
func (f RegionFunc) Contains(x, y int) bool {
	return f(x, y)
}

func regionContains(r Region, x, y int) bool {
	return r != nil && r.Contains(x, y)
}
