package selector

// QueryFocus is the cursor value meaning the query input (or nothing, when
// there is no query input) holds focus.
const QueryFocus = -1

// NavEvent is a navigation input applied to a Cursor.
type NavEvent int

const (
	NavDown NavEvent = iota
	NavUp
	// NavNext and NavPrev are the Ctrl-n/Ctrl-p pair. They walk the list
	// like Down/Up but never hand focus back to the host.
	NavNext
	NavPrev
)

// Step describes what a navigation event did. Moved and ReturnFocus are
// never both set.
type Step struct {
	Moved       bool
	ReturnFocus bool
}

// Cursor tracks which visible entry holds logical focus.
type Cursor struct {
	index          int
	hasQueryInput  bool
	canReturnFocus bool
}

// NewCursor creates a cursor at QueryFocus.
func NewCursor(hasQueryInput, canReturnFocus bool) Cursor {
	return Cursor{index: QueryFocus, hasQueryInput: hasQueryInput, canReturnFocus: canReturnFocus}
}

// Index returns the focused entry index, or QueryFocus.
func (c *Cursor) Index() int {
	return c.index
}

// AtQuery reports whether no entry is focused.
func (c *Cursor) AtQuery() bool {
	return c.index == QueryFocus
}

// Reset moves focus back to the query. Called whenever the visible list is
// rebuilt so the cursor never points into a stale list.
func (c *Cursor) Reset() {
	c.index = QueryFocus
}

// Prime focuses entry i of an n-entry list. Out-of-range indexes leave the
// cursor at QueryFocus.
func (c *Cursor) Prime(i, n int) bool {
	if i < 0 || i >= n {
		c.index = QueryFocus
		return false
	}
	c.index = i
	return true
}

// Apply runs ev against a list of n entries.
func (c *Cursor) Apply(ev NavEvent, n int) Step {
	switch ev {
	case NavDown, NavNext:
		if c.index < n-1 {
			c.index++
			return Step{Moved: true}
		}
	case NavUp:
		switch {
		case c.index > 0:
			c.index--
			return Step{Moved: true}
		case c.index == 0 && c.hasQueryInput:
			c.index = QueryFocus
			return Step{Moved: true}
		case c.index == 0 && c.canReturnFocus:
			return Step{ReturnFocus: true}
		}
	case NavPrev:
		if c.index > QueryFocus {
			c.index--
			return Step{Moved: true}
		}
	}
	return Step{}
}
