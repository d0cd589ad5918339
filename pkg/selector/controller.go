package selector

import (
	"strings"
	"time"

	"github.com/odvcencio/chooser/pkg/logging"
)

// NoOptionsText is shown in place of an empty visible list.
const NoOptionsText = "No options found"

// QueryBuffer is a host-owned text input used as the query source.
type QueryBuffer interface {
	Text() string
}

// Key is a keyboard input understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
	KeyCtrlN
	KeyCtrlP
)

// Config is everything the host supplies to a Controller.
type Config[V comparable] struct {
	Options  []Option[V]
	Value    V
	HasValue bool

	// Controlled hands the open flag to the host. Open is then the host's
	// current value and later changes arrive through SetOpen. Otherwise
	// Open is just the initial state.
	Controlled bool
	Open       bool

	// QueryBuffer makes a host-owned input the query source. When nil the
	// controller owns the query.
	QueryBuffer QueryBuffer
	// HideQueryInput removes the built-in query input; moving up from
	// the first entry then returns focus to the host.
	HideQueryInput bool

	MaxVisibleItems int
	// InitialFocusedIndex primes the cursor on every open.
	InitialFocusedIndex *int

	Predicate func(opt Option[V], query string) bool
	Codec     Codec[V]

	AllowCustomValue     bool
	CustomValueValidator func(string) bool
	CustomValueLabel     func(string) string

	ShowBrowseOption bool
	OnBrowse         func()

	OnChange      func(V)
	OnOpenChange  func(bool)
	OnFocusReturn func()

	// Pointer feeds outside-dismiss. Trigger and Surface are the areas
	// whose presses do not dismiss.
	Pointer PointerSource
	Trigger Region
	Surface Region

	Logger   *logging.Logger
	Observer Observer
}

// Controller ties ranking, navigation and open/close handling together.
// It is not safe for concurrent use; hosts drive it from their event loop.
type Controller[V comparable] struct {
	cfg   Config[V]
	owner openOwner
	obs   Observer

	query       string
	rankedQuery string
	visible     []Entry[V]
	cursor      Cursor

	outside Subscription
}

// New creates a controller. If the initial open flag is set the open
// transition runs immediately.
func New[V comparable](cfg Config[V]) *Controller[V] {
	c := &Controller[V]{cfg: cfg, obs: cfg.Observer}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	if cfg.Controlled {
		c.owner = &hostOpen{open: cfg.Open}
	} else {
		c.owner = &ownedOpen{open: cfg.Open}
	}
	c.cursor = NewCursor(c.hasQueryInput(), cfg.OnFocusReturn != nil)
	c.rerank()
	if cfg.Open {
		c.opened()
	}
	return c
}

func (c *Controller[V]) hasQueryInput() bool {
	return c.cfg.QueryBuffer != nil || !c.cfg.HideQueryInput
}

// IsOpen reports whether the options surface is shown.
func (c *Controller[V]) IsOpen() bool {
	return c.owner.isOpen()
}

// Controlled reports whether the host owns the open flag.
func (c *Controller[V]) Controlled() bool {
	return c.cfg.Controlled
}

// Open asks for the surface to open.
func (c *Controller[V]) Open() {
	c.requestOpen(true, "")
}

// Close asks for the surface to close without committing.
func (c *Controller[V]) Close() {
	c.requestOpen(false, CloseHost)
}

// Toggle flips the open state, as a trigger click does.
func (c *Controller[V]) Toggle() {
	if c.IsOpen() {
		c.requestOpen(false, CloseToggle)
		return
	}
	c.requestOpen(true, "")
}

// SetOpen pushes the host's open flag in controlled mode. It is ignored
// when the controller owns the flag.
func (c *Controller[V]) SetOpen(open bool) {
	if !c.owner.sync(open) {
		return
	}
	if open {
		c.opened()
	} else {
		c.closed()
	}
}

func (c *Controller[V]) requestOpen(open bool, reason CloseReason) {
	if !open && c.IsOpen() {
		c.obs.Closed(reason)
		c.cfg.Logger.Debug(logging.CategorySelector, "close_requested", "selector close requested",
			map[string]any{"reason": string(reason), "controlled": c.cfg.Controlled})
	}
	if c.owner.request(open) {
		if open {
			c.opened()
		} else {
			c.closed()
		}
	}
	if c.cfg.OnOpenChange != nil {
		c.cfg.OnOpenChange(open)
	}
}

func (c *Controller[V]) opened() {
	c.query = ""
	c.rerank()
	if c.cfg.InitialFocusedIndex != nil {
		c.cursor.Prime(*c.cfg.InitialFocusedIndex, len(c.visible))
	}
	c.attachOutside()
	c.cfg.Logger.Debug(logging.CategorySelector, "opened", "selector opened",
		map[string]any{"visible": len(c.visible), "cursor": c.cursor.Index()})
}

func (c *Controller[V]) closed() {
	c.detachOutside()
	c.query = ""
	c.rerank()
	c.cfg.Logger.Debug(logging.CategorySelector, "closed", "selector closed", nil)
}

// Unmount releases every listener. Call it when the host discards the
// selector, whatever its state.
func (c *Controller[V]) Unmount() {
	c.detachOutside()
}

// ListenerActive reports whether the outside-dismiss listener is attached.
func (c *Controller[V]) ListenerActive() bool {
	return c.outside != nil
}

func (c *Controller[V]) attachOutside() {
	if c.outside != nil || c.cfg.Pointer == nil {
		return
	}
	c.outside = c.cfg.Pointer.Subscribe(c.handlePointer)
}

func (c *Controller[V]) detachOutside() {
	if c.outside == nil {
		return
	}
	c.outside.Unsubscribe()
	c.outside = nil
}

func (c *Controller[V]) handlePointer(ev PointerEvent) {
	if !c.IsOpen() {
		return
	}
	if regionContains(c.cfg.Trigger, ev.X, ev.Y) || regionContains(c.cfg.Surface, ev.X, ev.Y) {
		return
	}
	c.requestOpen(false, CloseOutside)
}

// SetOptions replaces the host's option list and re-ranks.
func (c *Controller[V]) SetOptions(options []Option[V]) {
	c.cfg.Options = options
	c.rerank()
}

// Options returns the host's option list.
func (c *Controller[V]) Options() []Option[V] {
	return c.cfg.Options
}

// SetValue records the host's current value.
func (c *Controller[V]) SetValue(v V) {
	c.cfg.Value = v
	c.cfg.HasValue = true
}

// ClearValue forgets the current value.
func (c *Controller[V]) ClearValue() {
	var zero V
	c.cfg.Value = zero
	c.cfg.HasValue = false
}

// Value returns the host's current value.
func (c *Controller[V]) Value() (V, bool) {
	return c.cfg.Value, c.cfg.HasValue
}

// IsSelected reports whether e carries the current value.
func (c *Controller[V]) IsSelected(e Entry[V]) bool {
	return c.cfg.HasValue && e.Kind != EntryBrowse && e.Value == c.cfg.Value
}

// Query returns the authoritative query text.
func (c *Controller[V]) Query() string {
	if c.cfg.QueryBuffer != nil {
		return c.cfg.QueryBuffer.Text()
	}
	return c.query
}

// SetQuery replaces the internal query. Ignored when a host buffer is the
// query source.
func (c *Controller[V]) SetQuery(q string) {
	if c.cfg.QueryBuffer != nil || q == c.query {
		return
	}
	c.query = q
	c.rerank()
}

// TypeRune appends r to the internal query.
func (c *Controller[V]) TypeRune(r rune) {
	c.SetQuery(c.query + string(r))
}

// Backspace removes the last rune of the internal query.
func (c *Controller[V]) Backspace() {
	runes := []rune(c.query)
	if len(runes) == 0 {
		return
	}
	c.SetQuery(string(runes[:len(runes)-1]))
}

// QueryChanged tells the controller the host buffer was edited.
func (c *Controller[V]) QueryChanged() {
	c.rerank()
}

// sync re-ranks when a host buffer changed without QueryChanged, so
// navigation never runs against a stale list.
func (c *Controller[V]) sync() {
	if c.Query() != c.rankedQuery {
		c.rerank()
	}
}

func (c *Controller[V]) rerank() {
	start := time.Now()
	query := c.Query()
	c.visible = Rank(c.cfg.Options, query, RankPolicy[V]{
		Predicate:            c.cfg.Predicate,
		Codec:                c.cfg.Codec,
		AllowCustomValue:     c.cfg.AllowCustomValue,
		CustomValueValidator: c.cfg.CustomValueValidator,
		CustomValueLabel:     c.cfg.CustomValueLabel,
		ShowBrowseOption:     c.cfg.ShowBrowseOption,
		BrowseAvailable:      c.cfg.OnBrowse != nil,
		MaxVisibleItems:      c.cfg.MaxVisibleItems,
	})
	c.rankedQuery = query
	c.cursor.Reset()
	c.obs.Ranked(len(c.visible), time.Since(start))
}

// Visible returns the current visible list. Callers must not modify it.
func (c *Controller[V]) Visible() []Entry[V] {
	c.sync()
	return c.visible
}

// Empty reports whether the visible list is empty, in which case hosts
// render NoOptionsText.
func (c *Controller[V]) Empty() bool {
	return len(c.Visible()) == 0
}

// Cursor returns the focused index or QueryFocus.
func (c *Controller[V]) Cursor() int {
	c.sync()
	return c.cursor.Index()
}

// Focused returns the focused entry, if any.
func (c *Controller[V]) Focused() (Entry[V], bool) {
	c.sync()
	i := c.cursor.Index()
	if i < 0 || i >= len(c.visible) {
		return Entry[V]{}, false
	}
	return c.visible[i], true
}

// HandleKey applies a key while open and reports whether it was consumed.
func (c *Controller[V]) HandleKey(k Key) bool {
	if !c.IsOpen() {
		return false
	}
	c.sync()

	switch k {
	case KeyDown:
		c.navigate(NavDown)
	case KeyUp:
		c.navigate(NavUp)
	case KeyCtrlN:
		c.navigate(NavNext)
	case KeyCtrlP:
		c.navigate(NavPrev)
	case KeyEnter:
		if c.cursor.AtQuery() {
			c.CommitQuery()
		} else {
			c.Commit(c.cursor.Index())
		}
	case KeyEscape:
		c.requestOpen(false, CloseEscape)
	default:
		return false
	}
	return true
}

func (c *Controller[V]) navigate(ev NavEvent) {
	step := c.cursor.Apply(ev, len(c.visible))
	if step.ReturnFocus && c.cfg.OnFocusReturn != nil {
		c.cfg.OnFocusReturn()
	}
	if step.Moved || step.ReturnFocus {
		c.cfg.Logger.Debug(logging.CategoryNavigation, "moved", "cursor moved",
			map[string]any{"cursor": c.cursor.Index(), "focus_return": step.ReturnFocus})
	}
}

// Click commits visible entry i, as a pointer click does.
func (c *Controller[V]) Click(i int) (Choice[V], bool) {
	c.sync()
	return c.Commit(i)
}

// Commit finalizes visible entry i. Disabled entries, bad indexes and a
// closed surface are no-ops.
func (c *Controller[V]) Commit(i int) (Choice[V], bool) {
	if !c.IsOpen() || i < 0 || i >= len(c.visible) {
		return Choice[V]{}, false
	}
	entry := c.visible[i]
	if entry.Disabled {
		return Choice[V]{}, false
	}

	var choice Choice[V]
	kind := CommitOption
	switch entry.Kind {
	case EntryBrowse:
		choice = Choice[V]{Kind: ChoiceBrowse}
		kind = CommitBrowse
	case EntryCustom:
		choice = Choice[V]{Kind: ChoiceValue, Value: entry.Value}
		kind = CommitCustom
	default:
		choice = Choice[V]{Kind: ChoiceValue, Value: entry.Value}
	}
	c.deliver(choice, kind)
	return choice, true
}

// CommitQuery commits the trimmed query text as the value, as Enter on
// the query input or the "use typed text" button does.
func (c *Controller[V]) CommitQuery() (Choice[V], bool) {
	text := strings.TrimSpace(c.Query())
	if !c.IsOpen() || text == "" {
		return Choice[V]{}, false
	}
	value, ok := c.cfg.Codec.parse(text)
	if !ok {
		return Choice[V]{}, false
	}
	choice := Choice[V]{Kind: ChoiceValue, Value: value}
	c.deliver(choice, CommitQuery)
	return choice, true
}

func (c *Controller[V]) deliver(choice Choice[V], kind CommitKind) {
	c.obs.Committed(kind)
	c.cfg.Logger.Debug(logging.CategorySelector, "committed", "selector committed",
		map[string]any{"kind": string(kind)})

	switch choice.Kind {
	case ChoiceBrowse:
		if c.cfg.OnBrowse != nil {
			c.cfg.OnBrowse()
		}
	default:
		if c.cfg.OnChange != nil {
			c.cfg.OnChange(choice.Value)
		}
	}
	c.requestOpen(false, CloseCommit)
}
