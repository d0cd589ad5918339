package widgets

import (
	"context"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/chooser/pkg/dirpicker"
	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/runtime"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

const (
	folderWidth  = 64
	folderHeight = 18

	// rows of chrome above the list: border, crumbs, current folder, rule
	folderHeader = 4
)

// FolderBrowserConfig configures a FolderBrowser.
type FolderBrowserConfig struct {
	Lister   dirpicker.Lister
	OnSelect func(path string)
	OnClose  func()
	// OnNavigate is told about every folder that loads.
	OnNavigate func(path string)

	// Post delivers browse results from a background goroutine. When nil,
	// browsing happens on the calling goroutine.
	Post func(runtime.Message)
	// Context bounds every browse. Defaults to context.Background.
	Context context.Context
}

// FolderBrowser is a centered modal that walks the directory tree.
type FolderBrowser struct {
	Base

	picker *dirpicker.Picker
	lister dirpicker.Lister
	post   func(runtime.Message)
	loaded func(string)
	ctx    context.Context
	cursor int
	offset int

	modal   runtime.Rect
	listTop int
	listEnd int
	footerY int
	crumbs  []crumbSpan
	cancel  span
	choose  span
	retry   span

	borderStyle  backend.Style
	titleStyle   backend.Style
	textStyle    backend.Style
	mutedStyle   backend.Style
	focusedStyle backend.Style
	errorStyle   backend.Style
	buttonStyle  backend.Style
}

type span struct{ x, y, width int }

func (s span) contains(x, y int) bool {
	return s.width > 0 && y == s.y && x >= s.x && x < s.x+s.width
}

type crumbSpan struct {
	span
	path string
}

// NewFolderBrowser creates a closed browser.
func NewFolderBrowser(cfg FolderBrowserConfig) *FolderBrowser {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	f := &FolderBrowser{
		lister:       cfg.Lister,
		post:         cfg.Post,
		loaded:       cfg.OnNavigate,
		ctx:          ctx,
		borderStyle:  backend.DefaultStyle().Foreground(backend.ColorGray),
		titleStyle:   backend.DefaultStyle().Bold(true),
		textStyle:    backend.DefaultStyle(),
		mutedStyle:   backend.DefaultStyle().Foreground(backend.ColorGray),
		focusedStyle: backend.DefaultStyle().Reverse(true),
		errorStyle:   backend.DefaultStyle().Foreground(backend.ColorRed),
		buttonStyle:  backend.DefaultStyle().Bold(true),
	}
	f.picker = dirpicker.NewPicker(cfg.Lister, cfg.OnSelect, cfg.OnClose)
	return f
}

// Picker exposes the browser state.
func (f *FolderBrowser) Picker() *dirpicker.Picker {
	return f.picker
}

// SetOnNavigate replaces the folder-loaded callback.
func (f *FolderBrowser) SetOnNavigate(fn func(path string)) {
	f.loaded = fn
}

// IsOpen reports whether the modal is shown.
func (f *FolderBrowser) IsOpen() bool {
	return f.picker.IsOpen()
}

// Cursor is the highlighted list row.
func (f *FolderBrowser) Cursor() int {
	return f.cursor
}

// Open shows the modal at initial, or home when blank.
func (f *FolderBrowser) Open(initial string) {
	if strings.TrimSpace(initial) == "" {
		initial = dirpicker.HomePath
	}
	f.picker.Show()
	f.navigate(initial)
}

func (f *FolderBrowser) navigate(path string) {
	f.cursor, f.offset = 0, 0
	f.browse(path)
}

// Refresh re-lists the current folder, keeping the cursor where possible.
func (f *FolderBrowser) Refresh() {
	if !f.IsOpen() || f.picker.Loading() || f.picker.CurrentPath() == "" {
		return
	}
	f.browse(f.picker.CurrentPath())
}

func (f *FolderBrowser) browse(path string) {
	if f.post == nil {
		if err := f.picker.Navigate(f.ctx, path); err == nil {
			f.afterLoad()
		}
		return
	}
	req := f.picker.Begin(path)
	go func() {
		listing, err := f.lister.Browse(f.ctx, req.Path)
		f.post(runtime.ResultMsg{Apply: func() {
			if f.picker.Finish(req, listing, err) && err == nil {
				f.afterLoad()
			}
		}})
	}()
}

func (f *FolderBrowser) afterLoad() {
	if n := len(f.picker.Rows()); f.cursor >= n {
		f.cursor = max(n-1, 0)
	}
	if f.loaded != nil {
		f.loaded(f.picker.CurrentPath())
	}
}

// Layout positions the modal centered in bounds.
func (f *FolderBrowser) Layout(bounds runtime.Rect) {
	f.Base.Layout(bounds)
	w := min(folderWidth, bounds.Width)
	h := min(folderHeight, bounds.Height)
	f.modal = runtime.Rect{
		X:      bounds.X + (bounds.Width-w)/2,
		Y:      bounds.Y + (bounds.Height-h)/2,
		Width:  w,
		Height: h,
	}
	f.listTop = f.modal.Y + folderHeader
	f.footerY = f.modal.Y + f.modal.Height - 2
	f.listEnd = f.footerY - 1
}

// ModalRect is the last laid out modal area.
func (f *FolderBrowser) ModalRect() runtime.Rect {
	return f.modal
}

// RowY returns the screen row of list row i, or -1 when scrolled away.
func (f *FolderBrowser) RowY(i int) int {
	y := f.listTop + i - f.offset
	if i < f.offset || y >= f.listEnd {
		return -1
	}
	return y
}

func (f *FolderBrowser) listHeight() int {
	return max(f.listEnd-f.listTop, 0)
}

// Render draws the modal when open.
func (f *FolderBrowser) Render(t backend.RenderTarget) {
	m := f.modal
	if !f.IsOpen() || m.Width < 20 || m.Height < 8 {
		return
	}
	fill(t, m, ' ', f.textStyle)
	drawBorder(t, m, f.borderStyle)
	title := " " + dirpicker.Title + " "
	drawString(t, m.X+(m.Width-runewidth.StringWidth(title))/2, m.Y, title, m.Width-2, f.titleStyle)

	inner := m.Width - 4
	x := m.X + 2
	f.renderCrumbs(t, x, m.Y+1, inner)

	used := drawString(t, x, m.Y+2, dirpicker.CurrentLabel+" ", inner, f.mutedStyle)
	drawString(t, x+used, m.Y+2, truncate(f.picker.CurrentPath(), inner-used), inner-used, f.textStyle)
	for cx := m.X + 1; cx < m.X+m.Width-1; cx++ {
		t.SetContent(cx, m.Y+3, '─', nil, f.borderStyle)
	}

	f.retry = span{}
	switch {
	case f.picker.Loading():
		drawString(t, x, f.listTop, dirpicker.LoadingText, inner, f.mutedStyle)
	case f.picker.Err() != nil:
		drawString(t, x, f.listTop, truncate("Error: "+f.picker.Err().Error(), inner), inner, f.errorStyle)
		label := "[Retry]"
		f.retry = span{x: x, y: f.listTop + 1, width: runewidth.StringWidth(label)}
		drawString(t, x, f.listTop+1, label, inner, f.buttonStyle)
	default:
		f.renderRows(t, m.X+1, m.Width-2)
	}

	f.renderFooter(t, m, inner)
}

func (f *FolderBrowser) renderCrumbs(t backend.RenderTarget, x, y, width int) {
	f.crumbs = f.crumbs[:0]
	used := drawString(t, x, y, "⌂", width, f.buttonStyle)
	f.crumbs = append(f.crumbs, crumbSpan{span: span{x: x, y: y, width: used}, path: dirpicker.HomePath})
	used++
	for i, c := range dirpicker.Breadcrumbs(f.picker.CurrentPath()) {
		if i > 0 {
			used += drawString(t, x+used, y, " › ", width-used, f.mutedStyle)
		} else {
			used++
		}
		n := drawString(t, x+used, y, c.Name, width-used, f.textStyle)
		if n == 0 {
			break
		}
		f.crumbs = append(f.crumbs, crumbSpan{span: span{x: x + used, y: y, width: n}, path: c.Path})
		used += n
	}
}

func (f *FolderBrowser) renderRows(t backend.RenderTarget, x, width int) {
	rows := f.picker.Rows()
	y := f.listTop
	for i := f.offset; i < len(rows) && y < f.listEnd; i++ {
		style := f.textStyle
		if rows[i].Parent {
			style = f.mutedStyle
		}
		if i == f.cursor {
			style = f.focusedStyle
			fill(t, runtime.Rect{X: x, Y: y, Width: width, Height: 1}, ' ', style)
		}
		icon := "▸ "
		if rows[i].Parent {
			icon = "↰ "
		}
		used := drawString(t, x+1, y, icon, width-1, style)
		drawString(t, x+1+used, y, truncate(rows[i].Label, width-1-used), width-1-used, style)
		y++
	}
	if len(f.picker.Listing().Directories) == 0 && y < f.listEnd {
		drawString(t, x+1, y, dirpicker.EmptyText, width-1, f.mutedStyle)
	}
}

func (f *FolderBrowser) renderFooter(t backend.RenderTarget, m runtime.Rect, inner int) {
	cancel := "[" + dirpicker.CancelLabel + "]"
	choose := "[" + dirpicker.SelectLabel + "]"
	cw, sw := runewidth.StringWidth(cancel), runewidth.StringWidth(choose)
	right := m.X + m.Width - 2
	f.choose = span{x: right - sw, y: f.footerY, width: sw}
	f.cancel = span{x: right - sw - 2 - cw, y: f.footerY, width: cw}

	style := f.buttonStyle
	if f.picker.CurrentPath() == "" {
		style = f.mutedStyle
	}
	drawString(t, f.cancel.x, f.footerY, cancel, inner, f.textStyle)
	drawString(t, f.choose.x, f.footerY, choose, inner, style)
	hint := "↵ open  ⌫ up  ~ home  tab select"
	drawString(t, m.X+2, f.footerY, truncate(hint, max(f.cancel.x-m.X-4, 0)), max(f.cancel.x-m.X-4, 0), f.mutedStyle)
}

// HandleMessage drives the modal while it is open. Every input is
// consumed while open.
func (f *FolderBrowser) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if !f.IsOpen() {
		return runtime.Unhandled()
	}
	switch m := msg.(type) {
	case runtime.KeyMsg:
		f.handleKey(m)
		return runtime.Handled()
	case runtime.MouseMsg:
		if m.Pressed() {
			f.handlePress(m.X, m.Y)
		}
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

func (f *FolderBrowser) handleKey(m runtime.KeyMsg) {
	rows := f.picker.Rows()
	switch m.Key {
	case terminal.KeyEscape:
		f.picker.Close()
	case terminal.KeyDown, terminal.KeyCtrlN:
		f.moveCursor(1, len(rows))
	case terminal.KeyUp, terminal.KeyCtrlP:
		f.moveCursor(-1, len(rows))
	case terminal.KeyEnter, terminal.KeyRight:
		if f.picker.Err() != nil {
			f.navigate(f.picker.RetryPath())
			return
		}
		if f.cursor < len(rows) && !f.picker.Loading() {
			f.navigate(rows[f.cursor].Path)
		}
	case terminal.KeyBackspace, terminal.KeyLeft:
		if l := f.picker.Listing(); l.HasParent() {
			f.navigate(l.ParentPath)
		}
	case terminal.KeyTab:
		f.picker.Select()
	case terminal.KeyRune:
		switch m.Rune {
		case '~':
			f.navigate(dirpicker.HomePath)
		case 'r':
			f.navigate(f.picker.RetryPath())
		}
	}
}

func (f *FolderBrowser) moveCursor(delta, n int) {
	if n == 0 {
		return
	}
	f.cursor = min(max(f.cursor+delta, 0), n-1)
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if h := f.listHeight(); h > 0 && f.cursor >= f.offset+h {
		f.offset = f.cursor - h + 1
	}
}

func (f *FolderBrowser) handlePress(x, y int) {
	if !f.modal.Contains(x, y) {
		f.picker.Close()
		return
	}
	switch {
	case f.cancel.contains(x, y):
		f.picker.Close()
		return
	case f.choose.contains(x, y):
		f.picker.Select()
		return
	case f.retry.contains(x, y):
		f.navigate(f.picker.RetryPath())
		return
	}
	for _, c := range f.crumbs {
		if c.contains(x, y) {
			f.navigate(c.path)
			return
		}
	}
	if f.picker.Loading() || f.picker.Err() != nil {
		return
	}
	rows := f.picker.Rows()
	if i := y - f.listTop + f.offset; y >= f.listTop && y < f.listEnd && i < len(rows) {
		f.navigate(rows[i].Path)
	}
}

var _ runtime.Widget = (*FolderBrowser)(nil)
