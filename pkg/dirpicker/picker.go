package dirpicker

import (
	"context"
	"strings"
)

const (
	Title        = "Select Folder"
	LoadingText  = "Loading directories..."
	EmptyText    = "No subdirectories found"
	ParentLabel  = ".. (Parent Directory)"
	SelectLabel  = "Select This Folder"
	CancelLabel  = "Cancel"
	CurrentLabel = "Current folder:"
)

// Crumb is one clickable segment of the current path.
type Crumb struct {
	Name string
	Path string
}

// Breadcrumbs splits path into Root followed by its cumulative segments.
func Breadcrumbs(path string) []Crumb {
	if path == "" {
		return nil
	}
	crumbs := []Crumb{{Name: "Root", Path: "/"}}
	built := ""
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		built += "/" + seg
		crumbs = append(crumbs, Crumb{Name: seg, Path: built})
	}
	return crumbs
}

// Row is one line of the directory list.
type Row struct {
	Label  string
	Path   string
	Parent bool
}

// Request identifies an in-flight browse. Results for anything but the
// latest request are dropped.
type Request struct {
	Seq  uint64
	Path string
}

// Picker is the folder browser's modal state. Like the selector it is
// driven from a single event loop.
type Picker struct {
	lister   Lister
	onSelect func(string)
	onClose  func()

	open    bool
	loading bool
	err     error
	listing Listing
	seq     uint64
}

// NewPicker creates a closed picker. onSelect receives the chosen folder.
func NewPicker(lister Lister, onSelect func(string), onClose func()) *Picker {
	return &Picker{lister: lister, onSelect: onSelect, onClose: onClose}
}

// IsOpen reports whether the picker is showing.
func (p *Picker) IsOpen() bool { return p.open }

// Loading reports whether a browse is in flight.
func (p *Picker) Loading() bool { return p.loading }

// Err is the last browse failure, cleared by the next browse.
func (p *Picker) Err() error { return p.err }

// Listing is the last successful listing.
func (p *Picker) Listing() Listing { return p.listing }

// CurrentPath is the folder Select would choose.
func (p *Picker) CurrentPath() string { return p.listing.CurrentPath }

// Rows returns the parent entry, when there is one, followed by the
// subdirectories.
func (p *Picker) Rows() []Row {
	rows := make([]Row, 0, len(p.listing.Directories)+1)
	if p.listing.HasParent() {
		rows = append(rows, Row{Label: ParentLabel, Path: p.listing.ParentPath, Parent: true})
	}
	for _, d := range p.listing.Directories {
		rows = append(rows, Row{Label: d.Name, Path: d.Path})
	}
	return rows
}

// Empty reports whether a loaded listing has no subdirectories.
func (p *Picker) Empty() bool {
	return !p.loading && p.err == nil && len(p.listing.Directories) == 0
}

// Show marks the picker open without browsing. Hosts that browse off
// their event loop call Show and then Begin.
func (p *Picker) Show() {
	p.open = true
	p.err = nil
}

// Open shows the picker and browses initial, or home when blank.
func (p *Picker) Open(ctx context.Context, initial string) error {
	p.Show()
	if strings.TrimSpace(initial) == "" {
		initial = HomePath
	}
	return p.Navigate(ctx, initial)
}

// Navigate browses path synchronously.
func (p *Picker) Navigate(ctx context.Context, path string) error {
	req := p.Begin(path)
	listing, err := p.lister.Browse(ctx, req.Path)
	p.Finish(req, listing, err)
	return err
}

// Begin marks a browse of path as in flight. Hosts that browse off their
// event loop pair it with Finish.
func (p *Picker) Begin(path string) Request {
	p.seq++
	p.loading = true
	p.err = nil
	return Request{Seq: p.seq, Path: path}
}

// Finish applies a browse result and reports whether it was current.
// A failed browse keeps the previous listing so Retry knows where it was.
func (p *Picker) Finish(req Request, listing Listing, err error) bool {
	if req.Seq != p.seq {
		return false
	}
	p.loading = false
	if err != nil {
		p.err = err
		return true
	}
	p.listing = listing
	return true
}

// Parent browses one level up. A no-op at the root.
func (p *Picker) Parent(ctx context.Context) error {
	if !p.listing.HasParent() {
		return nil
	}
	return p.Navigate(ctx, p.listing.ParentPath)
}

// Home browses the home directory.
func (p *Picker) Home(ctx context.Context) error {
	return p.Navigate(ctx, HomePath)
}

// Retry repeats the browse of the current folder, or home.
func (p *Picker) Retry(ctx context.Context) error {
	return p.Navigate(ctx, p.RetryPath())
}

// RetryPath is the path Retry browses.
func (p *Picker) RetryPath() string {
	if p.listing.CurrentPath != "" {
		return p.listing.CurrentPath
	}
	return HomePath
}

// Select hands the current folder to onSelect and closes. It does nothing
// before a folder has loaded.
func (p *Picker) Select() bool {
	if !p.open || p.listing.CurrentPath == "" {
		return false
	}
	path := p.listing.CurrentPath
	if p.onSelect != nil {
		p.onSelect(path)
	}
	p.Close()
	return true
}

// Close hides the picker. In-flight results are dropped.
func (p *Picker) Close() {
	if !p.open {
		return
	}
	p.open = false
	p.loading = false
	p.seq++
	if p.onClose != nil {
		p.onClose()
	}
}
