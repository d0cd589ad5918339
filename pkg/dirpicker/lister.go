// Package dirpicker lists directories for the folder browser and adapts a
// string selector into a directory selector.
package dirpicker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/odvcencio/chooser/pkg/errors"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/telemetry"
)

// HomePath is the path alias for the user's home directory.
const HomePath = "~"

// Directory is one browsable subdirectory.
type Directory struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Listing is the content of one directory. ParentPath is empty at the
// filesystem root.
type Listing struct {
	CurrentPath string      `json:"currentPath"`
	ParentPath  string      `json:"parentPath"`
	Directories []Directory `json:"directories"`
}

// HasParent reports whether the listing can go up a level.
func (l Listing) HasParent() bool {
	return l.ParentPath != ""
}

// Lister resolves a path to its subdirectories.
//
//go:generate mockgen -package=dirpicker -destination=mock_lister_test.go github.com/odvcencio/chooser/pkg/dirpicker Lister
type Lister interface {
	Browse(ctx context.Context, path string) (Listing, error)
}

// BrowseRecorder receives the outcome of every listing.
type BrowseRecorder interface {
	Browsed(err error, elapsed time.Duration)
}

// FSLister lists directories on the local filesystem. Concurrent browses
// of the same path share one read.
type FSLister struct {
	// Home replaces ~. Defaults to os.UserHomeDir.
	Home       string
	ShowHidden bool

	Logger   *logging.Logger
	Hub      *telemetry.Hub
	Recorder BrowseRecorder

	group singleflight.Group
}

// NewFSLister returns a lister for the local filesystem.
func NewFSLister(showHidden bool) *FSLister {
	return &FSLister{ShowHidden: showHidden}
}

// Browse lists the subdirectories of path.
func (l *FSLister) Browse(ctx context.Context, path string) (Listing, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "dirpicker.browse", attribute.String("dir.requested", path))
	defer span.End()

	resolved, err := l.resolve(path)
	if err != nil {
		return l.finish(path, Listing{}, err, start, span)
	}
	span.SetAttributes(attribute.String("dir.path", resolved))

	v, err, shared := l.group.Do(resolved, func() (any, error) {
		return l.read(ctx, resolved)
	})
	span.SetAttributes(attribute.Bool("dir.shared", shared))
	listing, _ := v.(Listing)
	return l.finish(path, listing, err, start, span)
}

func (l *FSLister) finish(requested string, listing Listing, err error, start time.Time, span trace.Span) (Listing, error) {
	elapsed := time.Since(start)
	if l.Recorder != nil {
		l.Recorder.Browsed(err, elapsed)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.Logger.Warn(logging.CategoryDirectory, "browse_failed", "directory browse failed",
			map[string]any{"path": requested, "code": string(apperrors.GetCode(err))})
		l.Hub.Publish(telemetry.Event{
			Type: telemetry.EventDirectoryFailed,
			Data: map[string]any{"path": requested, "error": err.Error()},
		})
		return Listing{}, err
	}
	l.Logger.Debug(logging.CategoryDirectory, "browsed", "directory listed",
		map[string]any{"path": listing.CurrentPath, "count": len(listing.Directories)})
	l.Hub.Publish(telemetry.Event{
		Type: telemetry.EventDirectoryBrowsed,
		Data: map[string]any{"path": listing.CurrentPath, "count": len(listing.Directories)},
	})
	return listing, nil
}

func (l *FSLister) read(ctx context.Context, dir string) (Listing, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Listing{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryNotFound, "directory not found").
				WithContext("path", dir).
				WithUserMessage("Directory does not exist: " + dir)
		}
		return Listing{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryRead, "stat directory").
			WithContext("path", dir)
	}
	if !info.IsDir() {
		return Listing{}, apperrors.New(apperrors.ErrCodeNotDirectory, "not a directory").
			WithContext("path", dir).
			WithUserMessage("Not a directory: " + dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryRead, "read directory").
			WithContext("path", dir).
			WithUserMessage("Cannot read directory: " + dir).
			WithRemediation("Check the directory permissions")
	}
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	dirs := make([]Directory, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !l.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !isDir(dir, entry) {
			continue
		}
		dirs = append(dirs, Directory{Name: name, Path: filepath.Join(dir, name)})
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].Name) < strings.ToLower(dirs[j].Name)
	})

	return Listing{CurrentPath: dir, ParentPath: parentOf(dir), Directories: dirs}, nil
}

// isDir follows symlinks so linked directories are browsable.
func isDir(parent string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func parentOf(dir string) string {
	parent := filepath.Dir(dir)
	if parent == dir {
		return ""
	}
	return parent
}

func (l *FSLister) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = HomePath
	}
	if path == HomePath || strings.HasPrefix(path, HomePath+"/") {
		home, err := l.home()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, HomePath))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "resolve path").WithContext("path", path)
	}
	return abs, nil
}

func (l *FSLister) home() (string, error) {
	if l.Home != "" {
		return l.Home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve home directory")
	}
	return home, nil
}
