package selector

import "time"

// CommitKind labels what a commit delivered.
type CommitKind string

const (
	CommitOption CommitKind = "option"
	CommitCustom CommitKind = "custom"
	CommitQuery  CommitKind = "query"
	CommitBrowse CommitKind = "browse"
)

// CloseReason labels why the surface was asked to close.
type CloseReason string

const (
	CloseCommit  CloseReason = "commit"
	CloseEscape  CloseReason = "escape"
	CloseOutside CloseReason = "outside"
	CloseToggle  CloseReason = "toggle"
	CloseHost    CloseReason = "host"
)

// Observer receives selector activity for metrics. See pkg/telemetry.
type Observer interface {
	Ranked(visible int, elapsed time.Duration)
	Committed(kind CommitKind)
	Closed(reason CloseReason)
}

type nopObserver struct{}

func (nopObserver) Ranked(int, time.Duration) {}
func (nopObserver) Committed(CommitKind)      {}
func (nopObserver) Closed(CloseReason)        {}
