package ledger

import (
	"time"

	"annunciator/internal/backend"
)

// Status is the lifecycle state of a ledger row.
type Status string

const (
	StatusIssued  Status = "issued"
	StatusDeleted Status = "deleted"
	StatusFailed  Status = "failed"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusIssued, StatusFailed, StatusDeleted}
}

// Pending reports whether the asset may still exist on the backend.
func (s Status) Pending() bool {
	return s == StatusIssued || s == StatusFailed
}

// Asset is one backend-issued file.
type Asset struct {
	ID           int64
	SessionID    string
	Kind         backend.AssetKind
	Filename     string
	URL          string
	Status       Status
	Attempts     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Statuses []Status
	Kind     backend.AssetKind
	Limit    int
}
