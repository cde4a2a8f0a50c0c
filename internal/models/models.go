// package models defines the data model for the playlist reconciliation tool
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is one row of a playlist document.
//
// Position is the 1-based row order in the document. The numeric cell in the
// markdown table is display-only and may be stale, so it is never trusted.
type Track struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
}

func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}

// SearchMatch is one candidate video returned by a search, in the service's
// own ranking order.
type SearchMatch struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
}

// ResolutionStatus marks whether a search produced any candidates.
type ResolutionStatus string

const (
	StatusFound    ResolutionStatus = "found"
	StatusNotFound ResolutionStatus = "not_found"
)

// Resolution is the cached outcome of searching for one track.
//
// Selected indexes into Matches and defaults to 0. The cache file is meant to
// be hand-edited, so Selected is validated at use time rather than load time.
type Resolution struct {
	Status     ResolutionStatus `json:"status"`
	Matches    []SearchMatch    `json:"matches"`
	Selected   int              `json:"selected"`
	SearchedAt time.Time        `json:"searched_at"`
	QueryUsed  string           `json:"query_used"`
}

// Found reports whether the resolution carries at least one candidate.
func (r Resolution) Found() bool {
	return r.Status == StatusFound && len(r.Matches) > 0
}

// Chosen returns the selected match. Selection out of range is an error so a
// bad hand edit surfaces with context instead of silently picking index 0.
func (r Resolution) Chosen() (SearchMatch, error) {
	if !r.Found() {
		return SearchMatch{}, fmt.Errorf("no match available (status %q)", r.Status)
	}
	if r.Selected < 0 || r.Selected >= len(r.Matches) {
		return SearchMatch{}, fmt.Errorf("selected index %d out of range (have %d matches)", r.Selected, len(r.Matches))
	}
	return r.Matches[r.Selected], nil
}

// Playlist represents a remote playlist's metadata.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
	ItemCount   int    `json:"item_count"`
}

// URL returns the public watch URL for the playlist.
func (p Playlist) URL() string {
	return "https://www.youtube.com/playlist?list=" + p.ID
}

// LiveItem is one entry of a remote playlist as listed by the service.
//
// ItemID identifies the playlist membership (needed for delete/move); VideoID
// identifies the video itself. Position is the 0-based index in the playlist.
type LiveItem struct {
	ItemID   string `json:"item_id"`
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Position int64  `json:"position"`
}

// Run operations and terminal statuses recorded in history.
const (
	OpSearch = "search"
	OpCreate = "create"
	OpSync   = "sync"

	RunCompleted   = "completed"
	RunInterrupted = "interrupted"
	RunFailed      = "failed"
)

// Run is one recorded invocation of a mutating command, persisted for
// `ytlist history`.
type Run struct {
	id         string
	operation  string
	document   string
	title      string
	playlistID string
	added      int
	skipped    int
	moved      int
	removed    int
	unknown    int
	notFound   int
	quotaSpent int
	status     string
	startedAt  time.Time
	finishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRun builds a Run for the given operation and document. The ID is assigned
// by the repository on create.
func NewRun(operation, document, title string) *Run {
	now := time.Now()
	return &Run{
		operation: operation,
		document:  document,
		title:     title,
		status:    RunFailed,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Run) ID() string            { return r.id }
func (r *Run) CreatedAt() time.Time  { return r.createdAt }
func (r *Run) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Run) Operation() string     { return r.operation }
func (r *Run) Document() string      { return r.document }
func (r *Run) Title() string         { return r.title }
func (r *Run) PlaylistID() string    { return r.playlistID }
func (r *Run) Added() int            { return r.added }
func (r *Run) Skipped() int          { return r.skipped }
func (r *Run) Moved() int            { return r.moved }
func (r *Run) Removed() int          { return r.removed }
func (r *Run) Unknown() int          { return r.unknown }
func (r *Run) NotFound() int         { return r.notFound }
func (r *Run) QuotaSpent() int       { return r.quotaSpent }
func (r *Run) Status() string        { return r.status }
func (r *Run) StartedAt() time.Time  { return r.startedAt }
func (r *Run) FinishedAt() time.Time { return r.finishedAt }

func (r *Run) SetID(id string)             { r.id = id }
func (r *Run) SetPlaylistID(id string)     { r.playlistID = id }
func (r *Run) SetStatus(status string)     { r.status = status }
func (r *Run) SetQuotaSpent(units int)     { r.quotaSpent = units }
func (r *Run) SetUpdatedAt(t time.Time)    { r.updatedAt = t }
func (r *Run) SetCounts(added, skipped, moved, removed, unknown, notFound int) {
	r.added = added
	r.skipped = skipped
	r.moved = moved
	r.removed = removed
	r.unknown = unknown
	r.notFound = notFound
}

// Finish stamps the terminal status and completion time.
func (r *Run) Finish(status string) {
	r.status = status
	r.finishedAt = time.Now()
	r.updatedAt = r.finishedAt
}

// Validate checks required fields and enum values.
func (r *Run) Validate() error {
	switch r.operation {
	case OpSearch, OpCreate, OpSync:
	default:
		return fmt.Errorf("invalid operation: %q", r.operation)
	}
	switch r.status {
	case RunCompleted, RunInterrupted, RunFailed:
	default:
		return fmt.Errorf("invalid status: %q", r.status)
	}
	if r.document == "" {
		return fmt.Errorf("document path is required")
	}
	return nil
}

// RestoreRun rebuilds a Run from persisted columns. Used by repositories when
// scanning rows; not intended for new runs.
func RestoreRun(id, operation, document, title, playlistID string, added, skipped, moved, removed, unknown, notFound, quotaSpent int, status string, startedAt, finishedAt, createdAt, updatedAt time.Time) *Run {
	return &Run{
		id:         id,
		operation:  operation,
		document:   document,
		title:      title,
		playlistID: playlistID,
		added:      added,
		skipped:    skipped,
		moved:      moved,
		removed:    removed,
		unknown:    unknown,
		notFound:   notFound,
		quotaSpent: quotaSpent,
		status:     status,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}
