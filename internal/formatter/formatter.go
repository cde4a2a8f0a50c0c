// package formatter renders resolution reports and sync summaries to Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytlist/ytlist/internal/cache"
	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/shared"
	"github.com/ytlist/ytlist/internal/tasks"
)

// Track status values as rendered in reports. "found" and "not_found" mirror
// the cache file vocabulary; "unresolved" marks tracks never searched.
const (
	StatusFound      = "found"
	StatusNotFound   = "not_found"
	StatusUnresolved = "unresolved"
)

// ResolutionRow is one document track's cache outcome.
type ResolutionRow struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Status   string `json:"status"`
	VideoID  string `json:"video_id,omitempty"`
	Match    string `json:"match,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Duration string `json:"duration,omitempty"`
	Query    string `json:"query_used,omitempty"`
}

// ResolutionReport aggregates the cache state for every track of a document.
type ResolutionReport struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Total       int             `json:"total"`
	Found       int             `json:"found"`
	NotFound    int             `json:"not_found"`
	Unresolved  int             `json:"unresolved"`
	Tracks      []ResolutionRow `json:"tracks"`
}

// BuildResolutionReport reads the cache entry for every track in the document.
//
// A cached selection pointing outside its match list is an error here, same as
// everywhere else the cache is consumed.
func BuildResolutionReport(doc *document.Document, store *cache.Store) (*ResolutionReport, error) {
	report := &ResolutionReport{
		Title:       doc.Title,
		GeneratedAt: time.Now(),
		Total:       len(doc.Tracks),
		Tracks:      make([]ResolutionRow, 0, len(doc.Tracks)),
	}

	for _, track := range doc.Tracks {
		row := ResolutionRow{Position: track.Position, Title: track.Title, Artist: track.Artist}

		res, ok := store.Get(shared.NormalizeTrackKey(track.Title, track.Artist))
		switch {
		case !ok:
			row.Status = StatusUnresolved
			report.Unresolved++
		case !res.Found():
			row.Status = StatusNotFound
			row.Query = res.QueryUsed
			report.NotFound++
		default:
			match, err := res.Chosen()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", track, err)
			}
			row.Status = StatusFound
			row.VideoID = match.VideoID
			row.Match = match.Title
			row.Channel = match.Channel
			row.Duration = match.Duration
			row.Query = res.QueryUsed
			report.Found++
		}

		report.Tracks = append(report.Tracks, row)
	}

	return report, nil
}

// ResolutionToMarkdown renders a document's cache state as a Markdown table
func ResolutionToMarkdown(doc *document.Document, store *cache.Store) ([]byte, error) {
	report, err := BuildResolutionReport(doc, store)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Resolution Report: %s\n\n", report.Title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Found**: %d\n", report.Found))
	buf.WriteString(fmt.Sprintf("**Not found**: %d\n", report.NotFound))
	if report.Unresolved > 0 {
		buf.WriteString(fmt.Sprintf("**Unresolved**: %d\n", report.Unresolved))
	}
	buf.WriteString("\n")

	buf.WriteString("| # | Track | Status | Match | Channel | Duration | Query |\n")
	buf.WriteString("|---|-------|--------|-------|---------|----------|-------|\n")
	for _, row := range report.Tracks {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			row.Position,
			cell(fmt.Sprintf("%s - %s", row.Title, row.Artist)),
			row.Status,
			cell(row.Match),
			cell(row.Channel),
			row.Duration,
			cell(row.Query),
		))
	}

	return buf.Bytes(), nil
}

// ResolutionToJSON renders a document's cache state as indented JSON
func ResolutionToJSON(doc *document.Document, store *cache.Store) ([]byte, error) {
	report, err := BuildResolutionReport(doc, store)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolution report: %w", err)
	}
	return append(data, '\n'), nil
}

// SyncReport is the JSON shape of a sync or create summary.
type SyncReport struct {
	Operation   string      `json:"operation"`
	Document    string      `json:"document"`
	Title       string      `json:"title"`
	PlaylistID  string      `json:"playlist_id,omitempty"`
	PlaylistURL string      `json:"playlist_url,omitempty"`
	DryRun      bool        `json:"dry_run"`
	Resumed     bool        `json:"resumed"`
	GeneratedAt time.Time   `json:"generated_at"`
	Added       int         `json:"added"`
	Skipped     int         `json:"skipped"`
	Moved       int         `json:"moved"`
	Removed     int         `json:"removed"`
	UnknownKept int         `json:"unknown_kept"`
	NotFound    int         `json:"not_found"`
	QuotaSpent  int         `json:"quota_spent"`
	Plan        *tasks.Plan `json:"plan,omitempty"`
}

// buildSyncReport maps an engine result onto the report shape.
func buildSyncReport(res *tasks.SyncResult) *SyncReport {
	report := &SyncReport{
		Operation:   res.Operation,
		Document:    res.Document,
		Title:       res.Title,
		PlaylistID:  res.PlaylistID,
		DryRun:      res.DryRun,
		Resumed:     res.Resumed,
		GeneratedAt: time.Now(),
		Added:       res.Added,
		Skipped:     res.Skipped,
		Moved:       res.Moved,
		Removed:     res.Removed,
		UnknownKept: res.UnknownKept,
		NotFound:    res.NotFound,
		QuotaSpent:  res.QuotaSpent,
		Plan:        res.Plan,
	}
	if res.PlaylistID != "" {
		report.PlaylistURL = "https://www.youtube.com/playlist?list=" + res.PlaylistID
	}
	return report
}

// SyncToMarkdown renders a sync or create result as Markdown
func SyncToMarkdown(res *tasks.SyncResult) ([]byte, error) {
	report := buildSyncReport(res)

	var buf bytes.Buffer

	heading := "Sync Summary"
	if report.DryRun {
		heading = "Sync Plan (dry run)"
	}
	buf.WriteString(fmt.Sprintf("# %s: %s\n\n", heading, report.Title))

	buf.WriteString(fmt.Sprintf("**Operation**: %s\n", report.Operation))
	buf.WriteString(fmt.Sprintf("**Document**: %s\n", report.Document))
	if report.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", report.PlaylistURL))
	}
	if report.Resumed {
		buf.WriteString("**Resumed**: yes\n")
	}
	buf.WriteString(fmt.Sprintf("**Quota spent**: %d units\n\n", report.QuotaSpent))

	if plan := report.Plan; plan != nil && !plan.Empty() {
		buf.WriteString("## Planned operations\n\n")
		for _, op := range plan.Adds {
			buf.WriteString(fmt.Sprintf("- add %s - %s at position %d\n", op.Title, op.Artist, op.Position))
		}
		for _, op := range plan.Moves {
			buf.WriteString(fmt.Sprintf("- move %s to position %d\n", op.Title, op.Position))
		}
		for _, op := range plan.Removes {
			buf.WriteString(fmt.Sprintf("- remove %s\n", op.Title))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Counts\n\n")
	buf.WriteString(fmt.Sprintf("- Added: %d\n", report.Added))
	buf.WriteString(fmt.Sprintf("- Skipped: %d\n", report.Skipped))
	buf.WriteString(fmt.Sprintf("- Moved: %d\n", report.Moved))
	buf.WriteString(fmt.Sprintf("- Removed: %d\n", report.Removed))
	buf.WriteString(fmt.Sprintf("- Unknown kept: %d\n", report.UnknownKept))
	buf.WriteString(fmt.Sprintf("- Not found: %d\n", report.NotFound))

	return buf.Bytes(), nil
}

// SyncToJSON renders a sync or create result as indented JSON
func SyncToJSON(res *tasks.SyncResult) ([]byte, error) {
	data, err := json.MarshalIndent(buildSyncReport(res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteResolutionReport writes a resolution report to path.
//
// A .json extension selects JSON; everything else gets Markdown. Parent
// directories are created as needed.
func WriteResolutionReport(doc *document.Document, store *cache.Store, path string) (string, error) {
	var data []byte
	var err error

	if isJSON(path) {
		data, err = ResolutionToJSON(doc, store)
	} else {
		data, err = ResolutionToMarkdown(doc, store)
	}
	if err != nil {
		return "", err
	}

	if err := writeReport(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSyncReport writes a sync summary to path, picking the format from the
// extension like [WriteResolutionReport].
func WriteSyncReport(res *tasks.SyncResult, path string) (string, error) {
	var data []byte
	var err error

	if isJSON(path) {
		data, err = SyncToJSON(res)
	} else {
		data, err = SyncToMarkdown(res)
	}
	if err != nil {
		return "", err
	}

	if err := writeReport(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// writeReport writes data to path, creating parent directories first.
func writeReport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// cell makes a string safe inside a Markdown table row. Video titles often
// carry literal pipes.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
