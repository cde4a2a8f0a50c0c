package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

type historyRow struct {
	ID         string     `json:"id"`
	Operation  string     `json:"operation"`
	Document   string     `json:"document"`
	Title      string     `json:"title,omitempty"`
	PlaylistID string     `json:"playlist_id,omitempty"`
	Added      int        `json:"added"`
	Skipped    int        `json:"skipped"`
	Moved      int        `json:"moved"`
	Removed    int        `json:"removed"`
	Unknown    int        `json:"unknown_kept"`
	NotFound   int        `json:"not_found"`
	QuotaSpent int        `json:"quota_spent"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// History lists recorded runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	repo, err := r.openHistory()
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if op := cmd.String("operation"); op != "" {
		switch op {
		case models.OpSearch, models.OpCreate, models.OpSync:
			criteria["operation"] = op
		default:
			return fmt.Errorf("%w: operation %q (want search, create or sync)", shared.ErrInvalidArgument, op)
		}
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if r.jsonOutput(cmd) {
		rows := make([]historyRow, 0, len(runs))
		for _, run := range runs {
			row := historyRow{
				ID:         run.ID(),
				Operation:  run.Operation(),
				Document:   run.Document(),
				Title:      run.Title(),
				PlaylistID: run.PlaylistID(),
				Added:      run.Added(),
				Skipped:    run.Skipped(),
				Moved:      run.Moved(),
				Removed:    run.Removed(),
				Unknown:    run.Unknown(),
				NotFound:   run.NotFound(),
				QuotaSpent: run.QuotaSpent(),
				Status:     run.Status(),
				StartedAt:  run.StartedAt(),
			}
			if finished := run.FinishedAt(); !finished.IsZero() {
				row.FinishedAt = &finished
			}
			rows = append(rows, row)
		}
		return r.writeJSON(rows, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No recorded runs yet.\n")
	}

	r.writePlain("\nLast %d runs:\n\n", len(runs))
	for i, run := range runs {
		r.writePlain("%d. %s %s %s (%s)\n",
			i+1, statusIcon(run.Status()), run.Operation(), run.Document(),
			humanize.Time(run.StartedAt()))
		if run.Title() != "" {
			r.writePlain("   Title: %s\n", run.Title())
		}
		if run.PlaylistID() != "" {
			r.writePlain("   Playlist: %s\n", run.PlaylistID())
		}
		if run.Operation() != models.OpSearch {
			r.writePlain("   Added %d, skipped %d, moved %d, removed %d\n",
				run.Added(), run.Skipped(), run.Moved(), run.Removed())
		}
		if run.NotFound() > 0 {
			r.writePlain("   Not found: %d\n", run.NotFound())
		}
		if run.QuotaSpent() > 0 {
			r.writePlain("   Quota spent: %d units\n", run.QuotaSpent())
		}
		r.writePlain("\n")
	}

	return nil
}

func statusIcon(status string) string {
	switch status {
	case models.RunCompleted:
		return "✅"
	case models.RunInterrupted:
		return "⚠️"
	case models.RunFailed:
		return "❌"
	default:
		return "•"
	}
}
