package tasks

import (
	"fmt"

	"github.com/ytlist/ytlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveTracks Phase = iota
	FetchRemote
	Compare
	CreatePlaylist
	AddItems
	ReorderItems
	RemoveItems
	Finalize
)

func (p Phase) String() string {
	switch p {
	case ResolveTracks:
		return "resolve_tracks"
	case FetchRemote:
		return "fetch_remote"
	case Compare:
		return "compare"
	case CreatePlaylist:
		return "create_playlist"
	case AddItems:
		return "add_items"
	case ReorderItems:
		return "reorder_items"
	case RemoveItems:
		return "remove_items"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

func resolvingTracksUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    0,
		Total:   total,
		Message: "Resolving tracks against the search cache...",
	}
}

func searchTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] 🔍 %s - %s", step, total, tr.Title, tr.Artist),
	}
}

func trackResolvedUpdate(step, total int, tr models.Track, m models.SearchMatch) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✅ %s - %s: %s (%s)", step, total, tr.Title, tr.Artist, m.Title, m.Duration),
		Data:    m,
	}
}

func trackNotFoundUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ❌ %s - %s: no results", step, total, tr.Title, tr.Artist),
	}
}

func fetchRemoteUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist items (%s)...", playlistID),
	}
}

func planUpdate(plan *Plan) ProgressUpdate {
	return ProgressUpdate{
		Phase: Compare,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Plan: %d to add, %d to move, %d to remove, %d unknown",
			len(plan.Adds), len(plan.Moves), len(plan.Removes), len(plan.Unknown)),
		Data: plan,
	}
}

func resumeUpdate(cp *Checkpoint) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    cp.Processed,
		Total:   cp.TotalOps,
		Message: fmt.Sprintf("Resuming interrupted %s run (%d of %d operations done)", cp.Operation, cp.Processed, cp.TotalOps),
		Data:    cp,
	}
}

func creatingPlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q on YouTube...", title),
	}
}

func createdPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Title, pl.ID),
		Data:    pl,
	}
}

func addItemUpdate(step, total int, op AddOp) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ➕ %s - %s", step, total, op.Title, op.Artist),
	}
}

func skipItemUpdate(step, total int, op AddOp) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ⏭️ %s - %s: video unavailable", step, total, op.Title, op.Artist),
	}
}

func moveItemUpdate(step, total int, op MoveOp, position int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReorderItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] 🔀 %s to position %d", step, total, op.Title, position),
	}
}

func removeItemUpdate(step, total int, op RemoveOp) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ➖ %s", step, total, op.Title),
	}
}

func summaryUpdate(res *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finalize,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("📊 Added %d, skipped %d, moved %d, removed %d",
			res.Added, res.Skipped, res.Moved, res.Removed),
		Data: res,
	}
}
