// package tasks implements document-to-playlist reconciliation.
//
// The core abstraction is SyncEngine, which orchestrates track resolution and the
// phased mutation of remote playlists. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ytlist/ytlist/internal/cache"
	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/services"
	"github.com/ytlist/ytlist/internal/shared"
)

// SyncOpts control a sync run.
type SyncOpts struct {
	DryRun        bool // Plan only, mutate nothing
	Force         bool // Re-search every track instead of trusting the cache
	RemoveUnknown bool // Delete live items the document does not mention
}

// CreateOpts control a create run.
type CreateOpts struct {
	Name    string // Playlist title; defaults to the document title
	Privacy string // private, unlisted or public
	DryRun  bool
	Force   bool
}

// SyncResult is the outcome of a resolution or reconciliation run.
type SyncResult struct {
	Operation  string           // models.OpSync or models.OpCreate
	Document   string           // Document path
	Title      string           // Document title
	PlaylistID string           // Target playlist
	Playlist   *models.Playlist // Set when the run created the playlist
	Plan       *Plan            // The derived operation plan

	Added       int
	Skipped     int
	Moved       int
	Removed     int
	UnknownKept int
	NotFound    int
	Searched    int
	FromCache   int
	QuotaSpent  int

	Resumed bool
	DryRun  bool
}

// SyncEngine orchestrates document resolution and playlist reconciliation.
type SyncEngine interface {
	// Resolve parses a document and fills the resolution cache for its
	// tracks without touching any playlist.
	Resolve(ctx context.Context, progress chan<- ProgressUpdate, docPath string, force bool) (*document.Document, *ResolveOutcome, error)

	// Sync reconciles an existing playlist with a document.
	Sync(ctx context.Context, progress chan<- ProgressUpdate, docPath, playlistID string, opts SyncOpts) (*SyncResult, error)

	// Create builds a new playlist from a document.
	Create(ctx context.Context, progress chan<- ProgressUpdate, docPath string, opts CreateOpts) (*SyncResult, error)
}

// ReconcileEngine implements SyncEngine against the YouTube client. All
// operations run strictly in sequence; the engine is not safe for concurrent
// use.
type ReconcileEngine struct {
	api         services.API
	cache       *cache.Store
	resolver    *Resolver
	checkpoints *CheckpointStore
	budget      *services.QuotaBudget
	logger      *log.Logger
}

// NewReconcileEngine creates an engine. The budget is only read for
// reporting; the client itself enforces it.
func NewReconcileEngine(api services.API, store *cache.Store, checkpoints *CheckpointStore, budget *services.QuotaBudget, logger *log.Logger) *ReconcileEngine {
	if budget == nil {
		budget = services.NewQuotaBudget(0)
	}
	return &ReconcileEngine{
		api:         api,
		cache:       store,
		resolver:    NewResolver(api, store, logger),
		checkpoints: checkpoints,
		budget:      budget,
		logger:      logger,
	}
}

// Resolve parses the document and fills the cache for every track.
func (e *ReconcileEngine) Resolve(ctx context.Context, progress chan<- ProgressUpdate, docPath string, force bool) (*document.Document, *ResolveOutcome, error) {
	if err := e.ready(); err != nil {
		return nil, nil, err
	}
	doc, err := document.ParseFile(docPath)
	if err != nil {
		return nil, nil, err
	}
	outcome, err := e.resolver.Resolve(ctx, progress, doc, force)
	if err != nil {
		return nil, nil, err
	}
	return doc, outcome, nil
}

// Sync reconciles the playlist with the document through the add, reorder and
// remove phases. On quota exhaustion or any other mutation failure the
// checkpoint survives, so rerunning the same command resumes the work.
func (e *ReconcileEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, docPath, playlistID string, opts SyncOpts) (*SyncResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	doc, err := document.ParseFile(docPath)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{
		Operation:  models.OpSync,
		Document:   docPath,
		Title:      doc.Title,
		PlaylistID: playlistID,
		DryRun:     opts.DryRun,
	}

	cp, err := e.checkpoints.Find(docPath, models.OpSync)
	if err != nil {
		return nil, err
	}
	if cp != nil && cp.PlaylistID != playlistID {
		e.logger.Warn("Checkpoint targets a different playlist, discarding", "have", cp.PlaylistID, "want", playlistID)
		if err := e.checkpoints.Complete(cp); err != nil {
			return nil, err
		}
		cp = nil
	}

	outcome, err := e.resolver.Resolve(ctx, progress, doc, opts.Force)
	if err != nil {
		return nil, err
	}
	res.NotFound = len(outcome.NotFound)
	res.Searched = outcome.Searched
	res.FromCache = outcome.FromCache

	desired, err := e.desiredState(doc)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, fetchRemoteUpdate(playlistID))
	live, err := e.api.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(desired, live, opts.RemoveUnknown)
	res.Plan = plan
	if !opts.RemoveUnknown {
		res.UnknownKept = len(plan.Unknown)
	}
	sendProgress(progress, planUpdate(plan))

	if opts.DryRun {
		res.QuotaSpent = e.budget.Spent()
		return res, nil
	}

	if cp != nil {
		res.Resumed = true
		sendProgress(progress, resumeUpdate(cp))
		if cp.Remaining() != plan.TotalOps() {
			e.logger.Warn("Plan differs from the interrupted run, continuing with the fresh plan",
				"remaining", cp.Remaining(), "planned", plan.TotalOps())
		}
		cp.TotalOps = cp.Processed + plan.TotalOps()
		if err := e.checkpoints.Advance(cp); err != nil {
			return nil, err
		}
	} else {
		cp = &Checkpoint{
			Operation:  models.OpSync,
			Document:   docPath,
			Title:      doc.Title,
			PlaylistID: playlistID,
			TotalOps:   plan.TotalOps(),
		}
		if err := e.checkpoints.Begin(cp); err != nil {
			return nil, err
		}
	}

	if err := e.execute(ctx, progress, playlistID, plan, cp, res); err != nil {
		return res, err
	}

	if err := e.checkpoints.Complete(cp); err != nil {
		return nil, err
	}
	res.QuotaSpent = e.budget.Spent()
	sendProgress(progress, summaryUpdate(res))
	return res, nil
}

// Create builds a playlist from the document. The checkpoint is written right
// after playlist creation so an interrupted run reuses the playlist instead
// of creating a duplicate.
func (e *ReconcileEngine) Create(ctx context.Context, progress chan<- ProgressUpdate, docPath string, opts CreateOpts) (*SyncResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	doc, err := document.ParseFile(docPath)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{
		Operation: models.OpCreate,
		Document:  docPath,
		Title:     doc.Title,
		DryRun:    opts.DryRun,
	}

	outcome, err := e.resolver.Resolve(ctx, progress, doc, opts.Force)
	if err != nil {
		return nil, err
	}
	res.NotFound = len(outcome.NotFound)
	res.Searched = outcome.Searched
	res.FromCache = outcome.FromCache

	desired, err := e.desiredState(doc)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		plan := BuildPlan(desired, nil, false)
		res.Plan = plan
		sendProgress(progress, planUpdate(plan))
		res.QuotaSpent = e.budget.Spent()
		return res, nil
	}

	cp, err := e.checkpoints.Find(docPath, models.OpCreate)
	if err != nil {
		return nil, err
	}

	var live []models.LiveItem
	if cp != nil && cp.PlaylistID != "" {
		items, err := e.api.PlaylistItems(ctx, cp.PlaylistID)
		switch {
		case errors.Is(err, shared.ErrPlaylistNotFound):
			e.logger.Warn("Checkpoint playlist no longer exists, starting over", "playlist", cp.PlaylistID)
			if err := e.checkpoints.Complete(cp); err != nil {
				return nil, err
			}
			cp = nil
		case err != nil:
			return nil, err
		default:
			live = items
			res.Resumed = true
			res.PlaylistID = cp.PlaylistID
			sendProgress(progress, resumeUpdate(cp))
		}
	} else {
		cp = nil
	}

	plan := BuildPlan(desired, live, false)
	res.Plan = plan
	sendProgress(progress, planUpdate(plan))

	if cp == nil {
		title := opts.Name
		if title == "" {
			title = doc.Title
		}
		sendProgress(progress, creatingPlaylistUpdate(title))
		pl, err := e.api.CreatePlaylist(ctx, title, fmt.Sprintf("Created by ytlist from %q", doc.Title), opts.Privacy)
		if err != nil {
			return nil, err
		}
		res.Playlist = pl
		res.PlaylistID = pl.ID
		sendProgress(progress, createdPlaylistUpdate(pl))

		cp = &Checkpoint{
			Operation:  models.OpCreate,
			Document:   docPath,
			Title:      doc.Title,
			PlaylistID: pl.ID,
			TotalOps:   plan.TotalOps(),
		}
		if err := e.checkpoints.Begin(cp); err != nil {
			return nil, err
		}
	} else {
		cp.TotalOps = cp.Processed + plan.TotalOps()
		if err := e.checkpoints.Advance(cp); err != nil {
			return nil, err
		}
	}

	if err := e.execute(ctx, progress, res.PlaylistID, plan, cp, res); err != nil {
		return res, err
	}

	if err := e.checkpoints.Complete(cp); err != nil {
		return nil, err
	}
	res.QuotaSpent = e.budget.Spent()
	sendProgress(progress, summaryUpdate(res))
	return res, nil
}

// execute runs the three mutation phases in order. Unavailable videos only
// soften the add phase; during reorder and removal every failure is fatal
// because a half-applied move or delete leaves positions unpredictable.
func (e *ReconcileEngine) execute(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, plan *Plan, cp *Checkpoint, res *SyncResult) error {
	step := 0
	total := plan.TotalOps()
	var skippedAt []int64

	for _, op := range plan.Adds {
		step++
		sendProgress(progress, addItemUpdate(step, total, op))
		pos := adjustForSkips(op.Position, skippedAt)
		_, err := e.api.InsertPlaylistItem(ctx, playlistID, op.VideoID, &pos)
		switch {
		case err == nil:
			res.Added++
			cp.Added++
		case errors.Is(err, shared.ErrVideoUnavailable):
			e.logger.Warn("Video unavailable, skipping", "video", op.VideoID, "title", op.Title)
			sendProgress(progress, skipItemUpdate(step, total, op))
			skippedAt = append(skippedAt, op.Position)
			res.Skipped++
			cp.Skipped++
		default:
			return e.interrupt(cp, err)
		}
		if err := e.advance(cp); err != nil {
			return err
		}
	}

	for _, op := range plan.Moves {
		step++
		pos := adjustForSkips(op.Position, skippedAt)
		sendProgress(progress, moveItemUpdate(step, total, op, pos))
		if err := e.api.MovePlaylistItem(ctx, playlistID, op.ItemID, op.VideoID, pos); err != nil {
			return e.interrupt(cp, err)
		}
		res.Moved++
		cp.Moved++
		if err := e.advance(cp); err != nil {
			return err
		}
	}

	for _, op := range plan.Removes {
		step++
		sendProgress(progress, removeItemUpdate(step, total, op))
		if err := e.api.DeletePlaylistItem(ctx, op.ItemID); err != nil {
			return e.interrupt(cp, err)
		}
		res.Removed++
		cp.Removed++
		if err := e.advance(cp); err != nil {
			return err
		}
	}
	return nil
}

// advance counts one finished operation and persists the checkpoint.
func (e *ReconcileEngine) advance(cp *Checkpoint) error {
	cp.Processed++
	cp.QuotaSpent = e.budget.Spent()
	return e.checkpoints.Advance(cp)
}

// interrupt persists the checkpoint before surfacing the error so the run
// can resume where it stopped.
func (e *ReconcileEngine) interrupt(cp *Checkpoint, err error) error {
	cp.QuotaSpent = e.budget.Spent()
	if aerr := e.checkpoints.Advance(cp); aerr != nil {
		e.logger.Error("Failed to persist checkpoint", "error", aerr)
	}
	if errors.Is(err, shared.ErrQuotaExceeded) {
		e.logger.Warn("Quota exhausted, rerun to resume once the budget resets",
			"processed", cp.Processed, "total", cp.TotalOps)
	}
	return err
}

// desiredState maps document rows to their selected videos via the cache.
// Rows whose search found nothing are excluded. A row with no cache entry at
// all means resolution was skipped and the run cannot proceed.
func (e *ReconcileEngine) desiredState(doc *document.Document) ([]DesiredItem, error) {
	desired := make([]DesiredItem, 0, len(doc.Tracks))
	for _, tr := range doc.Tracks {
		key := shared.NormalizeTrackKey(tr.Title, tr.Artist)
		res, ok := e.cache.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrNotResolved, tr)
		}
		if !res.Found() {
			continue
		}
		match, err := res.Chosen()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tr, err)
		}
		desired = append(desired, DesiredItem{VideoID: match.VideoID, Title: tr.Title, Artist: tr.Artist})
	}
	return desired, nil
}

func (e *ReconcileEngine) ready() error {
	if e.api == nil {
		return fmt.Errorf("%w: YouTube service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return fmt.Errorf("%w: resolution cache not initialized", shared.ErrServiceUnavailable)
	}
	if e.checkpoints == nil {
		return fmt.Errorf("%w: checkpoint store not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// sendProgress sends an update without blocking when no one is listening.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
