package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/formatter"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
	"github.com/ytlist/ytlist/internal/tasks"
)

// Sync reconciles an existing playlist with the document. The playlist
// argument accepts a bare ID or a full YouTube URL.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	docPath := cmd.StringArg("document")
	playlistArg := cmd.StringArg("playlist")
	if docPath == "" || playlistArg == "" {
		return fmt.Errorf("%w: usage: ytlist sync <document.md> <playlist>", shared.ErrMissingArgument)
	}

	playlistID, err := shared.ExtractPlaylistID(playlistArg)
	if err != nil {
		return err
	}

	doc, err := document.ParseFile(docPath)
	if err != nil {
		return err
	}

	engine, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}

	opts := tasks.SyncOpts{
		DryRun:        cmd.Bool("dry-run"),
		Force:         cmd.Bool("force"),
		RemoveUnknown: cmd.Bool("remove-unknown"),
	}

	run := models.NewRun(models.OpSync, docPath, doc.Title)
	if !opts.DryRun {
		r.beginRun(run)
	}

	progress, stop := r.progress()
	res, err := engine.Sync(ctx, progress, docPath, playlistID, opts)
	stop()
	if !opts.DryRun {
		r.finishRun(run, res, err)
	}
	if err != nil {
		if quotaAbort(err) {
			r.writeQuotaNotice()
		}
		return err
	}

	if err := r.summarize(cmd, res); err != nil {
		return err
	}
	return r.writeReport(cmd, res)
}

// summarize prints the end-of-run block for create and sync. With
// --output json the formatter's report replaces the plain text.
func (r *Runner) summarize(cmd *cli.Command, res *tasks.SyncResult) error {
	if r.jsonOutput(cmd) {
		data, err := formatter.SyncToJSON(res)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	r.writePlain("\n")
	if res.DryRun {
		r.writePlainHeader("Dry Run Plan")
	} else if res.Operation == models.OpCreate {
		r.writePlainHeader("Playlist Created!")
	} else {
		r.writePlainHeader("Sync Complete!")
	}

	r.writePlain("Document: %s (%s)\n", res.Document, res.Title)
	if res.PlaylistID != "" {
		r.writePlain("Playlist: https://www.youtube.com/playlist?list=%s\n", res.PlaylistID)
	}
	if res.Resumed {
		r.writePlain("Resumed from an interrupted run\n")
	}

	if res.DryRun {
		r.writePlanDetail(res.Plan)
	} else if res.Plan != nil && res.Plan.Empty() {
		r.writePlain("✓ Playlist already matches the document\n")
	} else {
		r.writePlain("Added: %d, skipped: %d, moved: %d, removed: %d\n",
			res.Added, res.Skipped, res.Moved, res.Removed)
	}

	if res.UnknownKept > 0 {
		r.writePlain("Unknown kept: %d (pass --remove-unknown to delete them)\n", res.UnknownKept)
	}
	if res.NotFound > 0 {
		r.writePlain("⚠️ Not found: %d tracks have no match and stay out of the playlist\n", res.NotFound)
	}
	r.writePlain("Searches: %d new, %d from cache\n", res.Searched, res.FromCache)
	r.writePlain("Quota spent: %d units\n", res.QuotaSpent)
	return nil
}

// writePlanDetail lists every planned operation of a dry run.
func (r *Runner) writePlanDetail(plan *tasks.Plan) {
	if plan == nil || plan.Empty() {
		r.writePlain("✓ Nothing to do\n")
		return
	}

	r.writePlain("Planned: %d to add, %d to move, %d to remove\n",
		len(plan.Adds), len(plan.Moves), len(plan.Removes))
	for _, op := range plan.Adds {
		r.writePlain("  ➕ %s - %s at position %d\n", op.Title, op.Artist, op.Position)
	}
	for _, op := range plan.Moves {
		r.writePlain("  🔀 %s to position %d\n", op.Title, op.Position)
	}
	for _, op := range plan.Removes {
		r.writePlain("  ➖ %s\n", op.Title)
	}
}

// writeReport honors the --report flag after a successful create or sync.
func (r *Runner) writeReport(cmd *cli.Command, res *tasks.SyncResult) error {
	path := cmd.String("report")
	if path == "" {
		return nil
	}

	written, err := formatter.WriteSyncReport(res, path)
	if err != nil {
		return err
	}
	return r.writePlain("Report written to %s\n", written)
}
