package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
	"github.com/ytlist/ytlist/internal/tasks"
)

// Create builds a new playlist from the document. An interrupted run left a
// checkpoint with the playlist ID, so rerunning continues filling the same
// playlist instead of creating a duplicate.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	docPath := cmd.StringArg("document")
	if docPath == "" {
		return fmt.Errorf("%w: usage: ytlist create <document.md>", shared.ErrMissingArgument)
	}

	privacy := cmd.String("privacy")
	if privacy == "" {
		privacy = r.config.Playlist.Privacy
	}
	switch privacy {
	case "private", "unlisted", "public":
	default:
		return fmt.Errorf("%w: privacy %q (want private, unlisted or public)", shared.ErrInvalidArgument, privacy)
	}

	doc, err := document.ParseFile(docPath)
	if err != nil {
		return err
	}

	engine, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}

	opts := tasks.CreateOpts{
		Name:    cmd.String("name"),
		Privacy: privacy,
		DryRun:  cmd.Bool("dry-run"),
		Force:   cmd.Bool("force"),
	}

	run := models.NewRun(models.OpCreate, docPath, doc.Title)
	if !opts.DryRun {
		r.beginRun(run)
	}

	progress, stop := r.progress()
	res, err := engine.Create(ctx, progress, docPath, opts)
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
