package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/formatter"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

// Search resolves every track in the document and fills the search cache
// without touching any playlist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	docPath := cmd.StringArg("document")
	if docPath == "" {
		return fmt.Errorf("%w: usage: ytlist search <document.md>", shared.ErrMissingArgument)
	}

	doc, err := document.ParseFile(docPath)
	if err != nil {
		return err
	}

	engine, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}

	run := models.NewRun(models.OpSearch, docPath, doc.Title)
	r.beginRun(run)

	progress, stop := r.progress()
	_, outcome, err := engine.Resolve(ctx, progress, docPath, cmd.Bool("force"))
	stop()
	if err != nil {
		r.finishRun(run, nil, err)
		if quotaAbort(err) {
			r.writeQuotaNotice()
		}
		return err
	}
	run.SetCounts(0, 0, 0, 0, 0, len(outcome.NotFound))
	r.finishRun(run, nil, nil)

	store, err := r.openStore()
	if err != nil {
		return err
	}

	if r.jsonOutput(cmd) {
		data, err := formatter.ResolutionToJSON(doc, store)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		r.writePlain("\n")
		r.writePlainHeader("Search Complete!")
		r.writePlain("Document: %s (%s)\n", docPath, doc.Title)
		r.writePlain("Tracks: %d, resolved: %d, not found: %d\n",
			len(doc.Tracks), len(outcome.Resolved), len(outcome.NotFound))
		r.writePlain("Searches: %d new, %d from cache\n", outcome.Searched, outcome.FromCache)
		r.writePlain("Quota spent: %d units\n", r.quotaSpent())

		if len(outcome.NotFound) > 0 {
			r.writePlain("\n⚠️ No results for:\n")
			for _, track := range outcome.NotFound {
				r.writePlain("  ❌ %s\n", track)
			}
			r.writePlain("Fix the titles in the document and rerun with --force.\n")
		}

		r.writePlain("\nPick different matches with: ytlist review %s\n", docPath)
	}

	if path := cmd.String("report"); path != "" {
		written, err := formatter.WriteResolutionReport(doc, store, path)
		if err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", written)
	}

	return nil
}
