package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/shared"
	"github.com/ytlist/ytlist/internal/ui"
)

// Review opens the interactive candidate picker for a document. It works
// entirely off the local resolution cache, so it needs neither a token nor
// quota. Selections are persisted as soon as they are made.
func (r *Runner) Review(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	docPath := cmd.StringArg("document")
	if docPath == "" {
		return fmt.Errorf("%w: document path (usage: ytlist review <document.md>)", shared.ErrMissingArgument)
	}

	doc, err := document.ParseFile(docPath)
	if err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	cached := 0
	for _, tr := range doc.Tracks {
		if store.Has(shared.NormalizeTrackKey(tr.Title, tr.Artist)) {
			cached++
		}
	}
	if cached == 0 {
		r.writePlain("No cached searches for %s yet.\n", docPath)
		r.writePlain("Run 'ytlist search %s' first, then review the matches here.\n", docPath)
		return nil
	}

	program := tea.NewProgram(ui.NewModel(doc, store))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running review UI: %w", err)
	}

	return nil
}
