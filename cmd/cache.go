package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheStatus summarizes the local resolution cache.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	store, err := r.openStore()
	if err != nil {
		return err
	}

	found, notFound := 0, 0
	for _, res := range store.All() {
		if res.Found() {
			found++
		} else {
			notFound++
		}
	}

	if r.jsonOutput(cmd) {
		return r.writeJSON(map[string]any{
			"path":      store.Path(),
			"entries":   store.Len(),
			"found":     found,
			"not_found": notFound,
		}, true)
	}

	r.writePlain("Cache: %s\n", store.Path())
	r.writePlain("Entries: %d (%d found, %d with no results)\n", store.Len(), found, notFound)

	return nil
}
