package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ytlist/ytlist/internal/cache"
	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/services"
	"github.com/ytlist/ytlist/internal/shared"
)

// Resolver fills the resolution cache for a document's tracks. Tracks run
// strictly in order; the client's rate limiter paces the actual API calls.
type Resolver struct {
	search services.SearchAPI
	cache  *cache.Store
	logger *log.Logger
}

// NewResolver creates a resolver backed by a search client and cache store.
func NewResolver(search services.SearchAPI, store *cache.Store, logger *log.Logger) *Resolver {
	return &Resolver{search: search, cache: store, logger: logger}
}

// ResolvedTrack pairs a document row with the video its cache entry selects.
type ResolvedTrack struct {
	Track models.Track
	Key   string
	Match models.SearchMatch
}

// ResolveOutcome summarizes one resolution pass over a document.
type ResolveOutcome struct {
	Resolved  []ResolvedTrack
	NotFound  []models.Track
	Searched  int
	FromCache int
}

// Resolve ensures every track in the document has a cache entry, searching
// only the misses unless force re-searches everything. A search that finds
// nothing is cached as not_found and reported, not fatal; callers decide
// whether a partial document proceeds. Search failures abort the pass since
// the client has already retried anything transient.
func (r *Resolver) Resolve(ctx context.Context, progress chan<- ProgressUpdate, doc *document.Document, force bool) (*ResolveOutcome, error) {
	total := len(doc.Tracks)
	outcome := &ResolveOutcome{}
	sendProgress(progress, resolvingTracksUpdate(total))

	for i, tr := range doc.Tracks {
		step := i + 1
		key := shared.NormalizeTrackKey(tr.Title, tr.Artist)

		res, ok := r.cache.Get(key)
		if !ok || force {
			sendProgress(progress, searchTrackUpdate(step, total, tr))
			matches, err := r.search.SearchVideos(ctx, tr.Title, tr.Artist)
			if err != nil {
				return nil, fmt.Errorf("search failed for %s: %w", tr, err)
			}

			res = models.Resolution{
				Status:     models.StatusFound,
				Matches:    matches,
				Selected:   0,
				SearchedAt: time.Now(),
				QueryUsed:  shared.BuildSearchQuery(tr.Title, tr.Artist),
			}
			if len(matches) == 0 {
				res.Status = models.StatusNotFound
			}
			if err := r.cache.Put(key, res); err != nil {
				return nil, err
			}
			outcome.Searched++
		} else {
			outcome.FromCache++
		}

		if !res.Found() {
			outcome.NotFound = append(outcome.NotFound, tr)
			sendProgress(progress, trackNotFoundUpdate(step, total, tr))
			continue
		}

		match, err := res.Chosen()
		if err != nil {
			// A hand-edited selection pointing outside the match list.
			return nil, fmt.Errorf("%s: %w", tr, err)
		}
		outcome.Resolved = append(outcome.Resolved, ResolvedTrack{Track: tr, Key: key, Match: match})
		sendProgress(progress, trackResolvedUpdate(step, total, tr, match))
	}

	r.logger.Debug("resolution pass finished",
		"tracks", total, "searched", outcome.Searched, "cached", outcome.FromCache, "not_found", len(outcome.NotFound))
	return outcome, nil
}
