package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ytlist/ytlist/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = matchItem{}
)

// trackItem is one document row with its cached resolution state. index is
// the row's position in the model's entries, stable under list filtering.
type trackItem struct {
	index    int
	track    models.Track
	res      models.Resolution
	cached   bool
	reviewed bool
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string {
	return fmt.Sprintf("%s %s - %s", i.icon(), i.track.Title, i.track.Artist)
}

func (i trackItem) Description() string {
	switch {
	case !i.cached:
		return "not searched yet"
	case !i.res.Found():
		return "no results"
	default:
		match, err := i.res.Chosen()
		if err != nil {
			return err.Error()
		}
		desc := fmt.Sprintf("%s • %s", match.Title, match.Duration)
		if len(i.res.Matches) > 1 {
			desc = fmt.Sprintf("%s • %d candidates", desc, len(i.res.Matches))
		}
		return desc
	}
}

// icon summarizes the review state: ❌ nothing usable, ✅ a definitive choice,
// ❓ multiple candidates still on the default pick.
func (i trackItem) icon() string {
	if !i.cached || !i.res.Found() {
		return "❌"
	}
	if _, err := i.res.Chosen(); err != nil {
		return "❓"
	}
	if i.reviewed || i.res.Selected != 0 || len(i.res.Matches) == 1 {
		return "✅"
	}
	return "❓"
}

// matchItem is one search candidate for the track under review.
type matchItem struct {
	match    models.SearchMatch
	index    int
	selected bool
}

func (i matchItem) FilterValue() string { return i.match.Title }
func (i matchItem) Title() string {
	if i.selected {
		return fmt.Sprintf("▸ %s", i.match.Title)
	}
	return fmt.Sprintf("  %s", i.match.Title)
}

func (i matchItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.match.Channel, i.match.Duration)
	if i.selected {
		desc = fmt.Sprintf("%s • current selection", desc)
	}
	return desc
}
