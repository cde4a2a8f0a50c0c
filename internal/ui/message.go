package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytlist/ytlist/internal/cache"
)

// selectionSavedMsg reports the outcome of persisting a match pick.
type selectionSavedMsg struct {
	key   string
	index int
	err   error
}

// saveSelection persists a pick through the cache store off the update loop.
func saveSelection(store *cache.Store, key string, index int) tea.Cmd {
	return func() tea.Msg {
		err := store.SetSelected(key, index)
		return selectionSavedMsg{key: key, index: index, err: err}
	}
}
