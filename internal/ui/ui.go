package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytlist/ytlist/internal/cache"
	"github.com/ytlist/ytlist/internal/document"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	MatchListView
)

// trackEntry pairs a document row with its cache key and resolution.
type trackEntry struct {
	key    string
	track  models.Track
	res    models.Resolution
	cached bool
}

// Model represents the TUI application state.
type Model struct {
	store    *cache.Store
	entries  []trackEntry
	reviewed map[string]bool

	view      ViewState
	width     int
	height    int
	trackList list.Model
	matchList list.Model
	current   int

	flash string
	err   error
	help  help.Model
	keys  keyMap
}

// NewModel creates a review model over a parsed document and its cache.
func NewModel(doc *document.Document, store *cache.Store) *Model {
	m := &Model{
		store:    store,
		reviewed: make(map[string]bool),
		view:     TrackListView,
		current:  -1,
		help:     help.New(),
		keys:     newKeyMap(),
	}

	for _, track := range doc.Tracks {
		key := shared.NormalizeTrackKey(track.Title, track.Artist)
		res, ok := store.Get(key)
		m.entries = append(m.entries, trackEntry{key: key, track: track, res: res, cached: ok})
	}

	m.trackList = list.New(m.trackItems(), list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = fmt.Sprintf("Review: %s", doc.Title)
	m.trackList.SetShowHelp(false)

	m.matchList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.matchList.SetShowHelp(false)

	return m
}

// Init is a no-op; everything the review needs is already on disk.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-6)
		m.matchList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		m.flash = ""
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case MatchListView:
			return m.handleMatchListKeys(msg)
		}

	case selectionSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		for i := range m.entries {
			if m.entries[i].key == msg.key {
				m.entries[i].res.Selected = msg.index
			}
		}
		m.reviewed[msg.key] = true
		m.flash = styles.ok.Render("Selection saved")
		m.view = TrackListView
		return m, m.trackList.SetItems(m.trackItems())
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MatchListView:
		return m.renderMatchList()
	default:
		return m.renderTrackList()
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if it, ok := m.trackList.SelectedItem().(trackItem); ok {
			entry := m.entries[it.index]
			if entry.cached && entry.res.Found() {
				return m.openMatchList(it.index)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleMatchListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.matchList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.matchList, cmd = m.matchList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = TrackListView
		return m, nil
	case "enter":
		if it, ok := m.matchList.SelectedItem().(matchItem); ok && m.current >= 0 {
			return m, saveSelection(m.store, m.entries[m.current].key, it.index)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.matchList, cmd = m.matchList.Update(msg)
	return m, cmd
}

// openMatchList switches to the candidate list for one track, cursor on the
// current selection.
func (m *Model) openMatchList(idx int) (tea.Model, tea.Cmd) {
	entry := m.entries[idx]

	items := make([]list.Item, len(entry.res.Matches))
	for i, match := range entry.res.Matches {
		items[i] = matchItem{match: match, index: i, selected: i == entry.res.Selected}
	}

	m.current = idx
	m.matchList.Title = fmt.Sprintf("%s - %s", entry.track.Title, entry.track.Artist)
	cmd := m.matchList.SetItems(items)
	if entry.res.Selected >= 0 && entry.res.Selected < len(items) {
		m.matchList.Select(entry.res.Selected)
	} else {
		m.matchList.Select(0)
	}
	m.view = MatchListView

	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case MatchListView:
		m.matchList, cmd = m.matchList.Update(msg)
	}
	return m, cmd
}

func (m *Model) trackItems() []list.Item {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = trackItem{index: i, track: e.track, res: e.res, cached: e.cached, reviewed: m.reviewed[e.key]}
	}
	return items
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	if m.flash != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.trackList.View(), m.flash, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderMatchList() string {
	pickKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick match"))
	helpView := m.help.ShortHelpView([]key.Binding{pickKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.matchList.View(), helpView)
}
