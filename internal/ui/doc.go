// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-level workflow for reviewing cached track resolutions:
//  1. [TrackListView] : Browse document tracks with their cache status
//     (✅ match chosen, ❓ multiple candidates, ❌ not found)
//  2. [MatchListView] : Pick among the cached candidates for one track;
//     the pick persists through the cache store immediately
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Selections are written off the update loop via a tea.Cmd so a slow disk never
// blocks rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
