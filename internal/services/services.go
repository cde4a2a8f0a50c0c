// package services defines interfaces and clients for the YouTube Data API
package services

import (
	"context"

	"github.com/ytlist/ytlist/internal/models"
)

// SearchAPI resolves tracks to candidate videos.
type SearchAPI interface {
	// SearchVideos searches for a track and returns candidates in the
	// service's own ranking order. The order is never re-sorted locally;
	// index 0 is the default selection.
	SearchVideos(ctx context.Context, title, artist string) ([]models.SearchMatch, error)
}

// PlaylistAPI mutates and reads remote playlists. The reconciliation engine
// depends on this interface so tests can substitute a mock service.
type PlaylistAPI interface {
	// CreatePlaylist creates an empty playlist and returns its metadata.
	CreatePlaylist(ctx context.Context, title, description, privacy string) (*models.Playlist, error)

	// PlaylistItems returns the fully materialized item list in playlist
	// order, following pagination until exhausted.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.LiveItem, error)

	// InsertPlaylistItem adds a video. A nil position appends; otherwise the
	// video is inserted at the given 0-based index.
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string, position *int64) (*models.LiveItem, error)

	// DeletePlaylistItem removes a playlist membership by item ID.
	DeletePlaylistItem(ctx context.Context, itemID string) error

	// MovePlaylistItem moves an existing item to a new 0-based position.
	MovePlaylistItem(ctx context.Context, playlistID, itemID, videoID string, position int64) error
}

// API is the full client surface used by the CLI.
type API interface {
	SearchAPI
	PlaylistAPI
}
