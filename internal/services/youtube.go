// YouTube Data API v3 [API] implementation.
//
// All calls share one rate limiter, one retry policy, and one quota budget,
// so the ordering and cost of outbound traffic stays predictable no matter
// which operation triggers it.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// musicCategoryID restricts searches to the Music category.
const musicCategoryID = "10"

// pageSize is the playlistItems page size; 50 is the API maximum.
const pageSize = 50

// YouTubeClient talks to the YouTube Data API v3. Not safe for concurrent
// use: ytlist executes operations strictly sequentially so playlist
// positions and quota spending stay deterministic.
type YouTubeClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	budget     *QuotaBudget
	maxResults int
	logger     *log.Logger
}

// YouTubeClientOpts configures a client. Zero values get defaults.
type YouTubeClientOpts struct {
	BaseURL    string        // API base URL, overridden in tests
	HTTPClient *http.Client  // authenticated client from the auth manager
	RateLimit  time.Duration // minimum gap between outbound calls
	Retry      *RetryPolicy
	Budget     *QuotaBudget
	MaxResults int // search candidates per track
	Logger     *log.Logger
}

// NewYouTubeClient creates a client with the given options.
func NewYouTubeClient(opts YouTubeClientOpts) *YouTubeClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 500 * time.Millisecond
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 3
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Budget == nil {
		opts.Budget = NewQuotaBudget(0)
	}

	retry := DefaultRetryPolicy(opts.Logger)
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &YouTubeClient{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Every(opts.RateLimit), 1),
		retry:      retry,
		budget:     opts.Budget,
		maxResults: opts.MaxResults,
		logger:     opts.Logger,
	}
}

// Budget exposes the shared quota budget for summaries and abort decisions.
func (y *YouTubeClient) Budget() *QuotaBudget {
	return y.budget
}

// doRequest performs one logical API call: charge quota, then attempt the
// HTTP exchange under the retry policy, waiting on the rate limiter before
// every attempt. The request body is marshaled once and replayed per attempt.
func (y *YouTubeClient) doRequest(ctx context.Context, method, endpoint string, params url.Values, body, result any, cost int) error {
	if err := y.budget.Charge(cost); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	apiURL := y.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	return y.retry.Do(ctx, method+" "+endpoint, func() error {
		if err := y.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := y.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return mapAPIError(resp)
		}

		if result != nil && resp.StatusCode != http.StatusNoContent {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	})
}

// mapAPIError converts a non-2xx response into the error taxonomy. The API
// reports a reason code per error; quota and not-found reasons map to
// sentinels, everything else stays a typed APIError.
func mapAPIError(resp *http.Response) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}

	var reason, message string
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		message = errResp.Error.Message
		if len(errResp.Error.Errors) > 0 {
			reason = errResp.Error.Errors[0].Reason
		}
	}
	if message == "" {
		message = fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden && (reason == "quotaExceeded" || reason == "dailyLimitExceeded"):
		return fmt.Errorf("%w: daily API quota exhausted, resets at midnight Pacific Time", shared.ErrQuotaExceeded)
	case resp.StatusCode == http.StatusNotFound && reason == "playlistNotFound":
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, message)
	case resp.StatusCode == http.StatusNotFound && (reason == "videoNotFound" || reason == "playlistItemNotFound"):
		return fmt.Errorf("%w: %s", shared.ErrVideoUnavailable, message)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: run 'ytlist auth login'", shared.ErrNotAuthenticated)
	default:
		return &shared.APIError{StatusCode: resp.StatusCode, Reason: reason, Message: message}
	}
}

// SearchVideos searches the Music category for a track and joins durations
// from a secondary videos lookup. Result order is the service's ranking;
// a failed duration lookup degrades to UnknownDuration instead of failing
// the search, unless it failed on quota.
func (y *YouTubeClient) SearchVideos(ctx context.Context, title, artist string) ([]models.SearchMatch, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", shared.BuildSearchQuery(title, artist))
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", strconv.Itoa(y.maxResults))

	var searchResp struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/search", params, nil, &searchResp, CostSearchList); err != nil {
		return nil, err
	}

	matches := make([]models.SearchMatch, 0, len(searchResp.Items))
	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		matches = append(matches, models.SearchMatch{
			VideoID:  item.ID.VideoID,
			Title:    item.Snippet.Title,
			Channel:  item.Snippet.ChannelTitle,
			Duration: shared.UnknownDuration,
		})
		ids = append(ids, item.ID.VideoID)
	}
	if len(matches) == 0 {
		return matches, nil
	}

	durations, err := y.videoDurations(ctx, ids)
	if err != nil {
		if errors.Is(err, shared.ErrQuotaExceeded) {
			return nil, err
		}
		y.logger.Warn("duration lookup failed, reporting durations as unknown", "error", err)
		return matches, nil
	}
	for i := range matches {
		if d, ok := durations[matches[i].VideoID]; ok {
			matches[i].Duration = d
		}
	}

	return matches, nil
}

// videoDurations fetches content details for up to one page of video IDs and
// returns formatted durations keyed by video ID.
func (y *YouTubeClient) videoDurations(ctx context.Context, ids []string) (map[string]string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var videosResp struct {
		Items []struct {
			ID             string `json:"id"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/videos", params, nil, &videosResp, CostVideosList); err != nil {
		return nil, err
	}

	durations := make(map[string]string, len(videosResp.Items))
	for _, item := range videosResp.Items {
		durations[item.ID] = shared.FormatISODuration(item.ContentDetails.Duration)
	}
	return durations, nil
}

// CreatePlaylist creates an empty playlist with the given privacy status.
func (y *YouTubeClient) CreatePlaylist(ctx context.Context, title, description, privacy string) (*models.Playlist, error) {
	if privacy == "" {
		privacy = "private"
	}

	params := url.Values{}
	params.Set("part", "snippet,status")

	body := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": privacy,
		},
	}

	var created struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
		Status struct {
			PrivacyStatus string `json:"privacyStatus"`
		} `json:"status"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/playlists", params, body, &created, CostPlaylistInsert); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          created.ID,
		Title:       created.Snippet.Title,
		Description: created.Snippet.Description,
		Privacy:     created.Status.PrivacyStatus,
	}, nil
}

// playlistItemResult is the wire shape shared by playlistItems list, insert,
// and update responses.
type playlistItemResult struct {
	ID      string `json:"id"`
	Snippet struct {
		Title      string `json:"title"`
		Position   int64  `json:"position"`
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

func (r playlistItemResult) liveItem() models.LiveItem {
	return models.LiveItem{
		ItemID:   r.ID,
		VideoID:  r.Snippet.ResourceID.VideoID,
		Title:    r.Snippet.Title,
		Position: r.Snippet.Position,
	}
}

// playlistItemBody is the wire shape for insert and update requests. A nil
// Position is omitted, which appends on insert.
type playlistItemBody struct {
	ID      string              `json:"id,omitempty"`
	Snippet playlistItemSnippet `json:"snippet"`
}

type playlistItemSnippet struct {
	PlaylistID string        `json:"playlistId"`
	ResourceID videoResource `json:"resourceId"`
	Position   *int64        `json:"position,omitempty"`
}

type videoResource struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

func videoRef(videoID string) videoResource {
	return videoResource{Kind: "youtube#video", VideoID: videoID}
}

// PlaylistItems lists every item of a playlist in order, following
// nextPageToken until the listing is fully materialized.
func (y *YouTubeClient) PlaylistItems(ctx context.Context, playlistID string) ([]models.LiveItem, error) {
	var items []models.LiveItem

	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page struct {
			NextPageToken string               `json:"nextPageToken"`
			Items         []playlistItemResult `json:"items"`
		}

		if err := y.doRequest(ctx, http.MethodGet, "/playlistItems", params, nil, &page, CostPlaylistItemsList); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			items = append(items, item.liveItem())
		}

		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

// InsertPlaylistItem adds a video to a playlist. A nil position appends.
func (y *YouTubeClient) InsertPlaylistItem(ctx context.Context, playlistID, videoID string, position *int64) (*models.LiveItem, error) {
	params := url.Values{}
	params.Set("part", "snippet")

	body := playlistItemBody{
		Snippet: playlistItemSnippet{
			PlaylistID: playlistID,
			ResourceID: videoRef(videoID),
			Position:   position,
		},
	}

	var created playlistItemResult
	if err := y.doRequest(ctx, http.MethodPost, "/playlistItems", params, body, &created, CostPlaylistItemInsert); err != nil {
		return nil, err
	}

	item := created.liveItem()
	return &item, nil
}

// DeletePlaylistItem removes a playlist membership.
func (y *YouTubeClient) DeletePlaylistItem(ctx context.Context, itemID string) error {
	params := url.Values{}
	params.Set("id", itemID)

	return y.doRequest(ctx, http.MethodDelete, "/playlistItems", params, nil, nil, CostPlaylistItemDelete)
}

// MovePlaylistItem updates an item's position. The API requires the full
// snippet including the video reference, hence videoID.
func (y *YouTubeClient) MovePlaylistItem(ctx context.Context, playlistID, itemID, videoID string, position int64) error {
	params := url.Values{}
	params.Set("part", "snippet")

	body := playlistItemBody{
		ID: itemID,
		Snippet: playlistItemSnippet{
			PlaylistID: playlistID,
			ResourceID: videoRef(videoID),
			Position:   &position,
		},
	}

	return y.doRequest(ctx, http.MethodPut, "/playlistItems", params, body, nil, CostPlaylistItemUpdate)
}
