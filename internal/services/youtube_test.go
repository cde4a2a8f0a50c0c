package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ytlist/ytlist/internal/shared"
)

// fastRetry keeps test backoff in the microsecond range.
func fastRetry() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
		Retryable:   shared.IsRetryable,
	}
}

func newTestClient(serverURL string, budget *QuotaBudget) *YouTubeClient {
	return NewYouTubeClient(YouTubeClientOpts{
		BaseURL:   serverURL,
		RateLimit: time.Microsecond,
		Retry:     fastRetry(),
		Budget:    budget,
		Logger:    shared.NewLogger(io.Discard),
	})
}

// writeAPIError emits an error payload in the service's wire format.
func writeAPIError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": %q, "errors": [{"reason": %q}]}}`, status, message, reason)
}

func TestYouTubeClient(t *testing.T) {
	ctx := context.Background()

	t.Run("New", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			client := NewYouTubeClient(YouTubeClientOpts{})

			if client.baseURL != defaultBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultBaseURL, client.baseURL)
			}
			if client.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
			if client.maxResults != 3 {
				t.Errorf("expected maxResults 3, got %d", client.maxResults)
			}
			if client.Budget() == nil {
				t.Error("expected a tracking budget to be created")
			}
		})

		t.Run("keeps custom options", func(t *testing.T) {
			budget := NewQuotaBudget(500)
			client := NewYouTubeClient(YouTubeClientOpts{BaseURL: "http://example.com", Budget: budget, MaxResults: 5})

			if client.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", client.baseURL)
			}
			if client.Budget() != budget {
				t.Error("expected the provided budget to be shared")
			}
			if client.maxResults != 5 {
				t.Errorf("expected maxResults 5, got %d", client.maxResults)
			}
		})
	})

	t.Run("SearchVideos", func(t *testing.T) {
		t.Run("joins durations from videos lookup", func(t *testing.T) {
			var searchCalls, videoCalls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/search":
					searchCalls++
					q := r.URL.Query()
					if q.Get("q") != `"Karma Police" "Radiohead" official music video` {
						t.Errorf("unexpected query %q", q.Get("q"))
					}
					if q.Get("videoCategoryId") != "10" {
						t.Errorf("expected music category 10, got %s", q.Get("videoCategoryId"))
					}
					if q.Get("type") != "video" {
						t.Errorf("expected type video, got %s", q.Get("type"))
					}
					if q.Get("maxResults") != "3" {
						t.Errorf("expected maxResults 3, got %s", q.Get("maxResults"))
					}
					json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{
							{"id": map[string]string{"videoId": "vid1"}, "snippet": map[string]string{"title": "Karma Police", "channelTitle": "Radiohead"}},
							{"id": map[string]string{"videoId": "vid2"}, "snippet": map[string]string{"title": "Karma Police (Live)", "channelTitle": "Radiohead Live"}},
						},
					})
				case "/videos":
					videoCalls++
					q := r.URL.Query()
					if q.Get("part") != "contentDetails" {
						t.Errorf("expected part contentDetails, got %s", q.Get("part"))
					}
					if q.Get("id") != "vid1,vid2" {
						t.Errorf("expected ids 'vid1,vid2', got %s", q.Get("id"))
					}
					json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{
							{"id": "vid1", "contentDetails": map[string]string{"duration": "PT4M24S"}},
							{"id": "vid2", "contentDetails": map[string]string{"duration": "PT1H2M3S"}},
						},
					})
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
				}
			}))
			defer server.Close()

			budget := NewQuotaBudget(0)
			client := newTestClient(server.URL, budget)

			matches, err := client.SearchVideos(ctx, "Karma Police", "Radiohead")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(matches) != 2 {
				t.Fatalf("expected 2 matches, got %d", len(matches))
			}
			if matches[0].VideoID != "vid1" || matches[0].Duration != "4:24" {
				t.Errorf("unexpected first match: %+v", matches[0])
			}
			if matches[1].Duration != "1:02:03" {
				t.Errorf("expected duration 1:02:03, got %s", matches[1].Duration)
			}
			if searchCalls != 1 || videoCalls != 1 {
				t.Errorf("expected 1 search and 1 videos call, got %d and %d", searchCalls, videoCalls)
			}
			if budget.Spent() != CostSearchList+CostVideosList {
				t.Errorf("expected %d units spent, got %d", CostSearchList+CostVideosList, budget.Spent())
			}
		})

		t.Run("duration lookup failure degrades to unknown", func(t *testing.T) {
			var videoCalls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/search":
					json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{
							{"id": map[string]string{"videoId": "vid1"}, "snippet": map[string]string{"title": "Song", "channelTitle": "Artist"}},
						},
					})
				case "/videos":
					videoCalls++
					writeAPIError(w, http.StatusServiceUnavailable, "backendError", "try again")
				}
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			matches, err := client.SearchVideos(ctx, "Song", "Artist")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			if matches[0].Duration != shared.UnknownDuration {
				t.Errorf("expected unknown duration, got %s", matches[0].Duration)
			}
			if videoCalls != 3 {
				t.Errorf("expected 3 attempts against /videos, got %d", videoCalls)
			}
		})

		t.Run("duration lookup quota failure propagates", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/search":
					json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{
							{"id": map[string]string{"videoId": "vid1"}, "snippet": map[string]string{"title": "Song", "channelTitle": "Artist"}},
						},
					})
				case "/videos":
					writeAPIError(w, http.StatusForbidden, "quotaExceeded", "quota exhausted")
				}
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			if _, err := client.SearchVideos(ctx, "Song", "Artist"); !errors.Is(err, shared.ErrQuotaExceeded) {
				t.Errorf("expected ErrQuotaExceeded, got %v", err)
			}
		})

		t.Run("no results returns empty slice", func(t *testing.T) {
			var videoCalls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/videos" {
					videoCalls++
				}
				json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			matches, err := client.SearchVideos(ctx, "Unfindable", "Nobody")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(matches) != 0 {
				t.Errorf("expected no matches, got %d", len(matches))
			}
			if videoCalls != 0 {
				t.Error("expected no duration lookup for empty results")
			}
		})

		t.Run("local budget refuses before any call", func(t *testing.T) {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
			}))
			defer server.Close()

			budget := NewQuotaBudget(50)
			client := newTestClient(server.URL, budget)

			_, err := client.SearchVideos(ctx, "Song", "Artist")
			if !errors.Is(err, shared.ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
			if calls != 0 {
				t.Errorf("expected no HTTP calls, got %d", calls)
			}
			if budget.Spent() != 0 {
				t.Errorf("expected no units spent on refusal, got %d", budget.Spent())
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		t.Run("sends snippet and status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.URL.Path != "/playlists" {
					t.Errorf("expected path /playlists, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("part") != "snippet,status" {
					t.Errorf("expected part snippet,status, got %s", r.URL.Query().Get("part"))
				}

				var body struct {
					Snippet struct {
						Title       string `json:"title"`
						Description string `json:"description"`
					} `json:"snippet"`
					Status struct {
						PrivacyStatus string `json:"privacyStatus"`
					} `json:"status"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("failed to decode request body: %v", err)
				}
				if body.Snippet.Title != "Road Trip Mix" {
					t.Errorf("expected title 'Road Trip Mix', got %s", body.Snippet.Title)
				}
				if body.Status.PrivacyStatus != "private" {
					t.Errorf("expected default privacy private, got %s", body.Status.PrivacyStatus)
				}

				json.NewEncoder(w).Encode(map[string]any{
					"id":      "PLabc123",
					"snippet": map[string]string{"title": body.Snippet.Title, "description": body.Snippet.Description},
					"status":  map[string]string{"privacyStatus": body.Status.PrivacyStatus},
				})
			}))
			defer server.Close()

			budget := NewQuotaBudget(0)
			client := newTestClient(server.URL, budget)

			playlist, err := client.CreatePlaylist(ctx, "Road Trip Mix", "Synced by ytlist", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.ID != "PLabc123" {
				t.Errorf("expected playlist ID PLabc123, got %s", playlist.ID)
			}
			if playlist.Privacy != "private" {
				t.Errorf("expected privacy private, got %s", playlist.Privacy)
			}
			if budget.Spent() != CostPlaylistInsert {
				t.Errorf("expected %d units spent, got %d", CostPlaylistInsert, budget.Spent())
			}
		})
	})

	t.Run("PlaylistItems", func(t *testing.T) {
		t.Run("materializes all pages", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("playlistId") != "PLabc123" {
					t.Errorf("expected playlistId PLabc123, got %s", q.Get("playlistId"))
				}
				if q.Get("maxResults") != "50" {
					t.Errorf("expected maxResults 50, got %s", q.Get("maxResults"))
				}

				switch q.Get("pageToken") {
				case "":
					json.NewEncoder(w).Encode(map[string]any{
						"nextPageToken": "tok2",
						"items": []map[string]any{
							{"id": "item1", "snippet": map[string]any{"title": "First", "position": 0, "resourceId": map[string]string{"videoId": "vidA"}}},
							{"id": "item2", "snippet": map[string]any{"title": "Second", "position": 1, "resourceId": map[string]string{"videoId": "vidB"}}},
						},
					})
				case "tok2":
					json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{
							{"id": "item3", "snippet": map[string]any{"title": "Third", "position": 2, "resourceId": map[string]string{"videoId": "vidC"}}},
						},
					})
				default:
					t.Errorf("unexpected pageToken %s", q.Get("pageToken"))
				}
			}))
			defer server.Close()

			budget := NewQuotaBudget(0)
			client := newTestClient(server.URL, budget)

			items, err := client.PlaylistItems(ctx, "PLabc123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(items) != 3 {
				t.Fatalf("expected 3 items, got %d", len(items))
			}
			if items[0].ItemID != "item1" || items[0].VideoID != "vidA" || items[0].Position != 0 {
				t.Errorf("unexpected first item: %+v", items[0])
			}
			if items[2].ItemID != "item3" || items[2].Position != 2 {
				t.Errorf("unexpected last item: %+v", items[2])
			}
			if budget.Spent() != 2*CostPlaylistItemsList {
				t.Errorf("expected one unit per page, got %d", budget.Spent())
			}
		})

		t.Run("missing playlist maps to sentinel", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusNotFound, "playlistNotFound", "The playlist identified with the request's playlistId parameter cannot be found.")
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			if _, err := client.PlaylistItems(ctx, "PLgone"); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})
	})

	t.Run("InsertPlaylistItem", func(t *testing.T) {
		decodeInsert := func(t *testing.T, r *http.Request) (playlistID, videoID, kind string, position *int64) {
			t.Helper()
			var body struct {
				Snippet struct {
					PlaylistID string `json:"playlistId"`
					ResourceID struct {
						Kind    string `json:"kind"`
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
					Position *int64 `json:"position"`
				} `json:"snippet"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			return body.Snippet.PlaylistID, body.Snippet.ResourceID.VideoID, body.Snippet.ResourceID.Kind, body.Snippet.Position
		}

		t.Run("appends when position is nil", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				playlistID, videoID, kind, position := decodeInsert(t, r)
				if playlistID != "PLabc123" || videoID != "vidA" {
					t.Errorf("unexpected insert target %s/%s", playlistID, videoID)
				}
				if kind != "youtube#video" {
					t.Errorf("expected resource kind youtube#video, got %s", kind)
				}
				if position != nil {
					t.Errorf("expected position omitted, got %d", *position)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"id":      "item9",
					"snippet": map[string]any{"title": "Appended", "position": 7, "resourceId": map[string]string{"videoId": "vidA"}},
				})
			}))
			defer server.Close()

			budget := NewQuotaBudget(0)
			client := newTestClient(server.URL, budget)

			item, err := client.InsertPlaylistItem(ctx, "PLabc123", "vidA", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if item.ItemID != "item9" || item.Position != 7 {
				t.Errorf("unexpected item: %+v", item)
			}
			if budget.Spent() != CostPlaylistItemInsert {
				t.Errorf("expected %d units spent, got %d", CostPlaylistItemInsert, budget.Spent())
			}
		})

		t.Run("sends explicit position", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _, _, position := decodeInsert(t, r)
				if position == nil || *position != 1 {
					t.Errorf("expected position 1, got %v", position)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"id":      "item5",
					"snippet": map[string]any{"title": "Inserted", "position": 1, "resourceId": map[string]string{"videoId": "vidB"}},
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			pos := int64(1)
			item, err := client.InsertPlaylistItem(ctx, "PLabc123", "vidB", &pos)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if item.Position != 1 {
				t.Errorf("expected position 1, got %d", item.Position)
			}
		})

		t.Run("unavailable video maps to sentinel", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusNotFound, "videoNotFound", "Video not found.")
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			if _, err := client.InsertPlaylistItem(ctx, "PLabc123", "vidGone", nil); !errors.Is(err, shared.ErrVideoUnavailable) {
				t.Errorf("expected ErrVideoUnavailable, got %v", err)
			}
		})
	})

	t.Run("DeletePlaylistItem", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE method, got %s", r.Method)
			}
			if r.URL.Query().Get("id") != "item4" {
				t.Errorf("expected id item4, got %s", r.URL.Query().Get("id"))
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		budget := NewQuotaBudget(0)
		client := newTestClient(server.URL, budget)

		if err := client.DeletePlaylistItem(ctx, "item4"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if budget.Spent() != CostPlaylistItemDelete {
			t.Errorf("expected %d units spent, got %d", CostPlaylistItemDelete, budget.Spent())
		}
	})

	t.Run("MovePlaylistItem", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT method, got %s", r.Method)
			}

			var body struct {
				ID      string `json:"id"`
				Snippet struct {
					PlaylistID string `json:"playlistId"`
					ResourceID struct {
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
					Position *int64 `json:"position"`
				} `json:"snippet"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			if body.ID != "item2" {
				t.Errorf("expected item id item2, got %s", body.ID)
			}
			if body.Snippet.ResourceID.VideoID != "vidB" {
				t.Errorf("expected videoId vidB, got %s", body.Snippet.ResourceID.VideoID)
			}
			if body.Snippet.Position == nil || *body.Snippet.Position != 0 {
				t.Errorf("expected position 0, got %v", body.Snippet.Position)
			}

			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		budget := NewQuotaBudget(0)
		client := newTestClient(server.URL, budget)

		if err := client.MovePlaylistItem(ctx, "PLabc123", "item2", "vidB", 0); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if budget.Spent() != CostPlaylistItemUpdate {
			t.Errorf("expected %d units spent, got %d", CostPlaylistItemUpdate, budget.Spent())
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			name   string
			status int
			reason string
			want   error
		}{
			{"quota exceeded", http.StatusForbidden, "quotaExceeded", shared.ErrQuotaExceeded},
			{"daily limit exceeded", http.StatusForbidden, "dailyLimitExceeded", shared.ErrQuotaExceeded},
			{"playlist not found", http.StatusNotFound, "playlistNotFound", shared.ErrPlaylistNotFound},
			{"video not found", http.StatusNotFound, "videoNotFound", shared.ErrVideoUnavailable},
			{"playlist item not found", http.StatusNotFound, "playlistItemNotFound", shared.ErrVideoUnavailable},
			{"unauthorized", http.StatusUnauthorized, "authError", shared.ErrNotAuthenticated},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeAPIError(w, tc.status, tc.reason, "mapped error")
				}))
				defer server.Close()

				client := newTestClient(server.URL, NewQuotaBudget(0))

				if _, err := client.PlaylistItems(ctx, "PLabc123"); !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}

		t.Run("other statuses produce APIError", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusBadRequest, "invalidValue", "bad request")
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			_, err := client.PlaylistItems(ctx, "PLabc123")
			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusBadRequest || apiErr.Reason != "invalidValue" {
				t.Errorf("unexpected APIError: %+v", apiErr)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected APIError to match ErrAPIRequest")
			}
		})
	})

	t.Run("Retry Behavior", func(t *testing.T) {
		t.Run("transient errors are retried", func(t *testing.T) {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls < 3 {
					writeAPIError(w, http.StatusServiceUnavailable, "backendError", "try again")
					return
				}
				json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
			}))
			defer server.Close()

			budget := NewQuotaBudget(0)
			client := newTestClient(server.URL, budget)

			if _, err := client.PlaylistItems(ctx, "PLabc123"); err != nil {
				t.Fatalf("expected success after retries, got %v", err)
			}
			if calls != 3 {
				t.Errorf("expected 3 attempts, got %d", calls)
			}
			if budget.Spent() != CostPlaylistItemsList {
				t.Errorf("expected quota charged once per logical call, got %d", budget.Spent())
			}
		})

		t.Run("quota errors are not retried", func(t *testing.T) {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeAPIError(w, http.StatusForbidden, "quotaExceeded", "quota exhausted")
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			if _, err := client.PlaylistItems(ctx, "PLabc123"); !errors.Is(err, shared.ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
			if calls != 1 {
				t.Errorf("expected a single attempt, got %d", calls)
			}
		})

		t.Run("client errors are not retried", func(t *testing.T) {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeAPIError(w, http.StatusBadRequest, "invalidValue", "bad request")
			}))
			defer server.Close()

			client := newTestClient(server.URL, NewQuotaBudget(0))

			if _, err := client.PlaylistItems(ctx, "PLabc123"); err == nil {
				t.Fatal("expected error")
			}
			if calls != 1 {
				t.Errorf("expected a single attempt, got %d", calls)
			}
		})
	})
}
