package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/ytlist/ytlist/internal/shared"
)

// tokenEndpoint returns a test server acting as the provider's token URL.
func tokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to token endpoint, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "test-access", "token_type": "Bearer", "refresh_token": "test-refresh", "expires_in": 3600}`)
	}))
}

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8989/callback",
		Scopes:       []string{"https://www.googleapis.com/auth/youtube"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: tokenURL,
		},
	}
}

func receiveResult(t *testing.T, handler *OAuthHandler) OAuthResult {
	t.Helper()
	select {
	case result := <-handler.Result():
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("no OAuth result received")
		return OAuthResult{}
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges code for token", func(t *testing.T) {
		provider := tokenEndpoint(t)
		defer provider.Close()

		handler := NewOAuthHandler(testOAuthConfig(provider.URL), "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth-code", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}

		result := receiveResult(t, handler)
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "test-access" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
		if result.Token.RefreshToken != "test-refresh" {
			t.Errorf("expected refresh token to be kept, got %q", result.Token.RefreshToken)
		}
	})

	t.Run("rejects mismatched state", func(t *testing.T) {
		handler := NewOAuthHandler(testOAuthConfig("http://localhost:1/token"), "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?state=evil&code=auth-code", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}

		result := receiveResult(t, handler)
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("reports provider denial", func(t *testing.T) {
		handler := NewOAuthHandler(testOAuthConfig("http://localhost:1/token"), "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&error=access_denied&error_description=user+denied", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}

		result := receiveResult(t, handler)
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("processes only the first callback", func(t *testing.T) {
		provider := tokenEndpoint(t)
		defer provider.Close()

		handler := NewOAuthHandler(testOAuthConfig(provider.URL), "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth-code", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first callback to succeed, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth-code", nil))
		if second.Code != http.StatusBadRequest {
			t.Errorf("expected replay to get 400, got %d", second.Code)
		}
	})
}

func TestChiRouter(t *testing.T) {
	t.Run("registers handler routes", func(t *testing.T) {
		provider := tokenEndpoint(t)
		defer provider.Close()

		handler := NewOAuthHandler(testOAuthConfig(provider.URL), "state123")
		router := NewRouter()
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth-code", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200 via router, got %d", rec.Code)
		}
	})

	t.Run("filters by method", func(t *testing.T) {
		router := NewRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405 for wrong method, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("applies middleware in order", func(t *testing.T) {
		router := NewRouter()

		var order []string
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "first")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "second")
				next.ServeHTTP(w, r)
			})
		})
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})
}
