// Package auth manages Google OAuth2 credentials for the YouTube Data API:
// loading client secrets, running the browser consent flow against a local
// callback server, and caching tokens across runs.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/ytlist/ytlist/internal/server"
	"github.com/ytlist/ytlist/internal/shared"
)

// scopeYouTube grants full playlist read and write access.
const scopeYouTube = "https://www.googleapis.com/auth/youtube"

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

// loginTimeout bounds how long the callback server waits for the user to
// finish the consent screen.
const loginTimeout = 2 * time.Minute

// Manager owns the OAuth2 configuration and the token cache location.
type Manager struct {
	config    *oauth2.Config
	tokenPath string
	port      int
	logger    *log.Logger
}

// clientSecrets mirrors the client_secrets.json file downloaded from the
// Google Cloud console. Desktop credentials use the "installed" key, web
// credentials use "web"; both carry the same fields.
type clientSecrets struct {
	Installed *clientSecretsEntry `json:"installed"`
	Web       *clientSecretsEntry `json:"web"`
}

type clientSecretsEntry struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// NewManager loads client secrets from the configured location and prepares
// the OAuth2 config.
func NewManager(cfg *shared.Config, logger *log.Logger) (*Manager, error) {
	secretsPath := cfg.ClientSecretsPath()

	data, err := os.ReadFile(secretsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: client secrets not found at %s, download OAuth desktop credentials from the Google Cloud console",
				shared.ErrMissingConfig, secretsPath)
		}
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("%w: client secrets at %s are not valid JSON: %v", shared.ErrInvalidConfig, secretsPath, err)
	}

	entry := secrets.Installed
	if entry == nil {
		entry = secrets.Web
	}
	if entry == nil || entry.ClientID == "" || entry.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client secrets at %s are missing an installed or web credential", shared.ErrInvalidConfig, secretsPath)
	}

	authURL := entry.AuthURI
	if authURL == "" {
		authURL = googleAuthURL
	}
	tokenURL := entry.TokenURI
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	port := cfg.Auth.CallbackPort

	return &Manager{
		config: &oauth2.Config{
			ClientID:     entry.ClientID,
			ClientSecret: entry.ClientSecret,
			RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
			Scopes:       []string{scopeYouTube},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		tokenPath: cfg.TokenPath(),
		port:      port,
		logger:    logger,
	}, nil
}

// Login runs the browser authorization flow: start a local callback server,
// open the consent URL, wait for Google's redirect, and cache the token.
// Offline access with forced consent guarantees a refresh token even when
// the user authorized before.
func (m *Manager) Login(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	authURL := m.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))

	handler := server.NewOAuthHandler(m.config, state)
	router := server.NewRouter()
	router.Handler(handler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", m.port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		m.logger.Info("waiting for OAuth callback", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	shared.OpenBrowserOrPrompt(m.logger, authURL)

	timeout := time.NewTimer(loginTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		m.shutdown(httpServer)
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, loginTimeout)
	case <-ctx.Done():
		m.shutdown(httpServer)
		return nil, ctx.Err()
	}

	m.shutdown(httpServer)

	if result.Error() != nil {
		return nil, result.Error()
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	if err := SaveToken(m.tokenPath, result.Token); err != nil {
		return nil, err
	}
	m.logger.Info("token cached", "path", m.tokenPath)

	return result.Token, nil
}

func (m *Manager) shutdown(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("error shutting down callback server", "error", err)
	}
}

// Client returns an HTTP client that attaches tokens to every request,
// refreshes them when expired, and persists refreshed tokens back to the
// cache. Fails with shared.ErrNotAuthenticated when no token is cached.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	token, err := LoadToken(m.tokenPath)
	if err != nil {
		return nil, err
	}

	source := &cachingTokenSource{
		path:   m.tokenPath,
		last:   token,
		source: m.config.TokenSource(ctx, token),
		logger: m.logger,
	}

	return oauth2.NewClient(ctx, source), nil
}

// TokenStatus describes the cached credential for the auth status command.
type TokenStatus struct {
	Authenticated bool
	TokenPath     string
	Expiry        time.Time
	Valid         bool
	HasRefresh    bool
}

// Status inspects the token cache without touching the network. A token past
// its expiry with a refresh token present is still usable; Valid only means
// the access token itself has time left.
func (m *Manager) Status() TokenStatus {
	status := TokenStatus{TokenPath: m.tokenPath}

	token, err := LoadToken(m.tokenPath)
	if err != nil {
		return status
	}

	status.Authenticated = true
	status.Expiry = token.Expiry
	status.Valid = token.Valid()
	status.HasRefresh = token.RefreshToken != ""
	return status
}

// Logout removes the cached token.
func (m *Manager) Logout() error {
	if err := os.Remove(m.tokenPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: no cached token at %s", shared.ErrNotAuthenticated, m.tokenPath)
		}
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
