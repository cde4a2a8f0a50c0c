package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/ytlist/ytlist/internal/shared"
)

// LoadToken reads a cached OAuth2 token. Missing and malformed caches both
// map to shared.ErrNotAuthenticated with a login hint, since the remedy is
// the same.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no cached token, run 'ytlist auth login'", shared.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: token cache at %s is malformed, run 'ytlist auth login'", shared.ErrNotAuthenticated, path)
	}
	return &token, nil
}

// SaveToken writes the token with owner-only permissions on both the
// credentials directory and the file.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// cachingTokenSource persists tokens to disk whenever a refresh produces a
// new access token, so the next process start skips the refresh round trip.
type cachingTokenSource struct {
	path   string
	last   *oauth2.Token
	source oauth2.TokenSource
	logger *log.Logger
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh failed: %v", shared.ErrNotAuthenticated, err)
	}

	if token.AccessToken != s.last.AccessToken {
		// Google omits the refresh token on refresh responses; carry the
		// original forward so the cache stays self-sufficient.
		if token.RefreshToken == "" {
			token.RefreshToken = s.last.RefreshToken
		}
		if err := SaveToken(s.path, token); err != nil {
			s.logger.Warn("failed to persist refreshed token", "error", err)
		}
		s.last = token
	}

	return token, nil
}
