package main

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/auth"
	"github.com/ytlist/ytlist/internal/shared"
)

// AuthLogin runs the browser authorization flow and caches the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	manager, err := auth.NewManager(r.config, r.logger)
	if err != nil {
		return err
	}

	r.writePlain("→ Opening browser for Google authorization...\n")
	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	token, err := manager.Login(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Authentication successful\n")
	r.writePlain("✓ Token saved to %s\n", r.config.TokenPath())
	if !token.Expiry.IsZero() {
		r.writePlain("  Access token expires %s\n", token.Expiry.Format(time.RFC1123))
	}
	r.writePlain("\nYou can now run: ytlist search <document.md>\n")

	return nil
}

// AuthStatus reports the cached token state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	manager, err := auth.NewManager(r.config, r.logger)
	if err != nil {
		if errors.Is(err, shared.ErrMissingConfig) {
			r.writePlain("✗ No OAuth client configured\n")
			r.writePlain("Download OAuth desktop credentials to %s, then run 'ytlist auth login'.\n",
				r.config.ClientSecretsPath())
			return nil
		}
		return err
	}

	status := manager.Status()

	if r.jsonOutput(cmd) {
		row := struct {
			Authenticated bool       `json:"authenticated"`
			TokenPath     string     `json:"token_path"`
			Expiry        *time.Time `json:"expiry,omitempty"`
			Valid         bool       `json:"valid"`
			HasRefresh    bool       `json:"has_refresh"`
		}{
			Authenticated: status.Authenticated,
			TokenPath:     status.TokenPath,
			Valid:         status.Valid,
			HasRefresh:    status.HasRefresh,
		}
		if !status.Expiry.IsZero() {
			row.Expiry = &status.Expiry
		}
		return r.writeJSON(row, true)
	}

	if !status.Authenticated {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run 'ytlist auth login' to authorize access to your playlists.\n")
		return nil
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("Token: %s\n", status.TokenPath)
	switch {
	case status.Valid:
		r.writePlain("Access token valid until %s\n", status.Expiry.Format(time.RFC1123))
	case status.HasRefresh:
		r.writePlain("Access token expired; it refreshes on the next API call\n")
	default:
		r.writePlain("⚠️ Token expired with no refresh token. Run 'ytlist auth login' again.\n")
	}

	return nil
}

// AuthLogout removes the cached token. A missing token is a no-op, not an
// error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	manager, err := auth.NewManager(r.config, r.logger)
	if err != nil {
		return err
	}

	if err := manager.Logout(); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return r.writePlain("Nothing to do: no cached token.\n")
		}
		return err
	}

	return r.writePlain("✓ Logged out; cached token removed\n")
}
