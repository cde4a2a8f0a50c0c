package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/services"
	"github.com/ytlist/ytlist/internal/shared"
)

// APIGet issues an authenticated GET against an arbitrary Data API endpoint.
// It goes through the shared client, so rate limiting, retries and quota
// accounting all apply.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	endpoint := cmd.StringArg("endpoint")
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint (usage: ytlist api get <endpoint> [--param key=value])", shared.ErrMissingArgument)
	}

	params := map[string]string{}
	for _, pair := range cmd.StringSlice("param") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: param %q (want key=value)", shared.ErrInvalidArgument, pair)
		}
		params[key] = value
	}

	client, err := r.youtubeClient(ctx)
	if err != nil {
		return err
	}

	api := services.NewAPIService(client)
	resp, err := api.Get(ctx, endpoint, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, resp.Body)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	_, err = fmt.Fprintf(r.output, "%s\n", resp.Body)
	return err
}
