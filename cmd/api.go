package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET to the Web API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.spotify.Get(ctx, path)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	if err := r.writeBytes(resp.Body); err != nil {
		return err
	}
	return r.writePlain("\n")
}
