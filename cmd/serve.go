package main

import (
	"context"

	"github.com/desertthunder/spotify-mcp/internal/server"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON-RPC server on the runner's input and output until end of input.
//
// Only protocol frames go to the output; logs go to the logger's writer.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("serving JSON-RPC on stdio",
		"name", r.config.Server.Name,
		"version", r.config.Server.Version,
		"min_interval", r.config.Server.MinInterval,
	)

	srv := server.NewServer(r.dispatcher, shared.WithLogger(r.logger, "component", "transport"))
	if err := srv.Serve(ctx, r.input, r.output); err != nil {
		return err
	}

	r.logger.Info("input closed, exiting")
	return nil
}
