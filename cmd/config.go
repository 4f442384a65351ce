package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/urfave/cli/v3"
)

const redacted = "********"

// ConfigInit writes the example configuration to --path, or to the global --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.configPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// ConfigShow prints the effective configuration (file, defaults and environment) as TOML.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	conf := *r.config
	if conf.Credentials.Spotify.ClientID != "" {
		conf.Credentials.Spotify.ClientID = redacted
	}
	if conf.Credentials.Spotify.ClientSecret != "" {
		conf.Credentials.Spotify.ClientSecret = redacted
	}

	if err := toml.NewEncoder(r.output).Encode(conf); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
