package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// AuthCheck performs the client-credentials exchange and reports when the token expires.
//
// The token value itself is never printed.
func (r *Runner) AuthCheck(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("force") {
		r.credentials.Invalidate()
	}

	r.logger.Info("requesting access token", "token_url", r.config.Spotify.TokenURL)

	token, err := r.credentials.Token(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Credentials accepted\n")
	return r.writePlain("Token valid until %s (%s from now)\n",
		token.ExpiresAt.Format(time.RFC3339),
		time.Until(token.ExpiresAt).Round(time.Second),
	)
}
