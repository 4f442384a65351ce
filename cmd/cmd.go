// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "spotify-mcp",
		Usage:   "Spotify catalog tools over line-delimited JSON-RPC (MCP) on stdio",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(shared.EnvLogLevel),
			},
		},
		Before:    r.Setup,
		Action:    r.Serve,
		Writer:    r.output,
		ErrWriter: r.errOutput,
		Commands:  r.register(),
	}
}

// serveCommand runs the stdio JSON-RPC server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve JSON-RPC requests on stdin/stdout until end of input",
		Action: r.Serve,
	}
}

// toolsCommand prints the tool catalog.
func toolsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tools",
		Usage:  "Print the tool catalog as JSON",
		Action: r.Tools,
	}
}

// callCommand runs a single tool call through the dispatcher.
func callCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "call",
		Usage: "Call a tool once and print the result",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "tool"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "args",
				Aliases: []string{"a"},
				Usage:   "Tool arguments as a JSON object",
				Value:   "{}",
			},
		},
		Action: r.Call,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (json, csv, markdown, text)",
		Value:   "text",
	}
}

// searchCommand searches the track catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify's catalog for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of results (1-50)",
				Value:   10,
			},
			formatFlag(),
		},
		Action: r.Search,
	}
}

// artistCommand shows artist details and top tracks.
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Show artist information and top tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Artist,
	}
}

// featuresCommand shows the audio features of a track.
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Show audio features for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Features,
	}
}

// apiCommand handles raw Web API calls for debugging.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Web API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET relative to the API base URL, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// authCommand checks the client-credentials exchange.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Client credentials operations",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Exchange credentials for a token and report its expiry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Drop any cached token first",
					},
				},
				Action: r.AuthCheck,
			},
		},
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Destination (defaults to --config)",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets redacted",
				Action: r.ConfigShow,
			},
		},
	}
}
