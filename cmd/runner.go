package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/server"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tools"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies are built once per invocation by [Runner.Setup] and shared by every command.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
	errOutput  io.Writer
	lookupEnv  func(string) (string, bool)

	credentials *services.CredentialManager
	spotify     *services.SpotifyService
	toolbox     *tools.Toolbox
	dispatcher  *server.Dispatcher
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config skips loading the config file when set.
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
	ErrOutput  io.Writer
	LookupEnv  func(string) (string, bool)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
		errOutput:  opts.ErrOutput,
		lookupEnv:  opts.LookupEnv,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, toolsCommand, callCommand, searchCommand, artistCommand, featuresCommand, apiCommand, authCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Setup loads configuration, applies the environment overlay and builds the service graph.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if r.config == nil {
		config, err := r.loadConfig(cmd.IsSet("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	r.config.ApplyEnv(r.lookupEnv)
	if level := cmd.String("log-level"); level != "" {
		r.config.Log.Level = level
	}
	if err := shared.ConfigureLogger(r.logger, r.config.Log); err != nil {
		return ctx, err
	}

	if err := r.build(); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// loadConfig reads the config file. A missing file falls back to defaults unless the path was given explicitly.
func (r *Runner) loadConfig(explicit bool) (*shared.Config, error) {
	config, err := shared.LoadConfig(r.configPath)
	if err == nil {
		r.logger.Debug("loaded config", "path", r.configPath)
		return config, nil
	}

	if errors.Is(err, fs.ErrNotExist) && !explicit {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return shared.DefaultConfig(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, r.configPath)
	}
	return nil, err
}

func (r *Runner) build() error {
	conf := r.config

	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: conf.Spotify.Timeout}
	}

	r.credentials = services.NewCredentialManager(services.CredentialOpts{
		ClientID:     conf.Credentials.Spotify.ClientID,
		ClientSecret: conf.Credentials.Spotify.ClientSecret,
		TokenURL:     conf.Spotify.TokenURL,
		HTTPClient:   client,
		Logger:       r.logger,
	})

	spotify, err := services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:           conf.Spotify.BaseURL,
		Market:            conf.Spotify.Market,
		Tokens:            r.credentials,
		HTTPClient:        client,
		RequestsPerSecond: conf.Spotify.RequestsPerSecond,
		Burst:             conf.Spotify.Burst,
		Logger:            r.logger,
	})
	if err != nil {
		return err
	}
	r.spotify = spotify
	r.toolbox = tools.NewToolbox(spotify)

	dispatcher, err := server.NewDispatcher(server.DispatcherOpts{
		Info: server.Info{
			Name:            conf.Server.Name,
			Version:         conf.Server.Version,
			ProtocolVersion: conf.Server.ProtocolVersion,
		},
		Toolbox: r.toolbox,
		Gate:    server.NewGate(conf.Server.MinInterval),
		Logger:  shared.WithLogger(r.logger, "component", "dispatcher"),
	})
	if err != nil {
		return err
	}
	r.dispatcher = dispatcher

	if !conf.Credentials.Spotify.HasCredentials() {
		r.logger.Warn("Spotify credentials are not configured; tool calls will fail", "env", []string{shared.EnvClientID, shared.EnvClientSecret})
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
