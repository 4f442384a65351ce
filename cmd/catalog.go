package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/formatter"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urfave/cli/v3"
)

// Tools prints the catalog exactly as tools/list returns it.
func (r *Runner) Tools(ctx context.Context, cmd *cli.Command) error {
	return r.writeJSON(mcp.ListToolsResult{Tools: tools.Definitions()}, true)
}

// Call runs one tool through the dispatcher, including the rate gate, and prints the tool result.
func (r *Runner) Call(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("tool")
	if name == "" {
		return fmt.Errorf("%w: tool name", shared.ErrMissingArgument)
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(cmd.String("args")), &args); err != nil {
		return fmt.Errorf("%w: --args must be a JSON object: %v", shared.ErrInvalidArgument, err)
	}

	result := r.dispatcher.CallTool(ctx, name, args)
	if result.IsError {
		r.logger.Warn("tool returned an error result", "tool", name)
	}
	return r.writeJSON(result, true)
}

// Search searches for tracks and prints them in the selected format.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	return r.render(ctx, cmd, tools.SearchTracks, map[string]any{"query": query, "limit": cmd.Int("limit")})
}

// Artist prints artist details and top tracks in the selected format.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	return r.render(ctx, cmd, tools.GetArtistInfo, map[string]any{"artist_id": cmd.StringArg("id")})
}

// Features prints the audio features of a track in the selected format.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	return r.render(ctx, cmd, tools.GetTrackFeatures, map[string]any{"track_id": cmd.StringArg("id")})
}

func (r *Runner) render(ctx context.Context, cmd *cli.Command, tool string, args map[string]any) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	value, err := r.toolbox.Call(ctx, tool, args)
	if err != nil {
		return err
	}

	data, err := formatter.Render(format, value)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
