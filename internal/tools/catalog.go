package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names served by the catalog.
const (
	SearchTracks     = "search_tracks"
	GetArtistInfo    = "get_artist_info"
	GetTrackFeatures = "get_track_features"
)

// Search limit bounds advertised in the input schema and enforced by [Toolbox.Call].
const (
	DefaultSearchLimit = 10
	MinSearchLimit     = 1
	MaxSearchLimit     = 50
)

// integer narrows a number property to JSON-schema "integer".
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

// Definitions returns the static tool catalog in a stable order.
func Definitions() []mcp.Tool {
	search := append([]mcp.ToolOption{
		mcp.WithDescription("Search Spotify's catalog for tracks"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term (song name, artist, album)"),
		),
		mcp.WithNumber("limit",
			integer(),
			mcp.Description("Number of results (default: 10, max: 50)"),
			mcp.DefaultNumber(DefaultSearchLimit),
			mcp.Min(MinSearchLimit),
			mcp.Max(MaxSearchLimit),
		),
	}, readOnly()...)

	artist := append([]mcp.ToolOption{
		mcp.WithDescription("Get detailed artist information and top tracks"),
		mcp.WithString("artist_id",
			mcp.Required(),
			mcp.Description("Spotify artist ID"),
		),
	}, readOnly()...)

	features := append([]mcp.ToolOption{
		mcp.WithDescription("Get audio analysis features for a track"),
		mcp.WithString("track_id",
			mcp.Required(),
			mcp.Description("Spotify track ID"),
		),
	}, readOnly()...)

	return []mcp.Tool{
		mcp.NewTool(SearchTracks, search...),
		mcp.NewTool(GetArtistInfo, artist...),
		mcp.NewTool(GetTrackFeatures, features...),
	}
}

// Known reports whether name is one of the catalog tools.
func Known(name string) bool {
	switch name {
	case SearchTracks, GetArtistInfo, GetTrackFeatures:
		return true
	}
	return false
}
