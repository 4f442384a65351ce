package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tasks"
	"github.com/mark3labs/mcp-go/mcp"
)

// TrackSummary is the shape of one search_tracks result item.
type TrackSummary struct {
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	Popularity int     `json:"popularity"`
	PreviewURL *string `json:"preview_url"`
	SpotifyURL string  `json:"spotify_url"`
}

// ArtistInfo is the shape of a get_artist_info result.
type ArtistInfo struct {
	Name          string   `json:"name"`
	Genres        []string `json:"genres"`
	Popularity    int      `json:"popularity"`
	FollowerCount int      `json:"follower_count"`
	TopTracks     []string `json:"top_tracks"`
}

// TrackFeatures is the shape of a get_track_features result.
type TrackFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Loudness     float64 `json:"loudness"`
}

// Toolbox executes catalog tools against a [services.Catalog].
type Toolbox struct {
	catalog services.Catalog
}

// NewToolbox creates a new Toolbox backed by catalog.
func NewToolbox(catalog services.Catalog) *Toolbox {
	return &Toolbox{catalog: catalog}
}

// Call runs the named tool and returns its shaped value.
//
// Unknown names fail with [shared.ErrUnknownTool]; argument problems with
// [shared.ErrMissingArgument] or [shared.ErrInvalidArgument].
func (t *Toolbox) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case SearchTracks:
		query, err := stringArg(args, "query")
		if err != nil {
			return nil, err
		}
		limit, err := limitArg(args)
		if err != nil {
			return nil, err
		}
		return t.SearchTracks(ctx, query, limit)
	case GetArtistInfo:
		id, err := stringArg(args, "artist_id")
		if err != nil {
			return nil, err
		}
		return t.ArtistInfo(ctx, id)
	case GetTrackFeatures:
		id, err := stringArg(args, "track_id")
		if err != nil {
			return nil, err
		}
		return t.TrackFeatures(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownTool, name)
	}
}

// SearchTracks searches for tracks and shapes each item into a [TrackSummary].
func (t *Toolbox) SearchTracks(ctx context.Context, query string, limit int) ([]TrackSummary, error) {
	tracks, err := t.catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]TrackSummary, 0, len(tracks))
	for _, track := range tracks {
		summaries = append(summaries, TrackSummary{
			Name:       track.Name,
			Artist:     artistNames(track.Artists),
			Album:      track.Album.Name,
			Popularity: track.Popularity,
			PreviewURL: track.PreviewURL,
			SpotifyURL: track.ExternalURLs.Spotify,
		})
	}
	return summaries, nil
}

// ArtistInfo fetches artist metadata and top tracks concurrently. Both must succeed.
func (t *Toolbox) ArtistInfo(ctx context.Context, artistID string) (*ArtistInfo, error) {
	artist, top, err := tasks.Both(ctx,
		func(ctx context.Context) (*services.SpotifyArtist, error) {
			return t.catalog.Artist(ctx, artistID)
		},
		func(ctx context.Context) ([]services.SpotifyTrack, error) {
			return t.catalog.ArtistTopTracks(ctx, artistID)
		},
	)
	if err != nil {
		return nil, err
	}

	info := &ArtistInfo{
		Name:          artist.Name,
		Genres:        artist.Genres,
		Popularity:    artist.Popularity,
		FollowerCount: artist.Followers.Total,
		TopTracks:     make([]string, 0, len(top)),
	}
	if info.Genres == nil {
		info.Genres = []string{}
	}
	for _, track := range top {
		info.TopTracks = append(info.TopTracks, track.Name)
	}
	return info, nil
}

// TrackFeatures fetches audio features and keeps the five summary fields.
func (t *Toolbox) TrackFeatures(ctx context.Context, trackID string) (*TrackFeatures, error) {
	f, err := t.catalog.AudioFeatures(ctx, trackID)
	if err != nil {
		return nil, err
	}

	return &TrackFeatures{
		Danceability: f.Danceability,
		Energy:       f.Energy,
		Valence:      f.Valence,
		Tempo:        f.Tempo,
		Loudness:     f.Loudness,
	}, nil
}

// TextResult wraps v as a single text content item holding indented JSON.
func TextResult(v any) (*mcp.CallToolResult, error) {
	text, err := MarshalText(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

// MarshalText encodes v as JSON indented by two spaces, without HTML escaping or a trailing newline.
func MarshalText(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func artistNames(artists []services.SpotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
	}

	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", shared.ErrInvalidArgument, key)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
	}
	return s, nil
}

// limitArg reads the optional search limit, defaulting to [DefaultSearchLimit].
func limitArg(args map[string]any) (int, error) {
	raw, ok := args["limit"]
	if !ok || raw == nil {
		return DefaultSearchLimit, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: limit must be an integer", shared.ErrInvalidArgument)
		}
		f = n
	default:
		return 0, fmt.Errorf("%w: limit must be an integer", shared.ErrInvalidArgument)
	}

	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: limit must be an integer", shared.ErrInvalidArgument)
	}
	if f < MinSearchLimit || f > MaxSearchLimit {
		return 0, fmt.Errorf("%w: limit must be between %d and %d", shared.ErrInvalidArgument, MinSearchLimit, MaxSearchLimit)
	}
	return int(f), nil
}
