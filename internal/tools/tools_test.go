package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeCatalog struct {
	mu        sync.Mutex
	calls     []string
	tracks    []services.SpotifyTrack
	artist    *services.SpotifyArtist
	top       []services.SpotifyTrack
	features  *services.SpotifyAudioFeatures
	artistErr error
	topErr    error
	lastLimit int
	lastQuery string
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) SearchTracks(_ context.Context, query string, limit int) ([]services.SpotifyTrack, error) {
	f.record("search")
	f.lastQuery, f.lastLimit = query, limit
	return f.tracks, nil
}

func (f *fakeCatalog) Artist(context.Context, string) (*services.SpotifyArtist, error) {
	f.record("artist")
	return f.artist, f.artistErr
}

func (f *fakeCatalog) ArtistTopTracks(context.Context, string) ([]services.SpotifyTrack, error) {
	f.record("top-tracks")
	return f.top, f.topErr
}

func (f *fakeCatalog) AudioFeatures(context.Context, string) (*services.SpotifyAudioFeatures, error) {
	f.record("features")
	return f.features, nil
}

func (f *fakeCatalog) Name() string { return "fake" }

func strPtr(s string) *string { return &s }

func track(name, album string, artists ...string) services.SpotifyTrack {
	t := services.SpotifyTrack{Name: name, Album: services.SpotifyAlbum{Name: album}, Popularity: 77}
	for _, a := range artists {
		t.Artists = append(t.Artists, services.SpotifyArtist{Name: a})
	}
	t.ExternalURLs.Spotify = "https://open.spotify.com/track/" + name
	return t
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
		if !Known(d.Name) {
			t.Errorf("catalog tool %s should be known", d.Name)
		}
	}
	if diff := cmp.Diff([]string{SearchTracks, GetArtistInfo, GetTrackFeatures}, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}

	t.Run("Search Schema", func(t *testing.T) {
		raw, err := json.Marshal(defs[0])
		if err != nil {
			t.Fatalf("failed to marshal tool: %v", err)
		}

		var got struct {
			Description string `json:"description"`
			InputSchema struct {
				Type       string                    `json:"type"`
				Properties map[string]map[string]any `json:"properties"`
				Required   []string                  `json:"required"`
			} `json:"inputSchema"`
		}
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("failed to unmarshal tool: %v", err)
		}

		if got.InputSchema.Type != "object" {
			t.Errorf("expected object schema, got %s", got.InputSchema.Type)
		}
		if diff := cmp.Diff([]string{"query"}, got.InputSchema.Required); diff != "" {
			t.Errorf("required mismatch (-want +got):\n%s", diff)
		}

		want := map[string]any{
			"type":        "integer",
			"description": "Number of results (default: 10, max: 50)",
			"default":     float64(10),
			"minimum":     float64(1),
			"maximum":     float64(50),
		}
		if diff := cmp.Diff(want, got.InputSchema.Properties["limit"]); diff != "" {
			t.Errorf("limit schema mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Required IDs", func(t *testing.T) {
		for i, key := range map[int]string{1: "artist_id", 2: "track_id"} {
			if diff := cmp.Diff([]string{key}, defs[i].InputSchema.Required); diff != "" {
				t.Errorf("%s required mismatch (-want +got):\n%s", defs[i].Name, diff)
			}
		}
	})

	t.Run("Read Only", func(t *testing.T) {
		for _, d := range defs {
			if d.Annotations.ReadOnlyHint == nil || !*d.Annotations.ReadOnlyHint {
				t.Errorf("%s should be annotated read-only", d.Name)
			}
		}
	})
}

func TestToolbox(t *testing.T) {
	t.Run("SearchTracks", func(t *testing.T) {
		cat := &fakeCatalog{tracks: []services.SpotifyTrack{
			track("Shake It Off", "1989", "Taylor Swift"),
			track("Bad Blood", "1989", "Taylor Swift", "Kendrick Lamar"),
		}}
		cat.tracks[0].PreviewURL = strPtr("https://p.scdn.co/x")

		got, err := NewToolbox(cat).Call(context.Background(), SearchTracks, map[string]any{"query": "Shake It Off", "limit": float64(3)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []TrackSummary{
			{Name: "Shake It Off", Artist: "Taylor Swift", Album: "1989", Popularity: 77, PreviewURL: strPtr("https://p.scdn.co/x"), SpotifyURL: "https://open.spotify.com/track/Shake It Off"},
			{Name: "Bad Blood", Artist: "Taylor Swift, Kendrick Lamar", Album: "1989", Popularity: 77, SpotifyURL: "https://open.spotify.com/track/Bad Blood"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("search mismatch (-want +got):\n%s", diff)
		}
		if cat.lastLimit != 3 || cat.lastQuery != "Shake It Off" {
			t.Errorf("unexpected catalog call query=%q limit=%d", cat.lastQuery, cat.lastLimit)
		}
	})

	t.Run("SearchTracks Default Limit", func(t *testing.T) {
		cat := &fakeCatalog{}

		got, err := NewToolbox(cat).Call(context.Background(), SearchTracks, map[string]any{"query": "x"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cat.lastLimit != DefaultSearchLimit {
			t.Errorf("expected default limit %d, got %d", DefaultSearchLimit, cat.lastLimit)
		}

		res, err := TextResult(got)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if text := res.Content[0].(mcp.TextContent).Text; text != "[]" {
			t.Errorf("expected empty array text, got %q", text)
		}
	})

	t.Run("Arguments", func(t *testing.T) {
		tc := []struct {
			name string
			tool string
			args map[string]any
			want error
		}{
			{name: "missing query", tool: SearchTracks, args: map[string]any{}, want: shared.ErrMissingArgument},
			{name: "blank query", tool: SearchTracks, args: map[string]any{"query": "  "}, want: shared.ErrMissingArgument},
			{name: "non-string query", tool: SearchTracks, args: map[string]any{"query": 5.0}, want: shared.ErrInvalidArgument},
			{name: "limit too large", tool: SearchTracks, args: map[string]any{"query": "q", "limit": 51.0}, want: shared.ErrInvalidArgument},
			{name: "limit too small", tool: SearchTracks, args: map[string]any{"query": "q", "limit": 0.0}, want: shared.ErrInvalidArgument},
			{name: "fractional limit", tool: SearchTracks, args: map[string]any{"query": "q", "limit": 2.5}, want: shared.ErrInvalidArgument},
			{name: "string limit", tool: SearchTracks, args: map[string]any{"query": "q", "limit": "3"}, want: shared.ErrInvalidArgument},
			{name: "missing artist id", tool: GetArtistInfo, args: nil, want: shared.ErrMissingArgument},
			{name: "missing track id", tool: GetTrackFeatures, args: map[string]any{"track_id": nil}, want: shared.ErrMissingArgument},
			{name: "unknown tool", tool: "play_song", args: map[string]any{}, want: shared.ErrUnknownTool},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				cat := &fakeCatalog{}
				_, err := NewToolbox(cat).Call(context.Background(), tt.tool, tt.args)
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
				if len(cat.calls) != 0 {
					t.Errorf("expected no catalog calls, got %v", cat.calls)
				}
			})
		}
	})

	t.Run("Accepts Integer Limits", func(t *testing.T) {
		for _, v := range []any{7, int64(7), json.Number("7"), 7.0} {
			cat := &fakeCatalog{}
			if _, err := NewToolbox(cat).Call(context.Background(), SearchTracks, map[string]any{"query": "q", "limit": v}); err != nil {
				t.Fatalf("limit %T: expected no error, got %v", v, err)
			}
			if cat.lastLimit != 7 {
				t.Errorf("limit %T: expected 7, got %d", v, cat.lastLimit)
			}
		}
	})

	t.Run("ArtistInfo", func(t *testing.T) {
		cat := &fakeCatalog{
			artist: &services.SpotifyArtist{Name: "Taylor Swift", Genres: []string{"pop"}, Popularity: 100},
			top:    []services.SpotifyTrack{track("Cruel Summer", "Lover"), track("Anti-Hero", "Midnights")},
		}
		cat.artist.Followers.Total = 42

		got, err := NewToolbox(cat).Call(context.Background(), GetArtistInfo, map[string]any{"artist_id": "abc"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := &ArtistInfo{Name: "Taylor Swift", Genres: []string{"pop"}, Popularity: 100, FollowerCount: 42, TopTracks: []string{"Cruel Summer", "Anti-Hero"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("artist mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ArtistInfo Empty Lists", func(t *testing.T) {
		cat := &fakeCatalog{artist: &services.SpotifyArtist{Name: "Unknown"}}

		got, err := NewToolbox(cat).ArtistInfo(context.Background(), "abc")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		res, err := TextResult(got)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &decoded); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if decoded["genres"] == nil || decoded["top_tracks"] == nil {
			t.Errorf("expected empty arrays rather than null, got %v", decoded)
		}
	})

	t.Run("ArtistInfo All Or Nothing", func(t *testing.T) {
		upstream := &services.APIError{StatusCode: 404, Status: "Not Found"}

		tc := []struct {
			name      string
			artistErr error
			topErr    error
		}{
			{name: "artist fails", artistErr: upstream},
			{name: "top tracks fail", topErr: upstream},
			{name: "both fail", artistErr: upstream, topErr: upstream},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				cat := &fakeCatalog{
					artist:    &services.SpotifyArtist{Name: "partial"},
					top:       []services.SpotifyTrack{track("partial", "x")},
					artistErr: tt.artistErr,
					topErr:    tt.topErr,
				}

				got, err := NewToolbox(cat).ArtistInfo(context.Background(), "abc")
				if !errors.Is(err, shared.ErrAPIRequest) {
					t.Fatalf("expected upstream error, got %v", err)
				}
				if got != nil {
					t.Errorf("expected no partial result, got %+v", got)
				}
			})
		}
	})

	t.Run("TrackFeatures", func(t *testing.T) {
		cat := &fakeCatalog{features: &services.SpotifyAudioFeatures{
			Danceability: 0.8, Energy: 0.6, Valence: 0.5, Tempo: 120, Loudness: -5,
			Acousticness: 0.1, Key: 7,
		}}

		got, err := NewToolbox(cat).Call(context.Background(), GetTrackFeatures, map[string]any{"track_id": "X"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		res, err := TextResult(got)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &decoded); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		want := map[string]any{"danceability": 0.8, "energy": 0.6, "valence": 0.5, "tempo": float64(120), "loudness": float64(-5)}
		if diff := cmp.Diff(want, decoded); diff != "" {
			t.Errorf("features mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTextResult(t *testing.T) {
	res, err := TextResult(map[string]string{"url": "https://x?a=1&b=2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if res.IsError {
		t.Error("expected success result")
	}

	want := "{\n  \"url\": \"https://x?a=1&b=2\"\n}"
	if got := res.Content[0].(mcp.TextContent).Text; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if _, err := TextResult(func() {}); err == nil {
		t.Error("expected marshal error")
	}
}

func TestErrors(t *testing.T) {
	tc := []struct {
		err  error
		want ErrorKind
	}{
		{err: fmt.Errorf("%w: x", shared.ErrMissingCredentials), want: KindConfig},
		{err: &services.AuthError{StatusCode: 401, Status: "Unauthorized"}, want: KindAuth},
		{err: &services.APIError{StatusCode: 500, Status: "Internal Server Error"}, want: KindUpstream},
		{err: fmt.Errorf("%w: play", shared.ErrUnknownTool), want: KindUnknownTool},
		{err: fmt.Errorf("%w: query", shared.ErrMissingArgument), want: KindInvalidArgument},
		{err: errors.New("connection reset"), want: KindInternal},
	}

	for _, tt := range tc {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("ErrorResult", func(t *testing.T) {
		res := ErrorResult(fmt.Errorf("%w: play_song", shared.ErrUnknownTool))
		if !res.IsError {
			t.Error("expected isError to be set")
		}

		text := res.Content[0].(mcp.TextContent).Text
		if text != "Error: Unknown tool: play_song" {
			t.Errorf("unexpected text %q", text)
		}
	})
}
