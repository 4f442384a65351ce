package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

func writeJSON(w io.Writer, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func stubTrack(n int, name string, artists ...string) map[string]any {
	as := make([]map[string]any, 0, len(artists))
	for i, a := range artists {
		as = append(as, map[string]any{"id": "artist" + strconv.Itoa(i), "name": a})
	}

	var preview any
	if n%2 == 1 {
		preview = "https://p.scdn.co/mp3-preview/" + strconv.Itoa(n)
	}

	return map[string]any{
		"id":            "track" + strconv.Itoa(n),
		"name":          name,
		"artists":       as,
		"album":         map[string]any{"id": "album" + strconv.Itoa(n), "name": "1989"},
		"popularity":    80 - n,
		"duration_ms":   219200,
		"explicit":      false,
		"preview_url":   preview,
		"external_urls": map[string]any{"spotify": "https://open.spotify.com/track/track" + strconv.Itoa(n)},
		"uri":           "spotify:track:track" + strconv.Itoa(n),
	}
}

// searchFixture honours the limit query parameter up to three items.
func searchFixture(r *http.Request) any {
	items := []any{
		stubTrack(1, "Shake It Off", "Taylor Swift"),
		stubTrack(2, "Shake It Off (Taylor's Version)", "Taylor Swift"),
		stubTrack(3, "Shake It Off - Remix", "Taylor Swift", "Kendrick Lamar"),
	}

	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit < len(items) && limit >= 0 {
		items = items[:limit]
	}

	return map[string]any{
		"tracks": map[string]any{
			"href":  "https://api.spotify.com/v1/search",
			"items": items,
			"limit": len(items),
			"total": 1000,
		},
	}
}

func artistFixture(r *http.Request) any {
	return map[string]any{
		"id":         r.PathValue("id"),
		"name":       "Taylor Swift",
		"genres":     []string{"pop", "country"},
		"popularity": 100,
		"followers":  map[string]any{"href": nil, "total": 94000000},
		"images":     []any{},
		"uri":        "spotify:artist:" + r.PathValue("id"),
	}
}

func topTracksFixture(r *http.Request) any {
	return map[string]any{
		"tracks": []any{
			stubTrack(1, "Cruel Summer", "Taylor Swift"),
			stubTrack(2, "Anti-Hero", "Taylor Swift"),
		},
	}
}

func featuresFixture(r *http.Request) any {
	return map[string]any{
		"id":               r.PathValue("id"),
		"danceability":     0.8,
		"energy":           0.6,
		"valence":          0.5,
		"tempo":            120,
		"loudness":         -5,
		"acousticness":     0.1,
		"instrumentalness": 0,
		"key":              7,
		"mode":             1,
	}
}
