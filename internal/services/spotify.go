// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"
	defaultMarket  = "US"

	// MaxSearchLimit is the largest page Spotify serves for a search.
	MaxSearchLimit = 50
)

type followers struct {
	Total int `json:"total"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	PreviewURL   *string         `json:"preview_url"` // null for most tracks
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
//
// Simplified artist objects nested in tracks only carry ID, Name and URI.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Popularity   int            `json:"popularity"`
	Followers    followers      `json:"followers"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
	URI          string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyAudioFeatures represents the audio-features object for a track.
type SpotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Loudness         float64 `json:"loudness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
}

// SpotifySearchResponse is the envelope returned by the search endpoint for type=track.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
		Limit int            `json:"limit"`
	} `json:"tracks"`
}

type topTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

// APIError is returned for any non-2xx response from the Web API.
type APIError struct {
	StatusCode int
	Status     string // reason phrase, e.g. "Not Found"
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %d %s", shared.ErrAPIRequest, e.StatusCode, e.Status)
}

func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	BaseURL    string
	Market     string
	Tokens     TokenProvider
	HTTPClient *http.Client

	// RequestsPerSecond caps individual HTTP requests. Zero disables the limiter.
	RequestsPerSecond float64
	Burst             int

	Logger *log.Logger
}

// SpotifyService implements [Catalog] against the Spotify Web API using bearer tokens from a [TokenProvider].
type SpotifyService struct {
	baseURL    string
	market     string
	tokens     TokenProvider
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: token provider is required", shared.ErrInvalidConfig)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Market == "" {
		opts.Market = defaultMarket
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		if opts.Burst <= 0 {
			opts.Burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	}

	return &SpotifyService{
		baseURL:    opts.BaseURL,
		market:     opts.Market,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     shared.WithLogger(opts.Logger, "component", "spotify"),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Market returns the market used for top-track lookups.
func (s *SpotifyService) Market() string {
	return s.market
}

// newRequest builds an authenticated GET for endpoint, which is relative to the API base URL.
func (s *SpotifyService) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req once the client-side limiter allows it.
func (s *SpotifyService) do(req *http.Request) (*http.Response, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	s.logger.Debug("request", "method", req.Method, "path", req.URL.Path)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// doRequest performs an authenticated GET to the Spotify API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := s.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Status: reasonPhrase(resp)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTracks searches for tracks matching query. limit is clamped to [1, [MaxSearchLimit]].
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]SpotifyTrack, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	return response.Tracks.Items, nil
}

// Artist retrieves an artist by ID.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	endpoint := fmt.Sprintf("/artists/%s", url.PathEscape(artistID))
	if err := s.doRequest(ctx, endpoint, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistTopTracks retrieves an artist's top tracks for the service market.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID string) ([]SpotifyTrack, error) {
	params := url.Values{}
	params.Set("market", s.market)

	var response topTracksResponse
	endpoint := fmt.Sprintf("/artists/%s/top-tracks?%s", url.PathEscape(artistID), params.Encode())
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// AudioFeatures retrieves audio features for a single track.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackID string) (*SpotifyAudioFeatures, error) {
	var features SpotifyAudioFeatures
	endpoint := fmt.Sprintf("/audio-features/%s", url.PathEscape(trackID))
	if err := s.doRequest(ctx, endpoint, &features); err != nil {
		return nil, err
	}
	return &features, nil
}
