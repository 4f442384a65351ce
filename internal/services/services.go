// package services defines interfaces for talking to the Spotify Web API
package services

import (
	"context"
)

// TokenProvider hands out a bearer token that is valid at the time of the call.
type TokenProvider interface {
	Token(ctx context.Context) (Token, error)
}

// Catalog is the read-only slice of the Spotify Web API that the tools are built on.
type Catalog interface {
	// SearchTracks searches the track catalog, returning at most limit items.
	SearchTracks(ctx context.Context, query string, limit int) ([]SpotifyTrack, error)

	// Artist retrieves artist metadata by ID.
	Artist(ctx context.Context, artistID string) (*SpotifyArtist, error)

	// ArtistTopTracks retrieves an artist's top tracks in the configured market.
	ArtistTopTracks(ctx context.Context, artistID string) ([]SpotifyTrack, error)

	// AudioFeatures retrieves the audio analysis summary for a track.
	AudioFeatures(ctx context.Context, trackID string) (*SpotifyAudioFeatures, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
