// Client-credentials token lifecycle for the Spotify accounts service.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// RefreshMargin is subtracted from the server-reported lifetime so a token is
	// replaced one minute before Spotify would reject it.
	RefreshMargin = time.Minute
)

// Token is a bearer token and the instant after which it must no longer be handed out.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token may still be used at now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// AuthError is returned when the accounts service rejects the credential exchange.
type AuthError struct {
	StatusCode int
	Status     string // reason phrase, e.g. "Unauthorized"
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%v: %d %s", shared.ErrAuthFailed, e.StatusCode, e.Status)
}

func (e *AuthError) Unwrap() error {
	return shared.ErrAuthFailed
}

// CredentialOpts configures a [CredentialManager].
type CredentialOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string           // defaults to the Spotify accounts endpoint
	HTTPClient   *http.Client     // defaults to [http.DefaultClient]
	Now          func() time.Time // defaults to [time.Now]
	Logger       *log.Logger
}

// CredentialManager owns the client-credentials flow and the single cached [Token].
//
// It is safe for concurrent use. The cached token is replaced as a whole under mu,
// and concurrent refreshes are collapsed into one exchange.
type CredentialManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
	logger     *log.Logger

	mu    sync.Mutex
	token *Token

	refresh singleflight.Group
}

// NewCredentialManager creates a manager for the given credentials.
//
// Missing credentials are not rejected here; they surface on the first call to [CredentialManager.Token].
func NewCredentialManager(opts CredentialOpts) *CredentialManager {
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &CredentialManager{
		config: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: opts.HTTPClient,
		now:        opts.Now,
		logger:     shared.WithLogger(opts.Logger, "component", "credentials"),
	}
}

// Token returns the cached token while it is valid, otherwise performs a
// client-credentials exchange and caches the result.
//
// Failures are never cached and never retried.
func (m *CredentialManager) Token(ctx context.Context) (Token, error) {
	if t, ok := m.cached(); ok {
		return t, nil
	}

	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return Token{}, fmt.Errorf("%w: %s and %s must be set",
			shared.ErrMissingCredentials, shared.EnvClientID, shared.EnvClientSecret)
	}

	v, err, joined := m.refresh.Do("token", func() (any, error) {
		if t, ok := m.cached(); ok {
			return t, nil
		}
		return m.exchange(ctx)
	})
	if err != nil {
		return Token{}, fmt.Errorf("Failed to get Spotify access token: %w", err)
	}
	if joined {
		m.logger.Debug("joined in-flight token refresh")
	}

	return v.(Token), nil
}

// Invalidate drops the cached token so the next [CredentialManager.Token] call performs an exchange.
func (m *CredentialManager) Invalidate() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

func (m *CredentialManager) cached() (Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil || !m.token.Valid(m.now()) {
		return Token{}, false
	}
	return *m.token, true
}

func (m *CredentialManager) exchange(ctx context.Context) (Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	m.logger.Debug("requesting access token", "url", m.config.TokenURL)

	tok, err := m.config.Token(ctx)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			return Token{}, &AuthError{
				StatusCode: rErr.Response.StatusCode,
				Status:     reasonPhrase(rErr.Response),
			}
		}
		return Token{}, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	now := m.now()
	t := Token{
		Value:     tok.AccessToken,
		ExpiresAt: now.Add(expiresIn(tok, now) - RefreshMargin),
	}

	m.mu.Lock()
	m.token = &t
	m.mu.Unlock()

	m.logger.Info("access token refreshed", "expires_at", t.ExpiresAt.Format(time.RFC3339))
	return t, nil
}

// expiresIn reads the wire "expires_in" seconds, falling back to the parsed expiry.
func expiresIn(tok *oauth2.Token, now time.Time) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int64:
		return time.Duration(v) * time.Second
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}

	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(now)
	}
	return 0
}

func reasonPhrase(resp *http.Response) string {
	if reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); reason != "" && reason != resp.Status {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
