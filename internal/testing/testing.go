// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// StubRequest records one request received by [SpotifyStub].
type StubRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	At            time.Time
}

// SpotifyStub is an httptest server speaking just enough of the accounts and Web API
// for the catalog tools. Token requests are served at /api/token, API requests under /v1.
type SpotifyStub struct {
	*httptest.Server

	mu          sync.Mutex
	tokenCalls  int
	tokenStatus int
	expiresIn   int
	accessToken string
	failures    map[string]int
	requests    []StubRequest
}

// Fixture IDs served by [SpotifyStub].
const (
	StubArtistID = "06HL4z0CvFAxyc27GXpf02"
	StubTrackID  = "0cqRj7pUJDkTCEsJkx8snD"
)

// NewSpotifyStub starts a stub server that is closed when the test finishes.
func NewSpotifyStub(t *testing.T) *SpotifyStub {
	t.Helper()

	s := &SpotifyStub{
		expiresIn:   3600,
		accessToken: "stub-access-token",
		failures:    map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", s.handleToken)
	mux.HandleFunc("GET /v1/search", s.api(searchFixture))
	mux.HandleFunc("GET /v1/artists/{id}", s.api(artistFixture))
	mux.HandleFunc("GET /v1/artists/{id}/top-tracks", s.api(topTracksFixture))
	mux.HandleFunc("GET /v1/audio-features/{id}", s.api(featuresFixture))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// TokenURL returns the stub token endpoint.
func (s *SpotifyStub) TokenURL() string { return s.URL + "/api/token" }

// BaseURL returns the stub Web API base URL.
func (s *SpotifyStub) BaseURL() string { return s.URL + "/v1" }

// AccessToken returns the token value the stub issues.
func (s *SpotifyStub) AccessToken() string { return s.accessToken }

// SetTokenStatus makes the token endpoint answer with status. Zero restores 200.
func (s *SpotifyStub) SetTokenStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenStatus = status
}

// SetExpiresIn changes the expires_in value returned with new tokens.
func (s *SpotifyStub) SetExpiresIn(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresIn = seconds
}

// FailPath makes requests to the exact API path (e.g. "/v1/audio-features/x") answer with status.
func (s *SpotifyStub) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// TokenCalls returns the number of token exchanges served.
func (s *SpotifyStub) TokenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

// Requests returns a copy of the API requests received so far.
func (s *SpotifyStub) Requests() []StubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StubRequest(nil), s.requests...)
}

func (s *SpotifyStub) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tokenCalls++
	status := s.tokenStatus
	expiresIn := s.expiresIn
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, `{"error":"invalid_client","error_description":"Invalid client"}`)
		return
	}

	id, secret, ok := r.BasicAuth()
	if err := r.ParseForm(); err != nil || !ok || id == "" || secret == "" || r.PostForm.Get("grant_type") != "client_credentials" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_request"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"access_token": s.accessToken,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

func (s *SpotifyStub) api(fixture func(r *http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, StubRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			At:            time.Now(),
		})
		status := s.failures[r.URL.Path]
		s.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+s.accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			writeJSON(w, map[string]any{"error": map[string]any{"status": status, "message": http.StatusText(status)}})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, fixture(r))
	}
}
