// Raw Web API access for debugging
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs an authenticated GET to path (relative to the API base URL) and returns the raw response.
//
// Unlike the typed [Catalog] methods, non-2xx responses are returned rather than converted to an [APIError].
func (s *SpotifyService) Get(ctx context.Context, path string) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := s.newRequest(ctx, path)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
