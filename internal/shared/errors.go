package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("Spotify auth failed")

	// API and service errors
	ErrAPIRequest  = fmt.Errorf("Spotify API request failed")
	ErrUnknownTool = fmt.Errorf("Unknown tool")

	// Protocol errors
	ErrUnknownMethod  = fmt.Errorf("Unknown method")
	ErrInvalidRequest = fmt.Errorf("invalid request")
	ErrLineTooLong    = fmt.Errorf("request line too long")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
