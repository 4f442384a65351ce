package tools

import (
	"errors"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorKind classifies failures that end a tool call.
type ErrorKind int

const (
	KindInternal        ErrorKind = iota // anything unclassified, e.g. transport or decode failures
	KindConfig                           // credentials missing or invalid configuration
	KindAuth                             // accounts service rejected the exchange
	KindUpstream                         // Web API answered with a non-2xx status
	KindUnknownTool                      // tool name outside the catalog
	KindInvalidArgument                  // missing or malformed tool arguments
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	case KindUnknownTool:
		return "unknown_tool"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Classify maps err onto an [ErrorKind] by the sentinel it wraps.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrInvalidConfig):
		return KindConfig
	case errors.Is(err, shared.ErrAuthFailed):
		return KindAuth
	case errors.Is(err, shared.ErrAPIRequest):
		return KindUpstream
	case errors.Is(err, shared.ErrUnknownTool):
		return KindUnknownTool
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindInternal
	}
}

// Render produces the human-readable text placed in an error result.
func Render(err error) string {
	return "Error: " + err.Error()
}

// ErrorResult converts err into a tool result with isError set.
func ErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(Render(err))
}
