package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/mark3labs/mcp-go/mcp"
)

// MaxLineSize bounds a single request line.
const MaxLineSize = 4 << 20

// Handler answers JSON-RPC requests. [Dispatcher] is the production implementation.
type Handler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// request is the incoming envelope. ID stays raw so a missing id can be told apart from null.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Server speaks line-delimited JSON-RPC 2.0 over a byte stream.
type Server struct {
	handler Handler
	logger  *log.Logger
}

// NewServer creates a [Server] for handler.
func NewServer(handler Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Server{handler: handler, logger: logger}
}

type line struct {
	data []byte
	err  error
}

// Serve reads one request per line from r and writes one response per line to w.
//
// Requests are handled strictly in order. Serve returns nil at end of input and
// ctx.Err() once ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			data, err := readLine(br)
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case lines <- line{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil && !errors.Is(err, shared.ErrLineTooLong) {
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				s.logger.Debug("input closed")
				return nil
			}
			var resp any
			switch {
			case errors.Is(l.err, shared.ErrLineTooLong):
				s.logger.Warn("oversized request skipped", "limit", MaxLineSize)
				resp = errorResponse(mcp.NewRequestId(nil), l.err)
			case l.err != nil:
				return fmt.Errorf("failed to read request: %w", l.err)
			default:
				if resp, ok = s.handleLine(ctx, l.data); !ok {
					continue
				}
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

// handleLine returns the response for one line, or false when none is due.
func (s *Server) handleLine(ctx context.Context, data []byte) (any, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("malformed request", "err", err)
		return errorResponse(mcp.NewRequestId(nil), err), true
	}

	id, hasID := requestID(req.ID)
	if !hasID && strings.HasPrefix(req.Method, "notifications/") {
		s.logger.Debug("notification ignored", "method", req.Method)
		return nil, false
	}

	if req.Method == "" {
		return errorResponse(id, fmt.Errorf("%w: missing method", shared.ErrInvalidRequest)), true
	}

	result, err := s.handler.Handle(ctx, req.Method, req.Params)
	if err != nil {
		return errorResponse(id, err), true
	}
	return mcp.NewJSONRPCResultResponse(id, result), true
}

// readLine returns the next line from br without its line ending. A line longer
// than [MaxLineSize] is consumed through its newline and reported as
// [shared.ErrLineTooLong] so the caller can carry on with the next one.
func readLine(br *bufio.Reader) ([]byte, error) {
	var buf []byte
	over := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !over {
			buf = append(buf, chunk...)
			if len(bytes.TrimRight(buf, "\r\n")) > MaxLineSize {
				over, buf = true, nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && (over || len(buf) > 0):
		case err != nil:
			return nil, err
		}

		if over {
			return nil, fmt.Errorf("%w: limit is %d bytes", shared.ErrLineTooLong, MaxLineSize)
		}
		return bytes.TrimRight(buf, "\r\n"), nil
	}
}

// requestID decodes the raw id member. A missing member reports false and a null id; an id
// that is neither string nor number becomes null.
func requestID(raw json.RawMessage) (mcp.RequestId, bool) {
	if len(raw) == 0 {
		return mcp.NewRequestId(nil), false
	}

	var id mcp.RequestId
	if err := json.Unmarshal(raw, &id); err != nil {
		return mcp.NewRequestId(nil), true
	}
	return id, true
}

func errorResponse(id mcp.RequestId, err error) mcp.JSONRPCError {
	return mcp.NewJSONRPCError(id, mcp.INTERNAL_ERROR, err.Error(), nil)
}
