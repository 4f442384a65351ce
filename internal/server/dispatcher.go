package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Defaults advertised in the initialize result.
const (
	DefaultName            = "spotify-mcp-server"
	DefaultVersion         = "1.0.0"
	DefaultProtocolVersion = "2024-11-05"
)

// Info identifies the server in the initialize handshake.
type Info struct {
	Name            string
	Version         string
	ProtocolVersion string
}

// DispatcherOpts configures a [Dispatcher].
type DispatcherOpts struct {
	Info    Info
	Toolbox *tools.Toolbox
	Gate    *Gate
	Logger  *log.Logger
}

// Dispatcher routes JSON-RPC methods to the initialize handshake, the tool
// catalog and tool execution. It is safe for concurrent use.
type Dispatcher struct {
	info    Info
	toolbox *tools.Toolbox
	gate    *Gate
	router  *Router
	logger  *log.Logger
}

// NewDispatcher creates a [Dispatcher] and registers its methods.
func NewDispatcher(opts DispatcherOpts) (*Dispatcher, error) {
	if opts.Toolbox == nil {
		return nil, fmt.Errorf("%w: dispatcher needs a toolbox", shared.ErrInvalidConfig)
	}

	info := opts.Info
	if info.Name == "" {
		info.Name = DefaultName
	}
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	if info.ProtocolVersion == "" {
		info.ProtocolVersion = DefaultProtocolVersion
	}

	gate := opts.Gate
	if gate == nil {
		gate = NewGate(DefaultMinInterval)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	d := &Dispatcher{
		info:    info,
		toolbox: opts.Toolbox,
		gate:    gate,
		router:  NewRouter(),
		logger:  logger,
	}

	d.router.Use(Logging(logger))
	d.router.Handle(string(mcp.MethodInitialize), d.initialize)
	d.router.Handle(string(mcp.MethodToolsList), d.listTools)
	d.router.Handle(string(mcp.MethodToolsCall), d.callTool)
	return d, nil
}

// Handle answers one JSON-RPC request.
//
// Errors returned here are protocol errors. Tool failures are reported inside a
// successful [mcp.CallToolResult] instead.
func (d *Dispatcher) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	return d.router.Dispatch(ctx, method, params)
}

// CallTool runs one tool through the rate gate and always produces a result.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	logger := shared.WithLogger(d.logger, "call_id", shared.GenerateID(), "tool", name)

	if !tools.Known(name) {
		err := fmt.Errorf("%w: %s", shared.ErrUnknownTool, name)
		logger.Warn("rejected tool call", "kind", tools.Classify(err))
		return tools.ErrorResult(err)
	}

	if waited := d.gate.Wait(); waited > 0 {
		logger.Debug("rate gate delayed call", "waited", waited)
	}

	start := time.Now()
	value, err := d.toolbox.Call(ctx, name, args)
	if err == nil {
		var res *mcp.CallToolResult
		if res, err = tools.TextResult(value); err == nil {
			logger.Debug("tool call finished", "duration", time.Since(start))
			return res
		}
	}

	logger.Error("tool call failed", "kind", tools.Classify(err), "duration", time.Since(start), "err", err)
	return tools.ErrorResult(err)
}

func (d *Dispatcher) initialize(context.Context, string, json.RawMessage) (any, error) {
	return mcp.InitializeResult{
		ProtocolVersion: d.info.ProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
		},
		ServerInfo: mcp.Implementation{
			Name:    d.info.Name,
			Version: d.info.Version,
		},
	}, nil
}

func (d *Dispatcher) listTools(context.Context, string, json.RawMessage) (any, error) {
	return mcp.ListToolsResult{Tools: tools.Definitions()}, nil
}

func (d *Dispatcher) callTool(ctx context.Context, _ string, params json.RawMessage) (any, error) {
	var p mcp.CallToolParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("%w: tools/call params: %v", shared.ErrInvalidRequest, err)
		}
	}

	var args map[string]any
	switch a := p.Arguments.(type) {
	case nil:
	case map[string]any:
		args = a
	default:
		return tools.ErrorResult(fmt.Errorf("%w: arguments must be an object", shared.ErrInvalidArgument)), nil
	}

	return d.CallTool(ctx, p.Name, args), nil
}

// Logging logs each method call with its duration and outcome.
func Logging(logger *log.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, method string, params json.RawMessage) (any, error) {
			start := time.Now()
			result, err := next(ctx, method, params)
			if err != nil {
				logger.Warn("request failed", "method", method, "duration", time.Since(start), "err", err)
				return result, err
			}
			logger.Debug("request handled", "method", method, "duration", time.Since(start))
			return result, nil
		}
	}
}
