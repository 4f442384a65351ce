package server

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// HandlerFunc answers one JSON-RPC method call. The returned value becomes the response result.
type HandlerFunc func(ctx context.Context, method string, params json.RawMessage) (any, error)

// Middleware wraps a [HandlerFunc] and returns a new HandlerFunc with additional behavior.
type Middleware func(HandlerFunc) HandlerFunc

// Router maps JSON-RPC method names to handlers.
type Router struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware
}

// NewRouter creates a new, empty [Router].
func NewRouter() *Router {
	return &Router{
		routes:      map[string]HandlerFunc{},
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the router's stack, applied in the order it's added.
//
// Middleware only wraps handlers registered after the call.
func (r *Router) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method, wrapped with all registered middleware.
func (r *Router) Handle(method string, handler HandlerFunc) {
	r.routes[method] = r.Apply(handler)
}

// Methods returns the registered method names in sorted order.
func (r *Router) Methods() []string {
	return slices.Sorted(maps.Keys(r.routes))
}

// Dispatch calls the handler registered for method.
//
// Unregistered methods fail with [shared.ErrUnknownMethod].
func (r *Router) Dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	handler, ok := r.routes[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownMethod, method)
	}
	return handler(ctx, method, params)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *Router) Apply(handler HandlerFunc) HandlerFunc {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
