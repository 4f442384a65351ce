// Package server implements the JSON-RPC side of the catalog server.
//
// # Transport
//
// [Server.Serve] reads one JSON-RPC 2.0 request per line and writes one response
// per line. Requests are handled in order, one at a time. Lines that are not valid
// JSON, and lines longer than [MaxLineSize], produce an error response with a null
// id. Requests without an id under notifications/ produce no response; other
// id-less requests are answered with a null id. Every protocol error uses code -32603.
//
// # Dispatch
//
// [Dispatcher] registers initialize, tools/list and tools/call on a [Router].
// Routers wrap handlers in [Middleware] the same way HTTP middleware wraps
// handlers (last added wraps first); [Logging] is installed by default.
//
// Tool calls that name a known tool pass through a [Gate] before any upstream work.
// The gate serializes callers and keeps consecutive call starts at least
// [DefaultMinInterval] apart. Unknown tools are rejected before the gate.
// Tool failures never become protocol errors: they are rendered as
// "Error: <message>" inside a result with isError set.
package server
