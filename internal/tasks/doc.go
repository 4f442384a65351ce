// Package tasks holds the concurrency combinators used by the tool handlers.
//
// # Join
//
// [Both] is an explicit "join two futures" combinator built on [errgroup.Group].
// The artist tool uses it to fetch artist metadata and top tracks at the same
// time. Semantics are concurrent-all-or-fail:
//
//   - both functions start immediately
//   - the first error wins and cancels the sibling's context
//   - no partial result is ever returned
//   - nothing is retried
package tasks
