// Package tools defines the three read-only catalog tools and turns their
// outcomes into MCP tool results.
//
// [Definitions] is the static catalog returned by tools/list. [Toolbox.Call]
// validates arguments, calls [services.Catalog] and shapes the raw Spotify
// objects into the small structs the agent sees ([TrackSummary], [ArtistInfo],
// [TrackFeatures]). [TextResult] renders a shaped value as indented JSON text.
//
// Failures are classified with [Classify] into an [ErrorKind] and rendered by
// [Render] as "Error: <message>"; [ErrorResult] wraps that text in a result
// with isError set, so no tool failure escapes as a protocol error.
package tools
