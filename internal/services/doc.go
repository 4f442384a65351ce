// Package services talks to the Spotify Web API on behalf of the tools.
//
// # Credentials
//
// [CredentialManager] implements the OAuth2 client-credentials grant with
// [clientcredentials.Config]. It caches exactly one [Token] and hands it out
// until one minute before the server-reported expiry ([RefreshMargin]), then
// performs a fresh exchange. Concurrent refreshes collapse into a single
// request through [singleflight.Group]. A failed exchange is never cached and
// never retried; the next caller starts over.
//
// # Catalog
//
// [SpotifyService] implements [Catalog]: track search, artist metadata,
// artist top tracks and audio features. Every request pulls a token from a
// [TokenProvider], so the service never sees credentials directly.
//
// An optional [rate.Limiter] caps individual HTTP requests. It is separate
// from the per-tool-call gate in the server package, which spaces whole tool
// invocations apart.
//
// # Error Handling
//
// Typed errors wrap sentinels from the shared package:
//   - [AuthError] : accounts service rejected the exchange, wraps [shared.ErrAuthFailed]
//   - [APIError] : non-2xx from the Web API, wraps [shared.ErrAPIRequest]
//   - [shared.ErrMissingCredentials] : client id or secret not configured
package services
