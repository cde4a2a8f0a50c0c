// Package services implements the remote side of ytlist: a typed YouTube
// Data API v3 client plus the cross-cutting machinery every call shares.
//
// # Interfaces
//
// [SearchAPI] and [PlaylistAPI] describe the operations the rest of the
// program needs; [YouTubeClient] implements both. Tasks and commands accept
// the interfaces so tests can substitute mocks.
//
// # Cross-Cutting Behavior
//
// Every outbound call goes through the same three gates, in order:
//
//   - [QuotaBudget.Charge] spends the call's unit cost before any bytes move.
//     A pre-flight failure surfaces the same [shared.ErrQuotaExceeded] the
//     server would eventually return, without burning a request.
//   - [RetryPolicy.Do] wraps the attempt loop. Only transient failures are
//     retried; quota exhaustion and not-found responses fail immediately.
//   - A shared rate limiter enforces a minimum gap before every attempt,
//     including retries, so bursts never reach the API.
//
// # Error Handling
//
// Non-2xx responses map onto the shared taxonomy by status and reason code:
//   - [shared.ErrQuotaExceeded] : 403 quotaExceeded or dailyLimitExceeded
//   - [shared.ErrPlaylistNotFound] : 404 playlistNotFound
//   - [shared.ErrVideoUnavailable] : 404 videoNotFound or playlistItemNotFound
//   - [shared.ErrNotAuthenticated] : 401
//   - [shared.APIError] : everything else, retryable when 5xx
//
// # Raw Explorer
//
// [APIService] issues unmapped GET requests for the api command. It shares
// the client's budget and limiter but skips retries and error mapping so
// the raw status and body reach the user intact.
package services
