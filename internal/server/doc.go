// Package server provides the loopback HTTP endpoint for the Google OAuth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] follows the standard wrapping pattern; the [ChiRouter]
// implementation delegates dispatch and middleware ordering to chi.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs 'ytlist auth login', a temporary HTTP server starts on
// the configured localhost port, Google redirects the browser to /callback
// after consent, and the server shuts down as soon as a result is available.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds routes, allowing handlers to encapsulate their
// route definitions.
package server
