// Package server provides the local HTTP listener that completes browser login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [ChiRouter] implements it on
// top of chi, with request IDs, panic recovery and request logging installed by default.
//
// # Login Callback
//
// The stats backend performs the Spotify OAuth exchange itself and then redirects the browser to
// http://localhost:3000/callback?token=... (or ?error=... when the user denies access).
//
// [CallbackHandler] serves that route. It only processes one callback and sends the outcome
// through a channel. [Server] owns the listener and [Server.Await] blocks until the callback
// arrives, the context is cancelled, or the login window closes.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
