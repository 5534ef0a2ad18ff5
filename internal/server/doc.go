// Package server provides the local HTTP listener used when connecting OAuth-based backup sources.
//
// # Routing
//
// [Mux] mounts [Routed] handlers on an [http.ServeMux] behind a [Middleware] chain built with [Chain].
// [Logging], [Recover] and [NoCache] make up the callback listener's chain.
//
// # OAuth Callback
//
// [CallbackHandler] receives the provider redirect, checks the state returned by the backend alongside the
// authorization URL, and forwards the code through a channel. It never exchanges the code: the backend
// owns the provider credentials, so the code and state are posted to it as-is. Only the first callback is
// processed.
//
// [CallbackServer] binds the listener up front so its redirect URI can be sent to
// GET /sources/oauth/{platform}/url, then serves until the redirect arrives or the wait times out.
// [ConnectSource] runs the whole flow.
package server
