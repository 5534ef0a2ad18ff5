// Package api is the listbackup backend client.
//
// # Clients
//
// [New] builds two [Client] values sharing one [storage.Session]:
//   - the resource client attaches the stored access token and, on a 401, refreshes the session once
//     through POST /auth/refresh and replays the request
//   - the auth client, used by [AuthAPI], attaches the token the same way but never refreshes
//
// Every request carries Content-Type, Accept, X-Platform, X-App-Version and X-Request-ID headers.
//
// When a refresh cannot recover the session (no refresh token, failed exchange, unsuccessful response)
// every session key is cleared, [Navigator.RedirectToLogin] is called and the original 401 is returned.
// Concurrent refreshes share a single exchange.
//
// # Resource wrappers
//
// [API] exposes one wrapper per backend resource: Auth, Account, Sources, Jobs, Clients, Teams,
// Domains, Branding and System. Each method maps to a single endpoint and returns decoded models.
// Responses wrapped in the {"success": ..., "data": ...} envelope are unwrapped automatically.
//
// # Errors
//
// Non-2xx responses are returned as [*Error], which matches [shared.ErrAPIRequest] and a status
// specific sentinel ([shared.ErrNotAuthenticated], [shared.ErrForbidden], [shared.ErrNotFound], ...).
package api
