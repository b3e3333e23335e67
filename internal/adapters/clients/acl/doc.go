// Package acl holds the anti-corruption layer for downstream services.
//
// Adapters here implement ports interfaces on top of clients.Client. They
// own the downstream wire formats and translate every failure into a domain
// error, so nothing outside this package sees an HTTP status or a foreign
// DTO:
//
//	404          -> domain.ErrNotFound
//	409          -> domain.ErrConflict
//	400, 422     -> domain.ErrValidation (one violation per field detail)
//	401, 403     -> domain.ErrUnavailable
//	429, 5xx     -> domain.ErrUnavailable
//	breaker open -> domain.ErrUnavailable
//
// Context cancellation is passed through untouched.
package acl
