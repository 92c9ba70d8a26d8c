package adapter

import "errors"

// Errors returned by [ServerAdapter] methods for non-2xx responses. The
// server's message is appended after the sentinel.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrNotLoggedIn is returned before any request is sent when a method
	// needs a session and no token is set.
	ErrNotLoggedIn = errors.New("not logged in")
)
