// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the transport layer. Callers can match against them
// with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request carries neither an "Authorization" header nor a session cookie.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidSession is returned when the token does not resolve to a live
	// session of an active user.
	ErrInvalidSession = errors.New("session is invalid or expired")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidID is returned when a path id is not a positive integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidQuery is returned when a query parameter cannot be parsed.
	ErrInvalidQuery = errors.New("invalid query parameter")
)
