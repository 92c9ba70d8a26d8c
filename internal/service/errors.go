// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Sentinel errors returned by the services. Callers match them with
// [errors.Is]; the HTTP layer maps each of them to a status code.
var (
	// ErrValidation is returned when input is malformed. It usually wraps a
	// *validators.ValidationError carrying per-field messages.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken, case-insensitively.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when the password is right but the
	// account was deactivated.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrUnauthorized is returned when a request carries no valid session.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a record does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("not found")

	// ErrInternal wraps storage and other unexpected failures. Its details
	// are logged and never returned to the caller.
	ErrInternal = errors.New("internal error")

	// ErrConflict is returned when a write collides with a concurrent one
	// or with a unique record. Retrying the request may succeed.
	ErrConflict = errors.New("request conflicts with the current state")

	// ErrUnknownOwner is returned when the authenticated user no longer
	// exists in storage.
	ErrUnknownOwner = errors.New("user does not exist")

	ErrUnknownClient         = errors.New("client does not exist")
	ErrInvalidShareToken     = errors.New("share link is invalid or expired")
	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
