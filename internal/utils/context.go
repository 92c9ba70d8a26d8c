// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, session token
// generation and hashing, HTTP request/response helpers, the resty client
// wrapper and share-link JWT signing and validation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-invoicer/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the user identifier in the context.
// Used together with GetUserIDFromContext for type-safe retrieval
// of the user ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, int64(42))
var UserIDCtxKey = contextKey("userID")

// RoleCtxKey stores the models.Role of the authenticated user.
var RoleCtxKey = contextKey("role")

// SessionTokenCtxKey stores the raw session token of the current request so
// that logout can revoke it.
var SessionTokenCtxKey = contextKey("sessionToken")

// GetUserIDFromContext retrieves the user identifier from the context.
//
// Returns the user ID of type int64 and an ok flag:
//   - ok == true : value is found and has the correct int64 type
//   - ok == false: value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetRoleFromContext retrieves the role of the authenticated user.
func GetRoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(RoleCtxKey).(models.Role)
	return role, ok
}

// GetSessionTokenFromContext retrieves the raw session token.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenCtxKey).(string)
	return token, ok && token != ""
}

// WithAuth returns a copy of ctx carrying the authenticated user's id, role
// and session token.
func WithAuth(ctx context.Context, user models.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, user.ID)
	ctx = context.WithValue(ctx, RoleCtxKey, user.Role)
	return context.WithValue(ctx, SessionTokenCtxKey, token)
}
