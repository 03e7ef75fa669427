// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes identifier and clock sources, type-safe context keys, payload
// signing, HTTP response writing, and JWT token generation and validation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ClientCtxKey is the key under which the authenticated client label is
// stored in the request context.
//
//	ctx := context.WithValue(ctx, utils.ClientCtxKey, "dev-1")
var ClientCtxKey = contextKey("client")

// GetClientFromContext retrieves the authenticated client label.
// ok is false when the value is missing or is not a string.
func GetClientFromContext(ctx context.Context) (string, bool) {
	client, ok := ctx.Value(ClientCtxKey).(string)
	return client, ok
}
