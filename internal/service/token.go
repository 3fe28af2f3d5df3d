package service

import (
	"strings"

	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

// NewToken returns a random (v4) UUID string.
func NewToken() string {
	return uuid.NewString()
}

// BearerToken extracts the token from an Authorization header value.
// A header without the "Bearer " prefix is taken as the token itself.
// Nothing else is stripped; lookups match the token exactly.
func BearerToken(header string) string {
	return strings.TrimPrefix(header, bearerPrefix)
}
