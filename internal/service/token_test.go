package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"Bearer ":          "",
		"Bearer abc":       "abc",
		"abc":              "abc",
		"Bearer  abc ":     " abc ",
		"bearer abc":       "bearer abc",
		"Bearer Bearer ab": "Bearer ab",
	}

	for header, want := range tests {
		assert.Equal(t, want, BearerToken(header), "header %q", header)
	}
}

func TestNewTokenIsRandomUUID(t *testing.T) {
	a, b := NewToken(), NewToken()
	assert.NotEqual(t, a, b)

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}
