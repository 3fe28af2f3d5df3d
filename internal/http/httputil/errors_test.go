package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mywallet/internal/domain"
	"mywallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid input", ErrInvalidInput, http.StatusBadRequest, MsgInvalidInput},
		{"invalid transaction", domain.ErrInvalidTransaction, http.StatusBadRequest, MsgInvalidInput},
		{"password too long", service.ErrPasswordTooLong, http.StatusBadRequest, MsgInvalidInput},
		{"invalid email", service.ErrInvalidEmail, http.StatusBadRequest, MsgInvalidInput},
		{"email taken", service.ErrEmailTaken, http.StatusConflict, MsgEmailTaken},
		{"no token", service.ErrUnauthenticated, http.StatusUnauthorized, MsgMissingToken},
		{"unknown session", service.ErrUnknownSession, http.StatusNotFound, MsgUserNotFound},
		{"unknown user", fmt.Errorf("append transaction: %w", domain.ErrUnknownUser), http.StatusNotFound, MsgUserNotFound},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusNotFound, MsgInvalidCredentials},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := Status(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestWriteErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		WriteError(c, errors.New("pq: password authentication failed"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgInternal, body.Error)
}
