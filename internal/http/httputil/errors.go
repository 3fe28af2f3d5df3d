package httputil

import (
	"errors"
	"net/http"

	"mywallet/internal/domain"
	"mywallet/internal/logger"
	"mywallet/internal/service"

	"github.com/gin-gonic/gin"
)

// Client-facing messages. The Portuguese wording is part of the API.
const (
	MsgInvalidInput       = "dados inválidos"
	MsgEmailTaken         = "email já cadastrado"
	MsgMissingToken       = "token ausente"
	MsgUserNotFound       = "Usuário não encontrado"
	MsgInvalidCredentials = "Usuário não encontrado (email ou senha incorretos)."
	MsgInternal           = "erro interno"
)

// ErrInvalidInput marks a request body that failed binding or validation.
var ErrInvalidInput = errors.New("invalid input")

type ErrorResponse struct {
	Error string `json:"error"`
}

// Status maps an error to the HTTP status and message sent to the client.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTransaction),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, MsgInvalidInput
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, MsgEmailTaken
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, MsgMissingToken
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusNotFound, MsgInvalidCredentials
	case errors.Is(err, service.ErrUnknownSession),
		errors.Is(err, domain.ErrUnknownUser):
		return http.StatusNotFound, MsgUserNotFound
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// WriteError aborts the request with the mapped status and a JSON body.
// Unexpected errors are logged with their cause; the client only sees
// the generic message.
func WriteError(c *gin.Context, err error) {
	code, msg := Status(err)
	if code == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Error: msg})
}
