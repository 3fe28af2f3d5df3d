package handlers

import (
	"errors"
	"net/http"

	"mywallet/internal/http/httputil"

	"github.com/gin-gonic/gin"
)

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email,mailbox"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email,mailbox"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// SignUp registers a new account.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, errors.Join(httputil.ErrInvalidInput, err))
		return
	}

	if _, err := h.Auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		httputil.WriteError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// SignIn opens a session and returns its token.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, errors.Join(httputil.ErrInvalidInput, err))
		return
	}

	res, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, SignInResponse{Name: res.Name, Token: res.Token})
}

// EndSessions signs the user out of every session, not only the one
// presented.
func (h *Handler) EndSessions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		httputil.WriteError(c, errors.New("user id missing from context"))
		return
	}

	if _, err := h.Auth.SignOut(c.Request.Context(), userID); err != nil {
		httputil.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
