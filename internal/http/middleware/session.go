package middleware

import (
	"context"

	"mywallet/internal/http/httputil"
	"mywallet/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey       = "user_id"
	SessionTokenKey = "session_token"
)

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (int64, error)
}

// Session guards a route with a bearer session token. On success the user
// id is available under UserIDKey.
func Session(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		userID, err := auth.Authenticate(c.Request.Context(), header)
		if err != nil {
			httputil.WriteError(c, err)
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(SessionTokenKey, service.BearerToken(header))
		c.Next()
	}
}
