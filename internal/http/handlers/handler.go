package handlers

import (
	"sync"

	"mywallet/internal/domain"
	"mywallet/internal/http/middleware"
	"mywallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Auth   *service.AuthService
	Ledger *service.LedgerService
}

func NewHandler(auth *service.AuthService, ledger *service.LedgerService) *Handler {
	registerValidators()
	return &Handler{
		Auth:   auth,
		Ledger: ledger,
	}
}

var validatorsOnce sync.Once

// registerValidators adjusts gin's shared binding engine: request bodies
// may not carry unknown fields, and "mailbox" requires a dotted domain.
func registerValidators() {
	validatorsOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("mailbox", validateMailbox)
		}
	})
}

func validateMailbox(fl validator.FieldLevel) bool {
	return domain.HasMailboxDomain(fl.Field().String())
}

// getUserID reads the id stored by middleware.Session.
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
