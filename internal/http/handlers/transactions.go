package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mywallet/internal/domain"
	"mywallet/internal/http/httputil"
	"mywallet/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// dateLayout renders a transaction date as DD/MM.
const dateLayout = "02/01"

type NewTransactionRequest struct {
	Value       *decimal.Decimal       `json:"value" binding:"required"`
	Description string                 `json:"description" binding:"required,max=20"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=entrada saída"`
}

type TransactionResponse struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"userId"`
	Date        string                 `json:"date"`
	Value       json.Number            `json:"value"`
	Description string                 `json:"description"`
	Type        domain.TransactionType `json:"type"`
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

func toTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Date:        formatDate(tx.Date),
		Value:       json.Number(tx.Value.String()),
		Description: tx.Description,
		Type:        tx.Type,
	}
}

// ShowTransactions lists the user's transactions oldest first. An empty
// ledger is answered with null rather than [].
func (h *Handler) ShowTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		httputil.WriteError(c, errors.New("user id missing from context"))
		return
	}

	list, err := h.Ledger.List(c.Request.Context(), userID)
	if err != nil {
		httputil.WriteError(c, err)
		return
	}

	if len(list) == 0 {
		c.JSON(http.StatusOK, nil)
		return
	}

	out := make([]TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, out)
}

// NewTransaction appends an entry to the user's ledger. The response is
// sent after the store confirmed the write.
func (h *Handler) NewTransaction(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		httputil.WriteError(c, errors.New("user id missing from context"))
		return
	}

	var req NewTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, errors.Join(httputil.ErrInvalidInput, err))
		return
	}

	tx, err := h.Ledger.Append(c.Request.Context(), userID, *req.Value, req.Description, req.Type)
	if err != nil {
		httputil.WriteError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Debug("transaction recorded",
		"transaction_id", tx.ID,
		"type", tx.Type,
	)
	c.Status(http.StatusCreated)
}
