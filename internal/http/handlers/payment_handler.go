package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

// PaymentHandler exposes balances, the ledger history and the payment
// gateway webhook.
type PaymentHandler struct {
	payments      *service.PaymentService
	webhookSecret string
}

func NewPaymentHandler(payments *service.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{payments: payments, webhookSecret: webhookSecret}
}

// Balance GET /payments/balance
func (h *PaymentHandler) Balance(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	balance, err := h.payments.Balance(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// Transactions GET /payments/transactions
func (h *PaymentHandler) Transactions(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	limit, offset := common.Pagination(c)
	transactions, err := h.payments.ListTransactions(c.Request.Context(), actor, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Webhook POST /webhooks/payment
// The gateway signs the raw body with HMAC-SHA256; an invalid signature
// is rejected before anything is parsed. Redelivered events are
// acknowledged with duplicate=true and credit nothing.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to read body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Payment-Signature")) {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid signature"})
		return
	}

	var req dto.PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}
	if req.EventID == "" || req.Points <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	result, err := h.payments.HandlePurchase(c.Request.Context(), req.EventID, req.UserID, req.Points)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Status: "ok", Duplicate: result.Duplicate})
}

func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	if h.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
