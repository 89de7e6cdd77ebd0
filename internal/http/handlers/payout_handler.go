package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

type PayoutHandler struct {
	payouts *service.PayoutService
}

func NewPayoutHandler(payouts *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// Create POST /payouts
func (h *PayoutHandler) Create(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	payout, err := h.payouts.Create(c.Request.Context(), actor, req.Amount, req.AccountInfo)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// ListMine GET /payouts
func (h *PayoutHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	limit, offset := common.Pagination(c)
	payouts, err := h.payouts.ListMine(c.Request.Context(), actor, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}

// ListPending GET /admin/payouts
func (h *PayoutHandler) ListPending(c *gin.Context) {
	payouts, err := h.payouts.ListPending(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}

// Resolve POST /admin/payouts/:id/resolve
func (h *PayoutHandler) Resolve(c *gin.Context) {
	payoutID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	payout, err := h.payouts.Resolve(c.Request.Context(), payoutID, req.Decision, req.Comment)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payout)
}
