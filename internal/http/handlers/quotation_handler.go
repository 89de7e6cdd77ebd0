package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

type QuotationHandler struct {
	quotations *service.QuotationService
}

func NewQuotationHandler(quotations *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

// Submit POST /projects/:id/quotations
func (h *QuotationHandler) Submit(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.SubmitQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]service.QuotationItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.QuotationItemInput{ItemName: item.ItemName, Amount: item.Amount})
	}

	quotation, err := h.quotations.Submit(c.Request.Context(), actor, projectID, items)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, quotation)
}

// Get GET /projects/:id/quotations
func (h *QuotationHandler) Get(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	quotation, err := h.quotations.GetByProject(c.Request.Context(), actor, projectID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

// Approve POST /quotations/:id/approve
// The settlement endpoint: called by the planner, it credits the bound
// florist net of commission exactly once.
func (h *QuotationHandler) Approve(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	quotationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.quotations.Approve(c.Request.Context(), actor, quotationID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Quotation:  result.Quotation,
		NetPayout:  result.NetPayout,
		Commission: result.Commission,
		FeeRate:    result.FeeRate,
	})
}

// Finalize POST /quotations/:id/finalize
func (h *QuotationHandler) Finalize(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	quotationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	quotation, err := h.quotations.Finalize(c.Request.Context(), actor, quotationID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}
