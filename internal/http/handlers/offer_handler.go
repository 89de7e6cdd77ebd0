package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

// OfferHandler covers the planner side of the offer handshake.
type OfferHandler struct {
	offers *service.OfferService
}

func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// Create POST /projects/:id/offers
func (h *OfferHandler) Create(c *gin.Context) {
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

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), actor, projectID, req.FloristID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// GetAccepted GET /projects/:id/offers/accepted
func (h *OfferHandler) GetAccepted(c *gin.Context) {
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

	offer, err := h.offers.GetAcceptedByProject(c.Request.Context(), actor, projectID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, offer)
}
