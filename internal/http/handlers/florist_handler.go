package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

// FloristHandler serves the public directory of approved flower shops
// and the offer endpoints on the florist side.
type FloristHandler struct {
	florists *service.FloristService
	offers   *service.OfferService
}

func NewFloristHandler(florists *service.FloristService, offers *service.OfferService) *FloristHandler {
	return &FloristHandler{florists: florists, offers: offers}
}

// List GET /florists
func (h *FloristHandler) List(c *gin.Context) {
	florists, err := h.florists.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, florists)
}

// Get GET /florists/:id
func (h *FloristHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	florist, err := h.florists.Get(c.Request.Context(), common.ActorOrGuest(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, florist)
}

// ListOffers GET /florists/me/offers
func (h *FloristHandler) ListOffers(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	offers, err := h.offers.ListMine(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// RespondOffer POST /offers/:id/respond
func (h *FloristHandler) RespondOffer(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.RespondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.offers.Respond(c.Request.Context(), actor, offerID, req.Accept)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OfferResponse{Offer: result.Offer, ChatRoomID: result.ChatRoomID})
}
