package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/service"
)

type PledgeHandler struct {
	pledges *service.PledgeService
}

func NewPledgeHandler(pledges *service.PledgeService) *PledgeHandler {
	return &PledgeHandler{pledges: pledges}
}

// Create POST /projects/:id/pledges
// Works for signed-in fans (balance debit) and guests (name + email).
func (h *PledgeHandler) Create(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.pledges.Create(c.Request.Context(), service.CreatePledgeInput{
		ProjectID:  projectID,
		Actor:      common.ActorOrGuest(c),
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		TierID:     req.TierID,
		Amount:     req.Amount,
		Comment:    req.Comment,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.PledgeResponse{
		Pledge:          result.Pledge,
		CollectedAmount: result.NewCollectedAmount,
		GoalReached:     result.GoalReached,
	})
}

// List GET /projects/:id/pledges
func (h *PledgeHandler) List(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	pledges, err := h.pledges.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pledges)
}

// SetTiers PUT /projects/:id/tiers
func (h *PledgeHandler) SetTiers(c *gin.Context) {
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

	var req dto.SetTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	tiers := make([]models.PledgeTier, 0, len(req.Tiers))
	for _, tier := range req.Tiers {
		tiers = append(tiers, models.PledgeTier{
			Title:       tier.Title,
			Description: tier.Description,
			Amount:      tier.Amount,
		})
	}

	saved, err := h.pledges.SetTiers(c.Request.Context(), actor, projectID, tiers)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListTiers GET /projects/:id/tiers
func (h *PledgeHandler) ListTiers(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	tiers, err := h.pledges.ListTiers(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tiers)
}
