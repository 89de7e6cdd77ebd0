package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actor, service.CreateProjectInput{
		Title:            req.Title,
		Description:      req.Description,
		TargetAmount:     req.TargetAmount,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryDateTime: req.DeliveryDateTime,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Get GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projects.Get(c.Request.Context(), common.ActorOrGuest(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// List GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset := common.Pagination(c)
	projects, err := h.projects.ListFundraising(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ListMine GET /projects/mine
func (h *ProjectHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	projects, err := h.projects.ListMine(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Complete POST /projects/:id/complete
func (h *ProjectHandler) Complete(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.CompleteProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projects.Complete(c.Request.Context(), actor, id, service.CompleteProjectInput{
		Comment:   req.Comment,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Cancel POST /projects/:id/cancel
func (h *ProjectHandler) Cancel(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.projects.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CancelProjectResponse{
		Project:       result.Project,
		RefundedCount: result.RefundedCount,
		TotalRefunded: result.TotalRefunded,
		GuestVoided:   result.GuestVoided,
	})
}
