package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

// AdminHandler is the moderation surface: project and account review,
// fee management and the revenue report.
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListPendingProjects GET /admin/projects
func (h *AdminHandler) ListPendingProjects(c *gin.Context) {
	projects, err := h.admin.ListPendingProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ReviewProject POST /admin/projects/:id/review
func (h *AdminHandler) ReviewProject(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.admin.ReviewProject(c.Request.Context(), projectID, req.Decision)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListPendingAccounts GET /admin/accounts/:type
func (h *AdminHandler) ListPendingAccounts(c *gin.Context) {
	accounts, err := h.admin.ListPendingAccounts(c.Request.Context(), c.Param("type"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// ReviewAccount POST /admin/accounts/:type/:id/review
func (h *AdminHandler) ReviewAccount(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	account, err := h.admin.ReviewAccount(c.Request.Context(), c.Param("type"), accountID, req.Decision)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// ListFlorists GET /admin/florists
func (h *AdminHandler) ListFlorists(c *gin.Context) {
	florists, err := h.admin.ListFlorists(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, florists)
}

// SetFloristFeeRate PUT /admin/florists/:id/fee-rate
func (h *AdminHandler) SetFloristFeeRate(c *gin.Context) {
	floristID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.SetFeeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	florist, err := h.admin.SetFloristFeeRate(c.Request.Context(), floristID, req.FeeRate)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, florist)
}

// GetSettings GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.admin.GetSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings PUT /admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := h.admin.UpdateSettings(c.Request.Context(), req.PlatformFeeRate)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ListCommissions GET /admin/commissions
func (h *AdminHandler) ListCommissions(c *gin.Context) {
	limit, offset := common.Pagination(c)
	commissions, err := h.admin.ListCommissions(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, commissions)
}
