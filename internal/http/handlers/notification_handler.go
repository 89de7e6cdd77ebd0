package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	limit, offset := common.Pagination(c)
	notifications, err := h.notifications.List(c.Request.Context(), actor, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
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

	if err := h.notifications.MarkRead(c.Request.Context(), actor, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
