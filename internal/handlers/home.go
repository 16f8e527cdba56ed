package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/handlers/dto"
	"github.com/thereayou/roomboard/internal/middleware"
	"github.com/thereayou/roomboard/internal/services"
)

type HomeHandler struct {
	membership    *services.MembershipService
	notifications *services.NotificationService
}

func NewHomeHandler(membership *services.MembershipService, notifications *services.NotificationService) *HomeHandler {
	return &HomeHandler{membership: membership, notifications: notifications}
}

// Dashboard lists rooms and, for signed-in users, their unread notifications.
func (h *HomeHandler) Dashboard(c *gin.Context) {
	var actor *uuid.UUID
	if id, ok := middleware.CurrentUser(c); ok {
		actor = &id
	}

	dashboard, err := h.membership.Dashboard(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// MarkRead handles the dashboard's read-notification buttons.
func (h *HomeHandler) MarkRead(c *gin.Context) {
	actor := currentUser(c)

	cmd, err := dto.DecodeHomeCommand(c)
	if err != nil {
		respondError(c, err)
		return
	}

	switch cmd := cmd.(type) {
	case dto.ReadNotification:
		err = h.notifications.MarkRead(c.Request.Context(), cmd.ID, actor)
	case dto.ReadAdminNotification:
		err = h.notifications.MarkAdminRead(c.Request.Context(), cmd.ID, actor)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, "/")
}
