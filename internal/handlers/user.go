package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/roomboard/internal/services"
)

type UserHandler struct {
	membership *services.MembershipService
}

func NewUserHandler(membership *services.MembershipService) *UserHandler {
	return &UserHandler{membership: membership}
}

// GetUser returns a user's public profile and the rooms they belong to.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := paramID(c)
	if !ok {
		return
	}

	profile, err := h.membership.UserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	rooms := make([]gin.H, len(profile.Rooms))
	for i, room := range profile.Rooms {
		rooms[i] = gin.H{
			"id":          room.ID,
			"title":       room.Title,
			"open_status": room.OpenStatus,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           profile.User.ID,
		"username":     profile.User.Username,
		"last_seen_at": profile.User.LastSeenAt,
		"rooms":        rooms,
	})
}
