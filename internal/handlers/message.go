package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/handlers/dto"
	"github.com/thereayou/roomboard/internal/services"
)

type MessageHandler struct {
	content    *services.ContentService
	membership *services.MembershipService
}

func NewMessageHandler(content *services.ContentService, membership *services.MembershipService) *MessageHandler {
	return &MessageHandler{content: content, membership: membership}
}

func messagePath(id string) string {
	return "/message/" + id + "/"
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	messageID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.content.MessageDetail(c.Request.Context(), messageID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MessageAction dispatches a comment, like or hide submitted on the message
// page.
func (h *MessageHandler) MessageAction(c *gin.Context) {
	messageID, ok := paramID(c)
	if !ok {
		return
	}
	cmd, err := dto.DecodeMessageCommand(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, actor := c.Request.Context(), currentUser(c)
	switch cmd := cmd.(type) {
	case dto.CommentCommand:
		_, err = h.content.PostComment(ctx, messageID, actor, cmd.Body)
	case dto.LikeCommand:
		_, err = h.content.ToggleLike(ctx, messageID, actor)
	case dto.HideCommand:
		_, err = h.content.ToggleHidden(ctx, messageID, actor)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.content.MessageDetail(ctx, messageID, actor)
	if apperr.KindOf(err) == apperr.KindNotFound {
		// the message is gone or no longer visible to the caller
		redirect(c, "/")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, roomPath(view.Message.RoomID.String()))
}

// NewMessageForm checks the caller may post in the room.
func (h *MessageHandler) NewMessageForm(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	a, err := h.membership.Access(c.Request.Context(), roomID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := a.CanParticipate().Err(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

func (h *MessageHandler) CreateMessage(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	var form dto.MessageForm
	if !bind(c, &form) {
		return
	}

	message, err := h.content.PostMessage(c.Request.Context(), roomID, currentUser(c), services.MessageInput{
		Title: form.Title,
		Body:  form.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, messagePath(message.ID.String()))
}
