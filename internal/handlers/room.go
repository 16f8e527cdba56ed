package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/roomboard/internal/handlers/dto"
	"github.com/thereayou/roomboard/internal/services"
)

type RoomHandler struct {
	membership *services.MembershipService
}

func NewRoomHandler(membership *services.MembershipService) *RoomHandler {
	return &RoomHandler{membership: membership}
}

func roomPath(id string) string {
	return "/room/" + id + "/"
}

// CreateRoom creates a room hosted by the caller.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var form dto.RoomForm
	if !bind(c, &form) {
		return
	}

	room, err := h.membership.CreateRoom(c.Request.Context(), currentUser(c), services.RoomInput{
		Title:       form.Title,
		Description: form.Description,
		Open:        form.IsOpen(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	var form dto.RoomForm
	if !bind(c, &form) {
		return
	}

	_, err := h.membership.UpdateRoom(c.Request.Context(), roomID, currentUser(c), services.RoomInput{
		Title:       form.Title,
		Description: form.Description,
		Open:        form.IsOpen(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, roomPath(roomID.String()))
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.membership.RoomDetail(c.Request.Context(), roomID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":            view.Room,
		"messages":        view.Messages,
		"hidden_messages": view.HiddenMessages,
		"members":         view.Members,
		"admins":          view.Admins,
		"pending":         view.Pending,
		"suspended":       view.Suspended,
		"polls":           view.Polls,
		"events":          view.Events,
		"is_admin":        view.Access.Admin,
		"is_host":         view.Access.Host,
		"is_suspended":    view.Access.Suspended,
	})
}

// ResolveRequest accepts or rejects a pending join request.
func (h *RoomHandler) ResolveRequest(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	req, err := dto.DecodeResolveRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res := services.ResolveReject
	if req.Accept {
		res = services.ResolveAccept
	}
	if err := h.membership.ResolvePending(c.Request.Context(), roomID, currentUser(c), req.User, res); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, roomPath(roomID.String()))
}

func (h *RoomHandler) Suspension(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	req, err := dto.DecodeMemberAction(c, "suspend", "unsuspend")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, actor := c.Request.Context(), currentUser(c)
	if req.On {
		reason, _ := c.GetPostForm("reason")
		err = h.membership.Suspend(ctx, roomID, actor, req.User, reason)
	} else {
		err = h.membership.Unsuspend(ctx, roomID, actor, req.User)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, roomPath(roomID.String()))
}

func (h *RoomHandler) Admins(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	req, err := dto.DecodeMemberAction(c, "add", "remove")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, actor := c.Request.Context(), currentUser(c)
	if req.On {
		err = h.membership.AddAdmin(ctx, roomID, actor, req.User)
	} else {
		err = h.membership.RemoveAdmin(ctx, roomID, actor, req.User)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, roomPath(roomID.String()))
}

// JoinRoom sends members to the room and pending requesters home.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	result, err := h.membership.Join(c.Request.Context(), roomID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if result == services.JoinJoined {
		redirect(c, roomPath(roomID.String()))
		return
	}
	redirect(c, "/")
}

func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.membership.Leave(c.Request.Context(), roomID, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, "/")
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.membership.DeleteRoom(c.Request.Context(), roomID, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, "/")
}
