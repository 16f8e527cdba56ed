package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/roomboard/internal/handlers/dto"
	"github.com/thereayou/roomboard/internal/services"
)

type EventHandler struct {
	events     *services.EventService
	membership *services.MembershipService
}

func NewEventHandler(events *services.EventService, membership *services.MembershipService) *EventHandler {
	return &EventHandler{events: events, membership: membership}
}

func eventPath(id string) string {
	return "/event/" + id + "/"
}

// NewEventForm checks the caller may schedule events in the room.
func (h *EventHandler) NewEventForm(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}

	a, err := h.membership.Access(c.Request.Context(), roomID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := a.CanModerate().Err(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	var form dto.EventForm
	if !bind(c, &form) {
		return
	}
	startsAt, expiresAt, err := dto.Window(form.StartsAt, form.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), roomID, currentUser(c), services.EventInput{
		Title:       form.Title,
		Description: form.Description,
		StartsAt:    startsAt,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, eventPath(event.ID.String()))
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.events.EventDetail(c.Request.Context(), eventID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Respond records an accept or reject.
func (h *EventHandler) Respond(c *gin.Context) {
	eventID, ok := paramID(c)
	if !ok {
		return
	}
	decision, err := dto.DecodeEventResponse(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.events.RespondEvent(c.Request.Context(), eventID, currentUser(c), decision); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, eventPath(eventID.String()))
}
