package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/handlers/dto"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/services"
)

type PollHandler struct {
	polls      *services.PollService
	membership *services.MembershipService
}

func NewPollHandler(polls *services.PollService, membership *services.MembershipService) *PollHandler {
	return &PollHandler{polls: polls, membership: membership}
}

func pollPath(id string) string {
	return "/poll/" + id + "/"
}

// NewPollForm checks the caller may create polls in the room.
func (h *PollHandler) NewPollForm(c *gin.Context) {
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

func (h *PollHandler) CreatePoll(c *gin.Context) {
	roomID, ok := paramID(c)
	if !ok {
		return
	}
	var form dto.PollForm
	if !bind(c, &form) {
		return
	}
	startsAt, expiresAt, err := dto.Window(form.StartsAt, form.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}

	poll, err := h.polls.CreatePoll(c.Request.Context(), roomID, currentUser(c), services.PollInput{
		Question:  form.Question,
		StartsAt:  startsAt,
		ExpiresAt: expiresAt,
		Choices:   form.Choices,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	redirect(c, pollPath(poll.ID.String()))
}

// NewChoiceForm checks the caller owns the poll and it is still running.
func (h *PollHandler) NewChoiceForm(c *gin.Context) {
	pollID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.polls.PollDetail(c.Request.Context(), pollID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	switch {
	case !view.IsOwner:
		respondError(c, apperr.ErrNotPollOwner)
	case view.Phase == models.PhaseEnded:
		respondError(c, apperr.ErrPollEnded)
	default:
		c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
	}
}

func (h *PollHandler) CreateChoice(c *gin.Context) {
	pollID, ok := paramID(c)
	if !ok {
		return
	}
	var form dto.ChoiceForm
	if !bind(c, &form) {
		return
	}

	if _, err := h.polls.AddChoice(c.Request.Context(), pollID, currentUser(c), form.Text); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, pollPath(pollID.String()))
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.polls.PollDetail(c.Request.Context(), pollID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PollHandler) Vote(c *gin.Context) {
	pollID, ok := paramID(c)
	if !ok {
		return
	}
	choiceID, err := dto.DecodeVote(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.polls.CastVote(c.Request.Context(), pollID, currentUser(c), choiceID); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, pollPath(pollID.String()))
}
