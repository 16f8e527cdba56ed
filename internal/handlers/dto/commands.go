package dto

import (
	"strings"

	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/models"
)

// FormReader is satisfied by *gin.Context.
type FormReader interface {
	GetPostForm(key string) (string, bool)
}

var errUnknownAction = apperr.Validation("Unknown action")

func has(form FormReader, key string) bool {
	_, ok := form.GetPostForm(key)
	return ok
}

func formID(form FormReader, key string) (uuid.UUID, error) {
	raw, _ := form.GetPostForm(key)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid " + key)
	}
	return id, nil
}

// HomeCommand is a POST to the dashboard.
type HomeCommand interface{ homeCommand() }

type ReadNotification struct{ ID uuid.UUID }

type ReadAdminNotification struct{ ID uuid.UUID }

func (ReadNotification) homeCommand()      {}
func (ReadAdminNotification) homeCommand() {}

func DecodeHomeCommand(form FormReader) (HomeCommand, error) {
	switch {
	case has(form, "read-notification"):
		id, err := formID(form, "notification_id")
		return ReadNotification{ID: id}, err
	case has(form, "read-admin-notification"):
		id, err := formID(form, "admin_notification_id")
		return ReadAdminNotification{ID: id}, err
	default:
		return nil, errUnknownAction
	}
}

// ResolveRequest answers a pending join request on the room page.
type ResolveRequest struct {
	User   uuid.UUID
	Accept bool
}

func DecodeResolveRequest(form FormReader) (ResolveRequest, error) {
	action, _ := form.GetPostForm("action")
	var req ResolveRequest
	switch action {
	case "accept":
		req.Accept = true
	case "reject":
	default:
		return req, errUnknownAction
	}
	var err error
	req.User, err = formID(form, "user")
	return req, err
}

// MemberAction is a suspend/unsuspend or add/remove admin request. On is
// true for suspend and add.
type MemberAction struct {
	User uuid.UUID
	On   bool
}

func DecodeMemberAction(form FormReader, on, off string) (MemberAction, error) {
	action, _ := form.GetPostForm("action")
	var req MemberAction
	switch action {
	case on:
		req.On = true
	case off:
	default:
		return req, errUnknownAction
	}
	var err error
	req.User, err = formID(form, "user")
	return req, err
}

// MessageCommand is a POST to a message page.
type MessageCommand interface{ messageCommand() }

type CommentCommand struct{ Body string }

type LikeCommand struct{}

type HideCommand struct{}

func (CommentCommand) messageCommand() {}
func (LikeCommand) messageCommand()    {}
func (HideCommand) messageCommand()    {}

func DecodeMessageCommand(form FormReader) (MessageCommand, error) {
	switch {
	case has(form, "comment_submit"):
		body, _ := form.GetPostForm("body")
		return CommentCommand{Body: body}, nil
	case has(form, "like_submit"):
		return LikeCommand{}, nil
	case has(form, "hide_submit"):
		return HideCommand{}, nil
	default:
		return nil, errUnknownAction
	}
}

// DecodeVote reads the vote form. A missing or malformed choice is reported
// as no choice selected.
func DecodeVote(form FormReader) (uuid.UUID, error) {
	if !has(form, "vote") {
		return uuid.Nil, errUnknownAction
	}
	raw, _ := form.GetPostForm("choice")
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, nil
	}
	return id, nil
}

func DecodeEventResponse(form FormReader) (models.EventDecision, error) {
	switch {
	case has(form, "accepted"):
		return models.EventAccepted, nil
	case has(form, "rejected"):
		return models.EventRejected, nil
	default:
		return "", errUnknownAction
	}
}
