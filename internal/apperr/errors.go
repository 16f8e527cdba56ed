package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindNotAuthorized
	KindInvalidState
	KindValidation
	KindUnauthenticated
)

// Error is a user-facing failure. Message is shown to the client verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

var (
	ErrNotFound = New(KindNotFound, "Not found")

	ErrNotMember    = New(KindNotAuthorized, "Not a member of this room")
	ErrNotAdmin     = New(KindNotAuthorized, "Not an admin of this room")
	ErrNotHost      = New(KindNotAuthorized, "Not host of this room")
	ErrNotPollOwner = New(KindNotAuthorized, "Not owner of this poll")
	ErrNotRecipient = New(KindNotAuthorized, "Cannot process this request, not owner")

	ErrUnauthenticated   = New(KindUnauthenticated, "Authentication required")
	ErrInvalidCredential = New(KindUnauthenticated, "Username or password is incorrect")

	ErrSuspended        = New(KindInvalidState, "Cannot make request, Suspended")
	ErrAlreadyVoted     = New(KindInvalidState, "You already voted on this poll")
	ErrAlreadyResponded = New(KindInvalidState, "You already accepted or rejected this event")
	ErrInvalidWindow    = New(KindInvalidState, "Invalid datetime settings")
	ErrEventEnded       = New(KindInvalidState, "Event ended")
	ErrPollEnded        = New(KindInvalidState, "Poll ended")
	ErrPollNotStarted   = New(KindInvalidState, "Poll has not started")
	ErrNotPending       = New(KindInvalidState, "User is not pending")
	ErrHostImmutable    = New(KindInvalidState, "Cannot change the host's role")
	ErrHostCannotLeave  = New(KindInvalidState, "Host cannot leave the room")
	ErrUsernameTaken    = New(KindInvalidState, "A user with that username already exists")

	ErrChoiceNotFound = New(KindValidation, "You did not select a choice")
)

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for err. Internal errors are not
// exposed.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
