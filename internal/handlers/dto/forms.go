package dto

import (
	"strings"
	"time"

	"github.com/thereayou/roomboard/internal/apperr"
)

// Accepted layouts for starts_at and expires_at. The second is what an HTML
// datetime-local input submits.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

// ParseTime reads a form timestamp. Values without a zone are taken as UTC.
func ParseTime(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperr.Validation(field + " is required")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.ErrInvalidWindow
}

type RoomForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	Open        *bool  `form:"open_status"`
}

// IsOpen defaults to an open room when the flag is absent.
func (f RoomForm) IsOpen() bool {
	return f.Open == nil || *f.Open
}

type MessageForm struct {
	Title string `form:"title" binding:"max=200"`
	Body  string `form:"body" binding:"required"`
}

type PollForm struct {
	Question  string   `form:"question" binding:"required,max=200"`
	StartsAt  string   `form:"starts_at"`
	ExpiresAt string   `form:"expires_at"`
	Choices   []string `form:"choice"`
}

type ChoiceForm struct {
	Text string `form:"text" binding:"required,max=200"`
}

type EventForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	StartsAt    string `form:"starts_at"`
	ExpiresAt   string `form:"expires_at"`
}

// Window parses the form's start and expiry.
func Window(startsAt, expiresAt string) (time.Time, time.Time, error) {
	start, err := ParseTime("starts_at", startsAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseTime("expires_at", expiresAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
