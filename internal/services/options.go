package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thereayou/roomboard/internal/apperr"
)

const maxTitleLen = 200

type settings struct {
	now         func() time.Time
	notifySelf  bool
	searchLimit int
}

type Option func(*settings)

// WithClock replaces time.Now. Poll and event phases are computed from it.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithNotifySelf makes actors receive notifications for their own messages.
func WithNotifySelf(enabled bool) Option {
	return func(s *settings) { s.notifySelf = enabled }
}

func WithSearchLimit(limit int) Option {
	return func(s *settings) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, searchLimit: 5}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// requireText trims value and checks it is present and at most max runes
// long (max <= 0 means unbounded).
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperr.Validation(field + " is required")
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", apperr.Validation(field + " is too long")
	}
	return value, nil
}
