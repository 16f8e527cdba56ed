package models

import "time"

// Phase is the time-derived state of a poll or event. It is never stored.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseActive  Phase = "active"
	PhaseEnded   Phase = "ended"
)

// Window is a half-open [StartsAt, ExpiresAt) interval shared by polls and events.
type Window struct {
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (w Window) HasStarted(now time.Time) bool {
	return !now.Before(w.StartsAt)
}

func (w Window) HasEnded(now time.Time) bool {
	return !now.Before(w.ExpiresAt)
}

func (w Window) Phase(now time.Time) Phase {
	switch {
	case w.HasEnded(now):
		return PhaseEnded
	case w.HasStarted(now):
		return PhaseActive
	default:
		return PhasePending
	}
}

// Valid reports whether the window is ordered and not already over at now.
func (w Window) Valid(now time.Time) bool {
	return w.StartsAt.Before(w.ExpiresAt) && !w.HasEnded(now)
}
