// Package access answers "may this user do that in this room" from a single
// snapshot of the user's relations to the room.
package access

import (
	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/apperr"
)

// Access is a user's standing in one room.
type Access struct {
	RoomID    uuid.UUID
	UserID    uuid.UUID
	Member    bool
	Pending   bool
	Admin     bool
	Host      bool
	Suspended bool
}

// Decision is either allowed or denied with a reason.
type Decision struct {
	reason *apperr.Error
}

func Allow() Decision { return Decision{} }

func Deny(reason *apperr.Error) Decision { return Decision{reason: reason} }

func (d Decision) Allowed() bool { return d.reason == nil }

// Err returns nil when allowed, the denial reason otherwise.
func (d Decision) Err() error {
	if d.reason == nil {
		return nil
	}
	return d.reason
}

// CanRead covers viewing the room and its messages, polls and events.
func (a Access) CanRead() Decision {
	if !a.Member {
		return Deny(apperr.ErrNotMember)
	}
	return Allow()
}

// CanParticipate covers posting, commenting, liking, voting and RSVPs.
func (a Access) CanParticipate() Decision {
	if !a.Member {
		return Deny(apperr.ErrNotMember)
	}
	if a.Suspended {
		return Deny(apperr.ErrSuspended)
	}
	return Allow()
}

// CanModerate covers admin-only actions: pending requests, hiding messages,
// suspensions, creating polls and events.
func (a Access) CanModerate() Decision {
	if !a.Admin {
		return Deny(apperr.ErrNotAdmin)
	}
	return Allow()
}

// CanManage covers host-only actions: editing or deleting the room and
// granting admin rights.
func (a Access) CanManage() Decision {
	if !a.Host {
		return Deny(apperr.ErrNotHost)
	}
	return Allow()
}
