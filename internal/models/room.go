package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `json:"description"`
	OpenStatus  bool       `gorm:"not null;default:true" json:"open_status"`
	HostID      *uuid.UUID `gorm:"type:uuid;index" json:"host_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Host *User `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsHost reports whether userID hosts the room. A room whose host account
// was removed has no host.
func (r *Room) IsHost(userID uuid.UUID) bool {
	return r.HostID != nil && *r.HostID == userID
}

type MembershipStatus string

const (
	MembershipMember  MembershipStatus = "member"
	MembershipPending MembershipStatus = "pending"
)

// RoomMembership holds both admitted members and pending join requests.
// The (room_id, user_id) key keeps a user in at most one of the two states.
type RoomMembership struct {
	RoomID    uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID        `gorm:"type:uuid;primaryKey;index"`
	Status    MembershipStatus `gorm:"size:16;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type RoomAdmin struct {
	RoomID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type RoomSuspension struct {
	RoomID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	SuspendedBy uuid.UUID `gorm:"type:uuid;not null"`
	Reason      string
	CreatedAt   time.Time

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
