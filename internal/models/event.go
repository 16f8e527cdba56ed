package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID      uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description"`
	Window      `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EventDecision string

const (
	EventAccepted EventDecision = "accepted"
	EventRejected EventDecision = "rejected"
)

// EventResponse puts a user in either the accepted or the rejected set of an
// event, never both: the pair is the primary key.
type EventResponse struct {
	EventID   uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID     `gorm:"type:uuid;primaryKey;index"`
	Decision  EventDecision `gorm:"size:16;not null"`
	CreatedAt time.Time

	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
