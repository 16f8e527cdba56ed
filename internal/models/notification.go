package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationComment NotificationKind = "c"
	NotificationLike    NotificationKind = "l"
)

func (k NotificationKind) String() string {
	switch k {
	case NotificationComment:
		return "comment"
	case NotificationLike:
		return "like"
	default:
		return string(k)
	}
}

// NotificationFields is shared by user and admin notifications.
type NotificationFields struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        NotificationKind `gorm:"size:1;not null;default:'c'" json:"kind"`
	ActorID     uuid.UUID        `gorm:"type:uuid;not null" json:"actor_id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	RoomID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"room_id"`
	MessageID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"message_id"`
	ReadStatus  bool             `gorm:"not null;default:false" json:"read_status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notification is addressed to the author of the message acted on.
type Notification struct {
	NotificationFields `gorm:"embedded"`

	Room    Room    `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// AdminNotification is a single record readable by every admin of the room.
// Marking it read marks it read for all of them.
type AdminNotification struct {
	NotificationFields `gorm:"embedded"`

	Room    Room    `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *AdminNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
