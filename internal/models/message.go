package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID       uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Title        *string   `gorm:"size:200" json:"title,omitempty"`
	Body         string    `gorm:"not null" json:"body"`
	HiddenStatus bool      `gorm:"not null;default:false" json:"hidden_status"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Room   Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type MessageLike struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time

	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	Author  User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
