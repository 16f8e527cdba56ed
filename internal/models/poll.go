package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Poll struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Question  string    `gorm:"size:200;not null" json:"question"`
	Window    `gorm:"embedded"`
	CreatedAt time.Time `json:"created_at"`

	Choices []Choice `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
	Room    Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Choice struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PollID uuid.UUID `gorm:"type:uuid;not null;index" json:"poll_id"`
	Text   string    `gorm:"size:200;not null" json:"text"`
	Votes  int       `gorm:"not null;default:0" json:"votes"`

	CreatedAt time.Time `json:"-"`
}

func (c *Choice) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PollVote records that a user voted on a poll. One row per (poll, user).
type PollVote struct {
	PollID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	ChoiceID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time

	Poll   Poll   `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	Choice Choice `gorm:"foreignKey:ChoiceID;constraint:OnDelete:CASCADE"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
