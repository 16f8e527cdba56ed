package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/roomboard/internal/models"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (d *Database) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).Preload("Author").First(&message, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

// RoomMessages lists a room's messages newest first, filtered by hidden flag.
func (d *Database) RoomMessages(ctx context.Context, roomID uuid.UUID, hidden bool) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.WithContext(ctx).
		Preload("Author").
		Where("room_id = ? AND hidden_status = ?", roomID, hidden).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// ToggleHidden flips the hidden flag in place and returns the new value.
func (d *Database) ToggleHidden(ctx context.Context, messageID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("hidden_status", gorm.Expr("NOT hidden_status"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, notFound(gorm.ErrRecordNotFound)
	}

	var hidden []bool
	err := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", messageID).
		Pluck("hidden_status", &hidden).Error
	if err != nil || len(hidden) == 0 {
		return false, err
	}
	return hidden[0], nil
}

// RemoveLike deletes userID's like and reports whether one existed.
func (d *Database) RemoveLike(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&models.MessageLike{})
	return res.RowsAffected > 0, res.Error
}

func (d *Database) AddLike(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MessageLike{MessageID: messageID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (d *Database) CountLikes(ctx context.Context, messageID uuid.UUID) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.MessageLike{}).Where("message_id = ?", messageID).Count(&n).Error
	return n, err
}

func (d *Database) HasLiked(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.MessageLike{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&n).Error
	return n > 0, err
}

func (d *Database) SaveComment(ctx context.Context, comment *models.Comment) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// MessageComments lists comments newest first.
func (d *Database) MessageComments(ctx context.Context, messageID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := d.db.WithContext(ctx).
		Preload("Author").
		Where("message_id = ?", messageID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
