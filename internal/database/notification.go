package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/thereayou/roomboard/internal/models"
)

func (d *Database) SaveNotification(ctx context.Context, n *models.Notification) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error
}

func (d *Database) SaveAdminNotification(ctx context.Context, n *models.AdminNotification) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error
}

func (d *Database) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (d *Database) GetAdminNotification(ctx context.Context, id uuid.UUID) (*models.AdminNotification, error) {
	var n models.AdminNotification
	if err := d.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (d *Database) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read_status", true).Error
}

func (d *Database) MarkAdminNotificationRead(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.AdminNotification{}).Where("id = ?", id).Update("read_status", true).Error
}

// UnreadNotifications lists unread notifications addressed to userID.
func (d *Database) UnreadNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var list []models.Notification
	err := d.db.WithContext(ctx).
		Where("recipient_id = ? AND read_status = ?", userID, false).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// UnreadAdminNotifications lists unread admin notifications of every room
// userID currently administers.
func (d *Database) UnreadAdminNotifications(ctx context.Context, userID uuid.UUID) ([]models.AdminNotification, error) {
	var list []models.AdminNotification
	err := d.db.WithContext(ctx).
		Where("room_id IN (?)", d.db.Model(&models.RoomAdmin{}).Select("room_id").Where("user_id = ?", userID)).
		Where("read_status = ?", false).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
