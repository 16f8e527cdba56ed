package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/thereayou/roomboard/internal/models"
)

func (d *Database) SaveEvent(ctx context.Context, event *models.Event) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

func (d *Database) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := d.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (d *Database) RoomEvents(ctx context.Context, roomID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := d.db.WithContext(ctx).Where("room_id = ?", roomID).Order("starts_at").Find(&events).Error
	return events, err
}

// RecordResponse stores the user's answer. It reports false when the user
// already answered, whichever way.
func (d *Database) RecordResponse(ctx context.Context, resp *models.EventResponse) (bool, error) {
	res := d.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(resp)
	return res.RowsAffected > 0, res.Error
}

func (d *Database) EventUsers(ctx context.Context, eventID uuid.UUID, decision models.EventDecision) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN event_responses ON event_responses.user_id = users.id").
		Where("event_responses.event_id = ? AND event_responses.decision = ?", eventID, decision).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (d *Database) FindResponse(ctx context.Context, eventID, userID uuid.UUID) (*models.EventResponse, error) {
	var resp models.EventResponse
	err := d.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&resp).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resp, nil
}
