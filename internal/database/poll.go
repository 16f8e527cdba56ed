package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/roomboard/internal/models"
)

// SavePoll creates the poll together with its choices.
func (d *Database) SavePoll(ctx context.Context, poll *models.Poll) error {
	return d.db.WithContext(ctx).Omit("Room").Create(poll).Error
}

func (d *Database) GetPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	var poll models.Poll
	err := d.db.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, text") }).
		First(&poll, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &poll, nil
}

func (d *Database) RoomPolls(ctx context.Context, roomID uuid.UUID) ([]models.Poll, error) {
	var polls []models.Poll
	err := d.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at DESC").Find(&polls).Error
	return polls, err
}

func (d *Database) SaveChoice(ctx context.Context, choice *models.Choice) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(choice).Error
}

func (d *Database) ChoiceInPoll(ctx context.Context, pollID, choiceID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.Choice{}).
		Where("id = ? AND poll_id = ?", choiceID, pollID).
		Count(&n).Error
	return n > 0, err
}

// RecordVote marks userID as having voted on the poll. It reports false when
// the user had already voted.
func (d *Database) RecordVote(ctx context.Context, vote *models.PollVote) (bool, error) {
	res := d.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(vote)
	return res.RowsAffected > 0, res.Error
}

// IncrementVotes bumps a choice's counter in the database, not in memory.
func (d *Database) IncrementVotes(ctx context.Context, choiceID uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.Choice{}).
		Where("id = ?", choiceID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1)).Error
}

func (d *Database) FindVote(ctx context.Context, pollID, userID uuid.UUID) (*models.PollVote, error) {
	var vote models.PollVote
	err := d.db.WithContext(ctx).Where("poll_id = ? AND user_id = ?", pollID, userID).First(&vote).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &vote, nil
}
