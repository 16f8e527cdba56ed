package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/models"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Transaction runs fn against a Database bound to one transaction. Returning
// an error from fn rolls everything back.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx})
	})
}

// Migrate creates or updates every table the service owns.
func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomMembership{},
		&models.RoomAdmin{},
		&models.RoomSuspension{},
		&models.Message{},
		&models.MessageLike{},
		&models.Comment{},
		&models.Poll{},
		&models.Choice{},
		&models.PollVote{},
		&models.Event{},
		&models.EventResponse{},
		&models.Notification{},
		&models.AdminNotification{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
