// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
)

// NewDatabase returns a migrated in-memory sqlite database private to t.
// A single connection serializes transactions the way row locks would, and
// foreign keys are enforced as on postgres.
func NewDatabase(t *testing.T) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDatabase(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateUser(t *testing.T, db *database.Database, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.SaveUser(context.Background(), user))
	return user
}

// CreateRoom stores a room hosted by host, who is also its first admin and
// member.
func CreateRoom(t *testing.T, db *database.Database, host *models.User, title string, open bool) *models.Room {
	t.Helper()
	ctx := context.Background()

	hostID := host.ID
	room := &models.Room{Title: title, OpenStatus: true, HostID: &hostID}
	require.NoError(t, db.CreateRoom(ctx, room))
	if !open {
		room.OpenStatus = false
		require.NoError(t, db.UpdateRoom(ctx, room))
	}
	_, err := db.AddMembership(ctx, room.ID, host.ID, models.MembershipMember)
	require.NoError(t, err)
	_, err = db.AddAdmin(ctx, room.ID, host.ID)
	require.NoError(t, err)
	return room
}

func AddMember(t *testing.T, db *database.Database, room *models.Room, user *models.User) {
	t.Helper()

	_, err := db.AddMembership(context.Background(), room.ID, user.ID, models.MembershipMember)
	require.NoError(t, err)
}

func AddAdmin(t *testing.T, db *database.Database, room *models.Room, user *models.User) {
	t.Helper()

	AddMember(t, db, room, user)
	_, err := db.AddAdmin(context.Background(), room.ID, user.ID)
	require.NoError(t, err)
}
