package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/roomboard/internal/access"
	"github.com/thereayou/roomboard/internal/models"
)

const roomOrder = "rooms.updated_at DESC, rooms.created_at DESC"

func (d *Database) CreateRoom(ctx context.Context, room *models.Room) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error
}

func (d *Database) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).Preload("Host").First(&room, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (d *Database) UpdateRoom(ctx context.Context, room *models.Room) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Save(room).Error
}

// DeleteRoom removes the room and everything it owns.
func (d *Database) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageIDs := func() *gorm.DB {
			return tx.Model(&models.Message{}).Select("id").Where("room_id = ?", id)
		}
		pollIDs := func() *gorm.DB {
			return tx.Model(&models.Poll{}).Select("id").Where("room_id = ?", id)
		}
		eventIDs := func() *gorm.DB {
			return tx.Model(&models.Event{}).Select("id").Where("room_id = ?", id)
		}

		steps := []func() error{
			func() error { return tx.Where("room_id = ?", id).Delete(&models.Notification{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.AdminNotification{}).Error },
			func() error { return tx.Where("message_id IN (?)", messageIDs()).Delete(&models.Comment{}).Error },
			func() error { return tx.Where("message_id IN (?)", messageIDs()).Delete(&models.MessageLike{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.Message{}).Error },
			func() error { return tx.Where("poll_id IN (?)", pollIDs()).Delete(&models.PollVote{}).Error },
			func() error { return tx.Where("poll_id IN (?)", pollIDs()).Delete(&models.Choice{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.Poll{}).Error },
			func() error { return tx.Where("event_id IN (?)", eventIDs()).Delete(&models.EventResponse{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.Event{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.RoomSuspension{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.RoomAdmin{}).Error },
			func() error { return tx.Where("room_id = ?", id).Delete(&models.RoomMembership{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Room{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (d *Database) CountRooms(ctx context.Context) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.Room{}).Count(&n).Error
	return n, err
}

// RoomsByOpenStatus lists rooms with the given open flag. When exclude is
// set, rooms that user is a member of are left out.
func (d *Database) RoomsByOpenStatus(ctx context.Context, open bool, exclude *uuid.UUID) ([]models.Room, error) {
	q := d.db.WithContext(ctx).Where("open_status = ?", open)
	if exclude != nil {
		q = q.Where("id NOT IN (?)", d.db.Model(&models.RoomMembership{}).
			Select("room_id").
			Where("user_id = ? AND status = ?", *exclude, models.MembershipMember))
	}
	var rooms []models.Room
	err := q.Order(roomOrder).Find(&rooms).Error
	return rooms, err
}

// UserRooms lists the rooms userID is an admitted member of.
func (d *Database) UserRooms(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.WithContext(ctx).
		Joins("JOIN room_memberships ON room_memberships.room_id = rooms.id").
		Where("room_memberships.user_id = ? AND room_memberships.status = ?", userID, models.MembershipMember).
		Order(roomOrder).
		Find(&rooms).Error
	return rooms, err
}

// SearchRooms matches q against title and description, case-insensitively.
func (d *Database) SearchRooms(ctx context.Context, q string, limit int) ([]models.Room, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	var rooms []models.Room
	err := d.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order(roomOrder).
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// LoadAccess snapshots userID's relations to roomID.
func (d *Database) LoadAccess(ctx context.Context, roomID, userID uuid.UUID) (access.Access, error) {
	room, err := d.GetRoom(ctx, roomID)
	if err != nil {
		return access.Access{}, err
	}

	a := access.Access{RoomID: roomID, UserID: userID, Host: room.IsHost(userID)}

	status, ok, err := d.MembershipStatus(ctx, roomID, userID)
	if err != nil {
		return access.Access{}, err
	}
	if ok {
		a.Member = status == models.MembershipMember
		a.Pending = status == models.MembershipPending
	}

	if a.Admin, err = d.IsAdmin(ctx, roomID, userID); err != nil {
		return access.Access{}, err
	}
	if a.Suspended, err = d.IsSuspended(ctx, roomID, userID); err != nil {
		return access.Access{}, err
	}
	return a, nil
}

func (d *Database) MembershipStatus(ctx context.Context, roomID, userID uuid.UUID) (models.MembershipStatus, bool, error) {
	var m models.RoomMembership
	err := d.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomID, userID).Limit(1).Find(&m).Error
	if err != nil {
		return "", false, err
	}
	if m.RoomID == uuid.Nil {
		return "", false, nil
	}
	return m.Status, true, nil
}

// AddMembership inserts a membership row unless one already exists for the
// pair. It reports whether a row was inserted.
func (d *Database) AddMembership(ctx context.Context, roomID, userID uuid.UUID, status models.MembershipStatus) (bool, error) {
	res := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RoomMembership{RoomID: roomID, UserID: userID, Status: status})
	return res.RowsAffected > 0, res.Error
}

// AdmitPending turns a pending request into a membership.
func (d *Database) AdmitPending(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).Model(&models.RoomMembership{}).
		Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, models.MembershipPending).
		Update("status", models.MembershipMember)
	return res.RowsAffected > 0, res.Error
}

func (d *Database) RemovePending(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, models.MembershipPending).
		Delete(&models.RoomMembership{})
	return res.RowsAffected > 0, res.Error
}

// RemoveUserFromRoom drops userID's membership or request and admin rights.
// A suspension is kept so that leaving and rejoining does not lift it.
func (d *Database) RemoveUserFromRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	for _, model := range []interface{}{&models.RoomMembership{}, &models.RoomAdmin{}} {
		if err := d.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomID, userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) IsAdmin(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.RoomAdmin{}).Where("room_id = ? AND user_id = ?", roomID, userID).Count(&n).Error
	return n > 0, err
}

func (d *Database) AddAdmin(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RoomAdmin{RoomID: roomID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (d *Database) RemoveAdmin(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomID, userID).Delete(&models.RoomAdmin{})
	return res.RowsAffected > 0, res.Error
}

func (d *Database) IsSuspended(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.RoomSuspension{}).Where("room_id = ? AND user_id = ?", roomID, userID).Count(&n).Error
	return n > 0, err
}

func (d *Database) AddSuspension(ctx context.Context, s *models.RoomSuspension) (bool, error) {
	res := d.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
	return res.RowsAffected > 0, res.Error
}

func (d *Database) RemoveSuspension(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomID, userID).Delete(&models.RoomSuspension{})
	return res.RowsAffected > 0, res.Error
}

// RoomUsers lists users holding the given membership status in the room.
func (d *Database) RoomUsers(ctx context.Context, roomID uuid.UUID, status models.MembershipStatus) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN room_memberships ON room_memberships.user_id = users.id").
		Where("room_memberships.room_id = ? AND room_memberships.status = ?", roomID, status).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (d *Database) RoomAdmins(ctx context.Context, roomID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN room_admins ON room_admins.user_id = users.id").
		Where("room_admins.room_id = ?", roomID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (d *Database) SuspendedUsers(ctx context.Context, roomID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN room_suspensions ON room_suspensions.user_id = users.id").
		Where("room_suspensions.room_id = ?", roomID).
		Order("users.username").
		Find(&users).Error
	return users, err
}
