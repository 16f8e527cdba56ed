package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/access"
	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/observability"
)

type RoomInput struct {
	Title       string
	Description string
	Open        bool
}

type JoinResult string

const (
	JoinJoined         JoinResult = "joined"
	JoinPending        JoinResult = "pending"
	JoinAlreadyMember  JoinResult = "already_member"
	JoinAlreadyPending JoinResult = "already_pending"
)

// Resolution is an admin's answer to a pending join request.
type Resolution string

const (
	ResolveAccept Resolution = "accept"
	ResolveReject Resolution = "reject"
)

type RoomView struct {
	Room           *models.Room     `json:"room"`
	Access         access.Access    `json:"-"`
	Messages       []models.Message `json:"messages"`
	HiddenMessages []models.Message `json:"hidden_messages,omitempty"`
	Members        []models.User    `json:"members"`
	Admins         []models.User    `json:"admins"`
	Pending        []models.User    `json:"pending,omitempty"`
	Suspended      []models.User    `json:"suspended"`
	Polls          []models.Poll    `json:"polls"`
	Events         []models.Event   `json:"events"`
}

type Dashboard struct {
	MyRooms            []models.Room              `json:"my_rooms"`
	OpenRooms          []models.Room              `json:"open_rooms"`
	ClosedRooms        []models.Room              `json:"closed_rooms"`
	RoomsCount         int64                      `json:"rooms_count"`
	SearchResults      []models.Room              `json:"search_results,omitempty"`
	Notifications      []models.Notification      `json:"notifications,omitempty"`
	AdminNotifications []models.AdminNotification `json:"admin_notifications,omitempty"`
}

type Profile struct {
	User  *models.User  `json:"user"`
	Rooms []models.Room `json:"rooms"`
}

type MembershipService struct {
	db *database.Database
	settings
}

func NewMembershipService(db *database.Database, opts ...Option) *MembershipService {
	return &MembershipService{db: db, settings: newSettings(opts)}
}

func (in RoomInput) normalize() (RoomInput, error) {
	title, err := requireText("Title", in.Title, maxTitleLen)
	if err != nil {
		return in, err
	}
	in.Title = title
	in.Description = strings.TrimSpace(in.Description)
	return in, nil
}

// CreateRoom makes actor the host, an admin and a member of a new room.
func (s *MembershipService) CreateRoom(ctx context.Context, actor uuid.UUID, in RoomInput) (*models.Room, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	host := actor
	room := &models.Room{
		Title:       in.Title,
		Description: in.Description,
		OpenStatus:  in.Open,
		HostID:      &host,
	}

	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		if err := tx.CreateRoom(ctx, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}
		// gorm skips zero values that have a column default on insert.
		if !in.Open {
			room.OpenStatus = false
			if err := tx.UpdateRoom(ctx, room); err != nil {
				return fmt.Errorf("close room: %w", err)
			}
		}
		if _, err := tx.AddMembership(ctx, room.ID, actor, models.MembershipMember); err != nil {
			return fmt.Errorf("add host membership: %w", err)
		}
		if _, err := tx.AddAdmin(ctx, room.ID, actor); err != nil {
			return fmt.Errorf("add host admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *MembershipService) UpdateRoom(ctx context.Context, roomID, actor uuid.UUID, in RoomInput) (*models.Room, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var room *models.Room
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanManage().Err(); err != nil {
			return err
		}

		if room, err = tx.GetRoom(ctx, roomID); err != nil {
			return err
		}
		room.Title = in.Title
		room.Description = in.Description
		room.OpenStatus = in.Open
		return tx.UpdateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Join admits actor to an open room or files a request for a closed one.
// Repeating the call never creates a second row.
func (s *MembershipService) Join(ctx context.Context, roomID, actor uuid.UUID) (JoinResult, error) {
	var result JoinResult
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}

		status, exists, err := tx.MembershipStatus(ctx, roomID, actor)
		if err != nil {
			return fmt.Errorf("load membership: %w", err)
		}

		switch {
		case exists && status == models.MembershipMember:
			result = JoinAlreadyMember
			return nil
		case exists && room.OpenStatus:
			// the room was opened while the request was pending
			if _, err := tx.AdmitPending(ctx, roomID, actor); err != nil {
				return fmt.Errorf("admit pending: %w", err)
			}
			result = JoinJoined
			return nil
		case exists:
			result = JoinAlreadyPending
			return nil
		}

		status, result = models.MembershipPending, JoinPending
		if room.OpenStatus {
			status, result = models.MembershipMember, JoinJoined
		}
		inserted, err := tx.AddMembership(ctx, roomID, actor, status)
		if err != nil {
			return fmt.Errorf("add membership: %w", err)
		}
		if !inserted {
			// a concurrent join won the insert
			result = JoinAlreadyPending
			if status == models.MembershipMember {
				result = JoinAlreadyMember
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	observability.IncMembershipChange(string(result))
	return result, nil
}

// ResolvePending accepts or rejects target's request. A rejected user has to
// request again.
func (s *MembershipService) ResolvePending(ctx context.Context, roomID, actor, target uuid.UUID, res Resolution) error {
	if res != ResolveAccept && res != ResolveReject {
		return apperr.Validation("Unknown action")
	}

	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanModerate().Err(); err != nil {
			return err
		}

		var changed bool
		if res == ResolveAccept {
			changed, err = tx.AdmitPending(ctx, roomID, target)
		} else {
			changed, err = tx.RemovePending(ctx, roomID, target)
		}
		if err != nil {
			return fmt.Errorf("resolve pending: %w", err)
		}
		if !changed {
			return apperr.ErrNotPending
		}
		return nil
	})
	if err != nil {
		return err
	}
	observability.IncMembershipChange(string(res))
	return nil
}

// DeleteRoom removes the room with its messages, polls, events and
// notifications.
func (s *MembershipService) DeleteRoom(ctx context.Context, roomID, actor uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanManage().Err(); err != nil {
			return err
		}
		return tx.DeleteRoom(ctx, roomID)
	})
}

// moderateTarget loads both parties and checks actor may act on target.
func moderateTarget(ctx context.Context, tx *database.Database, roomID, actor, target uuid.UUID, check func(access.Access) access.Decision) (access.Access, error) {
	a, err := tx.LoadAccess(ctx, roomID, actor)
	if err != nil {
		return access.Access{}, err
	}
	if err := check(a).Err(); err != nil {
		return access.Access{}, err
	}

	t, err := tx.LoadAccess(ctx, roomID, target)
	if err != nil {
		return access.Access{}, err
	}
	if t.Host {
		return access.Access{}, apperr.ErrHostImmutable
	}
	return t, nil
}

func (s *MembershipService) Suspend(ctx context.Context, roomID, actor, target uuid.UUID, reason string) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		t, err := moderateTarget(ctx, tx, roomID, actor, target, access.Access.CanModerate)
		if err != nil {
			return err
		}
		if !t.Member {
			return apperr.ErrNotMember
		}
		_, err = tx.AddSuspension(ctx, &models.RoomSuspension{
			RoomID:      roomID,
			UserID:      target,
			SuspendedBy: actor,
			Reason:      strings.TrimSpace(reason),
		})
		return err
	})
}

func (s *MembershipService) Unsuspend(ctx context.Context, roomID, actor, target uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		if _, err := moderateTarget(ctx, tx, roomID, actor, target, access.Access.CanModerate); err != nil {
			return err
		}
		_, err := tx.RemoveSuspension(ctx, roomID, target)
		return err
	})
}

// AddAdmin grants target admin rights. Adding the host, who always is an
// admin, changes nothing.
func (s *MembershipService) AddAdmin(ctx context.Context, roomID, actor, target uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		t, err := moderateTarget(ctx, tx, roomID, actor, target, access.Access.CanManage)
		if errors.Is(err, apperr.ErrHostImmutable) {
			return nil
		}
		if err != nil {
			return err
		}
		if !t.Member {
			return apperr.ErrNotMember
		}
		_, err = tx.AddAdmin(ctx, roomID, target)
		return err
	})
}

func (s *MembershipService) RemoveAdmin(ctx context.Context, roomID, actor, target uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		if _, err := moderateTarget(ctx, tx, roomID, actor, target, access.Access.CanManage); err != nil {
			return err
		}
		_, err := tx.RemoveAdmin(ctx, roomID, target)
		return err
	})
}

// Leave drops actor's membership or pending request along with any admin
// rights. A suspension outlives the membership.
func (s *MembershipService) Leave(ctx context.Context, roomID, actor uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if a.Host {
			return apperr.ErrHostCannotLeave
		}
		if !a.Member && !a.Pending {
			return apperr.ErrNotMember
		}
		return tx.RemoveUserFromRoom(ctx, roomID, actor)
	})
	if err != nil {
		return err
	}
	observability.IncMembershipChange("left")
	return nil
}

func (s *MembershipService) Access(ctx context.Context, roomID, actor uuid.UUID) (access.Access, error) {
	return s.db.LoadAccess(ctx, roomID, actor)
}

// RoomDetail is the room page. Hidden messages and pending requests are only
// filled in for admins.
func (s *MembershipService) RoomDetail(ctx context.Context, roomID, actor uuid.UUID) (*RoomView, error) {
	view := &RoomView{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanRead().Err(); err != nil {
			return err
		}
		view.Access = a

		if view.Room, err = tx.GetRoom(ctx, roomID); err != nil {
			return err
		}
		if view.Messages, err = tx.RoomMessages(ctx, roomID, false); err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		if view.Members, err = tx.RoomUsers(ctx, roomID, models.MembershipMember); err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if view.Admins, err = tx.RoomAdmins(ctx, roomID); err != nil {
			return fmt.Errorf("list admins: %w", err)
		}
		if view.Suspended, err = tx.SuspendedUsers(ctx, roomID); err != nil {
			return fmt.Errorf("list suspended: %w", err)
		}
		if view.Polls, err = tx.RoomPolls(ctx, roomID); err != nil {
			return fmt.Errorf("list polls: %w", err)
		}
		if view.Events, err = tx.RoomEvents(ctx, roomID); err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		if a.Admin {
			if view.HiddenMessages, err = tx.RoomMessages(ctx, roomID, true); err != nil {
				return fmt.Errorf("list hidden messages: %w", err)
			}
			if view.Pending, err = tx.RoomUsers(ctx, roomID, models.MembershipPending); err != nil {
				return fmt.Errorf("list pending: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Dashboard is the home page. actor is nil for anonymous visitors.
func (s *MembershipService) Dashboard(ctx context.Context, actor *uuid.UUID, q string) (*Dashboard, error) {
	d := &Dashboard{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		var err error
		if d.RoomsCount, err = tx.CountRooms(ctx); err != nil {
			return fmt.Errorf("count rooms: %w", err)
		}
		if d.OpenRooms, err = tx.RoomsByOpenStatus(ctx, true, actor); err != nil {
			return fmt.Errorf("list open rooms: %w", err)
		}
		if d.ClosedRooms, err = tx.RoomsByOpenStatus(ctx, false, actor); err != nil {
			return fmt.Errorf("list closed rooms: %w", err)
		}
		if q = strings.TrimSpace(q); q != "" {
			if d.SearchResults, err = tx.SearchRooms(ctx, q, s.searchLimit); err != nil {
				return fmt.Errorf("search rooms: %w", err)
			}
		}

		if actor == nil {
			return nil
		}
		if d.MyRooms, err = tx.UserRooms(ctx, *actor); err != nil {
			return fmt.Errorf("list my rooms: %w", err)
		}
		if d.Notifications, err = tx.UnreadNotifications(ctx, *actor); err != nil {
			return fmt.Errorf("list notifications: %w", err)
		}
		if d.AdminNotifications, err = tx.UnreadAdminNotifications(ctx, *actor); err != nil {
			return fmt.Errorf("list admin notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *MembershipService) UserProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p := &Profile{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		var err error
		if p.User, err = tx.GetUser(ctx, userID); err != nil {
			return err
		}
		if p.Rooms, err = tx.UserRooms(ctx, userID); err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
