package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/observability"
	"github.com/thereayou/roomboard/internal/rabbitmq"
)

type NotifyInput struct {
	RoomID      uuid.UUID
	ActorID     uuid.UUID
	RecipientID uuid.UUID
	MessageID   uuid.UUID
	Kind        models.NotificationKind
}

// NotificationPair is what one comment or like produces: a record for the
// message author and a shared record for the room's admins.
type NotificationPair struct {
	User  *models.Notification
	Admin *models.AdminNotification
}

// NotificationEvent is the broker payload for a created pair.
type NotificationEvent struct {
	NotificationID      uuid.UUID `json:"notification_id"`
	AdminNotificationID uuid.UUID `json:"admin_notification_id"`
	Kind                string    `json:"kind"`
	RoomID              uuid.UUID `json:"room_id"`
	MessageID           uuid.UUID `json:"message_id"`
	ActorID             uuid.UUID `json:"actor_id"`
	RecipientID         uuid.UUID `json:"recipient_id"`
}

type NotificationService struct {
	db        *database.Database
	publisher rabbitmq.Publisher
	settings
}

func NewNotificationService(db *database.Database, publisher rabbitmq.Publisher, opts ...Option) *NotificationService {
	if publisher == nil {
		publisher = rabbitmq.NewNoop("no publisher configured")
	}
	return &NotificationService{db: db, publisher: publisher, settings: newSettings(opts)}
}

// Notify writes both records through tx so they commit with the comment or
// like that caused them. It returns nil when the actor is the recipient and
// self notifications are off.
func (s *NotificationService) Notify(ctx context.Context, tx *database.Database, in NotifyInput) (*NotificationPair, error) {
	if in.ActorID == in.RecipientID && !s.notifySelf {
		return nil, nil
	}

	fields := models.NotificationFields{
		Kind:        in.Kind,
		ActorID:     in.ActorID,
		RecipientID: in.RecipientID,
		RoomID:      in.RoomID,
		MessageID:   in.MessageID,
	}
	pair := &NotificationPair{
		User:  &models.Notification{NotificationFields: fields},
		Admin: &models.AdminNotification{NotificationFields: fields},
	}

	if err := tx.SaveNotification(ctx, pair.User); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	if err := tx.SaveAdminNotification(ctx, pair.Admin); err != nil {
		return nil, fmt.Errorf("save admin notification: %w", err)
	}
	return pair, nil
}

// Publish announces a committed pair. Failures are logged, never returned.
func (s *NotificationService) Publish(ctx context.Context, pair *NotificationPair) {
	if pair == nil {
		return
	}
	observability.IncNotification(pair.User.Kind.String())

	n := pair.User
	routingKey := "notification." + n.Kind.String()
	env := rabbitmq.NewEnvelope(routingKey, observability.RequestIDFromContext(ctx), NotificationEvent{
		NotificationID:      n.ID,
		AdminNotificationID: pair.Admin.ID,
		Kind:                n.Kind.String(),
		RoomID:              n.RoomID,
		MessageID:           n.MessageID,
		ActorID:             n.ActorID,
		RecipientID:         n.RecipientID,
	})
	if err := s.publisher.Publish(ctx, routingKey, env); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("notification publish failed routing_key=%s: %v", routingKey, err)
	}
}

// MarkRead marks a notification read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, actor uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		n, err := tx.GetNotification(ctx, notificationID)
		if err != nil {
			return err
		}
		if n.RecipientID != actor {
			return apperr.ErrNotRecipient
		}
		return tx.MarkNotificationRead(ctx, notificationID)
	})
}

// MarkAdminRead marks the shared admin record read for every admin of the
// room.
func (s *NotificationService) MarkAdminRead(ctx context.Context, notificationID, actor uuid.UUID) error {
	return s.db.Transaction(ctx, func(tx *database.Database) error {
		n, err := tx.GetAdminNotification(ctx, notificationID)
		if err != nil {
			return err
		}
		admin, err := tx.IsAdmin(ctx, n.RoomID, actor)
		if err != nil {
			return fmt.Errorf("check admin: %w", err)
		}
		if !admin {
			return apperr.ErrNotRecipient
		}
		return tx.MarkAdminNotificationRead(ctx, notificationID)
	})
}

func (s *NotificationService) Unread(ctx context.Context, actor uuid.UUID) ([]models.Notification, error) {
	return s.db.UnreadNotifications(ctx, actor)
}

func (s *NotificationService) UnreadAdmin(ctx context.Context, actor uuid.UUID) ([]models.AdminNotification, error) {
	return s.db.UnreadAdminNotifications(ctx, actor)
}
