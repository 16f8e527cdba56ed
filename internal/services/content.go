package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/access"
	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
)

type MessageInput struct {
	Title string
	Body  string
}

type MessageView struct {
	Message       *models.Message  `json:"message"`
	LikesCount    int64            `json:"likes_count"`
	LikedByMe     bool             `json:"liked_by_me"`
	Comments      []models.Comment `json:"comments"`
	CommentsCount int              `json:"comments_count"`
	CanModerate   bool             `json:"can_moderate"`
}

type ContentService struct {
	db            *database.Database
	notifications *NotificationService
}

func NewContentService(db *database.Database, notifications *NotificationService) *ContentService {
	return &ContentService{db: db, notifications: notifications}
}

func (s *ContentService) PostMessage(ctx context.Context, roomID, actor uuid.UUID, in MessageInput) (*models.Message, error) {
	body, err := requireText("Body", in.Body, 0)
	if err != nil {
		return nil, err
	}
	message := &models.Message{RoomID: roomID, AuthorID: actor, Body: body}
	if title := strings.TrimSpace(in.Title); title != "" {
		if utf8.RuneCountInString(title) > maxTitleLen {
			return nil, apperr.Validation("Title is too long")
		}
		message.Title = &title
	}

	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanParticipate().Err(); err != nil {
			return err
		}
		if err := tx.SaveMessage(ctx, message); err != nil {
			return fmt.Errorf("save message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// visibleMessage loads a message and actor's standing in its room. Hidden
// messages do not exist for non-admins.
func visibleMessage(ctx context.Context, tx *database.Database, messageID, actor uuid.UUID) (*models.Message, access.Access, error) {
	message, err := tx.GetMessage(ctx, messageID)
	if err != nil {
		return nil, access.Access{}, err
	}
	a, err := tx.LoadAccess(ctx, message.RoomID, actor)
	if err != nil {
		return nil, access.Access{}, err
	}
	if err := a.CanRead().Err(); err != nil {
		return nil, access.Access{}, err
	}
	if message.HiddenStatus && !a.Admin {
		return nil, access.Access{}, apperr.ErrNotFound
	}
	return message, a, nil
}

func (s *ContentService) MessageDetail(ctx context.Context, messageID, actor uuid.UUID) (*MessageView, error) {
	view := &MessageView{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		message, a, err := visibleMessage(ctx, tx, messageID, actor)
		if err != nil {
			return err
		}
		view.Message = message
		view.CanModerate = a.Admin

		if view.LikesCount, err = tx.CountLikes(ctx, messageID); err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		if view.LikedByMe, err = tx.HasLiked(ctx, messageID, actor); err != nil {
			return fmt.Errorf("check like: %w", err)
		}
		if view.Comments, err = tx.MessageComments(ctx, messageID); err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		view.CommentsCount = len(view.Comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ToggleLike likes or unlikes the message and reports the new state. Only a
// new like notifies the author.
func (s *ContentService) ToggleLike(ctx context.Context, messageID, actor uuid.UUID) (bool, error) {
	var (
		liked bool
		pair  *NotificationPair
	)
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		message, a, err := visibleMessage(ctx, tx, messageID, actor)
		if err != nil {
			return err
		}
		if err := a.CanParticipate().Err(); err != nil {
			return err
		}

		removed, err := tx.RemoveLike(ctx, messageID, actor)
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}
		if removed {
			liked = false
			return nil
		}

		if _, err := tx.AddLike(ctx, messageID, actor); err != nil {
			return fmt.Errorf("add like: %w", err)
		}
		liked = true

		pair, err = s.notifications.Notify(ctx, tx, NotifyInput{
			RoomID:      message.RoomID,
			ActorID:     actor,
			RecipientID: message.AuthorID,
			MessageID:   message.ID,
			Kind:        models.NotificationLike,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	s.notifications.Publish(ctx, pair)
	return liked, nil
}

func (s *ContentService) PostComment(ctx context.Context, messageID, actor uuid.UUID, body string) (*models.Comment, error) {
	body, err := requireText("Body", body, 0)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{MessageID: messageID, AuthorID: actor, Body: body}
	var pair *NotificationPair
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		message, a, err := visibleMessage(ctx, tx, messageID, actor)
		if err != nil {
			return err
		}
		if err := a.CanParticipate().Err(); err != nil {
			return err
		}

		if err := tx.SaveComment(ctx, comment); err != nil {
			return fmt.Errorf("save comment: %w", err)
		}

		pair, err = s.notifications.Notify(ctx, tx, NotifyInput{
			RoomID:      message.RoomID,
			ActorID:     actor,
			RecipientID: message.AuthorID,
			MessageID:   message.ID,
			Kind:        models.NotificationComment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Publish(ctx, pair)
	return comment, nil
}

// ToggleHidden flips the message's hidden flag and returns the new value.
func (s *ContentService) ToggleHidden(ctx context.Context, messageID, actor uuid.UUID) (bool, error) {
	var hidden bool
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		message, err := tx.GetMessage(ctx, messageID)
		if err != nil {
			return err
		}
		a, err := tx.LoadAccess(ctx, message.RoomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanModerate().Err(); err != nil {
			return err
		}
		hidden, err = tx.ToggleHidden(ctx, messageID)
		return err
	})
	return hidden, err
}
