package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
)

type EventInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	ExpiresAt   time.Time
}

type EventView struct {
	Event      *models.Event         `json:"event"`
	Phase      models.Phase          `json:"phase"`
	Accepted   []models.User         `json:"accepted"`
	Rejected   []models.User         `json:"rejected"`
	MyDecision *models.EventDecision `json:"my_decision,omitempty"`
}

type EventService struct {
	db *database.Database
	settings
}

func NewEventService(db *database.Database, opts ...Option) *EventService {
	return &EventService{db: db, settings: newSettings(opts)}
}

func (s *EventService) CreateEvent(ctx context.Context, roomID, actor uuid.UUID, in EventInput) (*models.Event, error) {
	title, err := requireText("Title", in.Title, maxTitleLen)
	if err != nil {
		return nil, err
	}
	window := models.Window{StartsAt: in.StartsAt, ExpiresAt: in.ExpiresAt}
	if !window.Valid(s.now()) {
		return nil, apperr.ErrInvalidWindow
	}

	event := &models.Event{
		RoomID:      roomID,
		CreatedBy:   actor,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Window:      window,
	}
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanModerate().Err(); err != nil {
			return err
		}
		if err := tx.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) EventDetail(ctx context.Context, eventID, actor uuid.UUID) (*EventView, error) {
	view := &EventView{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		event, err := tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		a, err := tx.LoadAccess(ctx, event.RoomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanRead().Err(); err != nil {
			return err
		}

		view.Event = event
		view.Phase = event.Phase(s.now())
		if view.Accepted, err = tx.EventUsers(ctx, eventID, models.EventAccepted); err != nil {
			return fmt.Errorf("list accepted: %w", err)
		}
		if view.Rejected, err = tx.EventUsers(ctx, eventID, models.EventRejected); err != nil {
			return fmt.Errorf("list rejected: %w", err)
		}

		resp, err := tx.FindResponse(ctx, eventID, actor)
		switch {
		case err == nil:
			view.MyDecision = &resp.Decision
		case apperr.KindOf(err) != apperr.KindNotFound:
			return fmt.Errorf("load response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RespondEvent puts actor in the accepted or rejected set. A user gets one
// answer per event.
func (s *EventService) RespondEvent(ctx context.Context, eventID, actor uuid.UUID, decision models.EventDecision) error {
	if decision != models.EventAccepted && decision != models.EventRejected {
		return apperr.Validation("Unknown response")
	}

	return s.db.Transaction(ctx, func(tx *database.Database) error {
		event, err := tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		a, err := tx.LoadAccess(ctx, event.RoomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanParticipate().Err(); err != nil {
			return err
		}
		if event.HasEnded(s.now()) {
			return apperr.ErrEventEnded
		}

		recorded, err := tx.RecordResponse(ctx, &models.EventResponse{EventID: eventID, UserID: actor, Decision: decision})
		if err != nil {
			return fmt.Errorf("record response: %w", err)
		}
		if !recorded {
			return apperr.ErrAlreadyResponded
		}
		return nil
	})
}
