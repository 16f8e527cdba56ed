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
	"github.com/thereayou/roomboard/internal/observability"
)

type PollInput struct {
	Question  string
	StartsAt  time.Time
	ExpiresAt time.Time
	Choices   []string
}

type PollView struct {
	Poll       *models.Poll `json:"poll"`
	Phase      models.Phase `json:"phase"`
	HasVoted   bool         `json:"has_voted"`
	MyChoice   *uuid.UUID   `json:"my_choice,omitempty"`
	TotalVotes int          `json:"total_votes"`
	IsOwner    bool         `json:"is_owner"`
}

type PollService struct {
	db *database.Database
	settings
}

func NewPollService(db *database.Database, opts ...Option) *PollService {
	return &PollService{db: db, settings: newSettings(opts)}
}

func (s *PollService) CreatePoll(ctx context.Context, roomID, actor uuid.UUID, in PollInput) (*models.Poll, error) {
	question, err := requireText("Question", in.Question, maxTitleLen)
	if err != nil {
		return nil, err
	}
	window := models.Window{StartsAt: in.StartsAt, ExpiresAt: in.ExpiresAt}
	if !window.Valid(s.now()) {
		return nil, apperr.ErrInvalidWindow
	}

	poll := &models.Poll{RoomID: roomID, CreatedBy: actor, Question: question, Window: window}
	for _, text := range in.Choices {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, err := requireText("Choice", text, maxTitleLen); err != nil {
			return nil, err
		}
		poll.Choices = append(poll.Choices, models.Choice{Text: text})
	}

	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		a, err := tx.LoadAccess(ctx, roomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanModerate().Err(); err != nil {
			return err
		}
		if err := tx.SavePoll(ctx, poll); err != nil {
			return fmt.Errorf("save poll: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *PollService) PollDetail(ctx context.Context, pollID, actor uuid.UUID) (*PollView, error) {
	view := &PollView{}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		poll, err := tx.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}
		a, err := tx.LoadAccess(ctx, poll.RoomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanRead().Err(); err != nil {
			return err
		}

		view.Poll = poll
		view.Phase = poll.Phase(s.now())
		view.IsOwner = poll.CreatedBy == actor
		for _, c := range poll.Choices {
			view.TotalVotes += c.Votes
		}

		vote, err := tx.FindVote(ctx, pollID, actor)
		switch {
		case err == nil:
			view.HasVoted = true
			view.MyChoice = &vote.ChoiceID
		case apperr.KindOf(err) != apperr.KindNotFound:
			return fmt.Errorf("load vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CastVote records one vote per user per poll. The counter is incremented in
// storage so concurrent voters do not lose updates.
func (s *PollService) CastVote(ctx context.Context, pollID, actor, choiceID uuid.UUID) error {
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		poll, err := tx.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}
		a, err := tx.LoadAccess(ctx, poll.RoomID, actor)
		if err != nil {
			return err
		}
		if err := a.CanParticipate().Err(); err != nil {
			return err
		}

		switch poll.Phase(s.now()) {
		case models.PhaseEnded:
			return apperr.ErrPollEnded
		case models.PhasePending:
			return apperr.ErrPollNotStarted
		}

		valid := false
		if choiceID != uuid.Nil {
			if valid, err = tx.ChoiceInPoll(ctx, pollID, choiceID); err != nil {
				return fmt.Errorf("check choice: %w", err)
			}
		}
		if !valid {
			if _, err := tx.FindVote(ctx, pollID, actor); err == nil {
				return apperr.ErrAlreadyVoted
			}
			return apperr.ErrChoiceNotFound
		}

		recorded, err := tx.RecordVote(ctx, &models.PollVote{PollID: pollID, UserID: actor, ChoiceID: choiceID})
		if err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
		if !recorded {
			return apperr.ErrAlreadyVoted
		}
		if err := tx.IncrementVotes(ctx, choiceID); err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	observability.IncVote()
	return nil
}

// AddChoice appends a choice. Only the poll's creator may, and only until the
// poll ends.
func (s *PollService) AddChoice(ctx context.Context, pollID, actor uuid.UUID, text string) (*models.Choice, error) {
	text, err := requireText("Choice", text, maxTitleLen)
	if err != nil {
		return nil, err
	}

	choice := &models.Choice{PollID: pollID, Text: text}
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		poll, err := tx.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}
		if poll.CreatedBy != actor {
			return apperr.ErrNotPollOwner
		}
		if poll.HasEnded(s.now()) {
			return apperr.ErrPollEnded
		}
		if err := tx.SaveChoice(ctx, choice); err != nil {
			return fmt.Errorf("save choice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return choice, nil
}
