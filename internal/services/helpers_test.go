package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/mocks"
	"github.com/thereayou/roomboard/internal/testutil"
)

// clock is a settable time source for poll and event phases.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	ctx           context.Context
	db            *database.Database
	clock         *clock
	publisher     *mocks.PublisherMock
	membership    *MembershipService
	content       *ContentService
	polls         *PollService
	events        *EventService
	notifications *NotificationService
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()

	db := testutil.NewDatabase(t)
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(c.Now)}, opts...)
	publisher := new(mocks.PublisherMock)
	notifications := NewNotificationService(db, publisher, opts...)

	return &env{
		ctx:           context.Background(),
		db:            db,
		clock:         c,
		publisher:     publisher,
		membership:    NewMembershipService(db, opts...),
		content:       NewContentService(db, notifications),
		polls:         NewPollService(db, opts...),
		events:        NewEventService(db, opts...),
		notifications: notifications,
	}
}

// expectPublish accepts any number of broker publishes.
func (e *env) expectPublish() {
	e.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}
