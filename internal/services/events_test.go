package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/testutil"
)

func TestCreateEvent(t *testing.T) {
	e := newEnv(t)
	host := testutil.CreateUser(t, e.db, "host")
	member := testutil.CreateUser(t, e.db, "member")
	room := testutil.CreateRoom(t, e.db, host, "r", true)
	testutil.AddMember(t, e.db, room, member)
	now := e.clock.Now()

	_, err := e.events.CreateEvent(e.ctx, room.ID, member.ID, EventInput{Title: "t", StartsAt: now, ExpiresAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, apperr.ErrNotAdmin)

	_, err = e.events.CreateEvent(e.ctx, room.ID, host.ID, EventInput{Title: "t", StartsAt: now.Add(time.Hour), ExpiresAt: now})
	assert.ErrorIs(t, err, apperr.ErrInvalidWindow)

	_, err = e.events.CreateEvent(e.ctx, room.ID, host.ID, EventInput{Title: "", StartsAt: now, ExpiresAt: now.Add(time.Hour)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	event, err := e.events.CreateEvent(e.ctx, room.ID, host.ID, EventInput{Title: "t", Description: " d ", StartsAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "d", event.Description)
}

func TestRespondEvent_OneAnswerPerUser(t *testing.T) {
	e := newEnv(t)
	host := testutil.CreateUser(t, e.db, "host")
	member := testutil.CreateUser(t, e.db, "member")
	room := testutil.CreateRoom(t, e.db, host, "r", true)
	testutil.AddMember(t, e.db, room, member)
	now := e.clock.Now()
	event, err := e.events.CreateEvent(e.ctx, room.ID, host.ID, EventInput{Title: "t", StartsAt: now.Add(time.Hour), ExpiresAt: now.Add(2 * time.Hour)})
	require.NoError(t, err)

	require.NoError(t, e.events.RespondEvent(e.ctx, event.ID, member.ID, models.EventAccepted))

	err = e.events.RespondEvent(e.ctx, event.ID, member.ID, models.EventRejected)
	assert.ErrorIs(t, err, apperr.ErrAlreadyResponded)
	err = e.events.RespondEvent(e.ctx, event.ID, member.ID, models.EventAccepted)
	assert.ErrorIs(t, err, apperr.ErrAlreadyResponded)

	require.NoError(t, e.events.RespondEvent(e.ctx, event.ID, host.ID, models.EventRejected))

	view, err := e.events.EventDetail(e.ctx, event.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhasePending, view.Phase)
	require.Len(t, view.Accepted, 1)
	assert.Equal(t, member.ID, view.Accepted[0].ID)
	require.Len(t, view.Rejected, 1)
	assert.Equal(t, host.ID, view.Rejected[0].ID)
	require.NotNil(t, view.MyDecision)
	assert.Equal(t, models.EventAccepted, *view.MyDecision)
}

func TestRespondEvent_Rejections(t *testing.T) {
	e := newEnv(t)
	host := testutil.CreateUser(t, e.db, "host")
	member := testutil.CreateUser(t, e.db, "member")
	outsider := testutil.CreateUser(t, e.db, "outsider")
	room := testutil.CreateRoom(t, e.db, host, "r", true)
	testutil.AddMember(t, e.db, room, member)
	now := e.clock.Now()
	event, err := e.events.CreateEvent(e.ctx, room.ID, host.ID, EventInput{Title: "t", StartsAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	err = e.events.RespondEvent(e.ctx, event.ID, outsider.ID, models.EventAccepted)
	assert.ErrorIs(t, err, apperr.ErrNotMember)

	err = e.events.RespondEvent(e.ctx, event.ID, member.ID, models.EventDecision("maybe"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.events.EventDetail(e.ctx, event.ID, outsider.ID)
	assert.ErrorIs(t, err, apperr.ErrNotMember)

	e.clock.Advance(time.Hour)
	err = e.events.RespondEvent(e.ctx, event.ID, member.ID, models.EventAccepted)
	assert.ErrorIs(t, err, apperr.ErrEventEnded)
}
