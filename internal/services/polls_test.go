package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/testutil"
)

type pollFixture struct {
	*env
	host   *models.User
	member *models.User
	room   *models.Room
	poll   *models.Poll
}

func newPollFixture(t *testing.T, startsIn time.Duration) *pollFixture {
	t.Helper()

	e := newEnv(t)
	f := &pollFixture{env: e}
	f.host = testutil.CreateUser(t, e.db, "host")
	f.member = testutil.CreateUser(t, e.db, "member")
	f.room = testutil.CreateRoom(t, e.db, f.host, "r", true)
	testutil.AddMember(t, e.db, f.room, f.member)

	var err error
	f.poll, err = e.polls.CreatePoll(e.ctx, f.room.ID, f.host.ID, PollInput{
		Question:  "Lunch?",
		StartsAt:  e.clock.Now().Add(startsIn),
		ExpiresAt: e.clock.Now().Add(startsIn + time.Hour),
		Choices:   []string{"pizza", " ", "sushi"},
	})
	require.NoError(t, err)
	return f
}

func (f *pollFixture) votes(t *testing.T, choiceID uuid.UUID) int {
	t.Helper()

	poll, err := f.db.GetPoll(f.ctx, f.poll.ID)
	require.NoError(t, err)
	for _, c := range poll.Choices {
		if c.ID == choiceID {
			return c.Votes
		}
	}
	t.Fatalf("choice %s not in poll", choiceID)
	return 0
}

func TestCreatePoll(t *testing.T) {
	f := newPollFixture(t, 0)
	assert.Len(t, f.poll.Choices, 2)

	_, err := f.polls.CreatePoll(f.ctx, f.room.ID, f.member.ID, PollInput{
		Question:  "q",
		StartsAt:  f.clock.Now(),
		ExpiresAt: f.clock.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperr.ErrNotAdmin)
}

func TestCreatePoll_InvalidWindow(t *testing.T) {
	f := newPollFixture(t, 0)
	now := f.clock.Now()

	cases := map[string][2]time.Time{
		"reversed":      {now.Add(time.Hour), now},
		"empty":         {now, now},
		"already ended": {now.Add(-2 * time.Hour), now.Add(-time.Hour)},
		"ends now":      {now.Add(-time.Hour), now},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.polls.CreatePoll(f.ctx, f.room.ID, f.host.ID, PollInput{Question: "q", StartsAt: w[0], ExpiresAt: w[1]})
			assert.ErrorIs(t, err, apperr.ErrInvalidWindow)
		})
	}
}

func TestCastVote_OnceOnly(t *testing.T) {
	f := newPollFixture(t, 0)
	choice := f.poll.Choices[0]

	require.NoError(t, f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, choice.ID))
	assert.Equal(t, 1, f.votes(t, choice.ID))

	err := f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, f.poll.Choices[1].ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVoted)
	assert.Equal(t, 1, f.votes(t, choice.ID))
	assert.Equal(t, 0, f.votes(t, f.poll.Choices[1].ID))

	err = f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVoted)

	view, err := f.polls.PollDetail(f.ctx, f.poll.ID, f.member.ID)
	require.NoError(t, err)
	assert.True(t, view.HasVoted)
	require.NotNil(t, view.MyChoice)
	assert.Equal(t, choice.ID, *view.MyChoice)
	assert.Equal(t, 1, view.TotalVotes)
	assert.Equal(t, models.PhaseActive, view.Phase)
	assert.False(t, view.IsOwner)
}

func TestCastVote_Rejections(t *testing.T) {
	f := newPollFixture(t, 0)
	outsider := testutil.CreateUser(t, f.db, "outsider")

	err := f.polls.CastVote(f.ctx, f.poll.ID, outsider.ID, f.poll.Choices[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotMember)

	err = f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrChoiceNotFound)

	other, err := f.polls.CreatePoll(f.ctx, f.room.ID, f.host.ID, PollInput{
		Question:  "other",
		StartsAt:  f.clock.Now(),
		ExpiresAt: f.clock.Now().Add(time.Hour),
		Choices:   []string{"x"},
	})
	require.NoError(t, err)
	err = f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, other.Choices[0].ID)
	assert.ErrorIs(t, err, apperr.ErrChoiceNotFound)

	require.NoError(t, f.membership.Suspend(f.ctx, f.room.ID, f.host.ID, f.member.ID, ""))
	err = f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, f.poll.Choices[0].ID)
	assert.ErrorIs(t, err, apperr.ErrSuspended)
}

func TestCastVote_FollowsPhase(t *testing.T) {
	f := newPollFixture(t, time.Hour)
	choice := f.poll.Choices[0]

	err := f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, choice.ID)
	assert.ErrorIs(t, err, apperr.ErrPollNotStarted)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.polls.CastVote(f.ctx, f.poll.ID, f.host.ID, choice.ID))

	f.clock.Advance(time.Hour)
	err = f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, choice.ID)
	assert.ErrorIs(t, err, apperr.ErrPollEnded)

	view, err := f.polls.PollDetail(f.ctx, f.poll.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseEnded, view.Phase)
}

func TestCastVote_ConcurrentVotersOnSameChoice(t *testing.T) {
	f := newPollFixture(t, 0)
	choice := f.poll.Choices[0]
	second := testutil.CreateUser(t, f.db, "second")
	testutil.AddMember(t, f.db, f.room, second)

	voters := []uuid.UUID{f.member.ID, second.ID}
	errs := make([]error, len(voters))
	var wg sync.WaitGroup
	for i, voter := range voters {
		wg.Add(1)
		go func(i int, voter uuid.UUID) {
			defer wg.Done()
			errs[i] = f.polls.CastVote(f.ctx, f.poll.ID, voter, choice.ID)
		}(i, voter)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.votes(t, choice.ID))
}

func TestAddChoice(t *testing.T) {
	f := newPollFixture(t, 0)
	testutil.AddAdmin(t, f.db, f.room, f.member)

	_, err := f.polls.AddChoice(f.ctx, f.poll.ID, f.member.ID, "tacos")
	assert.ErrorIs(t, err, apperr.ErrNotPollOwner)

	_, err = f.polls.AddChoice(f.ctx, f.poll.ID, f.host.ID, "  ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	choice, err := f.polls.AddChoice(f.ctx, f.poll.ID, f.host.ID, "tacos")
	require.NoError(t, err)
	require.NoError(t, f.polls.CastVote(f.ctx, f.poll.ID, f.member.ID, choice.ID))

	f.clock.Advance(2 * time.Hour)
	_, err = f.polls.AddChoice(f.ctx, f.poll.ID, f.host.ID, "late")
	assert.ErrorIs(t, err, apperr.ErrPollEnded)
}
