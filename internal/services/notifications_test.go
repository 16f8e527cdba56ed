package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/models"
	"github.com/thereayou/roomboard/internal/testutil"
)

func TestNotify_CreatesPair(t *testing.T) {
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	actor := testutil.CreateUser(t, e.db, "actor")
	room := testutil.CreateRoom(t, e.db, author, "r", true)
	msg, err := e.content.PostMessage(e.ctx, room.ID, author.ID, MessageInput{Body: "b"})
	require.NoError(t, err)

	var pair *NotificationPair
	err = e.db.Transaction(e.ctx, func(tx *database.Database) error {
		var err error
		pair, err = e.notifications.Notify(e.ctx, tx, NotifyInput{
			RoomID:      room.ID,
			ActorID:     actor.ID,
			RecipientID: author.ID,
			MessageID:   msg.ID,
			Kind:        models.NotificationComment,
		})
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, pair.User.MessageID, pair.Admin.MessageID)
	assert.NotEqual(t, pair.User.ID, pair.Admin.ID)
}

func TestNotify_RolledBackWithTransaction(t *testing.T) {
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	actor := testutil.CreateUser(t, e.db, "actor")
	room := testutil.CreateRoom(t, e.db, author, "r", true)
	msg, err := e.content.PostMessage(e.ctx, room.ID, author.ID, MessageInput{Body: "b"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = e.db.Transaction(e.ctx, func(tx *database.Database) error {
		if _, err := e.notifications.Notify(e.ctx, tx, NotifyInput{
			RoomID: room.ID, ActorID: actor.ID, RecipientID: author.ID, MessageID: msg.ID, Kind: models.NotificationLike,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	unread, err := e.notifications.Unread(e.ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkRead_RecipientOnly(t *testing.T) {
	e := newEnv(t)
	e.expectPublish()
	author := testutil.CreateUser(t, e.db, "author")
	fan := testutil.CreateUser(t, e.db, "fan")
	room := testutil.CreateRoom(t, e.db, author, "r", true)
	testutil.AddMember(t, e.db, room, fan)
	msg, err := e.content.PostMessage(e.ctx, room.ID, author.ID, MessageInput{Body: "b"})
	require.NoError(t, err)
	_, err = e.content.PostComment(e.ctx, msg.ID, fan.ID, "c")
	require.NoError(t, err)

	unread, err := e.notifications.Unread(e.ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	err = e.notifications.MarkRead(e.ctx, unread[0].ID, fan.ID)
	assert.ErrorIs(t, err, apperr.ErrNotRecipient)

	require.NoError(t, e.notifications.MarkRead(e.ctx, unread[0].ID, author.ID))
	unread, err = e.notifications.Unread(e.ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkAdminRead_SharedAcrossAdmins(t *testing.T) {
	e := newEnv(t)
	e.expectPublish()
	host := testutil.CreateUser(t, e.db, "host")
	admin := testutil.CreateUser(t, e.db, "admin")
	member := testutil.CreateUser(t, e.db, "member")
	room := testutil.CreateRoom(t, e.db, host, "r", true)
	testutil.AddAdmin(t, e.db, room, admin)
	testutil.AddMember(t, e.db, room, member)
	msg, err := e.content.PostMessage(e.ctx, room.ID, member.ID, MessageInput{Body: "b"})
	require.NoError(t, err)
	_, err = e.content.ToggleLike(e.ctx, msg.ID, host.ID)
	require.NoError(t, err)

	forHost, err := e.notifications.UnreadAdmin(e.ctx, host.ID)
	require.NoError(t, err)
	require.Len(t, forHost, 1)
	forAdmin, err := e.notifications.UnreadAdmin(e.ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, forAdmin, 1)
	assert.Equal(t, forHost[0].ID, forAdmin[0].ID)

	err = e.notifications.MarkAdminRead(e.ctx, forHost[0].ID, member.ID)
	assert.ErrorIs(t, err, apperr.ErrNotRecipient)

	require.NoError(t, e.notifications.MarkAdminRead(e.ctx, forAdmin[0].ID, admin.ID))

	forHost, err = e.notifications.UnreadAdmin(e.ctx, host.ID)
	require.NoError(t, err)
	assert.Empty(t, forHost)

	none, err := e.notifications.UnreadAdmin(e.ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPublish_FailureIsNotReturned(t *testing.T) {
	e := newEnv(t)
	e.publisher.On("Publish", mock.Anything, "notification.comment", mock.Anything).Return(errors.New("broker down")).Once()
	author := testutil.CreateUser(t, e.db, "author")
	fan := testutil.CreateUser(t, e.db, "fan")
	room := testutil.CreateRoom(t, e.db, author, "r", true)
	testutil.AddMember(t, e.db, room, fan)
	msg, err := e.content.PostMessage(e.ctx, room.ID, author.ID, MessageInput{Body: "b"})
	require.NoError(t, err)

	_, err = e.content.PostComment(e.ctx, msg.ID, fan.ID, "c")
	require.NoError(t, err)
	e.publisher.AssertExpectations(t)
}
