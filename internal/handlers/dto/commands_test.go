package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/models"
)

type form map[string]string

func (f form) GetPostForm(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func TestDecodeMessageCommand(t *testing.T) {
	cases := []struct {
		name string
		in   form
		want MessageCommand
	}{
		{"comment", form{"comment_submit": "", "body": "hi"}, CommentCommand{Body: "hi"}},
		{"like", form{"like_submit": "1"}, LikeCommand{}},
		{"hide", form{"hide_submit": "1"}, HideCommand{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeMessageCommand(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := DecodeMessageCommand(form{"body": "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDecodeHomeCommand(t *testing.T) {
	id := uuid.New()

	cmd, err := DecodeHomeCommand(form{"read-notification": "", "notification_id": id.String()})
	require.NoError(t, err)
	assert.Equal(t, ReadNotification{ID: id}, cmd)

	cmd, err = DecodeHomeCommand(form{"read-admin-notification": "", "admin_notification_id": id.String()})
	require.NoError(t, err)
	assert.Equal(t, ReadAdminNotification{ID: id}, cmd)

	_, err = DecodeHomeCommand(form{"read-notification": "", "notification_id": "nope"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDecodeResolveRequest(t *testing.T) {
	id := uuid.New()

	req, err := DecodeResolveRequest(form{"action": "accept", "user": id.String()})
	require.NoError(t, err)
	assert.Equal(t, ResolveRequest{User: id, Accept: true}, req)

	req, err = DecodeResolveRequest(form{"action": "reject", "user": id.String()})
	require.NoError(t, err)
	assert.False(t, req.Accept)

	_, err = DecodeResolveRequest(form{"action": "ban", "user": id.String()})
	assert.Error(t, err)
}

func TestDecodeVote(t *testing.T) {
	id := uuid.New()

	got, err := DecodeVote(form{"vote": "", "choice": id.String()})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = DecodeVote(form{"vote": ""})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)

	_, err = DecodeVote(form{})
	assert.Error(t, err)
}

func TestDecodeEventResponse(t *testing.T) {
	d, err := DecodeEventResponse(form{"accepted": "1"})
	require.NoError(t, err)
	assert.Equal(t, models.EventAccepted, d)

	d, err = DecodeEventResponse(form{"rejected": "1"})
	require.NoError(t, err)
	assert.Equal(t, models.EventRejected, d)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("starts_at", "2024-05-01T10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got)

	got, err = ParseTime("starts_at", "2024-05-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), got)

	_, err = ParseTime("starts_at", "tomorrow")
	assert.ErrorIs(t, err, apperr.ErrInvalidWindow)

	_, err = ParseTime("starts_at", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRoomFormIsOpen(t *testing.T) {
	closed := false
	assert.True(t, RoomForm{}.IsOpen())
	assert.False(t, RoomForm{Open: &closed}.IsOpen())
}
