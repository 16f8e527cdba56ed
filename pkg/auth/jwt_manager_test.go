package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.Generate(id)
	require.NoError(t, err)

	got, err := m.UserID(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	exp, err := m.Expiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).UserID(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.Generate(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := ExtractTokenFromHeader(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "bearer abc")
	token, err := ExtractTokenFromHeader(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	r.Header.Set("Authorization", "Basic abc")
	_, err = ExtractTokenFromHeader(r)
	assert.Error(t, err)
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()
	now := time.Now()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "tok", time.Minute))
	revoked, err := b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
