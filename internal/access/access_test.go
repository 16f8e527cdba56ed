package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/apperr"
)

func TestCanParticipate(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		want   error
	}{
		{name: "outsider", access: Access{}, want: apperr.ErrNotMember},
		{name: "pending", access: Access{Pending: true}, want: apperr.ErrNotMember},
		{name: "suspended member", access: Access{Member: true, Suspended: true}, want: apperr.ErrSuspended},
		{name: "member", access: Access{Member: true}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.access.CanParticipate().Err()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSuspendedMemberCanStillRead(t *testing.T) {
	a := Access{Member: true, Suspended: true}
	assert.True(t, a.CanRead().Allowed())
}

func TestAdminAndHostChecksAreIndependentOfMembership(t *testing.T) {
	a := Access{Admin: true}
	assert.True(t, a.CanModerate().Allowed())
	assert.ErrorIs(t, a.CanManage().Err(), apperr.ErrNotHost)

	h := Access{Host: true}
	assert.ErrorIs(t, h.CanModerate().Err(), apperr.ErrNotAdmin)
	assert.True(t, h.CanManage().Allowed())
}

func TestAllowedDecisionHasNilError(t *testing.T) {
	var err error = Allow().Err()
	assert.Nil(t, err)
}
