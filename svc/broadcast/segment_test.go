package broadcast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/svc/broadcast"
)

func TestParseSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wantRole  broadcast.Role
		wantQuery bool
		wantEmail bool
	}{
		{name: "ALL", wantRole: broadcast.RoleAny, wantQuery: true, wantEmail: true},
		{name: "USERS", wantRole: broadcast.RoleUser, wantQuery: true},
		{name: "VENDORS", wantRole: broadcast.RoleVendor, wantQuery: true},
		{name: "ADMINS", wantRole: broadcast.RoleAdmin, wantQuery: true, wantEmail: true},
		{name: "CUSTOM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := broadcast.ParseSegment(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, s.String())

			role, ok := s.Role()
			assert.Equal(t, tt.wantQuery, ok)
			assert.Equal(t, tt.wantRole, role)
			assert.Equal(t, tt.wantEmail, s.SendsEmail())
		})
	}
}

func TestParseSegment_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "all", "EVERYONE", "USER"} {
		_, err := broadcast.ParseSegment(name)
		assert.ErrorIs(t, err, broadcast.ErrInvalidRequest, name)
	}
	assert.Equal(t, []string{"ALL", "USERS", "VENDORS", "ADMINS", "CUSTOM"}, broadcast.SegmentNames())
}
