package broadcast_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/validator"
	"github.com/lottomart/notifier/svc/broadcast"
)

func newDirectory() *countingDirectory {
	return &countingDirectory{MemoryStore: broadcast.NewMemoryStore(
		user("u1", broadcast.RoleUser, "", ""),
		user("u2", broadcast.RoleUser, "", ""),
		user("v1", broadcast.RoleVendor, "", ""),
		user("a1", broadcast.RoleAdmin, "", ""),
	)}
}

func TestResolver_Validation(t *testing.T) {
	t.Parallel()

	valid := broadcast.Request{NotificationID: "n1", Title: "T", Message: "M", TargetAudience: "USERS"}

	tests := []struct {
		name       string
		mutate     func(r *broadcast.Request)
		wantFields []string
	}{
		{name: "missing id", mutate: func(r *broadcast.Request) { r.NotificationID = "" }, wantFields: []string{"notificationId"}},
		{name: "blank title and message", mutate: func(r *broadcast.Request) { r.Title = " "; r.Message = "" }, wantFields: []string{"title", "message"}},
		{name: "unknown audience", mutate: func(r *broadcast.Request) { r.TargetAudience = "EVERYONE" }, wantFields: []string{"targetAudience"}},
		{name: "custom without recipients", mutate: func(r *broadcast.Request) { r.TargetAudience = "CUSTOM" }, wantFields: []string{"recipients"}},
		{name: "custom with blank recipients", mutate: func(r *broadcast.Request) {
			r.TargetAudience = "CUSTOM"
			r.Recipients = []string{"", "  "}
		}, wantFields: []string{"recipients"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := newDirectory()
			req := valid
			tt.mutate(&req)

			_, _, err := broadcast.NewResolver(dir, broadcast.DefaultConfig()).Resolve(context.Background(), req)
			require.ErrorIs(t, err, broadcast.ErrInvalidRequest)
			assert.Equal(t, tt.wantFields, validator.ExtractValidationErrors(err).Fields())
			assert.Zero(t, dir.calls.Load(), "directory must not be queried")
		})
	}
}

func TestResolver_UnknownAudienceListsValidValues(t *testing.T) {
	t.Parallel()

	_, err := broadcast.Validate(broadcast.Request{NotificationID: "n", Title: "t", Message: "m", TargetAudience: "nobody"})
	ve := validator.ExtractValidationErrors(err)
	require.Len(t, ve, 1)
	assert.Equal(t, broadcast.SegmentNames(), ve[0].Params["allowed"])
}

func TestResolver_Segments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		audience string
		want     []string
	}{
		{audience: "ALL", want: []string{"u1", "u2", "v1", "a1"}},
		{audience: "USERS", want: []string{"u1", "u2"}},
		{audience: "VENDORS", want: []string{"v1"}},
		{audience: "ADMINS", want: []string{"a1"}},
	}

	for _, tt := range tests {
		t.Run(tt.audience, func(t *testing.T) {
			t.Parallel()
			dir := newDirectory()
			ids, seg, err := broadcast.NewResolver(dir, broadcast.DefaultConfig()).Resolve(context.Background(), broadcast.Request{
				NotificationID: "n1", Title: "T", Message: "M", TargetAudience: tt.audience,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.audience, seg.String())
			assert.Equal(t, tt.want, ids)
			assert.EqualValues(t, 1, dir.calls.Load())
		})
	}
}

func TestResolver_CustomDedupes(t *testing.T) {
	t.Parallel()

	dir := newDirectory()
	ids, seg, err := broadcast.NewResolver(dir, broadcast.DefaultConfig()).Resolve(context.Background(), broadcast.Request{
		NotificationID: "n1", Title: "T", Message: "M", TargetAudience: "CUSTOM",
		Recipients: []string{"u1", "u1", "u2", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, broadcast.SegmentCustom, seg)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	assert.Zero(t, dir.calls.Load())
}

func TestResolver_DirectoryError(t *testing.T) {
	t.Parallel()

	dir := newDirectory()
	dir.err = errors.New("connection reset")
	_, _, err := broadcast.NewResolver(dir, broadcast.DefaultConfig()).Resolve(context.Background(), broadcast.Request{
		NotificationID: "n1", Title: "T", Message: "M", TargetAudience: "ALL",
	})
	require.ErrorIs(t, err, broadcast.ErrDirectory)
	assert.NotErrorIs(t, err, broadcast.ErrInvalidRequest)
}
