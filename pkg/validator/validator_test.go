package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rules      []validator.Rule
		wantFields []string
	}{
		{
			name:  "all pass",
			rules: []validator.Rule{validator.RequiredString("title", "Hi"), validator.InList("aud", "ALL", []string{"ALL", "USERS"})},
		},
		{
			name: "collects every failure",
			rules: []validator.Rule{
				validator.RequiredString("notificationId", ""),
				validator.RequiredString("title", "   "),
				validator.RequiredString("message", "ok"),
			},
			wantFields: []string{"notificationId", "title"},
		},
		{
			name:       "enum",
			rules:      []validator.Rule{validator.InList("aud", "EVERYONE", []string{"ALL", "USERS"})},
			wantFields: []string{"aud"},
		},
		{
			name:       "slice",
			rules:      []validator.Rule{validator.RequiredSlice[string]("recipients", nil)},
			wantFields: []string{"recipients"},
		},
		{
			name: "when skips",
			rules: []validator.Rule{
				validator.When(false, validator.RequiredSlice[string]("recipients", nil)),
				validator.When(true, validator.RequiredSlice("recipients", []string{"u1"})),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(tt.rules...)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))
			assert.Equal(t, tt.wantFields, validator.ExtractValidationErrors(err).Fields())
		})
	}
}

func TestValidationErrors_Wrapped(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("invalid request")
	err := fmt.Errorf("%w: %w", sentinel, validator.Apply(validator.InList("aud", "X", []string{"ALL"})))

	ve := validator.ExtractValidationErrors(err)
	require.Len(t, ve, 1)
	assert.True(t, ve.Has("aud"))
	assert.Equal(t, []string{"ALL"}, ve[0].Params["allowed"])
	assert.Contains(t, err.Error(), "aud: must be one of: [ALL]")
	assert.Nil(t, validator.ExtractValidationErrors(sentinel))
}
