package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"", environment.Development},
		{"dev", environment.Development},
		{"Development", environment.Development},
		{"stage", environment.Staging},
		{"staging", environment.Staging},
		{"prod", environment.Production},
		{" production ", environment.Production},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := environment.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := environment.Parse("qa")
	assert.ErrorIs(t, err, environment.ErrUnknownEnvironment)
}

func TestIsProductionLike(t *testing.T) {
	t.Parallel()
	assert.False(t, environment.Development.IsProductionLike())
	assert.True(t, environment.Staging.IsProductionLike())
	assert.True(t, environment.Production.IsProductionLike())
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()

	var seen environment.Environment
	h := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = environment.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, environment.Staging, seen)

	attr, ok := environment.LoggerExtractor()(environment.WithContext(context.Background(), environment.Production))
	require.True(t, ok)
	assert.Equal(t, "production", attr.Value.String())

	_, ok = environment.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
