package opensearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	osclient "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/opensearch"
)

func newCluster(t *testing.T, handler http.HandlerFunc) *osclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := osclient.NewClient(osclient.Config{Addresses: []string{srv.URL}, DisableRetry: true})
	require.NoError(t, err)
	return client
}

func TestIndexer_Index(t *testing.T) {
	t.Parallel()

	client := newCluster(t, func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		assert.Equal(t, "/delivery-reports/_doc/n-1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, float64(2), doc["sentCount"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	idx, err := opensearch.NewIndexer(client, "delivery-reports")
	require.NoError(t, err)

	require.NoError(t, idx.Index(context.Background(), "n-1", map[string]any{"sentCount": 2}))
}

func TestIndexer_ErrorStatus(t *testing.T) {
	t.Parallel()

	client := newCluster(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	})
	idx, err := opensearch.NewIndexer(client, "delivery-reports")
	require.NoError(t, err)

	err = idx.Index(context.Background(), "n-1", map[string]any{})
	assert.ErrorIs(t, err, opensearch.ErrIndexFailed)
	assert.Contains(t, err.Error(), "403")

	_, err = opensearch.NewIndexer(nil, "x")
	assert.ErrorIs(t, err, opensearch.ErrInvalidIndexer)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	healthy := newCluster(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":{"number":"2.11.0"}}`))
	})
	assert.NoError(t, opensearch.Healthcheck(healthy)(context.Background()))

	down := newCluster(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.ErrorIs(t, opensearch.Healthcheck(down)(context.Background()), opensearch.ErrHealthcheckFailed)
}
