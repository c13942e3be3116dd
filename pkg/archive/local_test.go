package archive_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/archive"
)

func TestLocal_PutGet(t *testing.T) {
	t.Parallel()

	l, err := archive.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "2026/10/n-1.json", []byte(`{"sentCount":2}`), "application/json"))
	got, err := l.Get(ctx, "2026/10/n-1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sentCount":2}`, string(got))

	require.NoError(t, l.Put(ctx, "2026/10/n-1.json", []byte(`{"sentCount":3}`), "application/json"))
	got, err = l.Get(ctx, "2026/10/n-1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sentCount":3}`, string(got))

	_, err = l.Get(ctx, "missing.json")
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestLocal_Keys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := archive.NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, l.Put(ctx, "", []byte("x"), ""), archive.ErrInvalidKey)

	// Traversal is clamped to the base directory.
	require.NoError(t, l.Put(ctx, "../../escape.json", []byte("x"), ""))
	got, err := l.Get(ctx, "escape.json")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	_, err = archive.NewLocal("")
	assert.ErrorIs(t, err, archive.ErrInvalidConfig)
}
