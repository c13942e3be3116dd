package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/httpserver"
	"github.com/lottomart/notifier/svc/broadcast"
)

func TestBuildStores(t *testing.T) {
	t.Parallel()

	var cleanup []func()
	checks := map[string]httpserver.Check{}

	s, err := buildStores(context.Background(), appConfig{StoreBackend: "memory"}, checks, &cleanup)
	require.NoError(t, err)
	assert.IsType(t, &broadcast.MemoryStore{}, s.directory)
	assert.Empty(t, checks)

	_, err = buildStores(context.Background(), appConfig{StoreBackend: "sqlite"}, checks, &cleanup)
	assert.Error(t, err)
}

func TestBuildSinks(t *testing.T) {
	t.Parallel()

	sinks, err := buildSinks(context.Background(), appConfig{ArchiveBackend: "none"})
	require.NoError(t, err)
	assert.Empty(t, sinks)

	sinks, err = buildSinks(context.Background(), appConfig{ArchiveBackend: "local", ArchiveLocalDir: t.TempDir()})
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.IsType(t, &broadcast.ArchiveSink{}, sinks[0])

	_, err = buildSinks(context.Background(), appConfig{ArchiveBackend: "ftp"})
	assert.Error(t, err)
}
