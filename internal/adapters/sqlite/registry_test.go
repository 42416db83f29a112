package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/sqlite"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

func TestRegistry_OpenShared(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	registry := sqlite.NewRegistry()
	defer registry.Close() //nolint:errcheck // Best effort close in test

	const callers = 8
	stores := make([]ports.EntryStore, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store, err := registry.Open(ctx, dir, domain.StoreOptions{})
			assert.NoError(t, err)
			stores[i] = store
		}()
	}
	wg.Wait()

	for _, store := range stores {
		assert.Same(t, stores[0], store)
	}

	// Relative and absolute spellings of a directory share the handle.
	again, err := registry.Open(ctx, filepath.Join(dir, "."), domain.StoreOptions{})
	require.NoError(t, err)
	assert.Same(t, stores[0], again)
}

func TestRegistry_SeparateDirectories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := sqlite.NewRegistry()
	defer registry.Close() //nolint:errcheck // Best effort close in test

	a, err := registry.Open(ctx, t.TempDir(), domain.StoreOptions{})
	require.NoError(t, err)
	b, err := registry.Open(ctx, t.TempDir(), domain.StoreOptions{})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestRegistry_OpenFailureIsRetried(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	blocker := filepath.Join(root, "cache")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), domain.FilePerm))

	registry := sqlite.NewRegistry()
	defer registry.Close() //nolint:errcheck // Best effort close in test

	store, err := registry.Open(ctx, blocker, domain.StoreOptions{})
	require.ErrorIs(t, err, domain.ErrStoreOpenFailed)
	assert.Nil(t, store)

	require.NoError(t, os.Remove(blocker))

	store, err = registry.Open(ctx, blocker, domain.StoreOptions{})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestRegistry_AppliesOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := sqlite.NewRegistry()
	defer registry.Close() //nolint:errcheck // Best effort close in test

	store, err := registry.Open(ctx, t.TempDir(), domain.StoreOptions{
		DefaultTTL:     time.Millisecond,
		CheckFrequency: time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))
	time.Sleep(10 * time.Millisecond)

	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestRegistry_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	registry := sqlite.NewRegistry()

	first, err := registry.Open(ctx, dir, domain.StoreOptions{})
	require.NoError(t, err)
	require.NoError(t, registry.Close())

	_, err = first.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrStoreClosed)

	// A closed registry opens fresh handles.
	second, err := registry.Open(ctx, dir, domain.StoreOptions{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	require.NoError(t, registry.Close())
}

func TestRegistry_SweepOutlivesFirstCaller(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	registry := sqlite.NewRegistry()
	defer registry.Close() //nolint:errcheck // Best effort close in test

	opts := domain.StoreOptions{CheckFrequency: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	_, err := registry.Open(ctx, dir, opts)
	require.NoError(t, err)
	cancel()

	// A later caller shares the handle and still gets expired rows swept.
	bg := context.Background()
	store, err := registry.Open(bg, dir, opts)
	require.NoError(t, err)
	require.NoError(t, store.Put(bg, "k", []byte("v"), time.Millisecond))

	require.Eventually(t, func() bool {
		stats, err := store.Stats(bg)
		return err == nil && stats.Total() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
