package memo_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/fs"
	"go.trai.ch/memo/internal/adapters/sqlite"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.trai.ch/memo/internal/engine/memo"
	"go.uber.org/mock/gomock"
)

const (
	testNamespace  = "memo:test development"
	testDescriptor = "/work\x00go\x00build"
)

type fixture struct {
	protocol *memo.Protocol
	store    *sqlite.Store
	dir      string
}

// newFixture wires the protocol to the real fingerprinter, statter and store.
func newFixture(t *testing.T, hasher ports.Fingerprinter) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	if hasher == nil {
		hasher = fs.NewFingerprinter()
	}

	dir := t.TempDir()
	store, err := sqlite.Open(context.Background(), filepath.Join(dir, ".memo"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		protocol: memo.New(hasher, fs.NewStatter(0), store, log, telemetry.NewNoOpTracer()),
		store:    store,
		dir:      dir,
	}
}

func (f *fixture) writeFile(t *testing.T, name string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), domain.FilePerm))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestProtocol_KeyDeterminism(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	other := newFixture(t, nil)

	key := f.protocol.Key(testNamespace, testDescriptor)
	assert.Equal(t, key, f.protocol.Key(testNamespace, testDescriptor))
	assert.Equal(t, key, other.protocol.Key(testNamespace, testDescriptor))
	assert.NotEqual(t, key, f.protocol.Key(testNamespace, testDescriptor+"\x00-v"))
}

func TestProtocol_RoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	f.protocol.Store(ctx, testNamespace, testDescriptor, nil, nil, []any{"stdout", []byte("stderr"), 42}, time.Hour)

	hit, ok := f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	require.True(t, ok)
	assert.Equal(t, []any{"stdout", []byte("stderr"), int64(42)}, hit.Result)
	assert.Empty(t, hit.Dependencies)
	assert.Empty(t, hit.ContextDependencies)
}

func TestProtocol_RoundTripWithDependencies(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	dep := f.writeFile(t, "go.mod", baseTime)
	ctxDir := filepath.Join(f.dir, "src")
	require.NoError(t, os.Mkdir(ctxDir, domain.DirPerm))

	err := f.protocol.Commit(ctx, testNamespace, testDescriptor, []string{dep}, []string{ctxDir}, []any{"ok"}, 0)
	require.NoError(t, err)

	hit, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	require.NoError(t, err)
	assert.Equal(t, []domain.DependencyRecord{{Path: dep, Mtime: baseTime.UnixMilli()}}, hit.Dependencies)
	require.Len(t, hit.ContextDependencies, 1)
	assert.Equal(t, ctxDir, hit.ContextDependencies[0].Path)
}

func TestProtocol_Staleness(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	dep := f.writeFile(t, "input.txt", baseTime)
	f.protocol.Store(ctx, testNamespace, testDescriptor, []string{dep}, nil, []any{"v1"}, time.Hour)

	_, ok := f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	require.True(t, ok)

	modified := baseTime.Add(2 * time.Second)
	require.NoError(t, os.Chtimes(dep, modified, modified))

	_, ok = f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	assert.False(t, ok)

	_, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	require.ErrorIs(t, err, domain.ErrStale)
}

func TestProtocol_ContextDependencyStaleness(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	ctxDir := filepath.Join(f.dir, "src")
	require.NoError(t, os.Mkdir(ctxDir, domain.DirPerm))
	require.NoError(t, os.Chtimes(ctxDir, baseTime, baseTime))

	f.protocol.Store(ctx, testNamespace, testDescriptor, nil, []string{ctxDir}, []any{"v1"}, time.Hour)

	modified := baseTime.Add(time.Minute)
	require.NoError(t, os.Chtimes(ctxDir, modified, modified))

	_, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	require.ErrorIs(t, err, domain.ErrStale)
}

func TestProtocol_CollisionGuard(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockFingerprinter(ctrl)
	hasher.EXPECT().Key(gomock.Any(), gomock.Any()).Return(domain.Key("0000000000000000")).AnyTimes()

	f := newFixture(t, hasher)
	ctx := context.Background()

	f.protocol.Store(ctx, testNamespace, "request-a", nil, nil, []any{"a"}, time.Hour)

	_, ok := f.protocol.Lookup(ctx, testNamespace, "request-b")
	assert.False(t, ok)

	_, err := f.protocol.Resolve(ctx, testNamespace, "request-b")
	require.ErrorIs(t, err, domain.ErrCollision)

	_, err = f.protocol.Resolve(ctx, "other-namespace", "request-a")
	require.ErrorIs(t, err, domain.ErrCollision)

	hit, ok := f.protocol.Lookup(ctx, testNamespace, "request-a")
	require.True(t, ok)
	assert.Equal(t, []any{"a"}, hit.Result)
}

func TestProtocol_MissingDependency(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	dep := f.writeFile(t, "input.txt", baseTime)
	f.protocol.Store(ctx, testNamespace, testDescriptor, []string{dep}, nil, []any{"v1"}, time.Hour)
	require.NoError(t, os.Remove(dep))

	hit, ok := f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	assert.False(t, ok)
	assert.Nil(t, hit)

	_, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	var statErr *domain.StatError
	require.ErrorAs(t, err, &statErr)
	assert.Equal(t, dep, statErr.Path)
}

func TestProtocol_UnreadableDependencyAtStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	missing := filepath.Join(f.dir, "missing.txt")
	f.protocol.Store(ctx, testNamespace, testDescriptor, []string{missing}, nil, []any{"v1"}, time.Hour)

	_, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestProtocol_TTLExpiry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	f.protocol.Store(ctx, testNamespace, testDescriptor, nil, nil, []any{"v1"}, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, ok := f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	assert.False(t, ok)

	_, err := f.protocol.Resolve(ctx, testNamespace, testDescriptor)
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestProtocol_LastWriterWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	f.protocol.Store(ctx, testNamespace, testDescriptor, nil, nil, []any{"first"}, time.Hour)
	f.protocol.Store(ctx, testNamespace, testDescriptor, nil, nil, []any{"second"}, time.Hour)

	hit, ok := f.protocol.Lookup(ctx, testNamespace, testDescriptor)
	require.True(t, ok)
	assert.Equal(t, []any{"second"}, hit.Result)
}

func TestProtocol_ConcurrentDisjointKeys(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			descriptor := fmt.Sprintf("request-%d", i)
			f.protocol.Store(ctx, testNamespace, descriptor, nil, nil, []any{descriptor}, time.Hour)
			hit, ok := f.protocol.Lookup(ctx, testNamespace, descriptor)
			assert.True(t, ok)
			if ok {
				assert.Equal(t, []any{descriptor}, hit.Result)
			}
		})
	}
	wg.Wait()

	for i := range n {
		descriptor := fmt.Sprintf("request-%d", i)
		hit, ok := f.protocol.Lookup(ctx, testNamespace, descriptor)
		require.True(t, ok)
		assert.Equal(t, []any{descriptor}, hit.Result)
	}
}

// mockProtocol wires the protocol to gomock components only.
type mockProtocol struct {
	protocol *memo.Protocol
	hasher   *mocks.MockFingerprinter
	statter  *mocks.MockDependencyStatter
	store    *mocks.MockEntryStore
}

func newMockProtocol(t *testing.T, opts ...memo.Option) *mockProtocol {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mockProtocol{
		hasher:  mocks.NewMockFingerprinter(ctrl),
		statter: mocks.NewMockDependencyStatter(ctrl),
		store:   mocks.NewMockEntryStore(ctrl),
	}
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	m.hasher.EXPECT().Key(gomock.Any(), gomock.Any()).Return(domain.Key("00000000000000aa")).AnyTimes()
	m.protocol = memo.New(m.hasher, m.statter, m.store, log, telemetry.NewNoOpTracer(), opts...)
	return m
}

func TestProtocol_Store_FailOpenOnWriteError(t *testing.T) {
	t.Parallel()

	m := newMockProtocol(t)
	ctx := context.Background()
	writeErr := errors.Join(domain.ErrStoreWriteFailed, errors.New("disk full"))

	m.statter.EXPECT().Stat(gomock.Any(), gomock.Any()).Return([]domain.DependencyRecord{}, nil).Times(4)
	m.store.EXPECT().Put(gomock.Any(), domain.Key("00000000000000aa"), gomock.Any(), time.Hour).Return(writeErr).Times(2)

	assert.NotPanics(t, func() {
		m.protocol.Store(ctx, testNamespace, testDescriptor, nil, nil, []any{"out"}, time.Hour)
	})

	err := m.protocol.Commit(ctx, testNamespace, testDescriptor, nil, nil, []any{"out"}, time.Hour)
	require.ErrorIs(t, err, domain.ErrStoreWriteFailed)
}

func TestProtocol_Store_StatFailureSkipsWrite(t *testing.T) {
	t.Parallel()

	m := newMockProtocol(t)
	statErr := &domain.StatError{Path: "/gone", Err: os.ErrNotExist}

	m.statter.EXPECT().Stat(gomock.Any(), []string{"/gone"}).Return(nil, statErr)
	m.statter.EXPECT().Stat(gomock.Any(), gomock.Nil()).Return([]domain.DependencyRecord{}, nil).AnyTimes()
	// No Put expectation: any write fails the test.

	err := m.protocol.Commit(context.Background(), testNamespace, testDescriptor, []string{"/gone"}, nil, []any{"out"}, time.Hour)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProtocol_Store_DefaultTTL(t *testing.T) {
	t.Parallel()

	m := newMockProtocol(t, memo.WithTTL(48*time.Hour))

	m.statter.EXPECT().Stat(gomock.Any(), gomock.Any()).Return([]domain.DependencyRecord{}, nil).Times(2)
	m.store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), 48*time.Hour).Return(nil)

	require.NoError(t, m.protocol.Commit(context.Background(), testNamespace, testDescriptor, nil, nil, nil, 0))
}

func TestProtocol_Lookup_StoreErrors(t *testing.T) {
	t.Parallel()

	readErr := errors.Join(domain.ErrStoreReadFailed, errors.New("io error"))

	tests := []struct {
		name    string
		value   []byte
		err     error
		wantErr error
	}{
		{name: "not found", err: domain.ErrEntryNotFound, wantErr: domain.ErrEntryNotFound},
		{name: "read failure", err: readErr, wantErr: domain.ErrStoreReadFailed},
		{name: "corrupt entry", value: []byte("not msgpack"), wantErr: domain.ErrEntryDecodeFailed},
		{name: "empty value", value: []byte{}, wantErr: domain.ErrEntryDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newMockProtocol(t)
			m.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.value, tt.err).Times(2)

			_, ok := m.protocol.Lookup(context.Background(), testNamespace, testDescriptor)
			assert.False(t, ok)

			_, err := m.protocol.Resolve(context.Background(), testNamespace, testDescriptor)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProtocol_Lookup_RecoversPanic(t *testing.T) {
	t.Parallel()

	m := newMockProtocol(t)
	m.store.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.Key) ([]byte, error) {
		panic("driver bug")
	})

	var (
		hit *domain.Hit
		ok  bool
	)
	assert.NotPanics(t, func() {
		hit, ok = m.protocol.Lookup(context.Background(), testNamespace, testDescriptor)
	})
	assert.False(t, ok)
	assert.Nil(t, hit)
}

func TestProtocol_Lookup_StatsEveryRecordOnce(t *testing.T) {
	t.Parallel()

	m := newMockProtocol(t)
	raw, err := memo.EncodeEntry(&domain.Entry{
		RequestDescriptor:   testDescriptor,
		CacheNamespace:      testNamespace,
		Dependencies:        []domain.DependencyRecord{{Path: "/a", Mtime: 1}, {Path: "/b", Mtime: 2}},
		ContextDependencies: []domain.DependencyRecord{{Path: "/dir", Mtime: 3}},
		Result:              []any{"out"},
	})
	require.NoError(t, err)

	m.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(raw, nil)
	m.statter.EXPECT().Stat(gomock.Any(), []string{"/a", "/b", "/dir"}).Return([]domain.DependencyRecord{
		{Path: "/a", Mtime: 1}, {Path: "/b", Mtime: 2}, {Path: "/dir", Mtime: 3},
	}, nil)

	hit, ok := m.protocol.Lookup(context.Background(), testNamespace, testDescriptor)
	require.True(t, ok)
	assert.Equal(t, []any{"out"}, hit.Result)
}
