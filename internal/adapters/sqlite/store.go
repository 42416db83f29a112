// Package sqlite implements the entry store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

var _ ports.EntryStore = (*Store)(nil)

// Store is an EntryStore backed by a single SQLite database file.
// Rows carry an absolute expiry in Unix nanoseconds; expired rows are hidden
// from Get immediately and removed by a periodic sweep.
type Store struct {
	db             *sql.DB
	path           string
	defaultTTL     time.Duration
	checkFrequency time.Duration
	now            func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool
}

// Open opens or creates the entry database inside dir, applies pending
// migrations and starts the expiry sweep. ctx bounds the open only; the sweep
// runs until the store is closed.
func Open(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreOpenFailed, err), "dir", dir)
	}

	path := domain.DatabasePath(dir)
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreOpenFailed, err), "path", path)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(errors.Join(domain.ErrStoreOpenFailed, err), "path", path)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, zerr.With(errors.Join(domain.ErrStoreOpenFailed, err), "path", path)
	}

	sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &Store{
		db:             db,
		path:           path,
		defaultTTL:     domain.DefaultTTL,
		checkFrequency: domain.DefaultCheckFrequency,
		now:            time.Now,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.run(sweepCtx)

	return s, nil
}

// dsn builds the modernc connection string. The pragmas apply to every pooled
// connection.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored for key if it has not expired.
func (s *Store) Get(ctx context.Context, key domain.Key) ([]byte, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}

	var (
		value     []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM entries WHERE key = ?`, key.String(),
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "key", key.String())
	}

	if expiresAt < s.now().UnixNano() {
		// Only delete the row if it was not rewritten in the meantime.
		_, _ = s.db.ExecContext(ctx,
			`DELETE FROM entries WHERE key = ? AND expires_at = ?`, key.String(), expiresAt)
		return nil, domain.ErrEntryNotFound
	}

	return value, nil
}

// Put stores value under key and restarts its TTL. A non-positive ttl selects
// the store default.
func (s *Store) Put(ctx context.Context, key domain.Key, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	expiresAt := expiry(s.now(), ttl)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key.String(), value, expiresAt,
	)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "key", key.String())
	}
	return nil
}

// expiry returns now+ttl in Unix nanoseconds, saturating at the largest
// representable instant.
func expiry(now time.Time, ttl time.Duration) int64 {
	n := now.UnixNano()
	if n > 0 && int64(ttl) > math.MaxInt64-n {
		return math.MaxInt64
	}
	return n + int64(ttl)
}

// Stats counts live rows and rows that expired but were not swept yet.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	if s.closed.Load() {
		return domain.StoreStats{}, domain.ErrStoreClosed
	}

	now := s.now().UnixNano()
	var stats domain.StoreStats
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN expires_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at < ? THEN 1 ELSE 0 END), 0)
		FROM entries`,
		now, now,
	).Scan(&stats.Live, &stats.Expired)
	if err != nil {
		return domain.StoreStats{}, errors.Join(domain.ErrStoreReadFailed, err)
	}
	return stats, nil
}

// Sweep deletes every expired row and returns how many were removed.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	if s.closed.Load() {
		return 0, domain.ErrStoreClosed
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE expires_at < ?`, s.now().UnixNano())
	if err != nil {
		return 0, errors.Join(domain.ErrStoreWriteFailed, err)
	}
	return result.RowsAffected()
}

// Close stops the sweep and closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	var dbErr error
	s.once.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.wg.Wait()
		dbErr = s.db.Close()
	})
	return dbErr
}

// run sweeps once at startup and then on every tick until ctx is done.
func (s *Store) run(ctx context.Context) {
	defer s.wg.Done()

	_, _ = s.Sweep(ctx)

	ticker := time.NewTicker(s.checkFrequency)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
