// Package memo implements the cache validity protocol: an entry is only
// returned when every dependency recorded with it still has the modification
// time it had when the entry was stored.
package memo

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Span names and attributes reported for every protocol operation.
const (
	SpanLookup  = "memo.lookup"
	SpanStore   = "memo.store"
	AttrKey     = "memo.key"
	AttrOutcome = "memo.outcome"
)

// Outcomes reported in the memo.outcome span attribute.
const (
	OutcomeHit        = "hit"
	OutcomeStored     = "stored"
	OutcomeMiss       = "miss"
	OutcomeCorrupt    = "corrupt"
	OutcomeCollision  = "collision"
	OutcomeStale      = "stale"
	OutcomeUnreadable = "unreadable"
	OutcomeError      = "error"
)

// Protocol looks up and stores cache entries.
type Protocol struct {
	hasher  ports.Fingerprinter
	statter ports.DependencyStatter
	store   ports.EntryStore
	logger  ports.Logger
	tracer  ports.Tracer
	ttl     time.Duration
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithTTL sets the time to live used when Store is called with a
// non-positive ttl. Zero leaves the choice to the entry store.
func WithTTL(ttl time.Duration) Option {
	return func(p *Protocol) {
		p.ttl = ttl
	}
}

// New creates a Protocol over the given components.
func New(
	hasher ports.Fingerprinter,
	statter ports.DependencyStatter,
	store ports.EntryStore,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Protocol {
	p := &Protocol{
		hasher:  hasher,
		statter: statter,
		store:   store,
		logger:  logger,
		tracer:  tracer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the cache key of a request.
func (p *Protocol) Key(namespace, descriptor string) domain.Key {
	return p.hasher.Key(namespace, descriptor)
}

// Lookup returns the validated entry for a request. Every failure, including
// a missing, expired, corrupt, colliding or stale entry, is reported as a miss.
func (p *Protocol) Lookup(ctx context.Context, namespace, descriptor string) (hit *domain.Hit, ok bool) {
	defer zerr.Defer(func(err error) {
		p.logger.Debug("cache lookup aborted: " + err.Error())
		hit, ok = nil, false
	})

	hit, err := p.Resolve(ctx, namespace, descriptor)
	if err != nil {
		p.logger.Debug("cache miss: " + err.Error())
		return nil, false
	}
	return hit, true
}

// Resolve is Lookup with the reason for a miss:
// domain.ErrEntryNotFound, a store read error, domain.ErrEntryDecodeFailed,
// domain.ErrCollision, a *domain.StatError or domain.ErrStale.
func (p *Protocol) Resolve(ctx context.Context, namespace, descriptor string) (hit *domain.Hit, err error) {
	key := p.hasher.Key(namespace, descriptor)

	ctx, span := p.tracer.Start(ctx, SpanLookup, ports.WithAttribute(AttrKey, key.String()))
	defer func() {
		endSpan(span, err, OutcomeHit)
	}()

	raw, err := p.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	entry, err := DecodeEntry(raw)
	if err != nil {
		return nil, zerr.With(err, "key", key.String())
	}

	if !entry.Matches(namespace, descriptor) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCollision, "stored entry belongs to another request"), "key", key.String())
	}

	if err := p.validate(ctx, entry.Records()); err != nil {
		return nil, err
	}

	return &domain.Hit{
		Result:              entry.Result,
		Dependencies:        entry.Dependencies,
		ContextDependencies: entry.ContextDependencies,
	}, nil
}

// validate checks that every recorded path still exists with its recorded mtime.
func (p *Protocol) validate(ctx context.Context, records []domain.DependencyRecord) error {
	if len(records) == 0 {
		return nil
	}

	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}

	current, err := p.statter.Stat(ctx, paths)
	if err != nil {
		return err
	}

	mtimes := make(map[string]int64, len(current))
	for _, r := range current {
		mtimes[r.Path] = r.Mtime
	}

	for _, r := range records {
		if mtime, ok := mtimes[r.Path]; !ok || mtime != r.Mtime {
			return zerr.With(zerr.Wrap(domain.ErrStale, "entry is stale"), "path", r.Path)
		}
	}
	return nil
}

// Store records the result of a request together with the current
// modification times of its dependencies. Failures are logged at debug level
// and otherwise ignored; nothing is written when a dependency cannot be stat'ed.
func (p *Protocol) Store(
	ctx context.Context,
	namespace, descriptor string,
	deps, contextDeps []string,
	result []any,
	ttl time.Duration,
) {
	defer zerr.Defer(func(err error) {
		p.logger.Debug("cache store aborted: " + err.Error())
	})

	if err := p.Commit(ctx, namespace, descriptor, deps, contextDeps, result, ttl); err != nil {
		p.logger.Debug("cache store skipped: " + err.Error())
	}
}

// Commit is Store with the reason a write did not happen.
func (p *Protocol) Commit(
	ctx context.Context,
	namespace, descriptor string,
	deps, contextDeps []string,
	result []any,
	ttl time.Duration,
) (err error) {
	key := p.hasher.Key(namespace, descriptor)

	ctx, span := p.tracer.Start(ctx, SpanStore, ports.WithAttribute(AttrKey, key.String()))
	defer func() {
		endSpan(span, err, OutcomeStored)
	}()

	var depRecords, contextRecords []domain.DependencyRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var statErr error
		depRecords, statErr = p.statter.Stat(gctx, deps)
		return statErr
	})
	g.Go(func() error {
		var statErr error
		contextRecords, statErr = p.statter.Stat(gctx, contextDeps)
		return statErr
	})
	if err := g.Wait(); err != nil {
		return err
	}

	raw, err := EncodeEntry(&domain.Entry{
		RequestDescriptor:   descriptor,
		CacheNamespace:      namespace,
		Dependencies:        depRecords,
		ContextDependencies: contextRecords,
		Result:              result,
	})
	if err != nil {
		return zerr.With(err, "key", key.String())
	}

	if ttl <= 0 {
		ttl = p.ttl
	}
	return p.store.Put(ctx, key, raw, ttl)
}

// Outcome classifies the error returned by Resolve or Commit.
func Outcome(err error, success string) string {
	var statErr *domain.StatError
	switch {
	case err == nil:
		return success
	case errors.Is(err, domain.ErrEntryNotFound):
		return OutcomeMiss
	case errors.Is(err, domain.ErrEntryDecodeFailed):
		return OutcomeCorrupt
	case errors.Is(err, domain.ErrCollision):
		return OutcomeCollision
	case errors.Is(err, domain.ErrStale):
		return OutcomeStale
	case errors.As(err, &statErr):
		return OutcomeUnreadable
	default:
		return OutcomeError
	}
}

func endSpan(span ports.Span, err error, success string) {
	outcome := Outcome(err, success)
	span.SetAttribute(AttrOutcome, outcome)
	if outcome != success && outcome != OutcomeMiss {
		span.RecordError(err)
	}
	span.End()
}
