package fs

import (
	"context"
	"os"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

var _ ports.DependencyStatter = (*Statter)(nil)

// Statter records dependency modification times with bounded concurrency.
type Statter struct {
	limit  int
	statFn func(string) (os.FileInfo, error)
}

// NewStatter creates a Statter allowing at most limit stat calls in flight.
// A non-positive limit selects domain.DefaultStatConcurrency.
func NewStatter(limit int) *Statter {
	if limit <= 0 {
		limit = domain.DefaultStatConcurrency
	}
	return &Statter{
		limit:  limit,
		statFn: os.Stat,
	}
}

// WithLimit returns a copy of the Statter using a different concurrency limit.
func (s *Statter) WithLimit(limit int) *Statter {
	clone := NewStatter(limit)
	clone.statFn = s.statFn
	return clone
}

// Limit returns the maximum number of concurrent stat calls.
func (s *Statter) Limit() int {
	return s.limit
}

// Stat returns a record for every distinct path, in input order.
// The first failing path cancels the outstanding stats and is reported as a
// *domain.StatError.
func (s *Statter) Stat(ctx context.Context, paths []string) ([]domain.DependencyRecord, error) {
	unique := dedupe(paths)
	records := make([]domain.DependencyRecord, len(unique))
	if len(unique) == 0 {
		return records, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for i, path := range unique {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			info, err := s.statFn(path)
			if err != nil {
				return &domain.StatError{Path: path, Err: err}
			}

			records[i] = domain.DependencyRecord{
				Path:  path,
				Mtime: info.ModTime().UnixMilli(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// dedupe drops repeated paths, keeping the first occurrence.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
