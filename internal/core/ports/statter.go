package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
)

// DependencyStatter captures the modification times of dependency paths.
//
//go:generate mockgen -source=statter.go -destination=mocks/mock_statter.go -package=mocks
type DependencyStatter interface {
	// Stat returns one record per distinct input path, in input order.
	// If any path cannot be stat'ed the whole call fails with a *domain.StatError
	// and no records are returned.
	Stat(ctx context.Context, paths []string) ([]domain.DependencyRecord, error)
}
