package memo

import (
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Register hands every dependency of a hit to the host's tracker, once per record.
func Register(hit *domain.Hit, tracker ports.DependencyTracker) {
	if hit == nil || tracker == nil {
		return
	}
	for _, dep := range hit.Dependencies {
		tracker.AddDependency(dep.Path)
	}
	for _, dep := range hit.ContextDependencies {
		tracker.AddContextDependency(dep.Path)
	}
}
