package ports

import "go.trai.ch/memo/internal/core/domain"

// Fingerprinter derives cache keys from requests.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Key returns the deterministic key for a namespace and request descriptor.
	// It never fails.
	Key(namespace, descriptor string) domain.Key
}
