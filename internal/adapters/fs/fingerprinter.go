// Package fs implements the filesystem facing adapters: request fingerprinting
// and dependency stat'ing.
package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// FingerprintSeed seeds the xxhash64 digest behind every cache key.
const FingerprintSeed = 0xCAFEBABE

// Fingerprinter derives cache keys with a seeded xxhash64 digest.
type Fingerprinter struct {
	seed uint64
}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{seed: FingerprintSeed}
}

// Key returns the 16 character hex digest of namespace, a newline and descriptor.
func (f *Fingerprinter) Key(namespace, descriptor string) domain.Key {
	hasher := xxhash.NewWithSeed(f.seed)

	// Writes to an xxhash digest never fail.
	_, _ = hasher.WriteString(namespace)
	_, _ = hasher.WriteString("\n")
	_, _ = hasher.WriteString(descriptor)

	return domain.Key(fmt.Sprintf("%016x", hasher.Sum64()))
}
