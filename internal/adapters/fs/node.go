package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/core/ports"
)

const (
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
	// StatterNodeID is the unique identifier for the dependency statter Graft node.
	StatterNodeID graft.ID = "adapter.fs.statter"
)

func init() {
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewFingerprinter(), nil
		},
	})

	// The concrete Statter is exposed so the app can apply the configured limit.
	graft.Register(graft.Node[*Statter]{
		ID:        StatterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Statter, error) {
			return NewStatter(0), nil
		},
	})
}
