package ladderwatch

import (
	"context"
	"time"
)

// Snapshot is the durable crawl progress.
type Snapshot struct {
	// SeenAccounts maps an account name to the time it was last enumerated.
	SeenAccounts map[string]time.Time

	// SkipNames holds character names confirmed to be non-ladder.
	SkipNames []string
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{SeenAccounts: make(map[string]time.Time)}
}

// StateStore persists crawl progress between runs.
type StateStore interface {
	// Load reads the last saved snapshot.
	// A store that was never saved returns an empty snapshot.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap *Snapshot) error
}
