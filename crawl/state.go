package crawl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/bloom"
)

// SeenAccounts records when each account was last enumerated.
// Entries are never removed. It is safe for concurrent use.
type SeenAccounts struct {
	mu       sync.Mutex
	accounts map[string]time.Time
}

// NewSeenAccounts creates an empty SeenAccounts.
func NewSeenAccounts() *SeenAccounts {
	return &SeenAccounts{accounts: make(map[string]time.Time)}
}

// LastChecked returns when the account was last enumerated.
func (s *SeenAccounts) LastChecked(account string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.accounts[account]
	return t, ok
}

// Due reports whether the account should be enumerated again at now.
// Accounts never seen are always due.
func (s *SeenAccounts) Due(account string, now time.Time, interval time.Duration) bool {
	last, ok := s.LastChecked(account)
	if !ok {
		return true
	}
	return now.Sub(last) >= interval
}

// Stamp records that the account was enumerated at now.
func (s *SeenAccounts) Stamp(account string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account] = now
}

// Len returns the number of known accounts.
func (s *SeenAccounts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// SkipSet holds character names confirmed to be non-ladder.
// It is append-only. Lookups consult a Bloom filter first so the common
// negative case never takes the map lookup path.
type SkipSet struct {
	mu     sync.RWMutex
	names  map[string]struct{}
	filter *bloom.Filter
}

// NewSkipSet creates an empty SkipSet.
func NewSkipSet() *SkipSet {
	return &SkipSet{
		names:  make(map[string]struct{}),
		filter: bloom.NewFilter(),
	}
}

// Add inserts a name. Returns false if the name was already present.
func (s *SkipSet) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	s.filter.Add(name)
	return true
}

// Contains reports whether the name is in the set.
func (s *SkipSet) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.filter.MayContain(name) {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s *SkipSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// FilterLayers returns how many layers the Bloom filter has grown to.
func (s *SkipSet) FilterLayers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Layers()
}

// State is the mutable crawl progress shared by the pipeline's goroutines.
type State struct {
	Seen *SeenAccounts
	Skip *SkipSet
}

// NewState returns empty crawl progress.
func NewState() *State {
	return &State{
		Seen: NewSeenAccounts(),
		Skip: NewSkipSet(),
	}
}

// NewStateFromSnapshot restores crawl progress from a snapshot.
func NewStateFromSnapshot(snap *ladderwatch.Snapshot) *State {
	st := NewState()
	if snap == nil {
		return st
	}
	for account, t := range snap.SeenAccounts {
		st.Seen.Stamp(account, t)
	}
	for _, name := range snap.SkipNames {
		st.Skip.Add(name)
	}
	return st
}

// Snapshot copies the current progress. Skip names are sorted.
func (s *State) Snapshot() *ladderwatch.Snapshot {
	snap := ladderwatch.NewSnapshot()

	s.Seen.mu.Lock()
	for account, t := range s.Seen.accounts {
		snap.SeenAccounts[account] = t
	}
	s.Seen.mu.Unlock()

	s.Skip.mu.RLock()
	snap.SkipNames = make([]string, 0, len(s.Skip.names))
	for name := range s.Skip.names {
		snap.SkipNames = append(snap.SkipNames, name)
	}
	s.Skip.mu.RUnlock()
	sort.Strings(snap.SkipNames)

	return snap
}

// LoadState restores crawl progress from the store.
// Any load failure is logged and yields empty progress so the pipeline can always cold-start.
func LoadState(ctx context.Context, store ladderwatch.StateStore, logger *slog.Logger) *State {
	snap, err := store.Load(ctx)
	if err != nil {
		logger.Warn("state load failed, starting cold", "err", err)
		return NewState()
	}
	st := NewStateFromSnapshot(snap)
	logger.Info("state loaded",
		"accounts", st.Seen.Len(),
		"skipped", st.Skip.Len(),
	)
	return st
}

// SaveState persists crawl progress to the store.
func SaveState(ctx context.Context, store ladderwatch.StateStore, st *State, logger *slog.Logger) error {
	snap := st.Snapshot()
	if err := store.Save(ctx, snap); err != nil {
		logger.Error("state save failed", "err", err)
		return err
	}
	logger.Info("state saved",
		"accounts", len(snap.SeenAccounts),
		"skipped", len(snap.SkipNames),
	)
	return nil
}
