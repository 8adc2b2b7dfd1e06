package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ladderwatch"
)

// stateVersion is the current state file format.
const stateVersion = 1

// Ensure StateStore implements ladderwatch.StateStore at compile time.
var _ ladderwatch.StateStore = (*StateStore)(nil)

// StateStore persists the crawl snapshot as a single JSON file.
// The payload carries an xxhash checksum so a truncated or hand-edited file
// is detected on load rather than silently half-restored.
type StateStore struct {
	path string
}

// NewStateStore creates a StateStore backed by the file at path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file path.
func (s *StateStore) Path() string {
	return s.path
}

type stateEnvelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

type statePayload struct {
	// SeenAccounts values are epoch milliseconds.
	SeenAccounts map[string]int64 `json:"seenAccounts"`
	SkipNames    []string         `json:"skipNames"`
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *StateStore) Load(ctx context.Context) (*ladderwatch.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ladderwatch.NewSnapshot(), nil
	} else if err != nil {
		return nil, err
	}

	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "state file %s: %v", s.path, err)
	}
	if env.Version != stateVersion {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "state file %s: unsupported version %d", s.path, env.Version)
	}
	// The envelope is indented on disk; the checksum covers the compact form.
	var compact bytes.Buffer
	if err := json.Compact(&compact, env.Payload); err != nil {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "state file %s: %v", s.path, err)
	}
	if sum := checksum(compact.Bytes()); sum != env.Checksum {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "state file %s: checksum mismatch", s.path)
	}

	var payload statePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "state file %s: %v", s.path, err)
	}

	snap := ladderwatch.NewSnapshot()
	for account, ms := range payload.SeenAccounts {
		snap.SeenAccounts[account] = time.UnixMilli(ms)
	}
	snap.SkipNames = payload.SkipNames
	return snap, nil
}

// Save atomically replaces the state file with snap.
func (s *StateStore) Save(ctx context.Context, snap *ladderwatch.Snapshot) error {
	payload := statePayload{
		SeenAccounts: make(map[string]int64, len(snap.SeenAccounts)),
		SkipNames:    snap.SkipNames,
	}
	for account, t := range snap.SeenAccounts {
		payload.SeenAccounts[account] = t.UnixMilli()
	}
	if payload.SkipNames == nil {
		payload.SkipNames = []string{}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	data, err := json.MarshalIndent(stateEnvelope{
		Version:  stateVersion,
		Checksum: checksum(raw),
		Payload:  raw,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return writeFileAtomic(s.path, data)
}

func checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
