package crawl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/crawl"
	"github.com/fwojciec/ladderwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenAccounts_Due(t *testing.T) {
	t.Parallel()

	seen := crawl.NewSeenAccounts()
	checked := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, seen.Due("AcctX", checked, 24*time.Hour), "unknown accounts are due")

	seen.Stamp("AcctX", checked)
	assert.False(t, seen.Due("AcctX", checked.Add(23*time.Hour), 24*time.Hour))
	assert.True(t, seen.Due("AcctX", checked.Add(24*time.Hour), 24*time.Hour))

	last, ok := seen.LastChecked("AcctX")
	require.True(t, ok)
	assert.Equal(t, checked, last)
	assert.Equal(t, 1, seen.Len())
}

func TestSkipSet(t *testing.T) {
	t.Parallel()

	t.Run("add is idempotent", func(t *testing.T) {
		t.Parallel()

		skip := crawl.NewSkipSet()
		assert.True(t, skip.Add("Bob"))
		assert.False(t, skip.Add("Bob"))
		assert.Equal(t, 1, skip.Len())
	})

	t.Run("contains only added names", func(t *testing.T) {
		t.Parallel()

		skip := crawl.NewSkipSet()
		skip.Add("Bob")

		assert.True(t, skip.Contains("Bob"))
		assert.False(t, skip.Contains("Alice"))
		assert.False(t, skip.Contains("bob"))
	})

	t.Run("starts with a single filter layer", func(t *testing.T) {
		t.Parallel()

		skip := crawl.NewSkipSet()
		skip.Add("Bob")
		assert.Equal(t, 1, skip.FilterLayers())
	})
}

func TestState_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("restores to the same progress", func(t *testing.T) {
		t.Parallel()

		checked := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		st := crawl.NewState()
		st.Seen.Stamp("AcctX", checked)
		st.Seen.Stamp("AcctY", checked.Add(time.Hour))
		st.Skip.Add("Zed")
		st.Skip.Add("Amy")

		snap := st.Snapshot()
		assert.Equal(t, []string{"Amy", "Zed"}, snap.SkipNames, "skip names are sorted")
		assert.Len(t, snap.SeenAccounts, 2)

		restored := crawl.NewStateFromSnapshot(snap)
		assert.Equal(t, snap, restored.Snapshot())
	})
}

func TestLoadState(t *testing.T) {
	t.Parallel()

	t.Run("restores saved progress", func(t *testing.T) {
		t.Parallel()

		checked := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		store := &mock.StateStore{
			LoadFn: func(ctx context.Context) (*ladderwatch.Snapshot, error) {
				return &ladderwatch.Snapshot{
					SeenAccounts: map[string]time.Time{"AcctX": checked},
					SkipNames:    []string{"Bob"},
				}, nil
			},
		}

		st := crawl.LoadState(context.Background(), store, discardLogger())

		last, ok := st.Seen.LastChecked("AcctX")
		require.True(t, ok)
		assert.Equal(t, checked, last)
		assert.True(t, st.Skip.Contains("Bob"))
	})

	t.Run("cold-starts when the store fails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		store := &mock.StateStore{
			LoadFn: func(ctx context.Context) (*ladderwatch.Snapshot, error) {
				return nil, errors.New("corrupt state file")
			},
		}

		st := crawl.LoadState(context.Background(), store, logger)

		require.NotNil(t, st)
		assert.Equal(t, 0, st.Seen.Len())
		assert.Equal(t, 0, st.Skip.Len())
		assert.Contains(t, buf.String(), "corrupt state file")
	})
}

func TestSaveState(t *testing.T) {
	t.Parallel()

	t.Run("writes a snapshot of current progress", func(t *testing.T) {
		t.Parallel()

		var saved *ladderwatch.Snapshot
		store := &mock.StateStore{
			SaveFn: func(ctx context.Context, snap *ladderwatch.Snapshot) error {
				saved = snap
				return nil
			},
		}
		st := crawl.NewState()
		st.Skip.Add("Bob")

		require.NoError(t, crawl.SaveState(context.Background(), store, st, discardLogger()))
		require.NotNil(t, saved)
		assert.Equal(t, []string{"Bob"}, saved.SkipNames)
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		store := &mock.StateStore{
			SaveFn: func(ctx context.Context, snap *ladderwatch.Snapshot) error {
				return errors.New("disk full")
			},
		}

		err := crawl.SaveState(context.Background(), store, crawl.NewState(), discardLogger())
		assert.EqualError(t, err, "disk full")
	})
}
