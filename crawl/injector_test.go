package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/crawl"
	"github.com/fwojciec/ladderwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestList struct {
	reqs    []*ladderwatch.PriorityRequest
	cleared int
	removed int
}

func (l *requestList) store() *mock.RequestStore {
	return &mock.RequestStore{
		FindRequestsFn: func(ctx context.Context) ([]*ladderwatch.PriorityRequest, error) {
			return l.reqs, nil
		},
		ClearRequestsFn: func(ctx context.Context, n int) error {
			l.cleared++
			l.removed += n
			l.reqs = l.reqs[min(n, len(l.reqs)):]
			return nil
		},
	}
}

func request(account string) *ladderwatch.PriorityRequest {
	return &ladderwatch.PriorityRequest{
		AccountName:   account,
		RequestedAt:   time.Date(2026, 10, 16, 11, 0, 0, 0, time.UTC),
		RequestedByIP: "203.0.113.7",
	}
}

func newInjector(client ladderwatch.GameClient, requests ladderwatch.RequestStore, q *crawl.Queue, st *crawl.State) *crawl.Injector {
	return &crawl.Injector{
		Client:   client,
		Requests: requests,
		Queue:    q,
		State:    st,
		Cooldown: time.Millisecond,
		Logger:   discardLogger(),
		Now:      func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) },
	}
}

func TestInjector_Run(t *testing.T) {
	t.Parallel()

	t.Run("pushes requested characters ahead of the backlog and clears the list", func(t *testing.T) {
		t.Parallel()

		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				return []string{"Yan", "Yoko"}, nil
			},
		}
		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("AcctY")}}
		q := crawl.NewQueue()
		q.PushBack(item("Old1", "AcctA"))
		q.PushBack(item("Old2", "AcctB"))
		in := newInjector(client, list.store(), q, crawl.NewState())

		require.NoError(t, in.Run(context.Background()))

		assert.Equal(t, []string{"Yoko", "Yan", "Old1", "Old2"}, drain(q))
		assert.Equal(t, 1, list.cleared)
		assert.Equal(t, 1, list.removed)
		assert.Empty(t, list.reqs)
	})

	t.Run("keeps requests submitted while the run is in progress", func(t *testing.T) {
		t.Parallel()

		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("AcctY")}}
		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				list.reqs = append(list.reqs, request("AcctZ"))
				return []string{"Yan"}, nil
			},
		}
		in := newInjector(client, list.store(), crawl.NewQueue(), crawl.NewState())

		require.NoError(t, in.Run(context.Background()))

		assert.Equal(t, 1, list.removed)
		require.Len(t, list.reqs, 1)
		assert.Equal(t, "AcctZ", list.reqs[0].AccountName)
	})

	t.Run("later requests end up nearest the head", func(t *testing.T) {
		t.Parallel()

		var order []string
		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				order = append(order, account)
				return map[string][]string{
					"A": {"a1", "a2"},
					"B": {"b1"},
				}[account], nil
			},
		}
		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("A"), request("B")}}
		q := crawl.NewQueue()
		in := newInjector(client, list.store(), q, crawl.NewState())

		require.NoError(t, in.Run(context.Background()))

		assert.Equal(t, []string{"A", "B"}, order, "accounts are enumerated in list order")
		assert.Equal(t, []string{"b1", "a2", "a1"}, drain(q))
	})

	t.Run("bypasses the discovery re-check interval", func(t *testing.T) {
		t.Parallel()

		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				return []string{"Bob"}, nil
			},
		}
		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("AcctX")}}
		st := crawl.NewState()
		st.Seen.Stamp("AcctX", time.Date(2026, 10, 16, 11, 59, 0, 0, time.UTC))
		q := crawl.NewQueue()
		in := newInjector(client, list.store(), q, st)

		require.NoError(t, in.Run(context.Background()))

		assert.Equal(t, []string{"Bob"}, drain(q))
		last, _ := st.Seen.LastChecked("AcctX")
		assert.Equal(t, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC), last)
	})

	t.Run("never queues skipped or invalid names", func(t *testing.T) {
		t.Parallel()

		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				return []string{"Bob", "Nonladder", ""}, nil
			},
		}
		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("AcctX"), request(" ")}}
		st := crawl.NewState()
		st.Skip.Add("Nonladder")
		q := crawl.NewQueue()
		in := newInjector(client, list.store(), q, st)

		require.NoError(t, in.Run(context.Background()))

		assert.Equal(t, []string{"Bob"}, drain(q))
		assert.Equal(t, 1, st.Seen.Len(), "invalid account is not stamped")
	})

	t.Run("does nothing when the list is empty", func(t *testing.T) {
		t.Parallel()

		list := &requestList{}
		q := crawl.NewQueue()
		in := newInjector(&mock.GameClient{}, list.store(), q, crawl.NewState())

		require.NoError(t, in.Run(context.Background()))
		assert.Equal(t, 0, list.cleared)
	})

	t.Run("does nothing when the list is unreadable", func(t *testing.T) {
		t.Parallel()

		cleared := false
		store := &mock.RequestStore{
			FindRequestsFn: func(ctx context.Context) ([]*ladderwatch.PriorityRequest, error) {
				return nil, errors.New("bad json")
			},
			ClearRequestsFn: func(ctx context.Context, n int) error {
				cleared = true
				return nil
			},
		}
		q := crawl.NewQueue()
		in := newInjector(&mock.GameClient{}, store, q, crawl.NewState())

		require.NoError(t, in.Run(context.Background()))
		assert.False(t, cleared)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("leaves the list untouched when interrupted", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				if account == "B" {
					cancel()
					return nil, ctx.Err()
				}
				return []string{"a1"}, nil
			},
		}
		list := &requestList{reqs: []*ladderwatch.PriorityRequest{request("A"), request("B")}}
		in := newInjector(client, list.store(), crawl.NewQueue(), crawl.NewState())

		err := in.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, list.cleared)
		assert.Len(t, list.reqs, 2)
	})

	t.Run("returns clear errors", func(t *testing.T) {
		t.Parallel()

		store := &mock.RequestStore{
			FindRequestsFn: func(ctx context.Context) ([]*ladderwatch.PriorityRequest, error) {
				return []*ladderwatch.PriorityRequest{request("A")}, nil
			},
			ClearRequestsFn: func(ctx context.Context, n int) error {
				return errors.New("read-only file system")
			},
		}
		client := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				return nil, nil
			},
		}
		in := newInjector(client, store, crawl.NewQueue(), crawl.NewState())

		assert.EqualError(t, in.Run(context.Background()), "read-only file system")
	})
}
