package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/ladderwatch"
	main "github.com/fwojciec/ladderwatch/cmd/ladderwatch"
	"github.com/fwojciec/ladderwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates request with trimmed account and timestamp", func(t *testing.T) {
		t.Parallel()

		var created *ladderwatch.PriorityRequest
		requests := &mock.RequestStore{
			CreateRequestFn: func(_ context.Context, req *ladderwatch.PriorityRequest) error {
				created = req
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Requests: requests,
		}

		before := time.Now()
		err := (&main.RequestCmd{Account: "  alice ", IP: "10.1.2.3"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "alice", created.AccountName)
		assert.Equal(t, "10.1.2.3", created.RequestedByIP)
		assert.False(t, created.RequestedAt.Before(before))
		assert.Contains(t, stdout.String(), "Queued priority request for alice")
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		requests := &mock.RequestStore{
			CreateRequestFn: func(_ context.Context, req *ladderwatch.PriorityRequest) error {
				return ladderwatch.Errorf(ladderwatch.EINVALID, "request account name required")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Requests: requests,
		}

		err := (&main.RequestCmd{Account: ""}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "request account name required")
	})
}
