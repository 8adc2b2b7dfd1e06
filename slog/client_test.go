package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/mock"
	lwslog "github.com/fwojciec/ladderwatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingGameClient(t *testing.T) {
	t.Parallel()

	t.Run("logs online accounts with count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.GameClient{
			OnlineAccountsFn: func(ctx context.Context) ([]string, error) {
				return []string{"alice", "bob"}, nil
			},
		}

		client := lwslog.NewLoggingGameClient(inner, debugLogger(&buf))
		accounts, err := client.OnlineAccounts(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, accounts)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "online accounts")
		assert.Contains(t, output, "count=2")
	})

	t.Run("traces account characters failure at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.GameClient{
			AccountCharactersFn: func(ctx context.Context, account string) ([]string, error) {
				return nil, errors.New("upstream down")
			},
		}

		client := lwslog.NewLoggingGameClient(inner, debugLogger(&buf))
		_, err := client.AccountCharacters(context.Background(), "alice")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.NotContains(t, output, "level=WARN")
		assert.Contains(t, output, "account=alice")
		assert.Contains(t, output, "err=\"upstream down\"")
	})

	t.Run("stays silent on failure at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.GameClient{
			OnlineAccountsFn: func(ctx context.Context) ([]string, error) {
				return nil, errors.New("upstream down")
			},
		}

		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		client := lwslog.NewLoggingGameClient(inner, logger)
		_, err := client.OnlineAccounts(context.Background())

		require.Error(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("logs character fetch with name", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.GameClient{
			CharacterFn: func(ctx context.Context, name string) (*ladderwatch.Character, error) {
				return &ladderwatch.Character{}, nil
			},
		}

		client := lwslog.NewLoggingGameClient(inner, debugLogger(&buf))
		char, err := client.Character(context.Background(), "Zap")

		require.NoError(t, err)
		assert.NotNil(t, char)
		assert.Contains(t, buf.String(), "name=Zap")
	})
}

func TestLoggingSink_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("logs record identity and error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CharacterService{
			IngestFn: func(ctx context.Context, rec *ladderwatch.CharacterRecord) error {
				return errors.New("disk full")
			},
		}

		sink := lwslog.NewLoggingSink(inner, debugLogger(&buf))
		err := sink.Ingest(context.Background(), &ladderwatch.CharacterRecord{
			Name:          "Zap",
			SourceAccount: "alice",
			GameMode:      ladderwatch.GameModeHardcore,
			Season:        3,
			Level:         92,
		})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "ingest")
		assert.Contains(t, output, "name=Zap")
		assert.Contains(t, output, "mode=hardcore")
		assert.Contains(t, output, "level=92")
		assert.Contains(t, output, "err=\"disk full\"")
	})
}
