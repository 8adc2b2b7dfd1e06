package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/ladderwatch"
	main "github.com/fwojciec/ladderwatch/cmd/ladderwatch"
	"github.com/fwojciec/ladderwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists characters matching filters", func(t *testing.T) {
		t.Parallel()

		var got ladderwatch.CharacterFilter
		characters := &mock.CharacterService{
			FindCharactersFn: func(_ context.Context, filter ladderwatch.CharacterFilter) ([]*ladderwatch.CharacterRecord, error) {
				got = filter
				return []*ladderwatch.CharacterRecord{storedRecord()}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Characters: characters,
		}

		err := (&main.ListCmd{Mode: "hardcore", Season: 4, Class: "Sorceress", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.GameMode)
		assert.Equal(t, ladderwatch.GameModeHardcore, *got.GameMode)
		require.NotNil(t, got.Season)
		assert.Equal(t, 4, *got.Season)
		require.NotNil(t, got.Class)
		assert.Equal(t, "Sorceress", *got.Class)
		assert.Equal(t, 5, got.Limit)

		output := stdout.String()
		assert.Contains(t, output, "Zap")
		assert.Contains(t, output, "Sorceress")
		assert.Contains(t, output, "hardcore")
	})

	t.Run("leaves filters unset by default", func(t *testing.T) {
		t.Parallel()

		var got ladderwatch.CharacterFilter
		characters := &mock.CharacterService{
			FindCharactersFn: func(_ context.Context, filter ladderwatch.CharacterFilter) ([]*ladderwatch.CharacterRecord, error) {
				got = filter
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Characters: characters,
		}

		err := (&main.ListCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Nil(t, got.GameMode)
		assert.Nil(t, got.Season)
		assert.Nil(t, got.Class)
		assert.Contains(t, stdout.String(), "No characters found")
	})

	t.Run("rejects unknown game mode", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     &bytes.Buffer{},
			Stderr:     stderr,
			Characters: &mock.CharacterService{},
		}

		err := (&main.ListCmd{Mode: "nightmare"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, ladderwatch.EINVALID, ladderwatch.ErrorCode(err))
		assert.Contains(t, stderr.String(), "nightmare")
	})
}
