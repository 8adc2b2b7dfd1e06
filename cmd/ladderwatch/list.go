package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := ladderwatch.CharacterFilter{Limit: c.Limit}
	if c.Mode != "" {
		mode := ladderwatch.GameMode(c.Mode)
		if mode != ladderwatch.GameModeSoftcore && mode != ladderwatch.GameModeHardcore {
			err := ladderwatch.Errorf(ladderwatch.EINVALID, "unknown game mode %q", c.Mode)
			fmt.Fprintf(deps.Stderr, "error: %s\n", ladderwatch.ErrorMessage(err))
			return err
		}
		filter.GameMode = &mode
	}
	if c.Season > 0 {
		filter.Season = &c.Season
	}
	if c.Class != "" {
		filter.Class = &c.Class
	}

	recs, err := deps.Characters.FindCharacters(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ladderwatch.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No characters found. Use 'ladderwatch run' to ingest some.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(deps.Stdout, "%-16s %3d  %-12s %-8s s%d  %s\n",
			r.Name, r.Level, r.Class, r.GameMode, r.Season, r.IngestedAt.UTC().Format(time.RFC3339))
	}

	return nil
}
