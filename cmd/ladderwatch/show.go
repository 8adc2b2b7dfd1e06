package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Characters.FindCharacter(deps.Ctx, c.Name, ladderwatch.GameMode(c.Mode), c.Season)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ladderwatch.ErrorMessage(err))
		return err
	}

	if c.Raw {
		var out bytes.Buffer
		if err := json.Indent(&out, rec.Detail, "", "  "); err != nil {
			return fmt.Errorf("failed to format detail: %w", err)
		}
		fmt.Fprintln(deps.Stdout, out.String())
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Name:     %s\n", rec.Name)
	fmt.Fprintf(deps.Stdout, "Account:  %s\n", rec.SourceAccount)
	fmt.Fprintf(deps.Stdout, "Class:    %s\n", rec.Class)
	fmt.Fprintf(deps.Stdout, "Level:    %d\n", rec.Level)
	fmt.Fprintf(deps.Stdout, "Mode:     %s\n", rec.GameMode)
	fmt.Fprintf(deps.Stdout, "Season:   %d\n", rec.Season)
	fmt.Fprintf(deps.Stdout, "Ingested: %s\n", rec.IngestedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "Changed:  %s\n", rec.ChangedAt.UTC().Format(time.RFC3339))

	if len(rec.SkillTotals) > 0 {
		fmt.Fprintln(deps.Stdout, "Skills:")
		for _, st := range rec.SkillTotals {
			fmt.Fprintf(deps.Stdout, "  +%d %s\n", st.Total, st.Skill)
		}
	}

	return nil
}
