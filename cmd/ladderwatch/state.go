package main

import (
	"sort"
	"time"

	"github.com/fwojciec/ladderwatch"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Run executes the state command.
func (c *StateCmd) Run(deps *Dependencies) error {
	p := message.NewPrinter(language.English)

	snap, err := deps.States.Load(deps.Ctx)
	if err != nil {
		p.Fprintf(deps.Stderr, "error: %s\n", ladderwatch.ErrorMessage(err))
		return err
	}

	p.Fprintf(deps.Stdout, "Seen accounts:      %d\n", len(snap.SeenAccounts))
	p.Fprintf(deps.Stdout, "Skipped characters: %d\n", len(snap.SkipNames))

	if len(snap.SeenAccounts) == 0 {
		return nil
	}

	accounts := make([]string, 0, len(snap.SeenAccounts))
	for account := range snap.SeenAccounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		ti, tj := snap.SeenAccounts[accounts[i]], snap.SeenAccounts[accounts[j]]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return accounts[i] < accounts[j]
	})

	oldest := snap.SeenAccounts[accounts[0]]
	newest := snap.SeenAccounts[accounts[len(accounts)-1]]
	p.Fprintf(deps.Stdout, "Oldest check:       %s\n", oldest.UTC().Format(time.RFC3339))
	p.Fprintf(deps.Stdout, "Newest check:       %s\n", newest.UTC().Format(time.RFC3339))

	if c.Accounts {
		p.Fprintln(deps.Stdout)
		for _, account := range accounts {
			p.Fprintf(deps.Stdout, "%s  %s\n", snap.SeenAccounts[account].UTC().Format(time.RFC3339), account)
		}
	}

	return nil
}
