package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Run executes the request command.
func (c *RequestCmd) Run(deps *Dependencies) error {
	req := &ladderwatch.PriorityRequest{
		AccountName:   strings.TrimSpace(c.Account),
		RequestedAt:   time.Now(),
		RequestedByIP: c.IP,
	}

	if err := deps.Requests.CreateRequest(deps.Ctx, req); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ladderwatch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Queued priority request for %s\n", req.AccountName)
	return nil
}
