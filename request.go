package ladderwatch

import (
	"context"
	"time"
)

// PriorityRequest is a user-submitted request to re-check an account now.
type PriorityRequest struct {
	AccountName   string
	RequestedAt   time.Time
	RequestedByIP string
}

// Validate returns an error if the request contains invalid fields.
func (r *PriorityRequest) Validate() error {
	if !ValidName(r.AccountName) {
		return Errorf(EINVALID, "request account name required")
	}
	return nil
}

// RequestStore is the shared list of pending priority requests.
// The priority injector is its sole consumer and truncator.
type RequestStore interface {
	// CreateRequest appends a request to the list.
	CreateRequest(ctx context.Context, req *PriorityRequest) error

	// FindRequests returns all pending requests in submission order.
	// A missing list is returned as an empty slice.
	FindRequests(ctx context.Context) ([]*PriorityRequest, error)

	// ClearRequests removes the first n requests, the ones a caller already
	// read with FindRequests. Requests appended since then are kept.
	ClearRequests(ctx context.Context, n int) error
}
