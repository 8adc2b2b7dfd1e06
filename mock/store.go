package mock

import (
	"context"

	"github.com/fwojciec/ladderwatch"
)

var _ ladderwatch.RequestStore = (*RequestStore)(nil)

// RequestStore is a mock implementation of ladderwatch.RequestStore.
type RequestStore struct {
	CreateRequestFn func(ctx context.Context, req *ladderwatch.PriorityRequest) error
	FindRequestsFn  func(ctx context.Context) ([]*ladderwatch.PriorityRequest, error)
	ClearRequestsFn func(ctx context.Context, n int) error
}

func (s *RequestStore) CreateRequest(ctx context.Context, req *ladderwatch.PriorityRequest) error {
	return s.CreateRequestFn(ctx, req)
}

func (s *RequestStore) FindRequests(ctx context.Context) ([]*ladderwatch.PriorityRequest, error) {
	return s.FindRequestsFn(ctx)
}

func (s *RequestStore) ClearRequests(ctx context.Context, n int) error {
	return s.ClearRequestsFn(ctx, n)
}

var _ ladderwatch.StateStore = (*StateStore)(nil)

// StateStore is a mock implementation of ladderwatch.StateStore.
type StateStore struct {
	LoadFn func(ctx context.Context) (*ladderwatch.Snapshot, error)
	SaveFn func(ctx context.Context, snap *ladderwatch.Snapshot) error
}

func (s *StateStore) Load(ctx context.Context) (*ladderwatch.Snapshot, error) {
	return s.LoadFn(ctx)
}

func (s *StateStore) Save(ctx context.Context, snap *ladderwatch.Snapshot) error {
	return s.SaveFn(ctx, snap)
}
