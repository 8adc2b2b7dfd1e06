package mock

import (
	"context"

	"github.com/fwojciec/ladderwatch"
)

var _ ladderwatch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ladderwatch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

var _ ladderwatch.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of ladderwatch.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

var _ ladderwatch.GameClient = (*GameClient)(nil)

// GameClient is a mock implementation of ladderwatch.GameClient.
type GameClient struct {
	OnlineAccountsFn    func(ctx context.Context) ([]string, error)
	AccountCharactersFn func(ctx context.Context, account string) ([]string, error)
	CharacterFn         func(ctx context.Context, name string) (*ladderwatch.Character, error)
}

func (c *GameClient) OnlineAccounts(ctx context.Context) ([]string, error) {
	return c.OnlineAccountsFn(ctx)
}

func (c *GameClient) AccountCharacters(ctx context.Context, account string) ([]string, error) {
	return c.AccountCharactersFn(ctx, account)
}

func (c *GameClient) Character(ctx context.Context, name string) (*ladderwatch.Character, error) {
	return c.CharacterFn(ctx, name)
}
