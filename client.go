package ladderwatch

import "context"

// Fetcher retrieves raw response bodies from upstream URLs.
type Fetcher interface {
	// Fetch issues a GET request and returns the body of a 2xx response.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HostLimiter provides per-host rate limiting.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}

// GameClient exposes the three read-only upstream operations.
// Callers treat any error as "no data": an empty list or a nil character.
type GameClient interface {
	// OnlineAccounts lists the names of accounts that are currently online.
	OnlineAccounts(ctx context.Context) ([]string, error)

	// AccountCharacters lists the character names belonging to an account.
	AccountCharacters(ctx context.Context, account string) ([]string, error)

	// Character fetches the full detail of a single character.
	// Returns ENOTFOUND if the upstream has no such character.
	Character(ctx context.Context, name string) (*Character, error)
}
