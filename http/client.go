package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/ladderwatch"
)

// Ensure Client implements ladderwatch.GameClient at compile time.
var _ ladderwatch.GameClient = (*Client)(nil)

// Client implements the upstream game API on top of a Fetcher.
// In production the Fetcher is the rate-limited dispatcher, so every call
// made through a Client is serialized with every other upstream call.
type Client struct {
	fetcher ladderwatch.Fetcher
	baseURL string
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, fetcher ladderwatch.Fetcher) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type onlinePlayer struct {
	AccountName string `json:"accountName"`
}

type accountCharacter struct {
	Name string `json:"name"`
}

// OnlineAccounts lists the accounts with a character currently online.
// Accounts appear once, in upstream order.
func (c *Client) OnlineAccounts(ctx context.Context) ([]string, error) {
	var players []onlinePlayer
	if err := c.getJSON(ctx, c.baseURL+"/online", &players); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(players))
	accounts := make([]string, 0, len(players))
	for _, p := range players {
		if seen[p.AccountName] {
			continue
		}
		seen[p.AccountName] = true
		accounts = append(accounts, p.AccountName)
	}
	return accounts, nil
}

// AccountCharacters lists the character names on an account.
func (c *Client) AccountCharacters(ctx context.Context, account string) ([]string, error) {
	var chars []accountCharacter
	u := c.baseURL + "/accounts/" + url.PathEscape(account) + "/characters"
	if err := c.getJSON(ctx, u, &chars); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(chars))
	for _, ch := range chars {
		names = append(names, ch.Name)
	}
	return names, nil
}

// Character fetches the full detail of a character.
// The raw body is kept on the result for storage.
func (c *Client) Character(ctx context.Context, name string) (*ladderwatch.Character, error) {
	u := c.baseURL + "/characters/" + url.PathEscape(name)
	body, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	var char ladderwatch.Character
	if err := json.Unmarshal(body, &char); err != nil {
		return nil, fmt.Errorf("decode character %q: %w", name, err)
	}
	char.Raw = body
	return &char, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	body, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
