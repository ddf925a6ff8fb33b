// Package discord implements the account linking flow against the Discord
// OAuth2 API: authorization code exchange followed by a member lookup.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiBase       = "https://discord.com/api"
	tokenEndpoint = apiBase + "/oauth2/token"
	meEndpoint    = apiBase + "/users/@me"
)

var (
	// ErrMissingCode means the callback arrived without an authorization code.
	ErrMissingCode = errors.New("authorization code required")
	// ErrExchangeFailed means the provider rejected the authorization code.
	ErrExchangeFailed = errors.New("provider rejected the authorization code")
)

// Member is the linked external identity returned by a successful exchange.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Client talks to the Discord OAuth2 API.
type Client struct {
	clientID     string
	clientSecret string
	http         *http.Client
}

// NewClient creates a Discord client with the given application credentials.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the redirect URL that starts the connect flow.
func (c *Client) AuthorizeURL(domainURL string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", redirectURI(domainURL))
	q.Set("response_type", "code")
	q.Set("scope", "identify guilds.join")
	return apiBase + "/oauth2/authorize?" + q.Encode()
}

// Connect exchanges the authorization code for an access token and resolves
// the Discord member behind it.
func (c *Client) Connect(ctx context.Context, code, domainURL string) (*Member, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	accessToken, err := c.exchangeCode(ctx, code, domainURL)
	if err != nil {
		return nil, err
	}

	return c.fetchMember(ctx, accessToken)
}

func (c *Client) exchangeCode(ctx context.Context, code, domainURL string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI(domainURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", ErrExchangeFailed
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", ErrExchangeFailed
	}

	return body.AccessToken, nil
}

func (c *Client) fetchMember(ctx context.Context, accessToken string) (*Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch member: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("discord API error: status %d", resp.StatusCode)
	}

	member := &Member{}
	if err := json.NewDecoder(resp.Body).Decode(member); err != nil {
		return nil, fmt.Errorf("decode member response: %w", err)
	}

	return member, nil
}

func redirectURI(domainURL string) string {
	return strings.TrimSuffix(domainURL, "/") + "/discord/callback"
}
