// Package convertkit tags new site subscribers on the mailing list.
package convertkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const apiBase = "https://api.convertkit.com/v3"

// Client talks to the ConvertKit API.
type Client struct {
	apiKey string
	tagID  string
	http   *http.Client
}

// NewClient creates a ConvertKit client. An empty apiKey disables tagging;
// TagSubscriber becomes a no-op so signup never depends on the mailing list
// being configured.
func NewClient(apiKey, tagID string) *Client {
	return &Client{
		apiKey: apiKey,
		tagID:  tagID,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tagRequest struct {
	APIKey    string `json:"api_key"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

type tagResponse struct {
	Subscription struct {
		Subscriber struct {
			ID int64 `json:"id"`
		} `json:"subscriber"`
	} `json:"subscription"`
}

// TagSubscriber subscribes the email to the configured tag and returns the
// subscriber ID.
func (c *Client) TagSubscriber(ctx context.Context, email, firstName string) (string, error) {
	if c.apiKey == "" {
		return "", nil
	}

	body := tagRequest{APIKey: c.apiKey, Email: email, FirstName: firstName}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/tags/%s/subscribe", apiBase, c.tagID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tag subscriber: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("convertkit API error: status %d", resp.StatusCode)
	}

	var parsed tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strconv.FormatInt(parsed.Subscription.Subscriber.ID, 10), nil
}
