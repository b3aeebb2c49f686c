package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dgel92/Notificacion-Temperatura/internal/domain"
)

// Client downloads iCalendar feeds over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new feed client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Fetch downloads one feed and returns the raw iCalendar payload.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", redactURL(feedURL), resp.StatusCode)
	}

	return body, nil
}

// Source is one subscribed iCalendar feed.
type Source struct {
	client *Client
	url    string
}

// NewSource creates an event source backed by a feed URL.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// Name identifies the source in logs. Feed URLs routinely embed secret
// tokens, so only the host survives.
func (s *Source) Name() string {
	return redactURL(s.url)
}

// Events fetches the feed and returns the occurrences that may intersect
// [from, to), recurring events expanded.
func (s *Source) Events(ctx context.Context, from, to time.Time) ([]domain.RawEvent, error) {
	body, err := s.client.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	parsed, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", redactURL(s.url), err)
	}

	return expandEvents(parsed, from, to), nil
}

// redactURL strips path, query and credentials from a feed URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
