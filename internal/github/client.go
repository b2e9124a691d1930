// Package github wraps the GitHub REST API with a bounded-timeout request
// executor and fixed-delay retry logic for the issue triage operations.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github+json"
)

// Options configures a Client.
type Options struct {
	// Timeout bounds each individual HTTP call. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retry configures the retry behavior; nil means DefaultRetryConfig.
	Retry *RetryConfig
}

// DefaultTimeout is the per-call HTTP timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// Client issues REST calls against the GitHub API for a single repository.
// Every call goes through the retrier, which in turn drives the raw
// executor, so transient failures are handled uniformly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	repo       string
	retrier    *Retrier
}

// NewClient creates a new GitHub client with token authentication.
// The transport sleeps through secondary rate limits before the token
// source injects the bearer authorization header.
func NewClient(token, repo string, opts Options) (*Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		repo:       repo,
	}
	c.retrier = NewRetrier(c, opts.Retry)
	return c, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL. This constructor is intended for testing, allowing injection
// of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, repo string, retry *RetryConfig) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		repo:       repo,
	}
	c.retrier = NewRetrier(c, retry)
	return c
}

// Execute issues a single HTTP call and captures its status and body.
// Transport-level failures are normalized to the status sentinel 0 with
// the error text as a best-effort body; callers treat 0 as the same retry
// class as a server error. The returned error is reserved for request
// construction problems, which no amount of retrying can fix.
func (c *Client) Execute(ctx context.Context, method, url string, body any) (*Outcome, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Outcome{StatusCode: 0, Body: []byte(err.Error())}, nil
	}
	defer resp.Body.Close()

	// Best effort: a partially read body is still useful for diagnostics.
	data, _ := io.ReadAll(resp.Body)

	return &Outcome{StatusCode: resp.StatusCode, Body: data}, nil
}
