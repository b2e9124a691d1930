package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/go-github/v57/github"
)

// ListIssues fetches one page of open issues carrying the given label.
// Pull requests show up in this listing too; they are mapped with their
// marker set so the caller can skip them.
func (c *Client) ListIssues(ctx context.Context, label string, perPage, page int) ([]Issue, error) {
	u := fmt.Sprintf("%s/repos/%s/issues?state=open&labels=%s&per_page=%d&page=%d",
		c.baseURL, c.repo, url.QueryEscape(label), perPage, page)

	slog.Debug("GitHub API: Listing issues", "repo", c.repo, "label", label, "page", page)
	outcome, err := c.retrier.Do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues (page %d): %w", page, err)
	}

	var ghIssues []*github.Issue
	if err := json.Unmarshal(outcome.Body, &ghIssues); err != nil {
		return nil, fmt.Errorf("failed to parse issue listing (page %d): %w", page, err)
	}

	issues := make([]Issue, 0, len(ghIssues))
	for _, issue := range ghIssues {
		issues = append(issues, mapIssue(issue))
	}

	return issues, nil
}

// CommentIssue posts a comment on an issue
func (c *Client) CommentIssue(ctx context.Context, number int, body string) error {
	u := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.baseURL, c.repo, number)
	commentInput := &github.IssueComment{
		Body: github.String(body),
	}

	slog.Debug("GitHub API: Creating issue comment", "repo", c.repo, "issue", number)
	if _, err := c.retrier.Do(ctx, http.MethodPost, u, commentInput); err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", number, err)
	}

	return nil
}

// CloseIssue closes an issue
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	u := fmt.Sprintf("%s/repos/%s/issues/%d", c.baseURL, c.repo, number)
	issueInput := &github.IssueRequest{
		State: github.String("closed"),
	}

	slog.Debug("GitHub API: Closing issue", "repo", c.repo, "issue", number)
	if _, err := c.retrier.Do(ctx, http.MethodPatch, u, issueInput); err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", number, err)
	}

	return nil
}

// LockIssue locks an issue with the given reason. If the issue is already
// locked (HTTP 423) it returns ErrAlreadyLocked so the caller can carry on.
func (c *Client) LockIssue(ctx context.Context, number int, reason string) error {
	u := fmt.Sprintf("%s/repos/%s/issues/%d/lock", c.baseURL, c.repo, number)
	lockInput := &github.LockIssueOptions{
		LockReason: reason,
	}

	slog.Debug("GitHub API: Locking issue", "repo", c.repo, "issue", number, "reason", reason)
	if _, err := c.retrier.Do(ctx, http.MethodPut, u, lockInput); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusLocked {
			return ErrAlreadyLocked
		}
		return fmt.Errorf("failed to lock issue #%d: %w", number, err)
	}

	return nil
}
