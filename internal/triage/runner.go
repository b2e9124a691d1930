// Package triage implements the paginated sweep over labeled issues:
// fetching pages, classifying each item, and applying the ordered
// comment/close/lock transition while aggregating run counters.
package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alan/issue-sweeper/internal/config"
	"github.com/alan/issue-sweeper/internal/github"
)

// IssueService is the slice of the GitHub client the runner needs.
// The concrete client routes every call through the retry controller.
type IssueService interface {
	ListIssues(ctx context.Context, label string, perPage, page int) ([]github.Issue, error)
	CommentIssue(ctx context.Context, number int, body string) error
	CloseIssue(ctx context.Context, number int) error
	LockIssue(ctx context.Context, number int, reason string) error
}

// Runner drives the sweep: one page at a time, one issue at a time.
// There is exactly one writer of the counters and no concurrency.
type Runner struct {
	service  IssueService
	config   *config.Config
	counters Counters
}

// NewRunner creates a Runner for the given service and configuration
func NewRunner(service IssueService, cfg *config.Config) *Runner {
	return &Runner{
		service: service,
		config:  cfg,
	}
}

// Run fetches matching issues page by page and processes each one in
// listing order. It returns the aggregated counters on clean completion.
// Any exhausted-retry fetch or mutation failure aborts the whole run:
// there is deliberately no per-item isolation and no checkpointing, so
// counters accumulated before the failure are discarded by the caller.
func (r *Runner) Run(ctx context.Context) (*Counters, error) {
	if r.config.PerPage <= 0 {
		return nil, fmt.Errorf("per_page must be a positive integer, got %d", r.config.PerPage)
	}

	for page := 1; ; page++ {
		if r.config.MaxPages > 0 && page > r.config.MaxPages {
			slog.Info("Reached configured page cap", "max_pages", r.config.MaxPages)
			break
		}

		slog.Info("Fetching issues", "label", r.config.Label, "page", page, "per_page", r.config.PerPage)
		issues, err := r.service.ListIssues(ctx, r.config.Label, r.config.PerPage, page)
		if err != nil {
			return nil, err
		}

		if len(issues) == 0 {
			slog.Info("No more issues", "page", page)
			break
		}

		for _, issue := range issues {
			if err := r.processIssue(ctx, issue); err != nil {
				return nil, err
			}
		}

		// A short page signals the last page
		if len(issues) < r.config.PerPage {
			break
		}
	}

	counters := r.counters
	return &counters, nil
}

// processIssue applies the ordered comment -> close -> lock transition to
// a single issue, skipping pull requests and dry runs.
func (r *Runner) processIssue(ctx context.Context, issue github.Issue) error {
	r.counters.Processed++

	if issue.IsPullRequest {
		slog.Info("Skipping pull request", "number", issue.Number, "title", issue.Title)
		r.counters.Skipped++
		return nil
	}

	if r.config.DryRun {
		slog.Info("Dry run: would comment, close, and lock", "number", issue.Number, "title", issue.Title)
		r.counters.Skipped++
		return nil
	}

	if err := r.service.CommentIssue(ctx, issue.Number, r.config.Message); err != nil {
		return err
	}
	r.counters.Commented++
	slog.Info("Commented on issue", "number", issue.Number)

	if err := r.service.CloseIssue(ctx, issue.Number); err != nil {
		return err
	}
	r.counters.Closed++
	slog.Info("Closed issue", "number", issue.Number)

	err := r.service.LockIssue(ctx, issue.Number, r.config.LockReason)
	switch {
	case errors.Is(err, github.ErrAlreadyLocked):
		slog.Warn("Issue already locked", "number", issue.Number)
	case err != nil:
		return err
	default:
		r.counters.Locked++
		slog.Info("Locked issue", "number", issue.Number, "reason", r.config.LockReason)
	}

	return nil
}
