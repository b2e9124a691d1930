package triage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alan/issue-sweeper/internal/config"
	"github.com/alan/issue-sweeper/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService scripts listing pages and records every mutating call.
type fakeService struct {
	pages      [][]github.Issue
	listErr    error
	commentErr error
	closeErr   error
	lockErr    error

	listCalls int
	commented []int
	closed    []int
	locked    []int
}

func (f *fakeService) ListIssues(_ context.Context, _ string, _, page int) ([]github.Issue, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if page-1 >= len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func (f *fakeService) CommentIssue(_ context.Context, number int, _ string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.commented = append(f.commented, number)
	return nil
}

func (f *fakeService) CloseIssue(_ context.Context, number int) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, number)
	return nil
}

func (f *fakeService) LockIssue(_ context.Context, number int, _ string) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked = append(f.locked, number)
	return nil
}

func makeIssues(start, n int) []github.Issue {
	issues := make([]github.Issue, 0, n)
	for i := 0; i < n; i++ {
		issues = append(issues, github.Issue{Number: start + i, Title: fmt.Sprintf("issue %d", start+i)})
	}
	return issues
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Repo = "test-org/test-repo"
	cfg.Label = "stale"
	cfg.PerPage = 2
	cfg.Message = "closing"
	cfg.LockReason = "resolved"
	return cfg
}

func TestRun_StopsAfterPartialPage(t *testing.T) {
	service := &fakeService{
		pages: [][]github.Issue{
			makeIssues(1, 2),
			makeIssues(3, 2),
			makeIssues(5, 1), // partial page signals the end
		},
	}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, service.listCalls, "no fetch beyond the partial page")
	assert.Equal(t, &Counters{Processed: 5, Commented: 5, Closed: 5, Locked: 5}, counters)
}

func TestRun_MaxPagesCap(t *testing.T) {
	service := &fakeService{
		pages: [][]github.Issue{
			makeIssues(1, 2),
			makeIssues(3, 2),
		},
	}
	cfg := testConfig()
	cfg.MaxPages = 1
	runner := NewRunner(service, cfg)

	counters, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, service.listCalls, "cap is checked before fetching")
	assert.Equal(t, 2, counters.Processed)
}

func TestRun_EmptyFirstPage(t *testing.T) {
	service := &fakeService{pages: [][]github.Issue{{}}}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, service.listCalls)
	assert.Equal(t, &Counters{}, counters)
}

func TestRun_InvalidPerPage(t *testing.T) {
	cfg := testConfig()
	cfg.PerPage = 0
	runner := NewRunner(&fakeService{}, cfg)

	_, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "per_page")
}

func TestRun_FetchFailureIsFatal(t *testing.T) {
	service := &fakeService{listErr: errors.New("failed to list issues (page 1): github api returned status 502: bad gateway")}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, counters)
}

func TestProcess_SkipsPullRequests(t *testing.T) {
	service := &fakeService{
		pages: [][]github.Issue{
			{{Number: 7, Title: "a pull request", IsPullRequest: true}},
		},
	}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Counters{Processed: 1, Skipped: 1}, counters)
	assert.Empty(t, service.commented)
	assert.Empty(t, service.closed)
	assert.Empty(t, service.locked)
}

func TestProcess_DryRunIssuesNoMutatingCalls(t *testing.T) {
	service := &fakeService{
		pages: [][]github.Issue{makeIssues(1, 2)},
	}
	cfg := testConfig()
	cfg.DryRun = true
	runner := NewRunner(service, cfg)

	counters, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Counters{Processed: 2, Skipped: 2}, counters)
	assert.Empty(t, service.commented)
	assert.Empty(t, service.closed)
	assert.Empty(t, service.locked)
}

func TestProcess_AlreadyLockedContinues(t *testing.T) {
	service := &fakeService{
		pages:   [][]github.Issue{makeIssues(1, 2)},
		lockErr: github.ErrAlreadyLocked,
	}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.NoError(t, err, "423 on lock must not abort the run")
	assert.Equal(t, &Counters{Processed: 2, Commented: 2, Closed: 2, Locked: 0}, counters)
}

func TestProcess_CommentFailureAbortsRun(t *testing.T) {
	service := &fakeService{
		pages:      [][]github.Issue{makeIssues(1, 2)},
		commentErr: errors.New("failed to comment on issue #1: github api returned status 500: boom"),
	}
	runner := NewRunner(service, testConfig())

	counters, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, counters, "no partial counters survive a fatal abort")
	assert.Empty(t, service.closed, "nothing past the failing step runs")
}

func TestProcess_CloseFailureAbortsRun(t *testing.T) {
	service := &fakeService{
		pages:    [][]github.Issue{makeIssues(1, 1)},
		closeErr: errors.New("failed to close issue #1: github api returned status 500: boom"),
	}
	runner := NewRunner(service, testConfig())

	_, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, []int{1}, service.commented, "comment lands before the close fails")
	assert.Empty(t, service.locked)
}

func TestProcess_LockFailureAbortsRun(t *testing.T) {
	service := &fakeService{
		pages:   [][]github.Issue{makeIssues(1, 1)},
		lockErr: errors.New("failed to lock issue #1: github api returned status 403: forbidden"),
	}
	runner := NewRunner(service, testConfig())

	_, err := runner.Run(context.Background())

	require.Error(t, err)
}

func TestRun_ProcessesInListingOrder(t *testing.T) {
	service := &fakeService{
		pages: [][]github.Issue{makeIssues(10, 2), makeIssues(12, 1)},
	}
	runner := NewRunner(service, testConfig())

	_, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, service.commented)
	assert.Equal(t, []int{10, 11, 12}, service.closed)
	assert.Equal(t, []int{10, 11, 12}, service.locked)
}
