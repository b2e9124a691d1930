package github

import "github.com/google/go-github/v57/github"

// Outcome captures the result of a single executed HTTP request.
// A StatusCode of 0 is the transport-failure sentinel: the request never
// produced a server response (timeout, connection failure, DNS error).
type Outcome struct {
	StatusCode int
	Body       []byte
}

// Success reports whether the outcome carries a 2xx status.
func (o *Outcome) Success() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// Issue represents one element of a listing page
type Issue struct {
	Number        int
	Title         string
	IsPullRequest bool
}

// mapIssue converts a go-github Issue to the local Issue type
func mapIssue(issue *github.Issue) Issue {
	return Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		IsPullRequest: issue.IsPullRequest(),
	}
}
