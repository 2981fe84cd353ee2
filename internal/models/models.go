package models

import "time"

// WorkflowRun is one execution of a GitHub Actions workflow, reduced to the
// fields the bot displays.
type WorkflowRun struct {
	Status        string
	Conclusion    string // empty until the run completes
	HTMLURL       string
	CreatedAt     time.Time
	Branch        string
	CommitMessage string
	CommitAuthor  string
}

// EffectiveStatus returns the conclusion when the run has one, else its status.
func (r WorkflowRun) EffectiveStatus() string {
	if r.Conclusion != "" {
		return r.Conclusion
	}
	return r.Status
}

type Workflow struct {
	ID   int64
	Name string
}

type Commit struct {
	SHA        string
	AuthorName string
	Date       time.Time
	Message    string
}

type PullRequest struct {
	Number      int
	Title       string
	AuthorLogin string
	HTMLURL     string
}

type Branch struct {
	Name string
}

// RepositoryInfo holds the repository statistics shown by !repo-info
type RepositoryInfo struct {
	Stars         int
	Forks         int
	Watchers      int
	DefaultBranch string
	CreatedAt     time.Time
}
