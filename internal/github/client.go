package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"devops-bot/internal/models"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// Client performs the repository-scoped GitHub calls the bot needs. Every
// method issues exactly one request and returns failures as *Error.
type Client struct {
	gh   *github.Client
	repo string
}

// RunFilter selects workflow runs from the list-runs endpoint.
type RunFilter struct {
	Branch     string
	Status     string
	Conclusion string
	PerPage    int
}

// NewClient returns a client authenticated with a static token. apiURL is
// optional and selects a GitHub Enterprise Server instance.
func NewClient(token, repo, apiURL string) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}
	if repo == "" {
		return nil, errors.New("repository is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	ghClient := github.NewClient(tc)
	if apiURL != "" {
		var err error
		ghClient, err = ghClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub Enterprise client for %s: %w", apiURL, err)
		}
	}

	return &Client{gh: ghClient, repo: repo}, nil
}

// Repo returns the owner/name the client is bound to.
func (c *Client) Repo() string {
	return c.repo
}

func (c *Client) path(parts ...string) string {
	return "repos/" + c.repo + strings.Join(parts, "")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, v any) (*github.Response, error) {
	u := path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := c.gh.NewRequest(method, u, body)
	if err != nil {
		return nil, transportError(err)
	}

	resp, err := c.gh.Do(ctx, req, v)
	if err = classify(resp, err); err != nil {
		log.Printf("GitHub %s %s failed: %v", method, path, err)
		return resp, err
	}
	return resp, nil
}

// ListRuns fetches workflow runs, newest first.
func (c *Client) ListRuns(ctx context.Context, f RunFilter) ([]models.WorkflowRun, error) {
	q := url.Values{}
	if f.Branch != "" {
		q.Set("branch", f.Branch)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Conclusion != "" {
		q.Set("conclusion", f.Conclusion)
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}

	var payload github.WorkflowRuns
	if _, err := c.do(ctx, http.MethodGet, c.path("/actions/runs"), q, nil, &payload); err != nil {
		return nil, err
	}

	runs := make([]models.WorkflowRun, 0, len(payload.WorkflowRuns))
	for _, r := range payload.WorkflowRuns {
		runs = append(runs, normalizeRun(r))
	}
	return runs, nil
}

// normalizeRun is the one place an API workflow run becomes a models.WorkflowRun.
// Runs started by non-push events may carry no head commit; the getters are
// nil-safe so those come out with an empty message and author.
func normalizeRun(r *github.WorkflowRun) models.WorkflowRun {
	head := r.GetHeadCommit()
	return models.WorkflowRun{
		Status:        r.GetStatus(),
		Conclusion:    r.GetConclusion(),
		HTMLURL:       r.GetHTMLURL(),
		CreatedAt:     r.GetCreatedAt().Time,
		Branch:        r.GetHeadBranch(),
		CommitMessage: head.GetMessage(),
		CommitAuthor:  head.GetAuthor().GetName(),
	}
}

func (c *Client) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	var payload github.Workflows
	if _, err := c.do(ctx, http.MethodGet, c.path("/actions/workflows"), nil, nil, &payload); err != nil {
		return nil, err
	}

	workflows := make([]models.Workflow, 0, len(payload.Workflows))
	for _, w := range payload.Workflows {
		workflows = append(workflows, models.Workflow{ID: w.GetID(), Name: w.GetName()})
	}
	return workflows, nil
}

// DispatchWorkflow triggers a workflow_dispatch run on ref. GitHub answers 204
// on success; any other status, 200 included, is reported as an HTTP error.
func (c *Client) DispatchWorkflow(ctx context.Context, workflowID int64, ref string) error {
	body := github.CreateWorkflowDispatchEventRequest{Ref: ref}
	path := c.path("/actions/workflows/", strconv.FormatInt(workflowID, 10), "/dispatches")

	resp, err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		log.Printf("GitHub POST %s returned %d, expected 204", path, resp.StatusCode)
		return httpError(resp.StatusCode, nil)
	}
	return nil
}

func (c *Client) GetRepository(ctx context.Context) (*models.RepositoryInfo, error) {
	var repo github.Repository
	if _, err := c.do(ctx, http.MethodGet, c.path(), nil, nil, &repo); err != nil {
		return nil, err
	}

	return &models.RepositoryInfo{
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetWatchersCount(),
		DefaultBranch: repo.GetDefaultBranch(),
		CreatedAt:     repo.GetCreatedAt().Time,
	}, nil
}

func (c *Client) ListCommits(ctx context.Context, perPage int) ([]models.Commit, error) {
	q := url.Values{"per_page": {strconv.Itoa(perPage)}}

	var payload []*github.RepositoryCommit
	if _, err := c.do(ctx, http.MethodGet, c.path("/commits"), q, nil, &payload); err != nil {
		return nil, err
	}

	commits := make([]models.Commit, 0, len(payload))
	for _, rc := range payload {
		author := rc.GetCommit().GetAuthor()
		commits = append(commits, models.Commit{
			SHA:        rc.GetSHA(),
			AuthorName: author.GetName(),
			Date:       author.GetDate().Time,
			Message:    rc.GetCommit().GetMessage(),
		})
	}
	return commits, nil
}

func (c *Client) ListOpenPullRequests(ctx context.Context, perPage int) ([]models.PullRequest, error) {
	q := url.Values{
		"state":    {"open"},
		"per_page": {strconv.Itoa(perPage)},
	}

	var payload []*github.PullRequest
	if _, err := c.do(ctx, http.MethodGet, c.path("/pulls"), q, nil, &payload); err != nil {
		return nil, err
	}

	prs := make([]models.PullRequest, 0, len(payload))
	for _, pr := range payload {
		prs = append(prs, models.PullRequest{
			Number:      pr.GetNumber(),
			Title:       pr.GetTitle(),
			AuthorLogin: pr.GetUser().GetLogin(),
			HTMLURL:     pr.GetHTMLURL(),
		})
	}
	return prs, nil
}

func (c *Client) ListBranches(ctx context.Context, perPage int) ([]models.Branch, error) {
	q := url.Values{"per_page": {strconv.Itoa(perPage)}}

	var payload []*github.Branch
	if _, err := c.do(ctx, http.MethodGet, c.path("/branches"), q, nil, &payload); err != nil {
		return nil, err
	}

	branches := make([]models.Branch, 0, len(payload))
	for _, b := range payload {
		branches = append(branches, models.Branch{Name: b.GetName()})
	}
	return branches, nil
}
