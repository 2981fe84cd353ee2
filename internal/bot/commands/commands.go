package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "devops-bot/internal/github"
	"devops-bot/internal/models"
)

// Version is reported by !version.
var Version = "1.0.0"

const deployRef = "main"

// API is the subset of the GitHub client the handlers call.
type API interface {
	ListRuns(ctx context.Context, f gh.RunFilter) ([]models.WorkflowRun, error)
	ListWorkflows(ctx context.Context) ([]models.Workflow, error)
	DispatchWorkflow(ctx context.Context, workflowID int64, ref string) error
	GetRepository(ctx context.Context) (*models.RepositoryInfo, error)
	ListCommits(ctx context.Context, perPage int) ([]models.Commit, error)
	ListOpenPullRequests(ctx context.Context, perPage int) ([]models.PullRequest, error)
	ListBranches(ctx context.Context, perPage int) ([]models.Branch, error)
}

// Message is an inbound chat message, independent of the chat platform.
type Message struct {
	SenderID   int64
	SenderName string
	ChatID     int64
	Text       string
}

type invocation struct {
	Message
	Args []string
}

// Dispatcher routes chat messages to command handlers. It holds no mutable
// state, so one instance serves concurrent invocations.
type Dispatcher struct {
	API       API
	Repo      string
	BotID     int64
	StartedAt time.Time

	now      func() time.Time
	commands map[string]Command
	helpText string
}

func NewDispatcher(api API, repo string, botID int64, startedAt time.Time) *Dispatcher {
	d := &Dispatcher{
		API:       api,
		Repo:      repo,
		BotID:     botID,
		StartedAt: startedAt,
		now:       time.Now,
		commands:  make(map[string]Command, len(Commands)),
		helpText:  buildHelp(Commands),
	}
	for _, c := range Commands {
		d.commands[c.Name] = c
	}
	return d
}

// Dispatch runs the command named by the first word of msg and returns the
// reply. ok is false when the message is not a command or comes from the bot.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (reply string, ok bool) {
	if msg.SenderID == d.BotID {
		return "", false
	}

	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return "", false
	}

	cmd, found := d.commands[strings.ToLower(fields[0])]
	if !found {
		return "", false
	}

	return cmd.run(d, ctx, invocation{Message: msg, Args: fields[1:]}), true
}

func (d *Dispatcher) hello(_ context.Context, inv invocation) string {
	name := inv.SenderName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello, %s 👋", gh.EscapeMarkdownV2(name))
}

func (d *Dispatcher) help(_ context.Context, _ invocation) string {
	return d.helpText
}

func (d *Dispatcher) status(ctx context.Context, _ invocation) string {
	runs, err := d.API.ListRuns(ctx, gh.RunFilter{PerPage: 1})
	if err != nil {
		return gh.FormatAPIError("fetch CI status", err)
	}
	return gh.FormatStatus(runs)
}

func (d *Dispatcher) lastCommit(ctx context.Context, _ invocation) string {
	commits, err := d.API.ListCommits(ctx, 1)
	if err != nil {
		return gh.FormatAPIError("fetch commit", err)
	}
	return gh.FormatLastCommit(commits)
}

func (d *Dispatcher) failures(ctx context.Context, _ invocation) string {
	runs, err := d.API.ListRuns(ctx, gh.RunFilter{PerPage: 5, Status: "completed", Conclusion: "failure"})
	if err != nil {
		return gh.FormatAPIError("fetch failures", err)
	}
	return gh.FormatFailures(runs)
}

// triggerDeploy dispatches the first workflow whose name mentions "deploy".
func (d *Dispatcher) triggerDeploy(ctx context.Context, _ invocation) string {
	workflows, err := d.API.ListWorkflows(ctx)
	if err != nil {
		return gh.FormatAPIError("fetch workflows", err)
	}

	var target *models.Workflow
	for i := range workflows {
		if strings.Contains(strings.ToLower(workflows[i].Name), "deploy") {
			target = &workflows[i]
			break
		}
	}
	if target == nil {
		return gh.FormatNoDeployWorkflows()
	}

	if err := d.API.DispatchWorkflow(ctx, target.ID, deployRef); err != nil {
		return gh.FormatAPIError("trigger deployment", err)
	}
	return gh.FormatDeployTriggered(target.Name, deployRef)
}

func (d *Dispatcher) pipelineHistory(ctx context.Context, _ invocation) string {
	runs, err := d.API.ListRuns(ctx, gh.RunFilter{PerPage: 5})
	if err != nil {
		return gh.FormatAPIError("fetch pipeline history", err)
	}
	return gh.FormatPipelineHistory(runs)
}

func (d *Dispatcher) branchStatus(ctx context.Context, inv invocation) string {
	if len(inv.Args) < 1 {
		return "❌ Please specify a branch: `!branch-status <branch-name>`"
	}

	branch := inv.Args[0]
	runs, err := d.API.ListRuns(ctx, gh.RunFilter{Branch: branch, PerPage: 1})
	if err != nil {
		return gh.FormatAPIError("fetch branch status", err)
	}
	return gh.FormatBranchStatus(branch, runs)
}

func (d *Dispatcher) repoInfo(ctx context.Context, _ invocation) string {
	info, err := d.API.GetRepository(ctx)
	if err != nil {
		return gh.FormatAPIError("fetch repo info", err)
	}
	return gh.FormatRepoInfo(d.Repo, info)
}

func (d *Dispatcher) openPRs(ctx context.Context, _ invocation) string {
	prs, err := d.API.ListOpenPullRequests(ctx, 5)
	if err != nil {
		return gh.FormatAPIError("fetch PRs", err)
	}
	return gh.FormatOpenPullRequests(prs)
}

func (d *Dispatcher) recentCommits(ctx context.Context, _ invocation) string {
	commits, err := d.API.ListCommits(ctx, 5)
	if err != nil {
		return gh.FormatAPIError("fetch commits", err)
	}
	return gh.FormatRecentCommits(commits)
}

func (d *Dispatcher) branchList(ctx context.Context, _ invocation) string {
	branches, err := d.API.ListBranches(ctx, 10)
	if err != nil {
		return gh.FormatAPIError("fetch branches", err)
	}
	return gh.FormatBranchList(branches)
}

// Uptime returns the time since the bot started in whole seconds.
func (d *Dispatcher) Uptime() int {
	return int(d.now().Sub(d.StartedAt).Seconds())
}

func (d *Dispatcher) uptime(_ context.Context, _ invocation) string {
	return fmt.Sprintf("⏱️ Bot uptime: *%s*", gh.FormatDuration(d.Uptime()))
}

func (d *Dispatcher) ping(_ context.Context, _ invocation) string {
	return "🏓 Pong\\!"
}

func (d *Dispatcher) version(_ context.Context, _ invocation) string {
	return fmt.Sprintf("🤖 *%s*\nMonitoring GitHub pipelines and deployments", gh.EscapeMarkdownV2("DevOps Bot v"+Version))
}
