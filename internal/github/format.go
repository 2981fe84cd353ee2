package github

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devops-bot/internal/models"
)

// Per-context bounds for free text.
const (
	StatusMessageLimit  = 50
	FailureMessageLimit = 40
	HistoryMessageLimit = 30

	ellipsis         = "..."
	maxFailures      = 3
	maxMessageLength = 4000
)

const (
	glyphSuccess    = "✅"
	glyphFailure    = "❌"
	glyphInProgress = "🔄"
)

// StatusEmoji maps an effective run status to its indicator.
func StatusEmoji(status string) string {
	switch status {
	case "success":
		return glyphSuccess
	case "failure":
		return glyphFailure
	default:
		return glyphInProgress
	}
}

// Truncate cuts s to limit characters and appends an ellipsis when it is longer.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + ellipsis
}

func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// FormatDuration renders whole seconds as "45s", "2m 5s" or "2h 2m".
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}

func commitText(message string, limit int) string {
	msg := Truncate(firstLine(message), limit)
	if msg == "" {
		return "_no commit message_"
	}
	return EscapeMarkdownV2(msg)
}

func statusLabel(status string) string {
	if status == "" {
		return "UNKNOWN"
	}
	return EscapeMarkdownV2(strings.ToUpper(status))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return EscapeMarkdownV2(s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return EscapeMarkdownV2(t.UTC().Format("2006-01-02 15:04 UTC"))
}

// listBuilder stops accepting entries once the message would exceed what a
// single Telegram message can carry.
type listBuilder struct {
	sb      strings.Builder
	omitted int
}

func (l *listBuilder) add(entry string) {
	if l.omitted > 0 || l.sb.Len()+len(entry) > maxMessageLength {
		l.omitted++
		return
	}
	l.sb.WriteString(entry)
}

func (l *listBuilder) String() string {
	if l.omitted == 0 {
		return l.sb.String()
	}
	return l.sb.String() + fmt.Sprintf("\n_…and %d more_", l.omitted)
}

func FormatStatus(runs []models.WorkflowRun) string {
	if len(runs) == 0 {
		return "📭 No workflow runs found\\."
	}

	run := runs[0]
	status := run.EffectiveStatus()
	return fmt.Sprintf(
		"%s *Latest CI Run:* %s\n"+
			"🌿 *Branch:* %s\n"+
			"📝 *Commit:* %s\n"+
			"👤 *Author:* %s\n"+
			"🔗 %s",
		StatusEmoji(status),
		statusLabel(status),
		orUnknown(run.Branch),
		commitText(run.CommitMessage, StatusMessageLimit),
		orUnknown(run.CommitAuthor),
		EscapeMarkdownV2(run.HTMLURL),
	)
}

func FormatBranchStatus(branch string, runs []models.WorkflowRun) string {
	if len(runs) == 0 {
		return fmt.Sprintf("📭 No runs found for branch: %s", EscapeMarkdownV2(branch))
	}

	run := runs[0]
	status := run.EffectiveStatus()
	return fmt.Sprintf(
		"%s *Branch %s:* %s\n🔗 %s",
		StatusEmoji(status),
		EscapeMarkdownV2(branch),
		statusLabel(status),
		EscapeMarkdownV2(run.HTMLURL),
	)
}

func FormatLastCommit(commits []models.Commit) string {
	if len(commits) == 0 {
		return "📭 No commits found\\."
	}

	c := commits[0]
	return fmt.Sprintf(
		"📝 *Last Commit:*\n"+
			"🔗 *SHA:* %s\n"+
			"👤 *Author:* %s\n"+
			"📅 *Date:* %s\n"+
			"💬 *Message:* %s",
		EscapeMarkdownV2(ShortSHA(c.SHA)),
		orUnknown(c.AuthorName),
		formatTime(c.Date),
		commitText(c.Message, StatusMessageLimit),
	)
}

// FormatFailures lists at most three failed runs.
func FormatFailures(runs []models.WorkflowRun) string {
	if len(runs) == 0 {
		return "✅ No recent failures found\\!"
	}
	if len(runs) > maxFailures {
		runs = runs[:maxFailures]
	}

	var l listBuilder
	l.add("❌ *Recent Failures:*\n")
	for i, run := range runs {
		l.add(fmt.Sprintf(
			"%d\\. *%s* \\- %s\n   📅 %s\n   🔗 %s\n\n",
			i+1,
			orUnknown(run.Branch),
			commitText(run.CommitMessage, FailureMessageLimit),
			formatTime(run.CreatedAt),
			EscapeMarkdownV2(run.HTMLURL),
		))
	}
	return l.String()
}

func FormatPipelineHistory(runs []models.WorkflowRun) string {
	if len(runs) == 0 {
		return "📭 No pipeline history found\\."
	}

	var l listBuilder
	l.add(fmt.Sprintf("📊 *Pipeline History \\(Last %d\\):*\n", len(runs)))
	for _, run := range runs {
		status := run.EffectiveStatus()
		l.add(fmt.Sprintf(
			"%s *%s* \\- %s \\- %s\n",
			StatusEmoji(status),
			statusLabel(status),
			orUnknown(run.Branch),
			commitText(run.CommitMessage, HistoryMessageLimit),
		))
	}
	return l.String()
}

func FormatRepoInfo(repo string, info *models.RepositoryInfo) string {
	return fmt.Sprintf(
		"📊 *Repository Info:* %s\n"+
			"⭐ *Stars:* %d\n"+
			"🍴 *Forks:* %d\n"+
			"👀 *Watchers:* %d\n"+
			"🌿 *Default Branch:* %s\n"+
			"📅 *Created:* %s",
		FormatRepo(repo),
		info.Stars,
		info.Forks,
		info.Watchers,
		orUnknown(info.DefaultBranch),
		formatTime(info.CreatedAt),
	)
}

func FormatOpenPullRequests(prs []models.PullRequest) string {
	if len(prs) == 0 {
		return "✅ No open pull requests\\!"
	}

	var l listBuilder
	l.add("🔀 *Open Pull Requests:*\n")
	for _, pr := range prs {
		l.add(fmt.Sprintf(
			"\\#%d *%s* by %s\n🔗 %s\n\n",
			pr.Number,
			EscapeMarkdownV2(pr.Title),
			FormatUser(pr.AuthorLogin),
			EscapeMarkdownV2(pr.HTMLURL),
		))
	}
	return l.String()
}

func FormatRecentCommits(commits []models.Commit) string {
	if len(commits) == 0 {
		return "📭 No commits found\\."
	}

	var l listBuilder
	l.add("📝 *Recent Commits:*\n")
	for _, c := range commits {
		l.add(fmt.Sprintf(
			"🔗 *%s* by %s\n💬 %s\n\n",
			EscapeMarkdownV2(ShortSHA(c.SHA)),
			orUnknown(c.AuthorName),
			commitText(c.Message, StatusMessageLimit),
		))
	}
	return l.String()
}

func FormatBranchList(branches []models.Branch) string {
	if len(branches) == 0 {
		return "📭 No branches found\\."
	}

	var l listBuilder
	l.add("🌿 *Branches:*\n")
	for _, b := range branches {
		l.add(fmt.Sprintf("• %s\n", EscapeMarkdownV2(b.Name)))
	}
	return l.String()
}

func FormatDeployTriggered(workflow, ref string) string {
	return fmt.Sprintf(
		"🚀 *Deployment triggered\\!*\n📋 Workflow: %s\n🌿 Branch: %s",
		EscapeMarkdownV2(workflow),
		EscapeMarkdownV2(ref),
	)
}

func FormatNoDeployWorkflows() string {
	return "❌ No deployment workflows found\\."
}

// FormatAPIError reports a failed call. action completes the sentence
// "Failed to ...", e.g. "fetch CI status".
func FormatAPIError(action string, err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTP {
		return fmt.Sprintf("❌ Failed to %s\\. Error: %d", EscapeMarkdownV2(action), apiErr.StatusCode)
	}
	if apiErr != nil {
		return "❌ Error: " + EscapeMarkdownV2(apiErr.Description)
	}
	return "❌ Error: " + EscapeMarkdownV2(err.Error())
}
