package commands

import (
	"context"
	"fmt"
	"strings"

	gh "devops-bot/internal/github"
)

type handlerFunc func(d *Dispatcher, ctx context.Context, inv invocation) string

type Command struct {
	Name        string
	Usage       string
	Description string
	// Section groups the command in !help; commands without one are not listed.
	Section string
	run     handlerFunc
}

const (
	sectionPipeline = "Pipeline Monitoring"
	sectionRepo     = "Repository Info"
	sectionUtility  = "Utility"
	sectionHelp     = "Help"
)

var helpSections = []string{sectionPipeline, sectionRepo, sectionUtility, sectionHelp}

// Commands is the full command table in matching and help order.
var Commands = []Command{
	{Name: "!hello", Description: "Say hello", run: (*Dispatcher).hello},
	{Name: "!help", Description: "Show this message", Section: sectionHelp, run: (*Dispatcher).help},
	{Name: "!status", Description: "Latest CI run status", Section: sectionPipeline, run: (*Dispatcher).status},
	{Name: "!last-commit", Description: "Most recent commit details", Section: sectionPipeline, run: (*Dispatcher).lastCommit},
	{Name: "!failures", Description: "Recent failed builds", Section: sectionPipeline, run: (*Dispatcher).failures},
	{Name: "!trigger-deploy", Description: "Manually trigger deployment", Section: sectionPipeline, run: (*Dispatcher).triggerDeploy},
	{Name: "!pipeline-history", Description: "Last 5 pipeline runs", Section: sectionPipeline, run: (*Dispatcher).pipelineHistory},
	{Name: "!branch-status", Usage: "<branch>", Description: "Check specific branch status", Section: sectionPipeline, run: (*Dispatcher).branchStatus},
	{Name: "!repo-info", Description: "Repository statistics", Section: sectionRepo, run: (*Dispatcher).repoInfo},
	{Name: "!open-prs", Description: "List open pull requests", Section: sectionRepo, run: (*Dispatcher).openPRs},
	{Name: "!recent-commits", Description: "Recent commits", Section: sectionRepo, run: (*Dispatcher).recentCommits},
	{Name: "!branch-list", Description: "List all branches", Section: sectionRepo, run: (*Dispatcher).branchList},
	{Name: "!uptime", Description: "Bot uptime", Section: sectionUtility, run: (*Dispatcher).uptime},
	{Name: "!ping", Description: "Response time", Section: sectionUtility, run: (*Dispatcher).ping},
	{Name: "!version", Description: "Bot version", Section: sectionUtility, run: (*Dispatcher).version},
}

func buildHelp(cmds []Command) string {
	var sb strings.Builder
	sb.WriteString("*🤖 DevOps Bot Commands:*\n")

	for _, section := range helpSections {
		sb.WriteString(fmt.Sprintf("\n*%s:*\n", gh.EscapeMarkdownV2(section)))
		for _, c := range cmds {
			if c.Section != section {
				continue
			}
			usage := c.Name
			if c.Usage != "" {
				usage += " " + c.Usage
			}
			sb.WriteString(fmt.Sprintf("\\- `%s` \\- %s\n", usage, gh.EscapeMarkdownV2(c.Description)))
		}
	}

	return sb.String()
}
