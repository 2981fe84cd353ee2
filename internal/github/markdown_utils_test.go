package github

import (
	"strings"
	"testing"

	"devops-bot/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Hello World", expected: "Hello World"},
		{name: "underscore", input: "Hello_World", expected: "Hello\\_World"},
		{
			name:     "every reserved character",
			input:    "[]()~`>#+-=|{}.!",
			expected: "\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!",
		},
		{name: "backslash", input: "Backslash \\ test", expected: "Backslash \\\\ test"},
		{name: "branch name", input: "release/v1.2-rc_1", expected: "release/v1\\.2\\-rc\\_1"},
		{name: "conventional commit", input: "fix(ci): retry flaky job #42", expected: "fix\\(ci\\): retry flaky job \\#42"},
		{name: "pr title", input: "[WIP] Bump *deps* to v2!", expected: "\\[WIP\\] Bump \\*deps\\* to v2\\!"},
		{name: "unicode untouched", input: "déploiement ✅", expected: "déploiement ✅"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeMarkdownV2(tt.input); got != tt.expected {
				t.Errorf("EscapeMarkdownV2() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEscapeMarkdownV2URL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "https://example.com",
			expected: "https://example.com",
		},
		{
			input:    "https://example.com/foo(bar)",
			expected: "https://example.com/foo\\(bar\\)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EscapeMarkdownV2URL(tt.input); got != tt.expected {
				t.Errorf("EscapeMarkdownV2URL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatRepo(t *testing.T) {
	tests := []struct {
		repo     string
		expected string
	}{
		{
			repo:     "owner/repo",
			expected: "[owner/repo](https://github.com/owner/repo)",
		},
		{
			repo:     "owner/my_repo",
			expected: "[owner/my\\_repo](https://github.com/owner/my_repo)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.repo, func(t *testing.T) {
			if got := FormatRepo(tt.repo); got != tt.expected {
				t.Errorf("FormatRepo() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatUser(t *testing.T) {
	tests := []struct {
		user     string
		expected string
	}{
		{
			user:     "octocat",
			expected: "[octocat](https://github.com/octocat)",
		},
		{
			user:     "user_name",
			expected: "[user\\_name](https://github.com/user_name)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			if got := FormatUser(tt.user); got != tt.expected {
				t.Errorf("FormatUser() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "trailing spaces", input: "line one  \nline two\t", expected: "line one\nline two"},
		{name: "blank runs collapsed", input: "head\n\n\n\nbody", expected: "head\n\nbody"},
		{name: "surrounding whitespace", input: "\n\nbody\n\n", expected: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMessage(tt.input); got != tt.expected {
				t.Errorf("NormalizeMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatUserUnknown(t *testing.T) {
	if got := FormatUser(""); got != "unknown" {
		t.Errorf("FormatUser(\"\") = %q, want %q", got, "unknown")
	}
	if strings.Contains(FormatUser("a)b"), "a)b)") {
		t.Errorf("FormatUser() left a closing paren unescaped in link target")
	}
}

func TestRepliesEscapeUpstreamText(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "branch status",
			got:  FormatBranchStatus("feat/login-v2.1", nil),
			want: "feat/login\\-v2\\.1",
		},
		{
			name: "pull request title",
			got: FormatOpenPullRequests([]models.PullRequest{
				{Number: 7, Title: "[WIP] use *cache*", AuthorLogin: "dev_ops", HTMLURL: "https://github.com/octo/repo/pull/7"},
			}),
			want: "\\#7 *\\[WIP\\] use \\*cache\\** by [dev\\_ops](https://github.com/dev_ops)",
		},
		{
			name: "branch list",
			got:  FormatBranchList([]models.Branch{{Name: "hotfix/1.0.1"}}),
			want: "• hotfix/1\\.0\\.1",
		},
		{
			name: "deploy confirmation",
			got:  FormatDeployTriggered("Deploy (prod)", "main"),
			want: "Workflow: Deploy \\(prod\\)",
		},
		{
			name: "repository link",
			got:  FormatRepo("octo/my_repo"),
			want: "[octo/my\\_repo](https://github.com/octo/my_repo)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("reply %q does not contain %q", tt.got, tt.want)
			}
		})
	}
}
