package github

import (
	"fmt"
	"regexp"
	"strings"
)

var markdownV2Replacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

var markdownV2URLReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"(", "\\(",
	")", "\\)",
)

// EscapeMarkdownV2 escapes text so Telegram renders it literally.
func EscapeMarkdownV2(s string) string {
	return markdownV2Replacer.Replace(s)
}

// EscapeMarkdownV2URL escapes the target part of an inline link.
func EscapeMarkdownV2URL(s string) string {
	return markdownV2URLReplacer.Replace(s)
}

func FormatRepo(repo string) string {
	return fmt.Sprintf("[%s](%s)", EscapeMarkdownV2(repo), EscapeMarkdownV2URL("https://github.com/"+repo))
}

func FormatUser(login string) string {
	if login == "" {
		return EscapeMarkdownV2("unknown")
	}
	return fmt.Sprintf("[%s](%s)", EscapeMarkdownV2(login), EscapeMarkdownV2URL("https://github.com/"+login))
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// NormalizeMessage trims trailing spaces on each line, collapses 3+ consecutive newlines into 2
func NormalizeMessage(s string) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	out = blankLines.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}
