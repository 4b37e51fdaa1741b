package extract

import (
	"regexp"
	"strings"
)

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
	innerSpaces      = regexp.MustCompile(`[ \t\f\v]+`)
)

// Normalize cleans extracted text while keeping its line structure: line
// endings become LF, runs of spaces collapse, and no more than one blank line
// separates blocks.
func Normalize(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.NewReplacer("\u00a0", " ", "\u200b", "", "\ufeff", "").Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerSpaces.ReplaceAllString(line, " "))
	}

	out := strings.Join(lines, "\n")
	out = excessBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
