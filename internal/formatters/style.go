package formatters

import (
	"fmt"
	"strings"
)

// style holds the few primitives that differ between plain text and markdown.
type style struct {
	title     func(out *strings.Builder, s string)
	heading   func(out *strings.Builder, s string)
	field     func(out *strings.Builder, label, value string)
	item      func(out *strings.Builder, s string)
	numbered  func(out *strings.Builder, n int, s string)
	check     func(out *strings.Builder, passed bool, s string)
	strong    func(s string) string
	link      func(title, url string) string
	separator func(out *strings.Builder)
}

var textStyle = style{
	title: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "=== %s ===\n\n", strings.ToUpper(s))
	},
	heading: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "--- %s ---\n", s)
	},
	field: func(out *strings.Builder, label, value string) {
		fmt.Fprintf(out, "%s: %s\n", label, value)
	},
	item: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "- %s\n", s)
	},
	numbered: func(out *strings.Builder, n int, s string) {
		fmt.Fprintf(out, "%d. %s\n", n, s)
	},
	check: func(out *strings.Builder, passed bool, s string) {
		mark := "FAIL"
		if passed {
			mark = "PASS"
		}
		fmt.Fprintf(out, "[%s] %s\n", mark, s)
	},
	strong: func(s string) string { return s },
	link:   func(title, url string) string { return title + " (" + url + ")" },
	separator: func(out *strings.Builder) {
		out.WriteString("\n" + strings.Repeat("=", 40) + "\n\n")
	},
}

var markdownStyle = style{
	title: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "# %s\n\n", s)
	},
	heading: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "## %s\n\n", s)
	},
	field: func(out *strings.Builder, label, value string) {
		fmt.Fprintf(out, "**%s:** %s  \n", strings.TrimSpace(label), value)
	},
	item: func(out *strings.Builder, s string) {
		fmt.Fprintf(out, "- %s\n", s)
	},
	numbered: func(out *strings.Builder, n int, s string) {
		fmt.Fprintf(out, "%d. %s\n", n, s)
	},
	check: func(out *strings.Builder, passed bool, s string) {
		mark := " "
		if passed {
			mark = "x"
		}
		fmt.Fprintf(out, "- [%s] %s\n", mark, s)
	},
	strong: func(s string) string { return "**" + s + "**" },
	link:   func(title, url string) string { return "[" + title + "](" + url + ")" },
	separator: func(out *strings.Builder) {
		out.WriteString("\n---\n\n")
	},
}
