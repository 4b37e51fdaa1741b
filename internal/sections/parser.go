// Package sections segments resume text into canonical sections.
package sections

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

var bulletRe = regexp.MustCompile(`^(?:[•·▪◦►✓]\s*|[-*–>]\s+|o\s+|\d{1,2}[.)]\s+)`)

// Parser is stateless; each Parse call builds its own state machine.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse walks text line by line. Every canonical section is present in the
// result; sections without content are empty.
func (p *Parser) Parse(text string) *types.ParsedSections {
	out := types.NewParsedSections()
	out.Source = text
	out.Contact = extractContact(text)

	b := &builder{out: out}
	for _, line := range strings.Split(text, "\n") {
		b.feed(line)
	}
	b.flush()

	if !b.headerSeen && strings.TrimSpace(text) != "" {
		out.Degraded = true
		out.Unclassified = b.preamble
	}
	return out
}

type builder struct {
	out *types.ParsedSections

	section    types.SectionName // empty until the first header
	lines      []string
	bulleted   bool
	headerSeen bool
	preamble   []string
}

func (b *builder) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		b.flush()
		return
	}

	if name, rest, ok := MatchHeader(line); ok {
		b.flush()
		b.section = name
		b.headerSeen = true
		if rest != "" {
			b.content(rest)
		}
		return
	}
	b.content(line)
}

func (b *builder) content(line string) {
	if b.section == "" {
		if hasContactPattern(line) {
			b.lines = append(b.lines, line)
		} else {
			b.preamble = append(b.preamble, line)
		}
		return
	}

	marker := bulletRe.FindString(line)
	if marker == "" {
		b.lines = append(b.lines, line)
		return
	}

	text := strings.TrimSpace(line[len(marker):])
	if text == "" {
		return
	}
	if entrySections[b.section] {
		b.flush()
	}
	b.bulleted = true
	b.lines = append(b.lines, text)
}

func (b *builder) target() types.SectionName {
	if b.section == "" {
		return types.SectionContact
	}
	return b.section
}

func (b *builder) flush() {
	if len(b.lines) == 0 {
		b.bulleted = false
		return
	}

	name := b.target()
	frag := types.Fragment{
		Text:     strings.Join(b.lines, "\n"),
		Bulleted: b.bulleted,
	}
	if entrySections[name] && !frag.Bulleted {
		frag.Entry = parseEntry(frag.Text)
	}
	b.out.Sections[name] = append(b.out.Sections[name], frag)

	b.lines = b.lines[:0]
	b.bulleted = false
}
