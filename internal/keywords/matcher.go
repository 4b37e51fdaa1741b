// Package keywords matches a role's required skills against resume text.
package keywords

import (
	"math"
	"strings"

	"resumelens/internal/types"
)

// Matcher is stateless and safe for concurrent use.
type Matcher struct{}

func New() *Matcher {
	return &Matcher{}
}

// NormalizeSkills lowercases, trims and deduplicates skills, keeping the
// first occurrence of each. Synonyms count as duplicates.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		n := strings.Join(strings.Fields(strings.ToLower(s)), " ")
		if n == "" {
			continue
		}
		key := Canonical(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// Match checks each required skill first in the skills section, then in the
// full document. A role with no required skills is a vacuous full match.
func (m *Matcher) Match(sections *types.ParsedSections, role *types.RoleDescriptor) types.KeywordMatchResult {
	result := types.KeywordMatchResult{
		Matched:   []string{},
		Missing:   []string{},
		MatchedIn: map[string]types.MatchSource{},
	}

	var required []string
	if role != nil {
		required = NormalizeSkills(role.RequiredSkills)
	}
	if len(required) == 0 {
		result.Coverage = 100
		return result
	}

	skillsText := strings.ToLower(sections.Text(types.SectionSkills))
	fullText := strings.ToLower(fullText(sections))

	for _, skill := range required {
		switch {
		case containsAny(skillsText, Variants(skill)):
			result.Matched = append(result.Matched, skill)
			result.MatchedIn[skill] = types.MatchInSkills
		case containsAny(fullText, Variants(skill)):
			result.Matched = append(result.Matched, skill)
			result.MatchedIn[skill] = types.MatchInFullText
		default:
			result.Missing = append(result.Missing, skill)
		}
	}

	result.Coverage = int(math.Round(float64(len(result.Matched)) / float64(len(required)) * 100))
	return result
}

// fullText is the source document. Without one it is rebuilt from every
// section plus anything the parser could not place.
func fullText(s *types.ParsedSections) string {
	if s.Source != "" {
		return s.Source
	}
	var sb strings.Builder
	for _, name := range types.CanonicalSections {
		sb.WriteString(s.Text(name))
		sb.WriteByte('\n')
	}
	for _, line := range s.Unclassified {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func containsAny(text string, variants []string) bool {
	for _, v := range variants {
		if ContainsTerm(text, v) {
			return true
		}
	}
	return false
}

// ContainsTerm reports whether term occurs in text as a whole token. Letters,
// digits, '+' and '#' are token characters, so "c++" matches but "java" does
// not match inside "javascript". Both arguments must be lowercase.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isTokenByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	return i >= len(text) || !isTokenByte(text[i])
}

// Multi-byte runes are treated as boundaries.
func isTokenByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#'
}
