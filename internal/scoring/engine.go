// Package scoring computes section, format and ATS scores.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"resumelens/internal/types"
)

// Format check names
const (
	CheckBullets    = "bullet_points"
	CheckMinLength  = "minimum_length"
	CheckMaxLength  = "maximum_length"
	CheckArtifacts  = "no_page_artifacts"
	CheckWallOfText = "paragraph_length"
)

var artifactRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpage\s+\d+\s+(of|/)\s+\d+\b`),
	regexp.MustCompile(`(?i)\btable of contents\b`),
	regexp.MustCompile(`\.{5,}\s*\d+`),
	regexp.MustCompile(`(?m)^\s*-\s*\d+\s*-\s*$`),
}

// Scores is the full scoring outcome for one document
type Scores struct {
	ATS            int
	Format         int
	Section        int
	Rating         string
	Checks         []types.FormatCheck
	NarrativeWords int
}

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	policy Policy
}

func New(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Score(sections *types.ParsedSections, match types.KeywordMatchResult) Scores {
	section := e.SectionScore(sections)
	format, checks, narrative := e.FormatScore(sections)

	ats := e.policy.KeywordWeight*float64(clamp(match.Coverage)) +
		e.policy.SectionWeight*float64(section) +
		e.policy.FormatWeight*float64(format)
	atsScore := clamp(int(math.Round(ats)))

	return Scores{
		ATS:            atsScore,
		Format:         format,
		Section:        section,
		Rating:         e.policy.Rating(atsScore),
		Checks:         checks,
		NarrativeWords: narrative,
	}
}

// SectionScore awards an equal share for every expected section present.
func (e *Engine) SectionScore(sections *types.ParsedSections) int {
	per := 100 / len(ExpectedSections)
	score := 0
	for _, name := range ExpectedSections {
		if sections.Present(name) {
			score += per
		}
	}
	return clamp(score)
}

// FormatScore starts at 100 and deducts a fixed penalty per failed check.
// The skills section is excluded from word counts so adding skills never
// lowers the score.
func (e *Engine) FormatScore(sections *types.ParsedSections) (int, []types.FormatCheck, int) {
	p := e.policy
	narrative := narrativeText(sections)
	words := len(strings.Fields(narrative))

	checks := []types.FormatCheck{
		{
			Name:   CheckBullets,
			Passed: hasBullets(sections),
			Points: p.NoBulletsPenalty,
			Detail: "experience or projects use bullet points",
		},
		{
			Name:   CheckMinLength,
			Passed: words >= p.MinWords,
			Points: p.TooShortPenalty,
			Detail: fmt.Sprintf("%d words, minimum %d", words, p.MinWords),
		},
		{
			Name:   CheckMaxLength,
			Passed: words <= p.MaxWords,
			Points: p.TooLongPenalty,
			Detail: fmt.Sprintf("%d words, maximum %d", words, p.MaxWords),
		},
		{
			Name:   CheckArtifacts,
			Passed: !hasArtifacts(narrative),
			Points: p.ArtifactsPenalty,
			Detail: "no page numbers or table of contents",
		},
		{
			Name:   CheckWallOfText,
			Passed: !hasWallOfText(sections, p.WallOfTextWords),
			Points: p.WallOfTextPenalty,
			Detail: fmt.Sprintf("no paragraph longer than %d words", p.WallOfTextWords),
		},
	}

	if words == 0 {
		return 0, checks, 0
	}

	score := 100
	for _, c := range checks {
		if !c.Passed {
			score -= c.Points
		}
	}
	return clamp(score), checks, words
}

func narrativeText(sections *types.ParsedSections) string {
	var sb strings.Builder
	for _, name := range types.CanonicalSections {
		if name == types.SectionSkills {
			continue
		}
		sb.WriteString(sections.Text(name))
		sb.WriteByte('\n')
	}
	for _, line := range sections.Unclassified {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func hasBullets(sections *types.ParsedSections) bool {
	for _, name := range []types.SectionName{types.SectionExperience, types.SectionProjects} {
		for _, f := range sections.Sections[name] {
			if f.Bulleted {
				return true
			}
		}
	}
	return false
}

func hasArtifacts(text string) bool {
	for _, re := range artifactRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func hasWallOfText(sections *types.ParsedSections, limit int) bool {
	for _, name := range types.CanonicalSections {
		if name == types.SectionSkills {
			continue
		}
		for _, f := range sections.Sections[name] {
			if len(strings.Fields(f.Text)) > limit {
				return true
			}
		}
	}
	return false
}

func clamp(v int) int {
	return max(0, min(100, v))
}
