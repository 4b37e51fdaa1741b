// Package suggest turns parsed sections and scores into actionable feedback.
package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"resumelens/internal/scoring"
	"resumelens/internal/types"
)

// Minimum words before a present section stops getting an "expand" hint.
var minSectionWords = map[types.SectionName]int{
	types.SectionSummary:    25,
	types.SectionExperience: 40,
	types.SectionEducation:  5,
	types.SectionProjects:   20,
}

const minSkillItems = 5

// optionalSections get softer wording when missing.
var optionalSections = map[types.SectionName]bool{
	types.SectionProjects:       true,
	types.SectionCertifications: true,
}

var addTemplates = map[types.SectionName]string{
	types.SectionContact:        "Add a contact section at the top with your email address, phone number and LinkedIn profile.",
	types.SectionSummary:        "Add a professional summary of two to three sentences highlighting your experience and career goals.",
	types.SectionExperience:     "Add a work experience section listing your roles, employers and dates of employment.",
	types.SectionEducation:      "Add an education section with your degree, institution and graduation year.",
	types.SectionSkills:         "Add a skills section listing the technical and professional skills relevant to the role.",
	types.SectionProjects:       "Consider adding a projects section to showcase relevant work and the technologies you used.",
	types.SectionCertifications: "Consider adding relevant certifications or completed courses to strengthen your profile.",
}

var expandTemplates = map[types.SectionName]string{
	types.SectionSummary:    "Expand your summary to at least %d words and mention your core strengths and target role.",
	types.SectionExperience: "Describe your experience in more detail; aim for at least %d words covering your responsibilities and impact.",
	types.SectionEducation:  "Include your degree, institution and dates in the education section (currently under %d words).",
	types.SectionProjects:   "Describe your projects in more detail (at least %d words), including the technologies used and the outcome.",
}

var (
	quantifiedRe = regexp.MustCompile(`\d|%|\$`)
	skillSplitRe = regexp.MustCompile(`[,;|\n•·]+`)
)

var formatTemplates = map[string]string{
	scoring.CheckBullets:    "Use bullet points in experience and project descriptions to improve readability.",
	scoring.CheckMinLength:  "Your resume is short (%d words); add more detail about your experience and achievements.",
	scoring.CheckMaxLength:  "Your resume is long (%d words); keep it concise and focused on the most relevant experience.",
	scoring.CheckArtifacts:  "Remove page numbers and table-of-contents artifacts, which confuse applicant tracking systems.",
	scoring.CheckWallOfText: "Break long paragraphs into shorter bullet points.",
}

const degradedHint = "Use clear section headings such as Summary, Experience, Education and Skills so applicant tracking systems can find your content."

// Suggestions holds feedback keyed by section plus the flattened list.
type Suggestions struct {
	BySection map[string][]string
	All       []string
}

// Generator is stateless; output depends only on its inputs.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(sections *types.ParsedSections, match types.KeywordMatchResult, scores scoring.Scores) Suggestions {
	by := make(map[string][]string, len(types.CanonicalSections)+1)
	for _, name := range types.CanonicalSections {
		by[string(name)] = g.forSection(name, sections, match)
	}
	by[types.FormatSuggestionKey] = g.forFormat(sections, scores)

	all := make([]string, 0, 16)
	for _, name := range types.CanonicalSections {
		all = append(all, by[string(name)]...)
	}
	all = append(all, by[types.FormatSuggestionKey]...)

	return Suggestions{BySection: by, All: all}
}

func (g *Generator) forSection(name types.SectionName, sections *types.ParsedSections, match types.KeywordMatchResult) []string {
	out := []string{}
	present := sections.Present(name)

	if !present {
		out = append(out, addTemplates[name])
	}

	switch name {
	case types.SectionContact:
		if present {
			out = append(out, contactGaps(sections.Contact)...)
		}

	case types.SectionExperience:
		if present {
			out = append(out, expandHint(name, sections)...)
			text := sections.Text(name)
			if !quantifiedRe.MatchString(text) {
				out = append(out, "Quantify your achievements with numbers, percentages or amounts (for example \"reduced costs by 20%\").")
			}
			if !anyBulleted(sections.Sections[name]) {
				out = append(out, "Use bullet points to list responsibilities and achievements under each role.")
			}
		}

	case types.SectionSkills:
		if present && countSkillItems(sections.Text(name)) < minSkillItems {
			out = append(out, fmt.Sprintf("List at least %d relevant skills so keyword filters can match your profile.", minSkillItems))
		}
		for _, skill := range match.Missing {
			out = append(out, fmt.Sprintf("Add %q to your skills section if you have experience with it; the target role requires it.", skill))
		}

	default:
		if present {
			out = append(out, expandHint(name, sections)...)
		}
	}
	return out
}

func expandHint(name types.SectionName, sections *types.ParsedSections) []string {
	limit, ok := minSectionWords[name]
	if !ok {
		return nil
	}
	if len(strings.Fields(sections.Text(name))) >= limit {
		return nil
	}
	return []string{fmt.Sprintf(expandTemplates[name], limit)}
}

func contactGaps(c types.ContactInfo) []string {
	var out []string
	if c.Email == "" {
		out = append(out, "Add a professional email address so recruiters can reach you.")
	}
	if c.Phone == "" {
		out = append(out, "Add a phone number to your contact details.")
	}
	if c.LinkedIn == "" {
		out = append(out, "Include a link to your LinkedIn profile.")
	}
	return out
}

func (g *Generator) forFormat(sections *types.ParsedSections, scores scoring.Scores) []string {
	out := []string{}
	for _, c := range scores.Checks {
		if c.Passed {
			continue
		}
		tmpl := formatTemplates[c.Name]
		if strings.Contains(tmpl, "%d") {
			out = append(out, fmt.Sprintf(tmpl, scores.NarrativeWords))
		} else if tmpl != "" {
			out = append(out, tmpl)
		}
	}
	if sections.Degraded {
		out = append(out, degradedHint)
	}
	return out
}

func anyBulleted(frags []types.Fragment) bool {
	for _, f := range frags {
		if f.Bulleted {
			return true
		}
	}
	return false
}

func countSkillItems(text string) int {
	n := 0
	for _, item := range skillSplitRe.Split(text, -1) {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}
