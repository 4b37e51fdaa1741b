// Package classify decides whether extracted text looks like a resume.
package classify

import (
	"math"
	"regexp"
	"strings"

	"resumelens/internal/sections"
	"resumelens/internal/types"
)

// Thresholds for the document gate.
const (
	ResumeThreshold    = 0.30
	AmbiguousBelow     = 0.50
	maxHeaderHits      = 5
	shortDocWords      = 60
	longDocWords       = 2500
	coverLetterMinHits = 2
	transcriptMinHits  = 3
)

// headerCategories are resume section cues. Each category counts once.
var headerCategories = map[string][]string{
	"experience":     {"experience", "work experience", "professional experience", "employment", "employment history", "work history", "career history"},
	"education":      {"education", "academic background", "academics", "qualifications"},
	"skills":         {"skills", "technical skills", "core competencies", "competencies", "technologies", "tech stack"},
	"summary":        {"summary", "professional summary", "profile", "objective", "career objective", "about me"},
	"projects":       {"projects", "personal projects", "key projects", "portfolio"},
	"certifications": {"certifications", "certificates", "licenses", "courses", "awards"},
}

var coverLetterMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*dear\s+(sir|madam|hiring|recruit|mr|ms|mrs|dr|[a-z]+)`),
	regexp.MustCompile(`(?im)^\s*(sincerely|yours (truly|faithfully)|best regards|kind regards|respectfully)\b`),
	regexp.MustCompile(`(?i)\bto whom it may concern\b`),
	regexp.MustCompile(`(?i)\bi am (writing|excited|pleased) to (apply|express)`),
	regexp.MustCompile(`(?i)\b(cover letter|thank you for (your|considering))\b`),
}

var transcriptMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btranscript\b`),
	regexp.MustCompile(`(?i)\b(cumulative )?gpa\b`),
	regexp.MustCompile(`(?i)\bcredit(s| hours)\b`),
	regexp.MustCompile(`(?i)\b(fall|spring|summer|winter) (semester|term|\d{4})\b`),
	regexp.MustCompile(`(?i)\bcourse (code|title|no\.?)\b`),
	regexp.MustCompile(`(?i)\b(registrar|grade points?|academic record)\b`),
}

// Classifier is stateless and safe for concurrent use.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify labels text. The verdict is a gate only; downstream stages run
// regardless of the label.
func (c *Classifier) Classify(text string) types.Classification {
	words := len(strings.Fields(text))
	if words == 0 {
		return types.Classification{Label: types.LabelUnknown, Confidence: 0, Ambiguous: true}
	}

	resumeScore := c.ResumeScore(text)
	if resumeScore >= ResumeThreshold {
		return verdict(types.LabelResume, resumeScore)
	}

	if hits := countMarkers(text, coverLetterMarkers); hits >= coverLetterMinHits {
		return verdict(types.LabelCoverLetter, float64(hits)/float64(len(coverLetterMarkers)))
	}
	if hits := countMarkers(text, transcriptMarkers); hits >= transcriptMinHits {
		return verdict(types.LabelTranscript, float64(hits)/float64(len(transcriptMarkers)))
	}
	return verdict(types.LabelUnknown, resumeScore)
}

// ResumeScore combines section-header and contact evidence into [0,1].
func (c *Classifier) ResumeScore(text string) float64 {
	headers := min(countHeaderCategories(text), maxHeaderHits)

	contact := 0
	if sections.HasEmail(text) {
		contact++
	}
	if sections.FindPhone(text) != "" {
		contact++
	}
	if sections.HasProfileLink(text) {
		contact++
	}

	score := 0.7*float64(headers)/maxHeaderHits + 0.3*float64(contact)/3
	return round2(score * lengthFactor(len(strings.Fields(text))))
}

func lengthFactor(words int) float64 {
	switch {
	case words < shortDocWords:
		return 0.8
	case words > longDocWords:
		return 0.6
	default:
		return 1
	}
}

func verdict(label types.DocumentLabel, confidence float64) types.Classification {
	confidence = round2(math.Max(0, math.Min(1, confidence)))
	return types.Classification{
		Label:      label,
		Confidence: confidence,
		Ambiguous:  confidence < AmbiguousBelow,
	}
}

// countHeaderCategories counts categories whose keyword appears as a short,
// header-like line such as "Work Experience" or "SKILLS: Go, SQL".
func countHeaderCategories(text string) int {
	found := make(map[string]bool, len(headerCategories))
	for _, line := range strings.Split(text, "\n") {
		head := headerCandidate(line)
		if head == "" {
			continue
		}
		for category, keywords := range headerCategories {
			if found[category] {
				continue
			}
			for _, kw := range keywords {
				if head == kw || strings.HasPrefix(head, kw+" ") || strings.HasSuffix(head, " "+kw) {
					found[category] = true
					break
				}
			}
		}
	}
	return len(found)
}

func headerCandidate(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.IndexByte(line, ':'); i >= 0 {
		line = line[:i]
	}
	line = strings.Trim(line, "#*-•=_ \t")
	line = strings.ToLower(strings.Join(strings.Fields(line), " "))
	if line == "" || len(strings.Fields(line)) > 4 {
		return ""
	}
	return line
}

func countMarkers(text string, markers []*regexp.Regexp) int {
	n := 0
	for _, m := range markers {
		if m.MatchString(text) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
