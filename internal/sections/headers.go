package sections

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"resumelens/internal/types"
)

// headerSynonyms maps each canonical section to the header texts accepted
// for it, already normalized (lowercase, single spaces, "&" spelled "and").
var headerSynonyms = map[types.SectionName][]string{
	types.SectionContact: {
		"contact", "contacts", "contact information", "contact info", "contact details",
		"personal information", "personal info", "personal details",
	},
	types.SectionSummary: {
		"summary", "professional summary", "career summary", "executive summary",
		"profile", "professional profile", "career profile", "objective",
		"career objective", "professional objective", "about", "about me", "overview",
		"summary of qualifications", "qualifications summary",
	},
	types.SectionExperience: {
		"experience", "work experience", "professional experience", "relevant experience",
		"employment", "employment history", "work history", "career history",
		"professional background", "internships",
	},
	types.SectionEducation: {
		"education", "academic background", "academics", "academic history",
		"educational background", "education and training", "qualifications",
		"academic qualifications",
	},
	types.SectionSkills: {
		"skills", "technical skills", "key skills", "core skills",
		"competencies", "core competencies", "technologies", "tech stack",
		"tools and technologies", "expertise", "areas of expertise", "proficiencies",
	},
	types.SectionProjects: {
		"projects", "personal projects", "key projects", "academic projects",
		"side projects", "portfolio", "project experience",
	},
	types.SectionCertifications: {
		"certifications", "certification", "certificates", "licenses",
		"licenses and certifications", "certifications and licenses", "courses",
		"training", "professional development",
	},
}

// HeaderSynonyms returns a copy of the header table.
func HeaderSynonyms() map[types.SectionName][]string {
	out := make(map[types.SectionName][]string, len(headerSynonyms))
	for k, v := range headerSynonyms {
		out[k] = append([]string(nil), v...)
	}
	return out
}

const (
	maxHeaderWords = 4
	fuzzyMinLen    = 6
)

// minorWords may stay lowercase in a Title Case header.
var minorWords = map[string]bool{"and": true, "of": true, "the": true, "in": true, "for": true, "&": true, "to": true}

// MatchHeader reports whether line is a section header. rest is any content
// that followed a "Header:" prefix on the same line.
func MatchHeader(line string) (section types.SectionName, rest string, ok bool) {
	head, rest := splitInline(strings.TrimSpace(line))
	if head == "" || hasContactPattern(head) {
		return "", "", false
	}

	cleaned := strings.Trim(head, "#*=_~`>|:•·▪- \t")
	norm := normalizeHeader(cleaned)
	if norm == "" || len(strings.Fields(norm)) > maxHeaderWords {
		return "", "", false
	}

	// exact
	for _, name := range types.CanonicalSections {
		for _, syn := range headerSynonyms[name] {
			if norm == syn {
				return name, rest, true
			}
		}
	}

	// single typo
	if utf8.RuneCountInString(norm) >= fuzzyMinLen {
		for _, name := range types.CanonicalSections {
			for _, syn := range headerSynonyms[name] {
				if utf8.RuneCountInString(syn) >= fuzzyMinLen && levenshtein(norm, syn) <= 1 {
					return name, rest, true
				}
			}
		}
	}

	// "Skills & Interests", "Summary of Achievements", then
	// "Relevant Coursework Projects". The leading noun wins.
	if !headerCased(cleaned) {
		return "", "", false
	}
	for _, name := range types.CanonicalSections {
		for _, syn := range headerSynonyms[name] {
			if strings.HasPrefix(norm, syn+" and ") || strings.HasPrefix(norm, syn+" of ") {
				return name, rest, true
			}
		}
	}
	for _, name := range types.CanonicalSections {
		for _, syn := range headerSynonyms[name] {
			if strings.HasSuffix(norm, " "+syn) {
				return name, rest, true
			}
		}
	}
	return "", "", false
}

// splitInline separates "Skills: Go, SQL" into its header and content.
func splitInline(line string) (string, string) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return line, ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func normalizeHeader(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		if r == '/' || r == '-' || r == ',' {
			return ' '
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// headerCased reports whether s is UPPER CASE or Title Case.
func headerCased(s string) bool {
	letters, upper := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if upper == letters {
		return true
	}
	for _, w := range strings.Fields(s) {
		if minorWords[strings.ToLower(w)] {
			continue
		}
		first, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

// levenshtein is the edit distance between two short strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
