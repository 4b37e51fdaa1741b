package sections

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

const monthPattern = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`

var (
	dateRangeRe = regexp.MustCompile(`(?i)(?:` + monthPattern + `\s+)?(?:19|20)\d{2}\s*(?:-|–|—|to)\s*(?:(?:` +
		monthPattern + `\s+)?(?:19|20)\d{2}|present|current|now)`)
	singleDateRe = regexp.MustCompile(`(?i)(?:` + monthPattern + `\s+)?(?:19|20)\d{2}\b`)
	separators   = []string{" at ", " | ", " — ", " – ", " - ", ", "}
)

// entrySections split on bullet markers and get best-effort entries.
var entrySections = map[types.SectionName]bool{
	types.SectionExperience:     true,
	types.SectionEducation:      true,
	types.SectionProjects:       true,
	types.SectionCertifications: true,
}

// parseEntry splits the first line of a fragment into title, organization and
// dates. It returns nil when nothing useful was found.
func parseEntry(text string) *types.Entry {
	first, _, _ := strings.Cut(text, "\n")

	entry := &types.Entry{}
	if d := dateRangeRe.FindString(text); d != "" {
		entry.Dates = d
	} else if d := singleDateRe.FindString(first); d != "" {
		entry.Dates = d
	}

	head := first
	if entry.Dates != "" {
		head = strings.Replace(head, entry.Dates, "", 1)
	}
	head = strings.Trim(strings.TrimSpace(head), ",|()-–— \t")

	for _, sep := range separators {
		if title, org, ok := strings.Cut(head, sep); ok {
			entry.Title = strings.Trim(strings.TrimSpace(title), ",|-–— ")
			entry.Organization = strings.Trim(strings.TrimSpace(org), ",|-–— ")
			break
		}
	}
	if entry.Title == "" && entry.Organization == "" {
		entry.Title = head
	}

	if entry.Title == "" && entry.Organization == "" && entry.Dates == "" {
		return nil
	}
	return entry
}
