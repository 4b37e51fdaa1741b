package sections

import (
	"testing"

	"resumelens/internal/types"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		line     string
		want     types.SectionName
		wantRest string
		wantOK   bool
	}{
		{"Experience", types.SectionExperience, "", true},
		{"WORK HISTORY", types.SectionExperience, "", true},
		{"## Education", types.SectionEducation, "", true},
		{"**Skills**", types.SectionSkills, "", true},
		{"Skills: Python, SQL", types.SectionSkills, "Python, SQL", true},
		{"Tools & Technologies", types.SectionSkills, "", true},
		{"Experiance", types.SectionExperience, "", true},
		{"Certifcations", types.SectionCertifications, "", true},
		{"Relevant Coursework Projects", types.SectionProjects, "", true},
		{"Skills and Interests", types.SectionSkills, "", true},
		{"Career Objective:", types.SectionSummary, "", true},
		{"Summary of Qualifications", types.SectionSummary, "", true},
		{"SUMMARY OF QUALIFICATIONS", types.SectionSummary, "", true},
		{"Summary of Achievements", types.SectionSummary, "", true},
		{"Qualifications Summary", types.SectionSummary, "", true},
		{"Contact: jane@example.com", types.SectionContact, "jane@example.com", true},

		{"", "", "", false},
		{"Jane Doe", "", "", false},
		{"I gained experience in Go", "", "", false},
		{"customer experience", "", "", false},
		{"Senior Engineer at Acme, 2019 - 2021", "", "", false},
		{"jane@example.com", "", "", false},
		{"Skill", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, rest, ok := MatchHeader(tt.line)
			if ok != tt.wantOK || got != tt.want || rest != tt.wantRest {
				t.Errorf("MatchHeader(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.line, got, rest, ok, tt.want, tt.wantRest, tt.wantOK)
			}
		})
	}
}

func TestHeaderSynonymsAreNormalized(t *testing.T) {
	seen := make(map[string]types.SectionName)
	for name, syns := range HeaderSynonyms() {
		if len(syns) == 0 {
			t.Errorf("section %q has no synonyms", name)
		}
		for _, syn := range syns {
			if normalizeHeader(syn) != syn {
				t.Errorf("synonym %q is not normalized", syn)
			}
			if prev, dup := seen[syn]; dup {
				t.Errorf("synonym %q used by both %q and %q", syn, prev, name)
			}
			seen[syn] = name
		}
	}
	for _, name := range types.CanonicalSections {
		if _, ok := headerSynonyms[name]; !ok {
			t.Errorf("section %q missing from header table", name)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"skills", "skils", 1},
		{"experience", "experiance", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
