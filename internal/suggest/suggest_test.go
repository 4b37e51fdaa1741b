package suggest

import (
	"reflect"
	"strings"
	"testing"

	"resumelens/internal/scoring"
	"resumelens/internal/types"
)

func generate(p *types.ParsedSections, match types.KeywordMatchResult) Suggestions {
	engine := scoring.New(scoring.DefaultPolicy())
	return New().Generate(p, match, engine.Score(p, match))
}

func TestGenerateEmptyDocument(t *testing.T) {
	got := generate(types.NewParsedSections(), types.KeywordMatchResult{Coverage: 100})

	for _, name := range types.CanonicalSections {
		s := got.BySection[string(name)]
		if len(s) == 0 {
			t.Errorf("section %q has no suggestions", name)
			continue
		}
		if s[0] != addTemplates[name] {
			t.Errorf("section %q first suggestion = %q", name, s[0])
		}
	}
	if len(got.BySection[types.FormatSuggestionKey]) == 0 {
		t.Error("expected format suggestions for an empty document")
	}
	if !strings.HasPrefix(got.BySection[string(types.SectionProjects)][0], "Consider") {
		t.Error("optional sections should use softer wording")
	}
}

func TestGenerateMissingSkills(t *testing.T) {
	p := types.NewParsedSections()
	p.Sections[types.SectionSkills] = []types.Fragment{{Text: "Python, SQL, Docker, Linux, Git"}}

	got := generate(p, types.KeywordMatchResult{
		Matched:  []string{"python", "sql"},
		Missing:  []string{"java", "kotlin"},
		Coverage: 50,
	})

	want := []string{
		`Add "java" to your skills section if you have experience with it; the target role requires it.`,
		`Add "kotlin" to your skills section if you have experience with it; the target role requires it.`,
	}
	if !reflect.DeepEqual(got.BySection[string(types.SectionSkills)], want) {
		t.Errorf("skills suggestions = %q", got.BySection[string(types.SectionSkills)])
	}
}

func TestGenerateExperienceRules(t *testing.T) {
	tests := []struct {
		name      string
		frags     []types.Fragment
		wantParts []string
		notParts  []string
	}{
		{
			name:      "short prose",
			frags:     []types.Fragment{{Text: "Worked on backend services"}},
			wantParts: []string{"Describe your experience", "Quantify", "bullet points"},
		},
		{
			name: "quantified bullets",
			frags: []types.Fragment{
				{Text: "Cut latency by 40% across " + strings.Repeat("critical services ", 20), Bulleted: true},
			},
			notParts: []string{"Describe your experience", "Quantify", "bullet points"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := types.NewParsedSections()
			p.Sections[types.SectionExperience] = tt.frags
			got := strings.Join(generate(p, types.KeywordMatchResult{Coverage: 100}).BySection[string(types.SectionExperience)], "\n")

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("missing %q in %q", part, got)
				}
			}
			for _, part := range tt.notParts {
				if strings.Contains(got, part) {
					t.Errorf("unexpected %q in %q", part, got)
				}
			}
		})
	}
}

func TestGenerateContactGaps(t *testing.T) {
	p := types.NewParsedSections()
	p.Sections[types.SectionContact] = []types.Fragment{{Text: "jane@example.com"}}
	p.Contact = types.ContactInfo{Email: "jane@example.com"}

	got := generate(p, types.KeywordMatchResult{Coverage: 100}).BySection[string(types.SectionContact)]
	want := []string{
		"Add a phone number to your contact details.",
		"Include a link to your LinkedIn profile.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contact suggestions = %q, want %q", got, want)
	}
}

func TestGenerateDegradedHint(t *testing.T) {
	p := types.NewParsedSections()
	p.Degraded = true
	p.Unclassified = []string{"some text"}

	got := generate(p, types.KeywordMatchResult{Coverage: 100}).BySection[types.FormatSuggestionKey]
	if got[len(got)-1] != degradedHint {
		t.Errorf("last format suggestion = %q, want degraded hint", got[len(got)-1])
	}
}

func TestFlatListOrder(t *testing.T) {
	got := generate(types.NewParsedSections(), types.KeywordMatchResult{Coverage: 100})

	var want []string
	for _, name := range types.CanonicalSections {
		want = append(want, got.BySection[string(name)]...)
	}
	want = append(want, got.BySection[types.FormatSuggestionKey]...)

	if !reflect.DeepEqual(got.All, want) {
		t.Errorf("flat list out of order:\n got %q\nwant %q", got.All, want)
	}
}
