package scoring

import (
	"strings"
	"testing"

	"resumelens/internal/types"
)

func fragments(texts ...string) []types.Fragment {
	out := make([]types.Fragment, 0, len(texts))
	for _, t := range texts {
		out = append(out, types.Fragment{Text: t})
	}
	return out
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestSectionScore(t *testing.T) {
	e := New(DefaultPolicy())

	p := types.NewParsedSections()
	if got := e.SectionScore(p); got != 0 {
		t.Errorf("empty SectionScore = %d, want 0", got)
	}

	p.Sections[types.SectionExperience] = fragments("Built things")
	p.Sections[types.SectionEducation] = fragments("BSc")
	p.Sections[types.SectionSkills] = fragments("Python, SQL")
	p.Sections[types.SectionProjects] = fragments("A project")
	if got := e.SectionScore(p); got != 60 {
		t.Errorf("SectionScore = %d, want 60", got)
	}

	p.Sections[types.SectionContact] = fragments("a@b.co")
	p.Sections[types.SectionSummary] = fragments("Engineer")
	if got := e.SectionScore(p); got != 100 {
		t.Errorf("SectionScore = %d, want 100", got)
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name       string
		build      func(p *types.ParsedSections)
		want       int
		wantFailed []string
	}{
		{
			name:       "empty",
			build:      func(p *types.ParsedSections) {},
			want:       0,
			wantFailed: []string{CheckBullets, CheckMinLength},
		},
		{
			name: "well formed",
			build: func(p *types.ParsedSections) {
				p.Sections[types.SectionSummary] = fragments(words(60))
				p.Sections[types.SectionExperience] = []types.Fragment{
					{Text: words(50), Bulleted: true},
					{Text: words(50), Bulleted: true},
				}
			},
			want: 100,
		},
		{
			name: "short without bullets",
			build: func(p *types.ParsedSections) {
				p.Sections[types.SectionExperience] = fragments(words(40))
			},
			want:       55,
			wantFailed: []string{CheckBullets, CheckMinLength},
		},
		{
			name: "page artifacts and wall of text",
			build: func(p *types.ParsedSections) {
				p.Sections[types.SectionSummary] = fragments(words(130) + " Page 1 of 2")
				p.Sections[types.SectionExperience] = []types.Fragment{{Text: words(30), Bulleted: true}}
			},
			want:       70,
			wantFailed: []string{CheckArtifacts, CheckWallOfText},
		},
		{
			name: "too long",
			build: func(p *types.ParsedSections) {
				var frags []types.Fragment
				for range 11 {
					frags = append(frags, types.Fragment{Text: words(100), Bulleted: true})
				}
				p.Sections[types.SectionExperience] = frags
			},
			want:       85,
			wantFailed: []string{CheckMaxLength},
		},
		{
			name: "skills only",
			build: func(p *types.ParsedSections) {
				p.Sections[types.SectionSkills] = fragments(words(300))
			},
			want:       0,
			wantFailed: []string{CheckBullets, CheckMinLength},
		},
	}

	e := New(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := types.NewParsedSections()
			tt.build(p)

			got, checks, _ := e.FormatScore(p)
			if got != tt.want {
				t.Errorf("FormatScore = %d, want %d (checks %+v)", got, tt.want, checks)
			}

			var failed []string
			for _, c := range checks {
				if !c.Passed {
					failed = append(failed, c.Name)
				}
			}
			if strings.Join(failed, ",") != strings.Join(tt.wantFailed, ",") {
				t.Errorf("failed checks = %v, want %v", failed, tt.wantFailed)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	e := New(DefaultPolicy())
	inputs := []*types.ParsedSections{types.NewParsedSections()}

	full := types.NewParsedSections()
	for _, name := range types.CanonicalSections {
		full.Sections[name] = []types.Fragment{{Text: words(40), Bulleted: true}}
	}
	inputs = append(inputs, full)

	huge := types.NewParsedSections()
	huge.Sections[types.SectionSummary] = fragments(words(5000) + " table of contents ........ 3")
	inputs = append(inputs, huge)

	for i, p := range inputs {
		for _, cov := range []int{-10, 0, 50, 100, 250} {
			s := e.Score(p, types.KeywordMatchResult{Coverage: cov})
			for name, v := range map[string]int{"ats": s.ATS, "format": s.Format, "section": s.Section} {
				if v < 0 || v > 100 {
					t.Errorf("input %d coverage %d: %s = %d out of bounds", i, cov, name, v)
				}
			}
		}
	}
}

func TestAddingSkillNeverLowersScore(t *testing.T) {
	e := New(DefaultPolicy())

	before := types.NewParsedSections()
	before.Sections[types.SectionExperience] = []types.Fragment{{Text: words(80), Bulleted: true}}
	before.Sections[types.SectionSkills] = fragments("python, sql")

	after := types.NewParsedSections()
	after.Sections[types.SectionExperience] = before.Sections[types.SectionExperience]
	after.Sections[types.SectionSkills] = fragments("python, sql, java " + words(200))

	s1 := e.Score(before, types.KeywordMatchResult{Coverage: 67})
	s2 := e.Score(after, types.KeywordMatchResult{Coverage: 100})
	if s2.ATS < s1.ATS {
		t.Errorf("ATS decreased from %d to %d", s1.ATS, s2.ATS)
	}
	if s2.Format != s1.Format {
		t.Errorf("skills text changed format score: %d -> %d", s1.Format, s2.Format)
	}
}

func TestATSWeighting(t *testing.T) {
	e := New(DefaultPolicy())
	p := types.NewParsedSections()
	p.Sections[types.SectionSummary] = fragments(words(100))
	p.Sections[types.SectionExperience] = []types.Fragment{{Text: words(100), Bulleted: true}}

	s := e.Score(p, types.KeywordMatchResult{Coverage: 50})
	// section 40, format 100
	if want := 25 + 12 + 20; s.ATS != want {
		t.Errorf("ATS = %d, want %d", s.ATS, want)
	}
	if s.Rating != types.RatingNeedsImprovement {
		t.Errorf("Rating = %q", s.Rating)
	}
}

func TestRating(t *testing.T) {
	p := DefaultPolicy()
	tests := map[int]string{
		100: types.RatingExcellent,
		80:  types.RatingExcellent,
		79:  types.RatingGood,
		60:  types.RatingGood,
		59:  types.RatingNeedsImprovement,
		0:   types.RatingNeedsImprovement,
	}
	for score, want := range tests {
		if got := p.Rating(score); got != want {
			t.Errorf("Rating(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr bool
	}{
		{"default", func(p *Policy) {}, false},
		{"weights do not sum", func(p *Policy) { p.FormatWeight = 0.5 }, true},
		{"negative weight", func(p *Policy) { p.KeywordWeight, p.SectionWeight = -0.1, 0.9 }, true},
		{"inverted word bounds", func(p *Policy) { p.MinWords = 2000 }, true},
		{"penalty too large", func(p *Policy) { p.TooShortPenalty = 150 }, true},
		{"inverted bands", func(p *Policy) { p.GoodFrom = 90 }, true},
		{"keywords only", func(p *Policy) { p.KeywordWeight, p.SectionWeight, p.FormatWeight = 1, 0, 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFingerprintChangesWithPolicy(t *testing.T) {
	a := DefaultPolicy()
	b := DefaultPolicy()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal policies should share a fingerprint")
	}
	b.MinWords = 200
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different policies should not share a fingerprint")
	}
}
