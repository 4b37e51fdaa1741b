package classify

import (
	"strings"
	"testing"

	"resumelens/internal/sections"
	"resumelens/internal/types"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567 | linkedin.com/in/janedoe

PROFESSIONAL SUMMARY
Backend engineer with eight years of experience building distributed systems.

WORK EXPERIENCE
Senior Engineer at Acme Corp, Jan 2019 - Present
- Led migration of billing services to Go, cutting latency by 40%
- Mentored five engineers

EDUCATION
B.Sc. Computer Science, State University, 2014

SKILLS: Go, Python, SQL, Kubernetes

PROJECTS
resumelens - open source resume analyzer`

const sampleCoverLetter = `Dear Hiring Manager,

I am writing to apply for the Backend Engineer position at Acme Corp. Over the
past eight years I have built and operated distributed systems, and I believe my
background would make me a strong addition to your platform team. In my current
role I led the migration of our billing services and mentored several engineers.

Thank you for considering my application. I look forward to hearing from you.

Sincerely,
Jane Doe`

const sampleTranscript = `OFFICIAL TRANSCRIPT
Office of the Registrar
Student: Jane Doe

Fall Semester 2012
Course Code  Course Title            Credits  Grade
CS101        Intro to Programming    4        A
MA201        Linear Algebra          3        B+

Spring Semester 2013
CS201        Data Structures         4        A-

Cumulative GPA: 3.71`

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		want          types.DocumentLabel
		wantAmbiguous bool
	}{
		{"resume", sampleResume, types.LabelResume, false},
		{"cover letter", sampleCoverLetter, types.LabelCoverLetter, false},
		{"transcript", sampleTranscript, types.LabelTranscript, false},
		{"empty", "", types.LabelUnknown, true},
		{"contact only", "jane@example.com\n555-123-4567\nI like hiking.", types.LabelUnknown, true},
		{"prose", strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20), types.LabelUnknown, true},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Label != tt.want {
				t.Errorf("Label = %q, want %q (confidence %.2f)", got.Label, tt.want, got.Confidence)
			}
			if got.Ambiguous != tt.wantAmbiguous {
				t.Errorf("Ambiguous = %v, want %v (confidence %.2f)", got.Ambiguous, tt.wantAmbiguous, got.Confidence)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("Confidence %.2f out of range", got.Confidence)
			}
		})
	}
}

func TestContactOnlyHasLowConfidence(t *testing.T) {
	got := New().Classify("jane@example.com\n+1 555 123 4567")
	if got.Confidence >= ResumeThreshold {
		t.Errorf("Confidence = %.2f, want < %.2f", got.Confidence, ResumeThreshold)
	}
}

func TestResumeScoreHeaderCounting(t *testing.T) {
	c := New()
	oneHeader := c.ResumeScore("Experience\nBuilt things")
	threeHeaders := c.ResumeScore("Experience\nBuilt things\nEducation\nBSc\nSkills\nGo")
	if threeHeaders <= oneHeader {
		t.Errorf("more headers should score higher: %.2f <= %.2f", threeHeaders, oneHeader)
	}

	// Keywords buried in prose are not headers.
	prose := c.ResumeScore("I have a lot of experience and a good education and many skills to share with you")
	if prose != 0 {
		t.Errorf("prose score = %.2f, want 0", prose)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New()
	first := c.Classify(sampleResume)
	for range 10 {
		if got := c.Classify(sampleResume); got != first {
			t.Fatalf("Classify() = %+v, want %+v", got, first)
		}
	}
}

func BenchmarkClassify(b *testing.B) {
	c := New()
	for b.Loop() {
		c.Classify(sampleResume)
	}
}

// The contact signal must agree with what the section parser extracts.
func TestContactSignalMatchesParser(t *testing.T) {
	lines := []string{
		"+44 20 7946 0958",
		"(555) 123-4567",
		"+91 98765 43210",
		"555-1234",
		"jane@example.com",
		"github.com/janedoe",
		"Built services in 2019",
	}
	c := New()
	parser := sections.New()
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			contact := parser.Parse(line).Contact
			parsed := contact.Email != "" || contact.Phone != "" || contact.GitHub != "" ||
				contact.LinkedIn != "" || contact.Portfolio != ""
			if scored := c.ResumeScore(line) > 0; scored != parsed {
				t.Errorf("ResumeScore contact signal = %v, parser found contact = %v", scored, parsed)
			}
		})
	}
}
