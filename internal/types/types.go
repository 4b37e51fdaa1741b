package types

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies the container format of a RawDocument
type DocumentKind string

const (
	KindPDF     DocumentKind = "pdf"
	KindDOCX    DocumentKind = "docx"
	KindText    DocumentKind = "text"
	KindUnknown DocumentKind = ""
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
)

// DetectKind maps a MIME type or file name to a DocumentKind.
// The MIME type wins when both are known.
func DetectKind(fileName, mimeType string) DocumentKind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case MIMEPDF:
		return KindPDF
	case MIMEDOCX:
		return KindDOCX
	case MIMEText, "text/markdown":
		return KindText
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".txt", ".md", ".markdown", ".text":
		return KindText
	}
	return KindUnknown
}

// RawDocument is an uploaded file as received. It is never mutated.
type RawDocument struct {
	Content  []byte       `json:"-"`
	Kind     DocumentKind `json:"kind"`
	FileName string       `json:"fileName,omitempty"`
}

// SectionName is one of the canonical resume sections
type SectionName string

const (
	SectionContact        SectionName = "contact"
	SectionSummary        SectionName = "summary"
	SectionExperience     SectionName = "experience"
	SectionEducation      SectionName = "education"
	SectionSkills         SectionName = "skills"
	SectionProjects       SectionName = "projects"
	SectionCertifications SectionName = "certifications"
)

// CanonicalSections lists every section in presentation order.
var CanonicalSections = []SectionName{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// Entry is a best-effort split of an experience/education style fragment.
type Entry struct {
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Dates        string `json:"dates,omitempty"`
}

// Fragment is one block of text under a section
type Fragment struct {
	Text     string `json:"text"`
	Bulleted bool   `json:"bulleted,omitempty"`
	Entry    *Entry `json:"entry,omitempty"`
}

// ContactInfo holds identity fields recovered from the document
type ContactInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// ParsedSections maps every canonical section to its fragments.
// All seven keys are always present; a missing section is an empty slice.
type ParsedSections struct {
	Sections     map[SectionName][]Fragment `json:"sections"`
	Contact      ContactInfo                `json:"contact"`
	Unclassified []string                   `json:"unclassified,omitempty"`
	Degraded     bool                       `json:"degraded,omitempty"`
	// Source is the text the sections were parsed from, headers included.
	Source string `json:"-"`
}

// NewParsedSections returns a value with every canonical key set.
func NewParsedSections() *ParsedSections {
	s := make(map[SectionName][]Fragment, len(CanonicalSections))
	for _, name := range CanonicalSections {
		s[name] = []Fragment{}
	}
	return &ParsedSections{Sections: s}
}

// Text joins the fragments of a section with blank lines.
func (p *ParsedSections) Text(name SectionName) string {
	frags := p.Sections[name]
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Present reports whether the section has any non-blank fragment.
func (p *ParsedSections) Present(name SectionName) bool {
	for _, f := range p.Sections[name] {
		if strings.TrimSpace(f.Text) != "" {
			return true
		}
	}
	return false
}

// RoleDescriptor is a target job role
type RoleDescriptor struct {
	Name           string   `json:"name" yaml:"name"`
	Category       string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description"`
	RequiredSkills []string `json:"requiredSkills" yaml:"required_skills"`
	Courses        []Course `json:"courses,omitempty" yaml:"courses,omitempty"`
}

// Course is a learning resource recommended for a role.
type Course struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// MatchSource says where a skill was found
type MatchSource string

const (
	MatchInSkills   MatchSource = "skills"
	MatchInFullText MatchSource = "full_text"
)

// KeywordMatchResult is the outcome of matching a role's skills against a resume
type KeywordMatchResult struct {
	Matched   []string               `json:"matched"`
	Missing   []string               `json:"missing"`
	MatchedIn map[string]MatchSource `json:"matchedIn,omitempty"`
	Coverage  int                    `json:"coverage"`
}

// DocumentLabel is the classifier's verdict
type DocumentLabel string

const (
	LabelResume      DocumentLabel = "resume"
	LabelCoverLetter DocumentLabel = "cover_letter"
	LabelTranscript  DocumentLabel = "transcript"
	LabelUnknown     DocumentLabel = "unknown"
)

// Classification is the output of the document gate
type Classification struct {
	Label      DocumentLabel `json:"label"`
	Confidence float64       `json:"confidence"`
	Ambiguous  bool          `json:"ambiguous,omitempty"`
}

// FormatCheck is a single pass/fail formatting heuristic
type FormatCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Points int    `json:"points"`
	Detail string `json:"detail,omitempty"`
}

// Rating bands for the ATS score
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingNeedsImprovement = "Needs Improvement"
)

// FormatSuggestionKey is the extra key in AnalysisResult.SectionSuggestions
const FormatSuggestionKey = "format"

// AnalysisResult is the full outcome of one analysis call
type AnalysisResult struct {
	DocumentType       DocumentLabel       `json:"documentType"`
	Classification     Classification      `json:"classification"`
	Role               string              `json:"role,omitempty"`
	Contact            ContactInfo         `json:"contact"`
	Sections           *ParsedSections     `json:"parsedSections"`
	KeywordMatch       KeywordMatchResult  `json:"keywordMatch"`
	ATSScore           int                 `json:"atsScore"`
	FormatScore        int                 `json:"formatScore"`
	SectionScore       int                 `json:"sectionScore"`
	Rating             string              `json:"rating"`
	FormatChecks       []FormatCheck       `json:"formatChecks"`
	SectionSuggestions map[string][]string `json:"sectionSuggestions"`
	Suggestions        []string            `json:"suggestions"`
	RecommendedCourses []Course            `json:"recommendedCourses,omitempty"`
	WordCount          int                 `json:"wordCount"`
}

// AnalysisRecord is a persisted analysis
type AnalysisRecord struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	FileName  string          `json:"fileName,omitempty"`
	Category  string          `json:"category,omitempty"`
	Cached    bool            `json:"cached,omitempty"`
	Result    *AnalysisResult `json:"result"`
}

// AnalysisStats aggregates stored analyses
type AnalysisStats struct {
	Total              int            `json:"total"`
	AvgATSScore        float64        `json:"avgAtsScore"`
	AvgKeywordCoverage float64        `json:"avgKeywordCoverage"`
	AvgFormatScore     float64        `json:"avgFormatScore"`
	AvgSectionScore    float64        `json:"avgSectionScore"`
	ByDocumentType     map[string]int `json:"byDocumentType"`
}

// JobStatus values published while a queued analysis runs
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// AnalysisJob is a queued analysis request
type AnalysisJob struct {
	ID        string `json:"id"`
	ObjectKey string `json:"objectKey,omitempty"`
	Text      string `json:"text,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	MIMEType  string `json:"mimeType,omitempty"`
	Role      string `json:"role"`
	Category  string `json:"category,omitempty"`
}

// JobUpdate is published to the status exchange
type JobUpdate struct {
	JobID    string          `json:"jobId"`
	Status   JobStatus       `json:"status"`
	RecordID string          `json:"recordId,omitempty"`
	ATSScore int             `json:"atsScore,omitempty"`
	Error    string          `json:"error,omitempty"`
	Record   *AnalysisRecord `json:"record,omitempty"`
}
