package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

const (
	typeAny     = "any"
	typeResult  = "AnalysisResult"
	typeRecord  = "AnalysisRecord"
	typeBatch   = "AnalysisBatch"
	typeCatalog = "RoleCatalog"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", typeAny, &JSONFormatter{})
	for format, st := range map[string]style{"text": textStyle, "markdown": markdownStyle} {
		registry.RegisterFormatter(format, typeResult, &ResultFormatter{style: st})
		registry.RegisterFormatter(format, typeRecord, &RecordFormatter{style: st})
		registry.RegisterFormatter(format, typeBatch, &BatchFormatter{style: st})
		registry.RegisterFormatter(format, typeCatalog, &CatalogFormatter{style: st})
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.AnalysisResult, types.AnalysisResult:
		return typeResult
	case *types.AnalysisRecord, types.AnalysisRecord:
		return typeRecord
	case []*types.AnalysisRecord:
		return typeBatch
	case []types.RoleDescriptor:
		return typeCatalog
	default:
		return typeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// ResultFormatter renders a single analysis result.
type ResultFormatter struct{ style style }

func (f *ResultFormatter) Format(data any) (string, error) {
	var result *types.AnalysisResult
	switch v := data.(type) {
	case *types.AnalysisResult:
		result = v
	case types.AnalysisResult:
		result = &v
	default:
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}
	if result == nil {
		return "", fmt.Errorf("nil AnalysisResult")
	}

	var out strings.Builder
	f.style.title(&out, "Resume Analysis")
	writeResult(&out, f.style, result)
	return out.String(), nil
}

func (f *ResultFormatter) SupportedType() string { return typeResult }

// RecordFormatter renders a result with its record metadata.
type RecordFormatter struct{ style style }

func (f *RecordFormatter) Format(data any) (string, error) {
	var record *types.AnalysisRecord
	switch v := data.(type) {
	case *types.AnalysisRecord:
		record = v
	case types.AnalysisRecord:
		record = &v
	default:
		return "", fmt.Errorf("expected AnalysisRecord, got %T", data)
	}
	if record == nil || record.Result == nil {
		return "", fmt.Errorf("AnalysisRecord has no result")
	}

	var out strings.Builder
	writeRecord(&out, f.style, record)
	return out.String(), nil
}

func (f *RecordFormatter) SupportedType() string { return typeRecord }

// BatchFormatter renders several records, one after another.
type BatchFormatter struct{ style style }

func (f *BatchFormatter) Format(data any) (string, error) {
	records, ok := data.([]*types.AnalysisRecord)
	if !ok {
		return "", fmt.Errorf("expected []*AnalysisRecord, got %T", data)
	}

	var out strings.Builder
	for i, record := range records {
		if record == nil || record.Result == nil {
			continue
		}
		if i > 0 {
			f.style.separator(&out)
		}
		writeRecord(&out, f.style, record)
	}
	return out.String(), nil
}

func (f *BatchFormatter) SupportedType() string { return typeBatch }

// CatalogFormatter renders the role catalog grouped by category.
type CatalogFormatter struct{ style style }

func (f *CatalogFormatter) Format(data any) (string, error) {
	roles, ok := data.([]types.RoleDescriptor)
	if !ok {
		return "", fmt.Errorf("expected []RoleDescriptor, got %T", data)
	}

	var out strings.Builder
	f.style.title(&out, "Job Roles")
	if len(roles) == 0 {
		out.WriteString("No roles found.\n")
		return out.String(), nil
	}

	category := "\x00"
	for _, role := range roles {
		if role.Category != category {
			category = role.Category
			f.style.heading(&out, valueOr(category, "Uncategorized"))
		}
		f.style.item(&out, fmt.Sprintf("%s: %s", f.style.strong(role.Name), role.Description))
		f.style.field(&out, "  Skills", strings.Join(role.RequiredSkills, ", "))
	}
	return out.String(), nil
}

func (f *CatalogFormatter) SupportedType() string { return typeCatalog }

func writeRecord(out *strings.Builder, st style, record *types.AnalysisRecord) {
	st.title(out, "Resume Analysis: "+valueOr(record.FileName, record.ID.String()))
	st.field(out, "ID", record.ID.String())
	st.field(out, "Created", record.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if record.Category != "" {
		st.field(out, "Category", record.Category)
	}
	if record.Cached {
		st.field(out, "Cached", "yes")
	}
	out.WriteString("\n")
	writeResult(out, st, record.Result)
}

func writeResult(out *strings.Builder, st style, r *types.AnalysisResult) {
	st.field(out, "Document type", fmt.Sprintf("%s (confidence %.2f)", r.DocumentType, r.Classification.Confidence))
	if r.Classification.Ambiguous {
		st.field(out, "Note", "classification was ambiguous")
	}
	st.field(out, "Role", valueOr(r.Role, "none"))
	st.field(out, "ATS score", fmt.Sprintf("%d/100 (%s)", r.ATSScore, r.Rating))
	st.field(out, "Keyword coverage", fmt.Sprintf("%d%%", r.KeywordMatch.Coverage))
	st.field(out, "Section score", fmt.Sprintf("%d/100", r.SectionScore))
	st.field(out, "Format score", fmt.Sprintf("%d/100", r.FormatScore))
	st.field(out, "Word count", fmt.Sprintf("%d", r.WordCount))
	out.WriteString("\n")

	if c := r.Contact; c != (types.ContactInfo{}) {
		st.heading(out, "Contact")
		for _, kv := range [][2]string{
			{"Name", c.Name}, {"Email", c.Email}, {"Phone", c.Phone},
			{"LinkedIn", c.LinkedIn}, {"GitHub", c.GitHub}, {"Portfolio", c.Portfolio},
		} {
			if kv[1] != "" {
				st.field(out, kv[0], kv[1])
			}
		}
		out.WriteString("\n")
	}

	if r.Role != "" {
		st.heading(out, "Keywords")
		st.field(out, "Matched", joinOrNone(r.KeywordMatch.Matched))
		st.field(out, "Missing", joinOrNone(r.KeywordMatch.Missing))
		out.WriteString("\n")
	}

	if r.Sections != nil {
		st.heading(out, "Sections")
		for _, name := range types.CanonicalSections {
			st.check(out, r.Sections.Present(name), string(name))
		}
		if r.Sections.Degraded {
			st.item(out, "Section headers could not be detected reliably")
		}
		out.WriteString("\n")
	}

	if len(r.FormatChecks) > 0 {
		st.heading(out, "Format Checks")
		for _, fc := range r.FormatChecks {
			line := fc.Name
			if fc.Detail != "" {
				line += ": " + fc.Detail
			}
			st.check(out, fc.Passed, line)
		}
		out.WriteString("\n")
	}

	st.heading(out, "Suggestions")
	if len(r.Suggestions) == 0 {
		out.WriteString("No suggestions. The resume looks complete.\n")
	}
	for i, s := range r.Suggestions {
		st.numbered(out, i+1, s)
	}

	if len(r.RecommendedCourses) > 0 {
		out.WriteString("\n")
		st.heading(out, "Recommended Courses")
		for _, c := range r.RecommendedCourses {
			st.item(out, st.link(c.Title, c.URL))
		}
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
