// Package analyzer runs the full resume pipeline: extract, classify, parse,
// match, score and suggest.
package analyzer

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resumelens/internal/classify"
	"resumelens/internal/extract"
	"resumelens/internal/keywords"
	"resumelens/internal/scoring"
	"resumelens/internal/sections"
	"resumelens/internal/suggest"
	"resumelens/internal/types"
)

const tracerName = "resumelens/analyzer"

// Request is either a document to extract or text that was already extracted.
// Document wins when both are set. A nil Role has no required skills.
type Request struct {
	Document *types.RawDocument
	Text     string
	Role     *types.RoleDescriptor
}

// Analyzer holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	extractor  *extract.Extractor
	classifier *classify.Classifier
	parser     *sections.Parser
	matcher    *keywords.Matcher
	engine     *scoring.Engine
	suggester  *suggest.Generator
	tracer     trace.Tracer
}

type Option func(*Analyzer)

func WithExtractor(e *extract.Extractor) Option {
	return func(a *Analyzer) { a.extractor = e }
}

func WithPolicy(p scoring.Policy) Option {
	return func(a *Analyzer) { a.engine = scoring.New(p) }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor:  extract.New(),
		classifier: classify.New(),
		parser:     sections.New(),
		matcher:    keywords.New(),
		engine:     scoring.New(scoring.DefaultPolicy()),
		suggester:  suggest.New(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the scoring policy in effect.
func (a *Analyzer) Policy() scoring.Policy {
	return a.engine.Policy()
}

// Analyze returns a complete result. The only error is an extraction error
// when the document yields no text.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()

	text := extract.Normalize(req.Text)
	if req.Document != nil {
		var err error
		text, err = a.Extract(ctx, *req.Document)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "extraction failed")
			return nil, err
		}
	}

	result := a.AnalyzeText(ctx, text, req.Role)
	span.SetAttributes(
		attribute.String("resume.document_type", string(result.DocumentType)),
		attribute.Int("resume.ats_score", result.ATSScore),
		attribute.Int("resume.keyword_coverage", result.KeywordMatch.Coverage),
	)
	return result, nil
}

// Extract runs only the text extraction step.
func (a *Analyzer) Extract(ctx context.Context, doc types.RawDocument) (string, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.Extract",
		trace.WithAttributes(
			attribute.String("document.kind", string(doc.Kind)),
			attribute.Int("document.bytes", len(doc.Content)),
		))
	defer span.End()

	text, err := a.extractor.Extract(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return text, err
}

// AnalyzeText runs every stage after extraction. It never fails.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string, role *types.RoleDescriptor) *types.AnalysisResult {
	_, span := a.tracer.Start(ctx, "analyzer.AnalyzeText")
	defer span.End()

	classification := a.classifier.Classify(text)
	parsed := a.parser.Parse(text)
	match := a.matcher.Match(parsed, role)
	scores := a.engine.Score(parsed, match)
	suggestions := a.suggester.Generate(parsed, match, scores)

	result := &types.AnalysisResult{
		DocumentType:       classification.Label,
		Classification:     classification,
		Contact:            parsed.Contact,
		Sections:           parsed,
		KeywordMatch:       match,
		ATSScore:           scores.ATS,
		FormatScore:        scores.Format,
		SectionScore:       scores.Section,
		Rating:             scores.Rating,
		FormatChecks:       scores.Checks,
		SectionSuggestions: suggestions.BySection,
		Suggestions:        suggestions.All,
		WordCount:          len(strings.Fields(text)),
	}
	if role != nil {
		result.Role = role.Name
		result.RecommendedCourses = suggest.Courses(role, match)
	}

	span.SetAttributes(
		attribute.Bool("resume.degraded", parsed.Degraded),
		attribute.Int("resume.word_count", result.WordCount),
	)
	return result
}
