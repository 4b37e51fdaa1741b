// Package service wires the analyzer to roles, cache, storage and metrics.
// The CLI, the HTTP server and the queue worker all go through it.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resumelens/internal/analyzer"
	"resumelens/internal/cache"
	"resumelens/internal/errors"
	"resumelens/internal/extract"
	"resumelens/internal/observability"
	"resumelens/internal/roles"
	"resumelens/internal/source"
	"resumelens/internal/store"
	"resumelens/internal/types"
)

// Input names one document and the role to score it against. Exactly one of
// Document, ObjectKey and Text is used, in that order of precedence. An empty
// Role skips keyword matching.
type Input struct {
	Document  *types.RawDocument
	ObjectKey string
	MIMEType  string
	Text      string
	FileName  string
	Role      string
	Category  string
	// Persist saves the record when a store is configured.
	Persist bool
}

type Service struct {
	analyzer    *analyzer.Analyzer
	roles       roles.Provider
	store       store.Store
	cache       cache.Cache
	source      source.Source
	metrics     *observability.Metrics
	logger      *errors.Logger
	tracer      trace.Tracer
	fingerprint string
	now         func() time.Time
}

type Option func(*Service)

func WithStore(s store.Store) Option { return func(svc *Service) { svc.store = s } }

func WithCache(c cache.Cache) Option { return func(svc *Service) { svc.cache = c } }

func WithSource(src source.Source) Option { return func(svc *Service) { svc.source = src } }

func WithMetrics(m *observability.Metrics) Option { return func(svc *Service) { svc.metrics = m } }

func WithLogger(l *errors.Logger) Option { return func(svc *Service) { svc.logger = l } }

func New(a *analyzer.Analyzer, provider roles.Provider, opts ...Option) *Service {
	s := &Service{
		analyzer:    a,
		roles:       provider,
		cache:       cache.NopCache{},
		tracer:      otel.Tracer("resumelens/service"),
		fingerprint: a.Policy().Fingerprint(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Roles() roles.Provider { return s.roles }

// HasStore reports whether records can be saved and queried.
func (s *Service) HasStore() bool { return s.store != nil }

// ResolveRole returns nil for an empty name.
func (s *Service) ResolveRole(category, name string) (*types.RoleDescriptor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	role, err := s.roles.Lookup(category, name)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Analyze runs the pipeline for in and returns a record. Errors are role
// lookup, fetch, extraction or, when Persist is set, storage errors. A
// storage error comes back together with the unsaved record.
func (s *Service) Analyze(ctx context.Context, in Input) (*types.AnalysisRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.Analyze", trace.WithAttributes(
		attribute.String("resume.role", in.Role),
		attribute.String("resume.file_name", in.FileName),
	))
	defer span.End()
	start := s.now()

	record, err := s.analyze(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if appErr, ok := errors.As(err); ok && appErr.Type == errors.ErrorTypeExtraction {
			s.metrics.RecordExtractionError(ctx, appErr.Code)
		}
		if record == nil {
			s.metrics.RecordAnalysis(ctx, "", false, time.Since(start), 0)
		}
		s.logger.LogError(err, "Analysis failed", "file_name", in.FileName, "role", in.Role)
		return record, err
	}

	r := record.Result
	s.metrics.RecordAnalysis(ctx, string(r.DocumentType), true, time.Since(start), r.ATSScore)
	span.SetAttributes(
		attribute.String("analysis.id", record.ID.String()),
		attribute.Bool("analysis.cached", record.Cached),
		attribute.Int("resume.ats_score", r.ATSScore),
	)
	s.logger.Info("Analysis completed",
		"id", record.ID.String(),
		"file_name", record.FileName,
		"document_type", r.DocumentType,
		"role", r.Role,
		"ats_score", r.ATSScore,
		"cached", record.Cached,
		"duration_ms", time.Since(start).Milliseconds())
	return record, nil
}

func (s *Service) analyze(ctx context.Context, in Input) (*types.AnalysisRecord, error) {
	role, err := s.ResolveRole(in.Category, in.Role)
	if err != nil {
		return nil, err
	}

	text, fileName, err := s.text(ctx, in)
	if err != nil {
		return nil, err
	}

	key := cache.Key(text, role, s.fingerprint)
	result, cached := s.lookup(ctx, key)
	if !cached {
		result = s.analyzer.AnalyzeText(ctx, text, role)
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.LogError(err, "Failed to cache analysis")
		}
	}

	record := &types.AnalysisRecord{
		ID:        uuid.New(),
		CreatedAt: s.now().UTC(),
		FileName:  fileName,
		Category:  categoryOf(role, in.Category),
		Cached:    cached,
		Result:    result,
	}

	if in.Persist && s.store != nil {
		if err := s.store.Save(ctx, record); err != nil {
			return record, err
		}
	}
	return record, nil
}

// text produces normalized text and the display file name for in.
func (s *Service) text(ctx context.Context, in Input) (string, string, error) {
	switch {
	case in.Document != nil:
		text, err := s.analyzer.Extract(ctx, *in.Document)
		return text, firstNonEmpty(in.FileName, in.Document.FileName), err

	case in.ObjectKey != "":
		if s.source == nil {
			return "", "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "object storage is not configured", nil)
		}
		doc, err := s.source.Fetch(ctx, in.ObjectKey, in.MIMEType)
		if err != nil {
			return "", "", err
		}
		text, err := s.analyzer.Extract(ctx, doc)
		return text, firstNonEmpty(in.FileName, doc.FileName), err

	default:
		return extract.Normalize(in.Text), in.FileName, nil
	}
}

// lookup treats cache errors as misses.
func (s *Service) lookup(ctx context.Context, key string) (*types.AnalysisResult, bool) {
	result, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.LogError(err, "Cache lookup failed")
		ok = false
	}
	if _, nop := s.cache.(cache.NopCache); !nop {
		s.metrics.RecordCacheLookup(ctx, ok)
	}
	return result, ok
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	if s.store == nil {
		return nil, errNoStore()
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	if s.store == nil {
		return nil, errNoStore()
	}
	return s.store.List(ctx, limit)
}

func (s *Service) Stats(ctx context.Context) (types.AnalysisStats, error) {
	if s.store == nil {
		return types.AnalysisStats{}, errNoStore()
	}
	return s.store.Stats(ctx)
}

// Health reports dependency status. The error is the first failed check.
func (s *Service) Health(ctx context.Context) (map[string]any, error) {
	status := map[string]any{
		"roles": len(s.roles.List("")),
	}
	var firstErr error

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			status["store"] = "unavailable"
			firstErr = err
		} else {
			status["store"] = "ok"
		}
	}

	if _, nop := s.cache.(cache.NopCache); nop {
		status["cache"] = "disabled"
	} else if err := s.cache.Ping(ctx); err != nil {
		// The pipeline works without a cache, so this is not fatal.
		status["cache"] = "unavailable"
	} else {
		status["cache"] = "ok"
	}
	return status, firstErr
}

func errNoStore() error {
	return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "no result store configured", nil)
}

func categoryOf(role *types.RoleDescriptor, requested string) string {
	if role != nil {
		return role.Category
	}
	return requested
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
