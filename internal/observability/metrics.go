package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the analysis instruments. A nil *Metrics records nothing.
type Metrics struct {
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	ATSScore         metric.Int64Histogram
	ExtractionErrors metric.Int64Counter
	CacheLookups     metric.Int64Counter
	RoleReloads      metric.Int64Counter
	RateLimitHits    metric.Int64Counter
	JobsProcessed    metric.Int64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AnalysesTotal, err = meter.Int64Counter(
		"resumelens_analyses_total",
		metric.WithDescription("Total number of analyses run"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses counter: %w", err)
	}

	if m.AnalysisDuration, err = meter.Float64Histogram(
		"resumelens_analysis_duration_seconds",
		metric.WithDescription("Time spent extracting and analyzing a document"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration histogram: %w", err)
	}

	if m.ATSScore, err = meter.Int64Histogram(
		"resumelens_ats_score",
		metric.WithDescription("Distribution of ATS scores"),
		metric.WithExplicitBucketBoundaries(20, 40, 60, 80, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create ATS score histogram: %w", err)
	}

	if m.ExtractionErrors, err = meter.Int64Counter(
		"resumelens_extraction_errors_total",
		metric.WithDescription("Documents that yielded no text, by error code"),
	); err != nil {
		return nil, fmt.Errorf("failed to create extraction error counter: %w", err)
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"resumelens_cache_lookups_total",
		metric.WithDescription("Result cache lookups"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookup counter: %w", err)
	}

	if m.RoleReloads, err = meter.Int64Counter(
		"resumelens_role_reloads_total",
		metric.WithDescription("Role catalog reload attempts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create role reload counter: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumelens_rate_limit_hits_total",
		metric.WithDescription("Requests rejected by the rate limiter"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit counter: %w", err)
	}

	if m.JobsProcessed, err = meter.Int64Counter(
		"resumelens_jobs_processed_total",
		metric.WithDescription("Queued analysis jobs by final status"),
	); err != nil {
		return nil, fmt.Errorf("failed to create jobs counter: %w", err)
	}

	return m, nil
}

// RecordAnalysis records one pipeline run. documentType is empty on failure.
func (m *Metrics) RecordAnalysis(ctx context.Context, documentType string, success bool, elapsed time.Duration, atsScore int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("document_type", documentType),
		attribute.Bool("success", success),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)
	if success {
		m.ATSScore.Record(ctx, int64(atsScore), metric.WithAttributes(attribute.String("document_type", documentType)))
	}
}

func (m *Metrics) RecordExtractionError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.ExtractionErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

func (m *Metrics) RecordRoleReload(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.RoleReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}

func (m *Metrics) RecordJob(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.JobsProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
