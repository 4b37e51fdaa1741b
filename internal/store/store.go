// Package store persists analysis records.
package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Store is implemented by MemoryStore, PostgresStore and BreakerStore.
type Store interface {
	Save(ctx context.Context, rec *types.AnalysisRecord) error
	Get(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error)
	// List returns the most recent records first.
	List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error)
	Stats(ctx context.Context) (types.AnalysisStats, error)
	Ping(ctx context.Context) error
	Close() error
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func notFound(id uuid.UUID) error {
	return errors.NewStorageError(errors.ErrCodeRecordNotFound, "analysis not found", nil).
		WithContext("id", id.String())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// MemoryStore keeps records in process. Used by default and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*types.AnalysisRecord
	order   []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*types.AnalysisRecord)}
}

func (m *MemoryStore) Save(_ context.Context, rec *types.AnalysisRecord) error {
	if rec == nil || rec.Result == nil || rec.ID == uuid.Nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "record needs an id and a result", nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]*types.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*types.AnalysisRecord, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.records[id]
		all = append(all, &cp)
	}
	// Insertion order breaks ties between equal timestamps.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if n := clampLimit(limit); len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (m *MemoryStore) Stats(_ context.Context) (types.AnalysisStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.AnalysisStats{ByDocumentType: map[string]int{}}
	var ats, coverage, format, section float64
	for _, rec := range m.records {
		r := rec.Result
		stats.Total++
		stats.ByDocumentType[string(r.DocumentType)]++
		ats += float64(r.ATSScore)
		coverage += float64(r.KeywordMatch.Coverage)
		format += float64(r.FormatScore)
		section += float64(r.SectionScore)
	}
	if stats.Total > 0 {
		n := float64(stats.Total)
		stats.AvgATSScore = round2(ats / n)
		stats.AvgKeywordCoverage = round2(coverage / n)
		stats.AvgFormatScore = round2(format / n)
		stats.AvgSectionScore = round2(section / n)
	}
	return stats, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
