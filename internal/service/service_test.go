package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/internal/analyzer"
	"resumelens/internal/errors"
	"resumelens/internal/roles"
	"resumelens/internal/store"
	"resumelens/internal/types"
)

const resume = `Jane Doe
jane.doe@example.com | (555) 123-4567

Summary
Backend engineer with eight years of experience building distributed systems.

Experience
Senior Engineer at Acme Corp, 2019 - Present
- Migrated billing services from Python to Go, cutting latency by 40%
- Built an event pipeline on Kafka

Education
B.Sc. Computer Science, State University, 2014

Skills
Go, Python, SQL, Docker, Kubernetes`

// mapCache is an in-memory cache.Cache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]*types.AnalysisResult
	getErr  error
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]*types.AnalysisResult{}}
}

func (c *mapCache) Get(_ context.Context, key string) (*types.AnalysisResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, r *types.AnalysisResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = r
	return nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

type fakeSource map[string]types.RawDocument

func (f fakeSource) Fetch(_ context.Context, key, _ string) (types.RawDocument, error) {
	doc, ok := f[key]
	if !ok {
		return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotFound, "object not found", nil)
	}
	return doc, nil
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	reg, err := roles.NewRegistry("", nil)
	require.NoError(t, err)
	return New(analyzer.New(), reg, opts...)
}

func TestAnalyzeText(t *testing.T) {
	svc := newService(t)
	rec, err := svc.Analyze(context.Background(), Input{Text: resume, Role: "backend developer"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Backend Developer", rec.Result.Role)
	assert.Equal(t, "Software Development and Engineering", rec.Category)
	assert.Equal(t, types.LabelResume, rec.Result.DocumentType)
	assert.Contains(t, rec.Result.KeywordMatch.Matched, "go")
	assert.False(t, rec.Cached)
}

func TestAnalyzeWithoutRole(t *testing.T) {
	svc := newService(t)
	rec, err := svc.Analyze(context.Background(), Input{Text: resume})
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Result.KeywordMatch.Coverage)
	assert.Empty(t, rec.Result.Role)
}

func TestAnalyzeUnknownRole(t *testing.T) {
	svc := newService(t)
	_, err := svc.Analyze(context.Background(), Input{Text: resume, Role: "Astronaut"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeRoleNotFound))
}

func TestAnalyzeDocumentAndObjectKey(t *testing.T) {
	doc := types.RawDocument{Content: []byte(resume), Kind: types.KindText, FileName: "jane.txt"}
	svc := newService(t, WithSource(fakeSource{"uploads/jane.txt": doc}))
	ctx := context.Background()

	fromDoc, err := svc.Analyze(ctx, Input{Document: &doc, Role: "Backend Developer"})
	require.NoError(t, err)
	assert.Equal(t, "jane.txt", fromDoc.FileName)

	fromKey, err := svc.Analyze(ctx, Input{ObjectKey: "uploads/jane.txt", Role: "Backend Developer"})
	require.NoError(t, err)
	assert.Equal(t, fromDoc.Result.ATSScore, fromKey.Result.ATSScore)

	fromText, err := svc.Analyze(ctx, Input{Text: resume, Role: "Backend Developer"})
	require.NoError(t, err)
	assert.Equal(t, fromDoc.Result.ATSScore, fromText.Result.ATSScore)

	_, err = svc.Analyze(ctx, Input{ObjectKey: "uploads/missing.pdf"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
}

func TestAnalyzeObjectKeyWithoutSource(t *testing.T) {
	svc := newService(t)
	_, err := svc.Analyze(context.Background(), Input{ObjectKey: "x.pdf"})
	assert.True(t, errors.Is(err, errors.ErrorTypeConfig))
}

func TestAnalyzeExtractionError(t *testing.T) {
	svc := newService(t)
	doc := types.RawDocument{Content: []byte("not a pdf"), Kind: types.KindPDF}
	_, err := svc.Analyze(context.Background(), Input{Document: &doc})
	assert.True(t, errors.IsExtraction(err))
}

func TestAnalyzeUsesCache(t *testing.T) {
	c := newMapCache()
	svc := newService(t, WithCache(c))
	ctx := context.Background()

	first, err := svc.Analyze(ctx, Input{Text: resume, Role: "Backend Developer"})
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, Input{Text: resume + "\n\n", Role: "Backend Developer"})
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Result.ATSScore, second.Result.ATSScore)
	assert.Equal(t, 1, c.sets)

	other, err := svc.Analyze(ctx, Input{Text: resume, Role: "Data Scientist"})
	require.NoError(t, err)
	assert.False(t, other.Cached)
}

func TestAnalyzeCacheErrorIsMiss(t *testing.T) {
	c := newMapCache()
	c.getErr = fmt.Errorf("redis down")
	svc := newService(t, WithCache(c), WithLogger(errors.Discard()))

	rec, err := svc.Analyze(context.Background(), Input{Text: resume})
	require.NoError(t, err)
	assert.False(t, rec.Cached)
}

func TestPersistAndQuery(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newService(t, WithStore(st))
	ctx := context.Background()

	saved, err := svc.Analyze(ctx, Input{Text: resume, Role: "Backend Developer", Persist: true})
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, Input{Text: resume})
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Result.ATSScore, got.Result.ATSScore)

	list, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	health, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health["store"])
	assert.Equal(t, "disabled", health["cache"])
}

func TestQueriesWithoutStore(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	assert.False(t, svc.HasStore())

	_, err := svc.List(ctx, 1)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreUnavailable))
	_, err = svc.Stats(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreUnavailable))
}

func TestAnalyzeConcurrent(t *testing.T) {
	svc := newService(t, WithCache(newMapCache()), WithStore(store.NewMemoryStore()))
	var wg sync.WaitGroup
	scores := make([]int, 16)
	for i := range scores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := svc.Analyze(context.Background(), Input{Text: resume, Role: "Backend Developer", Persist: true})
			if err == nil {
				scores[i] = rec.Result.ATSScore
			}
		}()
	}
	wg.Wait()
	for _, s := range scores[1:] {
		assert.Equal(t, scores[0], s)
	}
}

type brokenStore struct{ store.Store }

func (brokenStore) Save(context.Context, *types.AnalysisRecord) error {
	return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "database is down", nil)
}

func TestAnalyzeSaveFailureKeepsRecord(t *testing.T) {
	svc := newService(t, WithStore(brokenStore{store.NewMemoryStore()}))
	rec, err := svc.Analyze(context.Background(), Input{Text: resume, Persist: true})
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreUnavailable))
	require.NotNil(t, rec)
	assert.Positive(t, rec.Result.ATSScore)
}
