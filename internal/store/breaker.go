package store

import (
	"context"

	"github.com/google/uuid"

	"resumelens/internal/breaker"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// BreakerStore fails fast while the wrapped store is unhealthy.
type BreakerStore struct {
	next Store
	cb   *breaker.Breaker[any]
}

func NewBreakerStore(next Store, cfg config.CircuitBreakerConfig, logger *errors.Logger) *BreakerStore {
	return &BreakerStore{next: next, cb: breaker.New[any]("store", cfg, logger)}
}

// call runs fn through the breaker and maps an open breaker to STORE_UNAVAILABLE.
func call[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) { return fn() })
	if breaker.Open(err) {
		var zero T
		return zero, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "store circuit breaker is open", err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (b *BreakerStore) Save(ctx context.Context, rec *types.AnalysisRecord) error {
	_, err := call(b, func() (struct{}, error) { return struct{}{}, b.next.Save(ctx, rec) })
	return err
}

func (b *BreakerStore) Get(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	return call(b, func() (*types.AnalysisRecord, error) { return b.next.Get(ctx, id) })
}

func (b *BreakerStore) List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	return call(b, func() ([]*types.AnalysisRecord, error) { return b.next.List(ctx, limit) })
}

func (b *BreakerStore) Stats(ctx context.Context) (types.AnalysisStats, error) {
	return call(b, func() (types.AnalysisStats, error) { return b.next.Stats(ctx) })
}

// Ping bypasses the breaker so health checks see the real backend state.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func (b *BreakerStore) GetStats() map[string]any {
	return b.cb.GetStats()
}

func (b *BreakerStore) IsHealthy() bool {
	return b.cb.IsHealthy()
}

// Open builds the configured store, wrapped in a breaker when enabled.
func Open(ctx context.Context, cfg config.StoreConfig, logger *errors.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		pg, err := NewPostgresStore(ctx, cfg.DatabaseURL, cfg.MaxConns, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if !cfg.CircuitBreaker.Enabled {
			return pg, nil
		}
		return NewBreakerStore(pg, cfg.CircuitBreaker, logger), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "unknown store driver: "+cfg.Driver, nil)
	}
}
