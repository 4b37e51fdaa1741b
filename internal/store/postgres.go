package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS resume_analysis (
	id                  UUID PRIMARY KEY,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	file_name           TEXT NOT NULL DEFAULT '',
	role                TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL DEFAULT '',
	document_type       TEXT NOT NULL,
	ats_score           INTEGER NOT NULL,
	keyword_match_score INTEGER NOT NULL,
	format_score        INTEGER NOT NULL,
	section_score       INTEGER NOT NULL,
	missing_skills      TEXT[] NOT NULL DEFAULT '{}',
	recommendations     TEXT[] NOT NULL DEFAULT '{}',
	result              JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS resume_analysis_created_at_idx ON resume_analysis (created_at DESC);
`

// PostgresStore keeps records in the resume_analysis table. The score columns
// are denormalized from result for the Stats aggregate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *errors.Logger
}

// NewPostgresStore connects and verifies the pool with a ping.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32, logger *errors.Logger) (*PostgresStore, error) {
	pcfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid database URL", err)
	}
	if maxConns > 0 {
		pcfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to create connection pool", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to ping database", err)
	}

	logger.Info("Connected to PostgreSQL", "max_conns", pcfg.MaxConns)
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the table and index if they are missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to create schema", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, rec *types.AnalysisRecord) error {
	if rec == nil || rec.Result == nil || rec.ID == uuid.Nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "record needs an id and a result", nil)
	}
	r := rec.Result
	payload, err := json.Marshal(r)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to encode analysis", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO resume_analysis (id, created_at, file_name, role, category, document_type,
			ats_score, keyword_match_score, format_score, section_score,
			missing_skills, recommendations, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET result = EXCLUDED.result`,
		rec.ID, rec.CreatedAt, rec.FileName, r.Role, rec.Category, string(r.DocumentType),
		r.ATSScore, r.KeywordMatch.Coverage, r.FormatScore, r.SectionScore,
		nonNil(r.KeywordMatch.Missing), nonNil(r.Suggestions), payload,
	)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to save analysis", err).
			WithContext("id", rec.ID.String())
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, created_at, file_name, category, result FROM resume_analysis WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err == pgx.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to load analysis", err).
			WithContext("id", id.String())
	}
	return rec, nil
}

func (p *PostgresStore) List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, created_at, file_name, category, result FROM resume_analysis
		 ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to list analyses", err)
	}
	defer rows.Close()

	var out []*types.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to read analysis row", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to list analyses", err)
	}
	return out, nil
}

func (p *PostgresStore) Stats(ctx context.Context) (types.AnalysisStats, error) {
	stats := types.AnalysisStats{ByDocumentType: map[string]int{}}
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(AVG(ats_score), 0)::float8,
			COALESCE(AVG(keyword_match_score), 0)::float8,
			COALESCE(AVG(format_score), 0)::float8,
			COALESCE(AVG(section_score), 0)::float8
		 FROM resume_analysis`,
	).Scan(&stats.Total, &stats.AvgATSScore, &stats.AvgKeywordCoverage, &stats.AvgFormatScore, &stats.AvgSectionScore)
	if err != nil {
		return stats, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to aggregate analyses", err)
	}
	stats.AvgATSScore = round2(stats.AvgATSScore)
	stats.AvgKeywordCoverage = round2(stats.AvgKeywordCoverage)
	stats.AvgFormatScore = round2(stats.AvgFormatScore)
	stats.AvgSectionScore = round2(stats.AvgSectionScore)

	rows, err := p.pool.Query(ctx, `SELECT document_type, COUNT(*) FROM resume_analysis GROUP BY document_type`)
	if err != nil {
		return stats, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to aggregate analyses", err)
	}
	defer rows.Close()
	for rows.Next() {
		var docType string
		var n int
		if err := rows.Scan(&docType, &n); err != nil {
			return stats, errors.NewStorageError(errors.ErrCodeStoreUnavailable, "failed to read aggregate row", err)
		}
		stats.ByDocumentType[docType] = n
	}
	return stats, rows.Err()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreUnavailable, "database ping failed", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (*types.AnalysisRecord, error) {
	var (
		rec     types.AnalysisRecord
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.FileName, &rec.Category, &payload); err != nil {
		return nil, err
	}
	rec.Result = &types.AnalysisResult{}
	if err := json.Unmarshal(payload, rec.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
