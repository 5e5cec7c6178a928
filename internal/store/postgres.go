package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS pages (
	id               TEXT PRIMARY KEY,
	template_id      TEXT NOT NULL,
	combination_key  TEXT NOT NULL,
	combination      JSONB NOT NULL,
	slug             TEXT NOT NULL,
	title            TEXT NOT NULL,
	meta_description TEXT NOT NULL,
	h1               TEXT NOT NULL,
	sections         JSONB NOT NULL,
	quality_score    DOUBLE PRECISION NOT NULL,
	verdict          TEXT NOT NULL,
	data_quality     DOUBLE PRECISION NOT NULL,
	fingerprint      TEXT NOT NULL,
	warnings         JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS generation_fingerprints (
	template_id     TEXT NOT NULL,
	combination_key TEXT NOT NULL,
	page_id         TEXT NOT NULL REFERENCES pages(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (template_id, combination_key)
);

CREATE INDEX IF NOT EXISTS idx_pages_template ON pages(template_id);
CREATE INDEX IF NOT EXISTS idx_pages_verdict ON pages(verdict);
CREATE INDEX IF NOT EXISTS idx_pages_created ON pages(template_id, created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreatePage(ctx context.Context, page *model.GeneratedPage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	if err := s.insertPageTx(ctx, tx, page); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO generation_fingerprints (template_id, combination_key, page_id, created_at)
		 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
		page.TemplateID, page.CombinationKey, page.ID, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert fingerprint")
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicatePage
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit create page")
}

func (s *PostgresStore) ReplacePage(ctx context.Context, page *model.GeneratedPage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	var oldPageID *string
	err = tx.QueryRow(ctx,
		`SELECT page_id FROM generation_fingerprints WHERE template_id = $1 AND combination_key = $2`,
		page.TemplateID, page.CombinationKey,
	).Scan(&oldPageID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return eris.Wrap(err, "postgres: lookup old fingerprint")
	}

	if oldPageID != nil {
		if _, err := tx.Exec(ctx,
			`DELETE FROM generation_fingerprints WHERE template_id = $1 AND combination_key = $2`,
			page.TemplateID, page.CombinationKey,
		); err != nil {
			return eris.Wrap(err, "postgres: delete old fingerprint")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pages WHERE id = $1`, *oldPageID); err != nil {
			return eris.Wrap(err, "postgres: delete old page")
		}
	}

	if err := s.insertPageTx(ctx, tx, page); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO generation_fingerprints (template_id, combination_key, page_id, created_at) VALUES ($1, $2, $3, $4)`,
		page.TemplateID, page.CombinationKey, page.ID, time.Now().UTC(),
	); err != nil {
		return eris.Wrap(err, "postgres: insert fingerprint")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace page")
}

func (s *PostgresStore) insertPageTx(ctx context.Context, tx pgx.Tx, page *model.GeneratedPage) error {
	combJSON, err := json.Marshal(page.Combination)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal combination")
	}
	sectionsJSON, err := json.Marshal(page.Sections)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sections")
	}
	warningsJSON, err := json.Marshal(page.Warnings)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal warnings")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO pages (id, template_id, combination_key, combination, slug, title,
			meta_description, h1, sections, quality_score, verdict, data_quality,
			fingerprint, warnings, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		page.ID, page.TemplateID, page.CombinationKey, combJSON, page.Slug,
		page.Title, page.MetaDescription, page.H1, sectionsJSON,
		page.QualityScore, string(page.Verdict), page.DataQuality,
		page.Fingerprint, warningsJSON, page.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert page")
}

func (s *PostgresStore) GetPage(ctx context.Context, pageID string) (*model.GeneratedPage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, template_id, combination_key, combination, slug, title,
			meta_description, h1, sections, quality_score, verdict, data_quality,
			fingerprint, warnings, created_at
		 FROM pages WHERE id = $1`,
		pageID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get page")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, eris.Wrap(err, "postgres: get page")
		}
		return nil, ErrNotFound
	}
	return scanPostgresPage(rows)
}

func (s *PostgresStore) ListPages(ctx context.Context, filter PageFilter) ([]model.GeneratedPage, error) {
	query := `SELECT id, template_id, combination_key, combination, slug, title,
		meta_description, h1, sections, quality_score, verdict, data_quality,
		fingerprint, warnings, created_at FROM pages WHERE 1=1`
	var args []any

	if filter.TemplateID != "" {
		args = append(args, filter.TemplateID)
		query += ` AND template_id = $` + strconv.Itoa(len(args))
	}
	if filter.Verdict != "" {
		args = append(args, string(filter.Verdict))
		query += ` AND verdict = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pages")
	}
	defer rows.Close()

	var pages []model.GeneratedPage
	for rows.Next() {
		p, err := scanPostgresPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, eris.Wrap(rows.Err(), "postgres: list pages iterate")
}

func (s *PostgresStore) DeletePage(ctx context.Context, pageID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM generation_fingerprints WHERE page_id = $1`, pageID,
	); err != nil {
		return eris.Wrap(err, "postgres: delete fingerprint")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pages WHERE id = $1`, pageID)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete page %s", pageID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit delete page")
}

func (s *PostgresStore) LookupFingerprint(ctx context.Context, templateID, combinationKey string) (string, bool, error) {
	var pageID string
	err := s.pool.QueryRow(ctx,
		`SELECT page_id FROM generation_fingerprints WHERE template_id = $1 AND combination_key = $2`,
		templateID, combinationKey,
	).Scan(&pageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "postgres: lookup fingerprint")
	}
	return pageID, true, nil
}

func (s *PostgresStore) RecentFingerprints(ctx context.Context, templateID string, limit int) ([]model.PageFingerprint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, fingerprint FROM pages WHERE template_id = $1 ORDER BY created_at DESC LIMIT $2`,
		templateID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: recent fingerprints")
	}
	defer rows.Close()

	var fps []model.PageFingerprint
	for rows.Next() {
		var fp model.PageFingerprint
		if err := rows.Scan(&fp.PageID, &fp.Fingerprint); err != nil {
			return nil, eris.Wrap(err, "postgres: scan fingerprint")
		}
		fps = append(fps, fp)
	}
	return fps, eris.Wrap(rows.Err(), "postgres: recent fingerprints iterate")
}

func scanPostgresPage(rows pgx.Rows) (*model.GeneratedPage, error) {
	var p model.GeneratedPage
	var combJSON, sectionsJSON []byte
	var warningsJSON []byte
	var verdict string

	err := rows.Scan(&p.ID, &p.TemplateID, &p.CombinationKey, &combJSON, &p.Slug,
		&p.Title, &p.MetaDescription, &p.H1, &sectionsJSON, &p.QualityScore,
		&verdict, &p.DataQuality, &p.Fingerprint, &warningsJSON, &p.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan page")
	}

	p.Verdict = model.Verdict(verdict)
	if err := json.Unmarshal(combJSON, &p.Combination); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal combination")
	}
	if err := json.Unmarshal(sectionsJSON, &p.Sections); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal sections")
	}
	if len(warningsJSON) > 0 && string(warningsJSON) != "null" {
		if err := json.Unmarshal(warningsJSON, &p.Warnings); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal warnings")
		}
	}
	return &p, nil
}
