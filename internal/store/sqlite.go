package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS pages (
	id               TEXT PRIMARY KEY,
	template_id      TEXT NOT NULL,
	combination_key  TEXT NOT NULL,
	combination      TEXT NOT NULL,
	slug             TEXT NOT NULL,
	title            TEXT NOT NULL,
	meta_description TEXT NOT NULL,
	h1               TEXT NOT NULL,
	sections         TEXT NOT NULL,
	quality_score    REAL NOT NULL,
	verdict          TEXT NOT NULL,
	data_quality     REAL NOT NULL,
	fingerprint      TEXT NOT NULL,
	warnings         TEXT,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS generation_fingerprints (
	template_id     TEXT NOT NULL,
	combination_key TEXT NOT NULL,
	page_id         TEXT NOT NULL REFERENCES pages(id),
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (template_id, combination_key)
);

CREATE INDEX IF NOT EXISTS idx_pages_template ON pages(template_id);
CREATE INDEX IF NOT EXISTS idx_pages_verdict ON pages(verdict);
CREATE INDEX IF NOT EXISTS idx_pages_created ON pages(template_id, created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePage(ctx context.Context, page *model.GeneratedPage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if err := insertPageTx(ctx, tx, page); err != nil {
		return err
	}

	// The ledger insert is the atomic check-and-insert: the primary key on
	// (template_id, combination_key) decides the winner.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO generation_fingerprints (template_id, combination_key, page_id, created_at)
		 VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		page.TemplateID, page.CombinationKey, page.ID, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert fingerprint")
	}
	if n, err := res.RowsAffected(); err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	} else if n == 0 {
		return ErrDuplicatePage
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit create page")
}

func (s *SQLiteStore) ReplacePage(ctx context.Context, page *model.GeneratedPage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	// Remove the ledger entry first so the page row's FK reference clears.
	var oldPageID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT page_id FROM generation_fingerprints WHERE template_id = ? AND combination_key = ?`,
		page.TemplateID, page.CombinationKey,
	).Scan(&oldPageID)
	if err != nil && err != sql.ErrNoRows {
		return eris.Wrap(err, "sqlite: lookup old fingerprint")
	}

	if oldPageID.Valid {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM generation_fingerprints WHERE template_id = ? AND combination_key = ?`,
			page.TemplateID, page.CombinationKey,
		); err != nil {
			return eris.Wrap(err, "sqlite: delete old fingerprint")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, oldPageID.String); err != nil {
			return eris.Wrap(err, "sqlite: delete old page")
		}
	}

	if err := insertPageTx(ctx, tx, page); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO generation_fingerprints (template_id, combination_key, page_id, created_at) VALUES (?, ?, ?, ?)`,
		page.TemplateID, page.CombinationKey, page.ID, time.Now().UTC(),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert fingerprint")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace page")
}

func insertPageTx(ctx context.Context, tx *sql.Tx, page *model.GeneratedPage) error {
	combJSON, err := json.Marshal(page.Combination)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal combination")
	}
	sectionsJSON, err := json.Marshal(page.Sections)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sections")
	}
	warningsJSON, err := json.Marshal(page.Warnings)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal warnings")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (id, template_id, combination_key, combination, slug, title,
			meta_description, h1, sections, quality_score, verdict, data_quality,
			fingerprint, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		page.ID, page.TemplateID, page.CombinationKey, string(combJSON), page.Slug,
		page.Title, page.MetaDescription, page.H1, string(sectionsJSON),
		page.QualityScore, string(page.Verdict), page.DataQuality,
		page.Fingerprint, string(warningsJSON), page.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert page")
}

func (s *SQLiteStore) GetPage(ctx context.Context, pageID string) (*model.GeneratedPage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, template_id, combination_key, combination, slug, title,
			meta_description, h1, sections, quality_score, verdict, data_quality,
			fingerprint, warnings, created_at
		 FROM pages WHERE id = ?`,
		pageID,
	)
	return scanPage(row)
}

func (s *SQLiteStore) ListPages(ctx context.Context, filter PageFilter) ([]model.GeneratedPage, error) {
	query := `SELECT id, template_id, combination_key, combination, slug, title,
		meta_description, h1, sections, quality_score, verdict, data_quality,
		fingerprint, warnings, created_at FROM pages WHERE 1=1`
	var args []any

	if filter.TemplateID != "" {
		query += ` AND template_id = ?`
		args = append(args, filter.TemplateID)
	}
	if filter.Verdict != "" {
		query += ` AND verdict = ?`
		args = append(args, string(filter.Verdict))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pages")
	}
	defer rows.Close()

	var pages []model.GeneratedPage
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, eris.Wrap(rows.Err(), "sqlite: list pages iterate")
}

func (s *SQLiteStore) DeletePage(ctx context.Context, pageID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM generation_fingerprints WHERE page_id = ?`, pageID,
	); err != nil {
		return eris.Wrap(err, "sqlite: delete fingerprint")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, pageID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete page %s", pageID)
	}
	if n, err := res.RowsAffected(); err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	} else if n == 0 {
		return ErrNotFound
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit delete page")
}

func (s *SQLiteStore) LookupFingerprint(ctx context.Context, templateID, combinationKey string) (string, bool, error) {
	var pageID string
	err := s.db.QueryRowContext(ctx,
		`SELECT page_id FROM generation_fingerprints WHERE template_id = ? AND combination_key = ?`,
		templateID, combinationKey,
	).Scan(&pageID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "sqlite: lookup fingerprint")
	}
	return pageID, true, nil
}

func (s *SQLiteStore) RecentFingerprints(ctx context.Context, templateID string, limit int) ([]model.PageFingerprint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fingerprint FROM pages WHERE template_id = ? ORDER BY created_at DESC LIMIT ?`,
		templateID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: recent fingerprints")
	}
	defer rows.Close()

	var fps []model.PageFingerprint
	for rows.Next() {
		var fp model.PageFingerprint
		if err := rows.Scan(&fp.PageID, &fp.Fingerprint); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan fingerprint")
		}
		fps = append(fps, fp)
	}
	return fps, eris.Wrap(rows.Err(), "sqlite: recent fingerprints iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanPage(row scannable) (*model.GeneratedPage, error) {
	var p model.GeneratedPage
	var combJSON, sectionsJSON string
	var warningsJSON sql.NullString
	var verdict string

	err := row.Scan(&p.ID, &p.TemplateID, &p.CombinationKey, &combJSON, &p.Slug,
		&p.Title, &p.MetaDescription, &p.H1, &sectionsJSON, &p.QualityScore,
		&verdict, &p.DataQuality, &p.Fingerprint, &warningsJSON, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan page")
	}

	p.Verdict = model.Verdict(verdict)
	if err := json.Unmarshal([]byte(combJSON), &p.Combination); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal combination")
	}
	if err := json.Unmarshal([]byte(sectionsJSON), &p.Sections); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sections")
	}
	if warningsJSON.Valid && warningsJSON.String != "null" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &p.Warnings); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal warnings")
		}
	}
	return &p, nil
}
