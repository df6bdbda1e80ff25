package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/preprocess"
	"github.com/cognicore/veritas/pkg/veritas/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDs
}

// OpenSQLite opens a SQLite database with WAL mode enabled. Foreign keys
// and the busy timeout are set per connection through the DSN, so every
// connection in the pool enforces them.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db, ids: store.NewIDs()}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	config TEXT NOT NULL,
	mode TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	label INTEGER NOT NULL,
	tokens TEXT,
	text TEXT,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS term_df (
	run_id TEXT NOT NULL,
	term TEXT NOT NULL,
	label INTEGER NOT NULL,
	df INTEGER NOT NULL,
	PRIMARY KEY(run_id, term, label),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateRun records a new run and returns it with a fresh ID
func (s *sqliteStore) CreateRun(ctx context.Context, cfg preprocess.Config, mode preprocess.Mode) (store.Run, error) {
	now := time.Now().UTC()
	run := store.Run{
		ID:        s.ids.Next(now),
		Config:    cfg,
		Mode:      mode,
		CreatedAt: now,
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return store.Run{}, err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, config, mode, created_at) VALUES (?, ?, ?, ?);
`, run.ID.String(), string(cfgJSON), mode.String(), now.Format(time.RFC3339Nano))
	if err != nil {
		return store.Run{}, err
	}
	return run, nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id ulid.ULID) (store.Run, error) {
	var cfgJSON, mode, created string
	err := s.db.QueryRowContext(ctx, `SELECT config, mode, created_at FROM runs WHERE id = ?`, id.String()).
		Scan(&cfgJSON, &mode, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	run := store.Run{ID: id}
	if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
		return store.Run{}, fmt.Errorf("decode run config: %w", err)
	}
	if run.Mode, err = preprocess.ParseMode(mode); err != nil {
		return store.Run{}, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

// AppendDoc adds a document at the end of its run and returns its position
func (s *sqliteStore) AppendDoc(ctx context.Context, d store.Doc) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	runID := d.RunID.String()
	if err := checkRun(ctx, tx, runID); err != nil {
		return 0, err
	}

	var pos int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM documents WHERE run_id = ?`, runID).Scan(&pos)
	if err != nil {
		return 0, err
	}

	var tokens sql.NullString
	if d.Tokens != nil {
		raw, err := json.Marshal(d.Tokens)
		if err != nil {
			return 0, err
		}
		tokens = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (run_id, position, label, tokens, text) VALUES (?, ?, ?, ?, ?);
`, runID, pos, d.Label, tokens, d.Text)
	if err != nil {
		return 0, err
	}

	return pos, tx.Commit()
}

// Docs returns a run's documents in position order. limit <= 0 returns all.
func (s *sqliteStore) Docs(ctx context.Context, runID ulid.ULID, limit int) ([]store.Doc, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT position, label, tokens, text
FROM documents
WHERE run_id = ?
ORDER BY position
LIMIT ?;
`, runID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		d := store.Doc{RunID: runID}
		var tokens, text sql.NullString
		if err := rows.Scan(&d.Position, &d.Label, &tokens, &text); err != nil {
			return nil, err
		}
		if tokens.Valid {
			if err := json.Unmarshal([]byte(tokens.String), &d.Tokens); err != nil {
				return nil, fmt.Errorf("decode tokens at %d: %w", d.Position, err)
			}
		}
		d.Text = text.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// AddTermDF adds per-label document counts to the run's totals in one
// transaction
func (s *sqliteStore) AddTermDF(ctx context.Context, runID ulid.ULID, df map[string][]int) error {
	if len(df) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := runID.String()
	if err := checkRun(ctx, tx, id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO term_df (run_id, term, label, df) VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, term, label) DO UPDATE SET df = df + excluded.df;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		for label, count := range df[term] {
			if count == 0 {
				continue
			}
			if _, err := stmt.ExecContext(ctx, id, term, label, count); err != nil {
				return fmt.Errorf("add df for %q: %w", term, err)
			}
		}
	}
	return tx.Commit()
}

// TermDF returns per-label document counts for a term, or nil if the term
// was never recorded
func (s *sqliteStore) TermDF(ctx context.Context, runID ulid.ULID, term string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT label, df FROM term_df WHERE run_id = ? AND term = ? ORDER BY label;
`, runID.String(), term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var label, df int
		if err := rows.Scan(&label, &df); err != nil {
			return nil, err
		}
		for len(counts) <= label {
			counts = append(counts, 0)
		}
		counts[label] = df
	}
	return counts, rows.Err()
}

func checkRun(ctx context.Context, tx *sql.Tx, id string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return err
}
