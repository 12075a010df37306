package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrRunNotFound = errors.New("run not found")

// createdLayout has a fixed width so stored timestamps sort as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one completed split as kept in the history. A run never reads the
// history back; it is only listed by the history command and the upload UI.
type Run struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Origin        string    `json:"origin"`
	Input         string    `json:"input"`
	Template      string    `json:"template"`
	Output        string    `json:"output"`
	GroupColumn   string    `json:"groupColumn"`
	TemplateSheet string    `json:"templateSheet"`
	Sheets        []string  `json:"sheets"`
	RowsWritten   int       `json:"rowsWritten"`
	Warnings      int       `json:"warnings"`
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	input TEXT NOT NULL,
	template TEXT NOT NULL,
	output TEXT NOT NULL,
	group_column TEXT NOT NULL,
	template_sheet TEXT NOT NULL,
	sheets TEXT NOT NULL,
	rows_written INTEGER NOT NULL CHECK(rows_written >= 0),
	warnings INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.ensureColumn("runs", "origin", `ALTER TABLE runs ADD COLUMN origin TEXT NOT NULL DEFAULT 'cli';`); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds a column to databases created before it existed.
func (s *SQLiteStore) ensureColumn(table, column, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			found = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}
	rows.Close()

	if found {
		return nil
	}

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("add %s column: %w", column, err)
	}

	return nil
}

// InsertRun stores run, filling in a fresh ID and creation time when unset.
func (s *SQLiteStore) InsertRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Origin == "" {
		run.Origin = "cli"
	}
	if run.Sheets == nil {
		run.Sheets = []string{}
	}

	sheets, err := json.Marshal(run.Sheets)
	if err != nil {
		return fmt.Errorf("encode sheet names: %w", err)
	}

	const insertStmt = `
INSERT INTO runs (
	id,
	created_at,
	origin,
	input,
	template,
	output,
	group_column,
	template_sheet,
	sheets,
	rows_written,
	warnings
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err = s.db.Exec(
		insertStmt,
		run.ID,
		run.CreatedAt.UTC().Format(createdLayout),
		run.Origin,
		run.Input,
		run.Template,
		run.Output,
		run.GroupColumn,
		run.TemplateSheet,
		string(sheets),
		run.RowsWritten,
		run.Warnings,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

const selectRuns = `
SELECT
	id,
	created_at,
	origin,
	input,
	template,
	output,
	group_column,
	template_sheet,
	sheets,
	rows_written,
	warnings
FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		createdRaw string
		sheetsRaw  string
	)
	if err := row.Scan(
		&run.ID,
		&createdRaw,
		&run.Origin,
		&run.Input,
		&run.Template,
		&run.Output,
		&run.GroupColumn,
		&run.TemplateSheet,
		&sheetsRaw,
		&run.RowsWritten,
		&run.Warnings,
	); err != nil {
		return Run{}, err
	}

	createdAt, err := time.Parse(createdLayout, createdRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	run.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(sheetsRaw), &run.Sheets); err != nil {
		return Run{}, fmt.Errorf("decode sheet names of run %s: %w", run.ID, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first; limit <= 0 lists all of them.
func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	query := selectRuns + "\nORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 32)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

func (s *SQLiteStore) GetRun(id string) (Run, error) {
	if strings.TrimSpace(id) == "" {
		return Run{}, fmt.Errorf("run id must not be empty")
	}

	run, err := scanRun(s.db.QueryRow(selectRuns+"\nWHERE id = ?;", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, fmt.Errorf("query run %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLiteStore) DeleteAllRuns() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM runs;`)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
