// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records tool runs and the files they wrote in a SQLite
// database, so generated assets can be traced back to the run that made them.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/apptools/pkg/types"
)

const defaultLimit = 10

// Ledger is the run history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the parent
// directory and schema when missing.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			detail TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tool ON runs(tool)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its outputs in one transaction and returns the run id.
func (l *Ledger) Record(ctx context.Context, run types.Run) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (tool, started_at) VALUES (?, ?)`,
		run.Tool, run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, o := range run.Outputs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outputs (run_id, seq, path, sha256, bytes, detail) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, o.Path, o.SHA256, o.Bytes, o.Detail,
		); err != nil {
			return 0, fmt.Errorf("inserting output %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first. An empty tool matches all
// tools; limit <= 0 uses the default of 10.
func (l *Ledger) Recent(ctx context.Context, tool string, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, tool, started_at FROM runs
		 WHERE ? = '' OR tool = ?
		 ORDER BY id DESC LIMIT ?`,
		tool, tool, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var r types.Run
		var started string
		if err := rows.Scan(&r.ID, &r.Tool, &started); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", started, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		outs, err := l.outputs(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outputs = outs
	}
	return runs, nil
}

func (l *Ledger) outputs(ctx context.Context, runID int64) ([]types.Output, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path, sha256, bytes, COALESCE(detail, '') FROM outputs WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying outputs for run %d: %w", runID, err)
	}
	defer rows.Close()

	var outs []types.Output
	for rows.Next() {
		var o types.Output
		if err := rows.Scan(&o.Path, &o.SHA256, &o.Bytes, &o.Detail); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		outs = append(outs, o)
	}
	return outs, rows.Err()
}

// WriteYAML writes runs to w as a YAML list.
func WriteYAML(w io.Writer, runs []types.Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteText prints runs in a compact human-readable listing.
func WriteText(w io.Writer, runs []types.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%d %s %s (%d files)\n", r.ID, r.Tool, r.StartedAt.Format(time.RFC3339), len(r.Outputs))
		for _, o := range r.Outputs {
			detail := ""
			if o.Detail != "" {
				detail = " " + o.Detail
			}
			fmt.Fprintf(w, "    %s %s%s\n", o.SHA256[:min(12, len(o.SHA256))], o.Path, detail)
		}
	}
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
