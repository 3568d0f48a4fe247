// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists review projects in a SQLite database. Each pipeline
// stage (raw, dedup, screened) is saved as an ordered snapshot of JSON rows;
// saving a stage replaces the previous snapshot atomically, so a re-run never
// leaves a project half-updated.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

const dbFile = "sysrev.db"

// Stage names the pipeline checkpoint a record snapshot belongs to.
type Stage string

const (
	StageRaw      Stage = "raw"
	StageDedup    Stage = "dedup"
	StageScreened Stage = "screened"
)

// Stages lists the pipeline checkpoints in order.
var Stages = []Stage{StageRaw, StageDedup, StageScreened}

// Store manages the project SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the project database at dataDir/sysrev.db and
// creates the schema if it does not exist.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			position INTEGER NOT NULL,
			record_id TEXT NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (project, stage, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_record_id ON records(project, stage, record_id)`,
		`CREATE TABLE IF NOT EXISTS labels (
			project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
			record_id TEXT NOT NULL,
			label INTEGER NOT NULL,
			PRIMARY KEY (project, record_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateProject registers a project name. Creating an existing project is a
// no-op so pipeline stages can run without an explicit init step.
func (s *Store) CreateProject(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO projects (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating project %s: %w", name, err)
	}
	return nil
}

// ListProjects returns project names in creation order.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM projects ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteProject removes the project and all of its snapshots and labels.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s not found", name)
	}
	return nil
}

// SaveRecords replaces the stage snapshot with the given records, preserving
// their order.
func (s *Store) SaveRecords(ctx context.Context, project string, stage Stage, records []types.Record) error {
	return s.saveStage(ctx, project, stage, len(records), func(i int) (string, any) {
		return records[i].RecordID, records[i]
	})
}

// SaveScreened replaces the screened snapshot.
func (s *Store) SaveScreened(ctx context.Context, project string, screened []types.ScreenedRecord) error {
	return s.saveStage(ctx, project, StageScreened, len(screened), func(i int) (string, any) {
		return screened[i].RecordID, screened[i]
	})
}

func (s *Store) saveStage(ctx context.Context, project string, stage Stage, n int, row func(i int) (string, any)) error {
	if err := s.CreateProject(ctx, project); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE project = ? AND stage = ?`, project, stage); err != nil {
		return fmt.Errorf("clearing %s snapshot: %w", stage, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (project, stage, position, record_id, body) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		recordID, body := row(i)
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", recordID, err)
		}
		if _, err := stmt.ExecContext(ctx, project, stage, i, recordID, string(data)); err != nil {
			return fmt.Errorf("inserting record %s: %w", recordID, err)
		}
	}

	return tx.Commit()
}

// LoadRecords returns the stage snapshot in saved order. A stage that was
// never saved returns an empty slice, not an error.
func (s *Store) LoadRecords(ctx context.Context, project string, stage Stage) ([]types.Record, error) {
	var records []types.Record
	err := s.loadStage(ctx, project, stage, func(data []byte) error {
		var r types.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	return records, err
}

// LoadScreened returns the screened snapshot in saved order.
func (s *Store) LoadScreened(ctx context.Context, project string) ([]types.ScreenedRecord, error) {
	var screened []types.ScreenedRecord
	err := s.loadStage(ctx, project, StageScreened, func(data []byte) error {
		var r types.ScreenedRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		screened = append(screened, r)
		return nil
	})
	return screened, err
}

func (s *Store) loadStage(ctx context.Context, project string, stage Stage, decode func(data []byte) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE project = ? AND stage = ? ORDER BY position`,
		project, stage)
	if err != nil {
		return fmt.Errorf("loading %s snapshot: %w", stage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("scanning record row: %w", err)
		}
		if err := decode([]byte(body)); err != nil {
			return fmt.Errorf("decoding %s record: %w", stage, err)
		}
	}
	return rows.Err()
}

// SaveLabels merges the label set into the project's labels. Existing labels
// for the same record IDs are overwritten; others are kept.
func (s *Store) SaveLabels(ctx context.Context, project string, labels types.LabelSet) error {
	if err := s.CreateProject(ctx, project); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO labels (project, record_id, label) VALUES (?, ?, ?)
		 ON CONFLICT(project, record_id) DO UPDATE SET label=excluded.label`)
	if err != nil {
		return fmt.Errorf("preparing label upsert: %w", err)
	}
	defer stmt.Close()

	for recordID, label := range labels {
		if _, err := stmt.ExecContext(ctx, project, recordID, label); err != nil {
			return fmt.Errorf("upserting label %s: %w", recordID, err)
		}
	}
	return tx.Commit()
}

// LoadLabels returns the project's ground-truth labels.
func (s *Store) LoadLabels(ctx context.Context, project string) (types.LabelSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, label FROM labels WHERE project = ?`, project)
	if err != nil {
		return nil, fmt.Errorf("loading labels: %w", err)
	}
	defer rows.Close()

	labels := make(types.LabelSet)
	for rows.Next() {
		var recordID string
		var label int
		if err := rows.Scan(&recordID, &label); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		labels[recordID] = label
	}
	return labels, rows.Err()
}

// Status summarizes a project's pipeline state.
type Status struct {
	Project  string `json:"project" yaml:"project"`
	Raw      int    `json:"raw" yaml:"raw"`
	Dedup    int    `json:"dedup" yaml:"dedup"`
	Screened int    `json:"screened" yaml:"screened"`
	Labels   int    `json:"labels" yaml:"labels"`
}

// ProjectStatus returns per-stage record counts and the label count.
func (s *Store) ProjectStatus(ctx context.Context, project string) (Status, error) {
	status := Status{Project: project}

	counts := map[Stage]*int{
		StageRaw:      &status.Raw,
		StageDedup:    &status.Dedup,
		StageScreened: &status.Screened,
	}
	for _, stage := range Stages {
		err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM records WHERE project = ? AND stage = ?`,
			project, stage,
		).Scan(counts[stage])
		if err != nil {
			return Status{}, fmt.Errorf("counting %s records: %w", stage, err)
		}
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM labels WHERE project = ?`, project,
	).Scan(&status.Labels)
	if err != nil {
		return Status{}, fmt.Errorf("counting labels: %w", err)
	}
	return status, nil
}
