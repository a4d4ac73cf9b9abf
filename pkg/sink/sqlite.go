package sink

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrDuplicateSubmission is returned when a submission id was already stored.
var ErrDuplicateSubmission = errors.New("sink: duplicate submission")

// SQLite stores each submission as a JSON row.
type SQLite struct {
	db *sql.DB
}

var _ wizard.Sink = (*SQLite)(nil)

// OpenSQLite applies pending migrations to the database at path and returns
// a sink backed by it.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sink: sqlite path is required")
	}
	if err := migrateSQLite(path); err != nil {
		return nil, fmt.Errorf("sink: migrate: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return &SQLite{db: db}, nil
}

// migrateSQLite runs on its own connection; closing the migrator closes it.
func migrateSQLite(path string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Submit implements wizard.Sink.
func (s *SQLite) Submit(ctx context.Context, sub wizard.Submission) error {
	payload, err := json.Marshal(sub.Values)
	if err != nil {
		return fmt.Errorf("sink: encode values: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, submitted_at, payload) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		sub.ID, sub.SubmittedAt.UTC().Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("sink: insert submission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSubmission, sub.ID)
	}
	return nil
}

// List returns every stored submission ordered by submission time.
func (s *SQLite) List(ctx context.Context) ([]wizard.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, submitted_at, payload FROM submissions ORDER BY submitted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sink: query submissions: %w", err)
	}
	defer rows.Close()

	var out []wizard.Submission
	for rows.Next() {
		var (
			id, at, payload string
		)
		if err := rows.Scan(&id, &at, &payload); err != nil {
			return nil, fmt.Errorf("sink: scan submission: %w", err)
		}
		submittedAt, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("sink: parse submitted_at for %s: %w", id, err)
		}
		var values formdata.Values
		if err := json.Unmarshal([]byte(payload), &values); err != nil {
			return nil, fmt.Errorf("sink: decode payload for %s: %w", id, err)
		}
		out = append(out, wizard.Submission{ID: id, Values: values, SubmittedAt: submittedAt})
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
