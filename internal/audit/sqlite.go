package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/idgen"
)

// sqliteTime is fixed width so that TEXT ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite is a history stored in a single SQLite file.
type SQLite struct {
	db  *sql.DB
	ids idgen.Generator
	now func() time.Time
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLite{db: db, ids: idgen.NewV7(), now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS catalog_changes (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL DEFAULT '',
			workflow TEXT NOT NULL,
			action TEXT NOT NULL,
			category TEXT NOT NULL,
			brand TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			previous_version TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL DEFAULT '',
			deploy_id TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS catalog_changes_created_at_idx ON catalog_changes(created_at DESC, id DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Record(ctx context.Context, e Entry) (Entry, error) {
	const op = "audit.SQLite.Record"

	if e.ID == uuid.Nil {
		id, err := s.ids.Generate()
		if err != nil {
			return Entry{}, errx.E(op, errx.Internal, err)
		}
		e.ID = id
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_changes (
			id, request_id, workflow, action, category, brand, url,
			previous_version, version, deploy_id, outcome, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.RequestID, e.Workflow, e.Action, e.Category, e.Brand, e.URL,
		e.PreviousVersion, e.Version, e.DeployID, string(e.Outcome), e.Error,
		e.CreatedAt.Format(sqliteTime),
	)
	if err != nil {
		return Entry{}, errx.E(op, errx.Unavailable, err)
	}
	return e, nil
}

func (s *SQLite) List(ctx context.Context, limit int) ([]Entry, error) {
	const op = "audit.SQLite.List"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, workflow, action, category, brand, url,
			previous_version, version, deploy_id, outcome, error_message, created_at
		FROM catalog_changes
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			id        string
			outcome   string
			createdAt string
		)
		if err := rows.Scan(&id, &e.RequestID, &e.Workflow, &e.Action, &e.Category, &e.Brand, &e.URL,
			&e.PreviousVersion, &e.Version, &e.DeployID, &outcome, &e.Error, &createdAt); err != nil {
			return nil, errx.E(op, errx.Unavailable, err)
		}

		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, errx.E(op, errx.Internal, fmt.Errorf("parse id %q: %w", id, err))
		}
		if e.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
			return nil, errx.E(op, errx.Internal, fmt.Errorf("parse created_at %q: %w", createdAt, err))
		}
		e.Outcome = Outcome(outcome)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
