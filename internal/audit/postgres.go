package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	db "github.com/sundayezeilo/brandcatalog/internal/db/sqlc"
	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/idgen"
)

// querier is the subset of *db.Queries used by the Postgres store.
type querier interface {
	InsertCatalogChange(ctx context.Context, arg db.InsertCatalogChangeParams) (db.CatalogChange, error)
	ListCatalogChanges(ctx context.Context, limit int32) ([]db.CatalogChange, error)
}

// PostgresConfig holds optional settings of the Postgres store.
type PostgresConfig struct {
	IDGenerator idgen.Generator
	// Close releases the underlying pool, if the store owns it.
	Close func()
}

type postgresStore struct {
	q     querier
	ids   idgen.Generator
	close func()
}

// NewPostgres returns a Store backed by the catalog_changes table.
func NewPostgres(q querier, config *PostgresConfig) Store {
	if config == nil {
		config = &PostgresConfig{}
	}
	if config.IDGenerator == nil {
		config.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}
	return &postgresStore{
		q:     q,
		ids:   config.IDGenerator,
		close: config.Close,
	}
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23514"
}

func mapRepoError(op string, err error) error {
	if isCheckViolation(err) {
		return errx.E(op, errx.Invalid, err)
	}
	return errx.E(op, errx.Unavailable, err)
}

func toEntry(x db.CatalogChange) (Entry, error) {
	if !x.CreatedAt.Valid {
		return Entry{}, fmt.Errorf("created_at unexpectedly NULL")
	}
	return Entry{
		ID:              x.ID,
		RequestID:       x.RequestID,
		Workflow:        x.Workflow,
		Action:          x.Action,
		Category:        x.Category,
		Brand:           x.Brand,
		URL:             x.Url,
		PreviousVersion: x.PreviousVersion,
		Version:         x.Version,
		DeployID:        x.DeployID,
		Outcome:         Outcome(x.Outcome),
		Error:           x.ErrorMessage,
		CreatedAt:       x.CreatedAt.Time.UTC(),
	}, nil
}

func (s *postgresStore) Record(ctx context.Context, e Entry) (Entry, error) {
	const op = "audit.postgresStore.Record"

	if e.ID == uuid.Nil {
		id, err := s.ids.Generate()
		if err != nil {
			return Entry{}, errx.E(op, errx.Internal, err)
		}
		e.ID = id
	}

	row, err := s.q.InsertCatalogChange(ctx, db.InsertCatalogChangeParams{
		ID:              e.ID,
		RequestID:       e.RequestID,
		Workflow:        e.Workflow,
		Action:          e.Action,
		Category:        e.Category,
		Brand:           e.Brand,
		Url:             e.URL,
		PreviousVersion: e.PreviousVersion,
		Version:         e.Version,
		DeployID:        e.DeployID,
		Outcome:         string(e.Outcome),
		ErrorMessage:    e.Error,
	})
	if err != nil {
		return Entry{}, mapRepoError(op, err)
	}

	out, err := toEntry(row)
	if err != nil {
		return Entry{}, errx.E(op, errx.Internal, err)
	}
	return out, nil
}

func (s *postgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	const op = "audit.postgresStore.List"

	rows, err := s.q.ListCatalogChanges(ctx, int32(limit))
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e, err := toEntry(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *postgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
