// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/exptrack/internal/model"
	"github.com/groblegark/exptrack/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateExperiment(ctx context.Context, exp *model.Experiment) error {
	return queryCreateExperiment(ctx, s.db, exp)
}

func (s *PostgresStore) GetExperiment(ctx context.Context, id string) (*model.Experiment, error) {
	return queryGetExperiment(ctx, s.db, id)
}

func (s *PostgresStore) ListExperiments(ctx context.Context, filter model.ExperimentFilter) ([]*model.Experiment, error) {
	return queryListExperiments(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateExperiment(ctx context.Context, exp *model.Experiment) error {
	return queryUpdateExperiment(ctx, s.db, exp)
}

func (s *PostgresStore) DeleteExperiment(ctx context.Context, id string) error {
	return queryDeleteExperiment(ctx, s.db, id)
}

func (s *PostgresStore) LinkFeature(ctx context.Context, id, featureID string, syncedAt time.Time) error {
	return queryLinkFeature(ctx, s.db, id, featureID, syncedAt)
}

func (s *PostgresStore) UnlinkFeature(ctx context.Context, id string) error {
	return queryUnlinkFeature(ctx, s.db, id)
}

func (s *PostgresStore) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	return queryMarkSynced(ctx, s.db, id, syncedAt)
}

func (s *PostgresStore) ListLinkedExperiments(ctx context.Context) ([]*model.Experiment, error) {
	return queryListLinkedExperiments(ctx, s.db)
}

func (s *PostgresStore) CreateVersion(ctx context.Context, version *model.Version) error {
	return queryCreateVersion(ctx, s.db, version)
}

func (s *PostgresStore) ListVersions(ctx context.Context, experimentID string) ([]*model.Version, error) {
	return queryListVersions(ctx, s.db, experimentID)
}

func (s *PostgresStore) CountExperiments(ctx context.Context) (int, error) {
	return queryCountExperiments(ctx, s.db)
}
