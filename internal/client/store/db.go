// Package store opens the local SQLite database, applies the embedded
// migrations and bundles the repositories behind a single handle that the
// services receive by injection.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mgichure/EMIS/internal/client/migrations"
	"github.com/mgichure/EMIS/internal/client/repositories/applications"
	"github.com/mgichure/EMIS/internal/client/repositories/catalog"
	"github.com/mgichure/EMIS/internal/client/repositories/documents"
	"github.com/mgichure/EMIS/internal/client/repositories/interviews"
	"github.com/mgichure/EMIS/internal/client/repositories/metadata"
	"github.com/mgichure/EMIS/internal/client/repositories/outbox"
	"github.com/mgichure/EMIS/internal/client/repositories/students"
)

// Repositories groups every local repository over the shared database handle.
type Repositories struct {
	Applications applications.Repository
	Documents    documents.Repository
	Outbox       outbox.Repository
	Intakes      catalog.IntakeRepository
	Programs     catalog.ProgramRepository
	Students     students.Repository
	Schedules    interviews.ScheduleRepository
	Candidates   interviews.CandidateRepository
	Rubrics      interviews.RubricRepository
	Panel        interviews.PanelRepository
	Metadata     metadata.Repository
}

// Store owns the database connection for the lifetime of the app. Services
// that need transactions reach the raw handle through DB.
type Store struct {
	DB       *sql.DB
	Repos    *Repositories
	Notifier *Notifier
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the given database. Safe to call on every startup.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database at dsn, migrates it and wires
// the repositories. The caller owns the returned Store and must Close it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		DB: db,
		Repos: &Repositories{
			Applications: applications.NewSQLiteRepository(db),
			Documents:    documents.NewSQLiteRepository(db),
			Outbox:       outbox.NewSQLiteRepository(db),
			Intakes:      catalog.NewSQLiteIntakeRepository(db),
			Programs:     catalog.NewSQLiteProgramRepository(db),
			Students:     students.NewSQLiteRepository(db),
			Schedules:    interviews.NewSQLiteScheduleRepository(db),
			Candidates:   interviews.NewSQLiteCandidateRepository(db),
			Rubrics:      interviews.NewSQLiteRubricRepository(db),
			Panel:        interviews.NewSQLitePanelRepository(db),
			Metadata:     metadata.NewSQLiteRepository(db),
		},
		Notifier: NewNotifier(),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
