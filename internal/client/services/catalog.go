package services

import (
	"context"
	"fmt"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/repositories/catalog"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/dbx"
)

// CatalogService manages the reference data applications point at.
type CatalogService interface {
	SaveIntake(ctx context.Context, in *models.Intake) error
	GetIntake(ctx context.Context, id string) (*models.Intake, error)
	ListIntakes(ctx context.Context, openOnly bool) ([]*models.Intake, error)
	SaveProgram(ctx context.Context, p *models.Program) error
	GetProgram(ctx context.Context, id string) (*models.Program, error)
	ListPrograms(ctx context.Context) ([]*models.Program, error)
}

type catalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) CatalogService {
	return &catalogService{store: st}
}

func (s *catalogService) SaveIntake(ctx context.Context, in *models.Intake) error {
	if err := models.Validate(in); err != nil {
		return err
	}
	action := models.ActionCreate
	if in.ID != "" {
		action = models.ActionUpdate
	}
	in.Synced = false

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := catalog.NewSQLiteIntakeRepository(tx).Save(ctx, in); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityIntake, in.ID, action, in)
	})
	if err != nil {
		return fmt.Errorf("failed to save intake: %w", err)
	}

	s.store.Notifier.Notify(store.TopicCatalog)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func (s *catalogService) GetIntake(ctx context.Context, id string) (*models.Intake, error) {
	return s.store.Repos.Intakes.GetByID(ctx, id)
}

func (s *catalogService) ListIntakes(ctx context.Context, openOnly bool) ([]*models.Intake, error) {
	return s.store.Repos.Intakes.List(ctx, openOnly)
}

func (s *catalogService) SaveProgram(ctx context.Context, p *models.Program) error {
	if err := models.Validate(p); err != nil {
		return err
	}
	action := models.ActionCreate
	if p.ID != "" {
		action = models.ActionUpdate
	}
	p.Synced = false

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := catalog.NewSQLiteProgramRepository(tx).Save(ctx, p); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityProgram, p.ID, action, p)
	})
	if err != nil {
		return fmt.Errorf("failed to save program: %w", err)
	}

	s.store.Notifier.Notify(store.TopicCatalog)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func (s *catalogService) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	return s.store.Repos.Programs.GetByID(ctx, id)
}

func (s *catalogService) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	return s.store.Repos.Programs.List(ctx)
}
