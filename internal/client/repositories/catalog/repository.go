// Package catalog persists intakes and programs, the reference data
// applications point at.
package catalog

import (
	"context"

	"github.com/mgichure/EMIS/internal/client/models"
)

type IntakeRepository interface {
	Save(ctx context.Context, in *models.Intake) error
	GetByID(ctx context.Context, id string) (*models.Intake, error)
	List(ctx context.Context, openOnly bool) ([]*models.Intake, error)
	DeleteByID(ctx context.Context, id string) error
	MarkSynced(ctx context.Context, id string) error
}

type ProgramRepository interface {
	Save(ctx context.Context, p *models.Program) error
	GetByID(ctx context.Context, id string) (*models.Program, error)
	List(ctx context.Context) ([]*models.Program, error)
	DeleteByID(ctx context.Context, id string) error
	MarkSynced(ctx context.Context, id string) error
}
