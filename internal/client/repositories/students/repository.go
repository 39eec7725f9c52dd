// Package students persists enrolled-student profiles.
package students

import (
	"context"

	"github.com/mgichure/EMIS/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, s *models.StudentProfile) error
	GetByID(ctx context.Context, id string) (*models.StudentProfile, error)
	List(ctx context.Context) ([]*models.StudentProfile, error)
	DeleteByID(ctx context.Context, id string) error
	MarkSynced(ctx context.Context, id string) error
}
