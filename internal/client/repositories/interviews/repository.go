// Package interviews persists interview schedules, candidates, rubrics and
// panel members. These collections follow the same sync-flagging convention
// as the admissions entities.
package interviews

import (
	"context"

	"github.com/mgichure/EMIS/internal/client/models"
)

type ScheduleRepository interface {
	Save(ctx context.Context, s *models.InterviewSchedule) error
	GetByID(ctx context.Context, id string) (*models.InterviewSchedule, error)
	ListByIntake(ctx context.Context, intakeID string) ([]*models.InterviewSchedule, error)
	DeleteByID(ctx context.Context, id string) error
}

type CandidateRepository interface {
	Save(ctx context.Context, c *models.InterviewCandidate) error
	GetByID(ctx context.Context, id string) (*models.InterviewCandidate, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*models.InterviewCandidate, error)
	DeleteByID(ctx context.Context, id string) error
}

type RubricRepository interface {
	Save(ctx context.Context, r *models.InterviewRubric) error
	GetByID(ctx context.Context, id string) (*models.InterviewRubric, error)
	List(ctx context.Context) ([]*models.InterviewRubric, error)
	DeleteByID(ctx context.Context, id string) error
}

type PanelRepository interface {
	Save(ctx context.Context, m *models.PanelMember) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]*models.PanelMember, error)
	DeleteByID(ctx context.Context, id string) error
}
