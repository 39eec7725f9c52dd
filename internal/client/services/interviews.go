package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/common"
)

// InterviewService manages interview schedules, panels, rubrics and
// candidate scoring. Interview data stays on the admissions workstation and
// is not replayed through the sync queue.
type InterviewService interface {
	CreateSchedule(ctx context.Context, sched *models.InterviewSchedule) error
	ListSchedules(ctx context.Context, intakeID string) ([]*models.InterviewSchedule, error)
	SaveRubric(ctx context.Context, r *models.InterviewRubric) error
	ListRubrics(ctx context.Context) ([]*models.InterviewRubric, error)
	AddCandidate(ctx context.Context, c *models.InterviewCandidate) error
	// Score records one criterion mark for a candidate and refreshes the
	// derived totals against the candidate's rubric.
	Score(ctx context.Context, candidateID string, score models.Score) error
	// RankedCandidates returns a schedule's candidates ordered by weighted
	// score, best first.
	RankedCandidates(ctx context.Context, scheduleID string) ([]*models.InterviewCandidate, error)
	AddPanelMember(ctx context.Context, m *models.PanelMember) error
	ListPanel(ctx context.Context, scheduleID string) ([]*models.PanelMember, error)
}

type interviewService struct {
	store *store.Store
}

func NewInterviewService(st *store.Store) InterviewService {
	return &interviewService{store: st}
}

func (s *interviewService) CreateSchedule(ctx context.Context, sched *models.InterviewSchedule) error {
	if err := models.Validate(sched); err != nil {
		return err
	}
	if !sched.EndsAt.IsZero() && sched.EndsAt.Before(sched.StartsAt) {
		return fmt.Errorf("%w: schedule ends before it starts", common.ErrValidation)
	}
	if err := s.store.Repos.Schedules.Save(ctx, sched); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	s.store.Notifier.Notify(store.TopicInterviews)
	return nil
}

func (s *interviewService) ListSchedules(ctx context.Context, intakeID string) ([]*models.InterviewSchedule, error) {
	return s.store.Repos.Schedules.ListByIntake(ctx, intakeID)
}

func (s *interviewService) SaveRubric(ctx context.Context, r *models.InterviewRubric) error {
	if err := models.Validate(r); err != nil {
		return err
	}
	if err := s.store.Repos.Rubrics.Save(ctx, r); err != nil {
		return fmt.Errorf("failed to save rubric: %w", err)
	}
	s.store.Notifier.Notify(store.TopicInterviews)
	return nil
}

func (s *interviewService) ListRubrics(ctx context.Context) ([]*models.InterviewRubric, error) {
	return s.store.Repos.Rubrics.List(ctx)
}

func (s *interviewService) AddCandidate(ctx context.Context, c *models.InterviewCandidate) error {
	if err := models.Validate(c); err != nil {
		return err
	}
	// The application must exist locally before it can be interviewed.
	if _, err := s.store.Repos.Applications.GetByID(ctx, c.ApplicationID); err != nil {
		return fmt.Errorf("failed to load candidate application: %w", err)
	}
	if err := s.store.Repos.Candidates.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	s.store.Notifier.Notify(store.TopicInterviews)
	return nil
}

func (s *interviewService) Score(ctx context.Context, candidateID string, score models.Score) error {
	c, err := s.store.Repos.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}

	var rubric *models.InterviewRubric
	if c.RubricID != "" {
		rubric, err = s.store.Repos.Rubrics.GetByID(ctx, c.RubricID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to load rubric: %w", err)
		}
	}
	if rubric != nil && !criterionInRubric(rubric, score.Criterion) {
		return fmt.Errorf("%w: criterion %q not in rubric %q", common.ErrValidation, score.Criterion, rubric.Name)
	}

	// One mark per (criterion, panelist); a rescore replaces the old value.
	replaced := false
	for i, existing := range c.Scores {
		if existing.Criterion == score.Criterion && existing.ScoredBy == score.ScoredBy {
			c.Scores[i] = score
			replaced = true
			break
		}
	}
	if !replaced {
		c.Scores = append(c.Scores, score)
	}
	c.Recompute(rubric)

	if err := s.store.Repos.Candidates.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save candidate scores: %w", err)
	}
	s.store.Notifier.Notify(store.TopicInterviews)
	return nil
}

func (s *interviewService) RankedCandidates(ctx context.Context, scheduleID string) ([]*models.InterviewCandidate, error) {
	list, err := s.store.Repos.Candidates.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].WeightedScore > list[j].WeightedScore
	})
	return list, nil
}

func (s *interviewService) AddPanelMember(ctx context.Context, m *models.PanelMember) error {
	if err := models.Validate(m); err != nil {
		return err
	}
	if err := s.store.Repos.Panel.Save(ctx, m); err != nil {
		return fmt.Errorf("failed to save panel member: %w", err)
	}
	s.store.Notifier.Notify(store.TopicInterviews)
	return nil
}

func (s *interviewService) ListPanel(ctx context.Context, scheduleID string) ([]*models.PanelMember, error) {
	return s.store.Repos.Panel.ListBySchedule(ctx, scheduleID)
}

func criterionInRubric(r *models.InterviewRubric, name string) bool {
	for _, cr := range r.Criteria {
		if cr.Name == name {
			return true
		}
	}
	return false
}
