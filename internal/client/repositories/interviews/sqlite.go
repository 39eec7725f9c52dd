package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/dbx"
)

type SQLiteScheduleRepository struct {
	db dbx.DBTX
}

func NewSQLiteScheduleRepository(db dbx.DBTX) *SQLiteScheduleRepository {
	return &SQLiteScheduleRepository{db: db}
}

func (r *SQLiteScheduleRepository) Save(ctx context.Context, s *models.InterviewSchedule) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interview_schedules (id, intake_id, title, location, starts_at, ends_at, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			intake_id = excluded.intake_id, title = excluded.title,
			location = excluded.location, starts_at = excluded.starts_at,
			ends_at = excluded.ends_at, synced = excluded.synced,
			updated_at = excluded.updated_at`,
		s.ID, s.IntakeID, s.Title, s.Location, s.StartsAt, s.EndsAt, s.Synced, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert interview schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepository) GetByID(ctx context.Context, id string) (*models.InterviewSchedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, intake_id, title, location, starts_at, ends_at, synced, created_at, updated_at
		FROM interview_schedules WHERE id = ?`, id)
	s := &models.InterviewSchedule{}
	err := row.Scan(&s.ID, &s.IntakeID, &s.Title, &s.Location, &s.StartsAt, &s.EndsAt, &s.Synced, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview schedule: %w", err)
	}
	return s, nil
}

func (r *SQLiteScheduleRepository) ListByIntake(ctx context.Context, intakeID string) ([]*models.InterviewSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, intake_id, title, location, starts_at, ends_at, synced, created_at, updated_at
		FROM interview_schedules WHERE intake_id = ? ORDER BY starts_at`, intakeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview schedules: %w", err)
	}
	defer rows.Close()

	var result []*models.InterviewSchedule
	for rows.Next() {
		s := &models.InterviewSchedule{}
		if err := rows.Scan(&s.ID, &s.IntakeID, &s.Title, &s.Location, &s.StartsAt, &s.EndsAt, &s.Synced, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteScheduleRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interview_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview schedule: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

type SQLiteCandidateRepository struct {
	db dbx.DBTX
}

func NewSQLiteCandidateRepository(db dbx.DBTX) *SQLiteCandidateRepository {
	return &SQLiteCandidateRepository{db: db}
}

func (r *SQLiteCandidateRepository) Save(ctx context.Context, c *models.InterviewCandidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	scores, err := json.Marshal(c.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO interview_candidates (id, schedule_id, application_id, rubric_id, scores, total_score, weighted_score, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schedule_id = excluded.schedule_id, application_id = excluded.application_id,
			rubric_id = excluded.rubric_id, scores = excluded.scores,
			total_score = excluded.total_score, weighted_score = excluded.weighted_score,
			synced = excluded.synced, updated_at = excluded.updated_at`,
		c.ID, c.ScheduleID, c.ApplicationID, c.RubricID, scores, c.TotalScore, c.WeightedScore, c.Synced, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert interview candidate: %w", err)
	}
	return nil
}

func (r *SQLiteCandidateRepository) GetByID(ctx context.Context, id string) (*models.InterviewCandidate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, schedule_id, application_id, rubric_id, scores, total_score, weighted_score, synced, created_at, updated_at
		FROM interview_candidates WHERE id = ?`, id)
	c, err := scanCandidate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview candidate: %w", err)
	}
	return c, nil
}

func (r *SQLiteCandidateRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]*models.InterviewCandidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, application_id, rubric_id, scores, total_score, weighted_score, synced, created_at, updated_at
		FROM interview_candidates WHERE schedule_id = ? ORDER BY created_at`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview candidates: %w", err)
	}
	defer rows.Close()

	var result []*models.InterviewCandidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteCandidateRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interview_candidates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview candidate: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanCandidate(scan func(dest ...any) error) (*models.InterviewCandidate, error) {
	c := &models.InterviewCandidate{}
	var scores []byte
	err := scan(&c.ID, &c.ScheduleID, &c.ApplicationID, &c.RubricID, &scores,
		&c.TotalScore, &c.WeightedScore, &c.Synced, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scores, &c.Scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return c, nil
}

type SQLiteRubricRepository struct {
	db dbx.DBTX
}

func NewSQLiteRubricRepository(db dbx.DBTX) *SQLiteRubricRepository {
	return &SQLiteRubricRepository{db: db}
}

func (r *SQLiteRubricRepository) Save(ctx context.Context, ru *models.InterviewRubric) error {
	if ru.ID == "" {
		ru.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ru.CreatedAt.IsZero() {
		ru.CreatedAt = now
	}
	ru.UpdatedAt = now

	criteria, err := json.Marshal(ru.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO interview_rubrics (id, name, criteria, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, criteria = excluded.criteria,
			synced = excluded.synced, updated_at = excluded.updated_at`,
		ru.ID, ru.Name, criteria, ru.Synced, ru.CreatedAt, ru.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert interview rubric: %w", err)
	}
	return nil
}

func (r *SQLiteRubricRepository) GetByID(ctx context.Context, id string) (*models.InterviewRubric, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, criteria, synced, created_at, updated_at
		FROM interview_rubrics WHERE id = ?`, id)
	ru := &models.InterviewRubric{}
	var criteria []byte
	err := row.Scan(&ru.ID, &ru.Name, &criteria, &ru.Synced, &ru.CreatedAt, &ru.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview rubric: %w", err)
	}
	if err := json.Unmarshal(criteria, &ru.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	return ru, nil
}

func (r *SQLiteRubricRepository) List(ctx context.Context) ([]*models.InterviewRubric, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, criteria, synced, created_at, updated_at
		FROM interview_rubrics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview rubrics: %w", err)
	}
	defer rows.Close()

	var result []*models.InterviewRubric
	for rows.Next() {
		ru := &models.InterviewRubric{}
		var criteria []byte
		if err := rows.Scan(&ru.ID, &ru.Name, &criteria, &ru.Synced, &ru.CreatedAt, &ru.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(criteria, &ru.Criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
		}
		result = append(result, ru)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRubricRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interview_rubrics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview rubric: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

type SQLitePanelRepository struct {
	db dbx.DBTX
}

func NewSQLitePanelRepository(db dbx.DBTX) *SQLitePanelRepository {
	return &SQLitePanelRepository{db: db}
}

func (r *SQLitePanelRepository) Save(ctx context.Context, m *models.PanelMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interview_panel_members (id, schedule_id, name, role, email, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schedule_id = excluded.schedule_id, name = excluded.name,
			role = excluded.role, email = excluded.email,
			synced = excluded.synced, updated_at = excluded.updated_at`,
		m.ID, m.ScheduleID, m.Name, m.Role, m.Email, m.Synced, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert panel member: %w", err)
	}
	return nil
}

func (r *SQLitePanelRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]*models.PanelMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, name, role, email, synced, created_at, updated_at
		FROM interview_panel_members WHERE schedule_id = ? ORDER BY name`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list panel members: %w", err)
	}
	defer rows.Close()

	var result []*models.PanelMember
	for rows.Next() {
		m := &models.PanelMember{}
		if err := rows.Scan(&m.ID, &m.ScheduleID, &m.Name, &m.Role, &m.Email, &m.Synced, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLitePanelRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interview_panel_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete panel member: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
