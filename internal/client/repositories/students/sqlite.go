package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, application_id, first_name, last_name, email, program_id, intake_id, synced, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, s *models.StudentProfile) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_profiles (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			application_id = excluded.application_id,
			first_name = excluded.first_name, last_name = excluded.last_name,
			email = excluded.email, program_id = excluded.program_id,
			intake_id = excluded.intake_id, synced = excluded.synced,
			updated_at = excluded.updated_at`,
		s.ID, s.ApplicationID, s.FirstName, s.LastName, s.Email, s.ProgramID, s.IntakeID, s.Synced, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert student profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM student_profiles WHERE id = ?`, id)
	s := &models.StudentProfile{}
	err := row.Scan(&s.ID, &s.ApplicationID, &s.FirstName, &s.LastName, &s.Email, &s.ProgramID, &s.IntakeID, &s.Synced, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.StudentProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM student_profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	defer rows.Close()

	var result []*models.StudentProfile
	for rows.Next() {
		s := &models.StudentProfile{}
		if err := rows.Scan(&s.ID, &s.ApplicationID, &s.FirstName, &s.LastName, &s.Email, &s.ProgramID, &s.IntakeID, &s.Synced, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student profile: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE student_profiles SET synced = 1, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark student profile synced: %w", err)
	}
	return nil
}
