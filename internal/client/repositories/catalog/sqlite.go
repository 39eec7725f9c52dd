package catalog

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

type SQLiteIntakeRepository struct {
	db dbx.DBTX
}

func NewSQLiteIntakeRepository(db dbx.DBTX) *SQLiteIntakeRepository {
	return &SQLiteIntakeRepository{db: db}
}

func (r *SQLiteIntakeRepository) Save(ctx context.Context, in *models.Intake) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO intakes (id, name, term, start_date, end_date, capacity, open, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, term = excluded.term,
			start_date = excluded.start_date, end_date = excluded.end_date,
			capacity = excluded.capacity, open = excluded.open,
			synced = excluded.synced, updated_at = excluded.updated_at`,
		in.ID, in.Name, in.Term, in.StartDate, in.EndDate, in.Capacity, in.Open, in.Synced, in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert intake: %w", err)
	}
	return nil
}

func (r *SQLiteIntakeRepository) GetByID(ctx context.Context, id string) (*models.Intake, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, term, start_date, end_date, capacity, open, synced, created_at, updated_at
		FROM intakes WHERE id = ?`, id)
	in := &models.Intake{}
	err := row.Scan(&in.ID, &in.Name, &in.Term, &in.StartDate, &in.EndDate, &in.Capacity, &in.Open, &in.Synced, &in.CreatedAt, &in.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intake: %w", err)
	}
	return in, nil
}

func (r *SQLiteIntakeRepository) List(ctx context.Context, openOnly bool) ([]*models.Intake, error) {
	query := `SELECT id, name, term, start_date, end_date, capacity, open, synced, created_at, updated_at FROM intakes`
	if openOnly {
		query += ` WHERE open = 1`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list intakes: %w", err)
	}
	defer rows.Close()

	var result []*models.Intake
	for rows.Next() {
		in := &models.Intake{}
		if err := rows.Scan(&in.ID, &in.Name, &in.Term, &in.StartDate, &in.EndDate, &in.Capacity, &in.Open, &in.Synced, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteIntakeRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM intakes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete intake: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteIntakeRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE intakes SET synced = 1, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark intake synced: %w", err)
	}
	return nil
}

type SQLiteProgramRepository struct {
	db dbx.DBTX
}

func NewSQLiteProgramRepository(db dbx.DBTX) *SQLiteProgramRepository {
	return &SQLiteProgramRepository{db: db}
}

func (r *SQLiteProgramRepository) Save(ctx context.Context, p *models.Program) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO programs (id, name, code, department, duration, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, code = excluded.code,
			department = excluded.department, duration = excluded.duration,
			synced = excluded.synced, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Code, p.Department, p.Duration, p.Synced, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert program: %w", err)
	}
	return nil
}

func (r *SQLiteProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, code, department, duration, synced, created_at, updated_at
		FROM programs WHERE id = ?`, id)
	p := &models.Program{}
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Department, &p.Duration, &p.Synced, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return p, nil
}

func (r *SQLiteProgramRepository) List(ctx context.Context) ([]*models.Program, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, code, department, duration, synced, created_at, updated_at
		FROM programs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var result []*models.Program
	for rows.Next() {
		p := &models.Program{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Department, &p.Duration, &p.Synced, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteProgramRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteProgramRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE programs SET synced = 1, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark program synced: %w", err)
	}
	return nil
}
