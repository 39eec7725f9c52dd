package documents

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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	if d.Size == 0 {
		d.Size = int64(len(d.Payload))
	}

	query := `INSERT INTO documents (id, application_id, name, doc_type, size, payload, synced, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			application_id = excluded.application_id,
			name = excluded.name,
			doc_type = excluded.doc_type,
			size = excluded.size,
			payload = excluded.payload,
			synced = excluded.synced,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ApplicationID, d.Name, d.Type, d.Size, d.Payload, d.Synced, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, application_id, name, doc_type, size, payload, synced, created_at, updated_at
		 FROM documents WHERE id = ?`, id)

	d := &models.Document{}
	err := row.Scan(&d.ID, &d.ApplicationID, &d.Name, &d.Type, &d.Size, &d.Payload, &d.Synced, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListByApplication(ctx context.Context, applicationID string) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, name, doc_type, size, payload, synced, created_at, updated_at
		 FROM documents WHERE application_id = ? ORDER BY created_at`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d := &models.Document{}
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.Name, &d.Type, &d.Size, &d.Payload, &d.Synced, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE documents SET synced = 1, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark document synced: %w", err)
	}
	return nil
}
