package outbox

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, rec *models.OutboxRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	// Coalesce with an existing pending record for the same mutation
	// intent. created_at is deliberately left untouched so the record
	// keeps its place in the FIFO order.
	res, err := r.db.ExecContext(ctx, `
		UPDATE outbox SET payload = ?
		WHERE entity_type = ? AND entity_id = ? AND action = ? AND retry_count < ?`,
		[]byte(rec.Payload), rec.EntityType, rec.EntityID, rec.Action, models.MaxRetries)
	if err != nil {
		return fmt.Errorf("failed to coalesce outbox record: %w", err)
	}
	if ra, err := res.RowsAffected(); err == nil && ra > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO outbox (id, entity_type, entity_id, action, payload, retry_count, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, 0, '', ?)`,
		rec.ID, rec.EntityType, rec.EntityID, rec.Action, []byte(rec.Payload), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox record: %w", err)
	}
	return nil
}

const outboxColumns = `id, entity_type, entity_id, action, payload, retry_count, last_error, last_attempt, created_at`

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.OutboxRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+outboxColumns+` FROM outbox WHERE id = ?`, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.OutboxRecord, error) {
	return r.list(ctx, `SELECT `+outboxColumns+` FROM outbox WHERE retry_count < ? ORDER BY created_at, rowid`, models.MaxRetries)
}

func (r *SQLiteRepository) ListFailed(ctx context.Context) ([]*models.OutboxRecord, error) {
	return r.list(ctx, `SELECT `+outboxColumns+` FROM outbox WHERE retry_count >= ? ORDER BY created_at, rowid`, models.MaxRetries)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.OutboxRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox records: %w", err)
	}
	defer rows.Close()

	var result []*models.OutboxRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkRetried(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET retry_count = 0, last_error = '', last_attempt = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox record retried: %w", err)
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

func (r *SQLiteRepository) RecordFailure(ctx context.Context, id string, cause string, terminal bool, at time.Time) error {
	query := `UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, last_attempt = ? WHERE id = ?`
	if terminal {
		query = `UPDATE outbox SET retry_count = ?, last_error = ?, last_attempt = ? WHERE id = ?`
		_, err := r.db.ExecContext(ctx, query, models.MaxRetries, cause, at, id)
		if err != nil {
			return fmt.Errorf("failed to record terminal outbox failure: %w", err)
		}
		return nil
	}
	_, err := r.db.ExecContext(ctx, query, cause, at, id)
	if err != nil {
		return fmt.Errorf("failed to record outbox failure: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove outbox record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearFailed(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE retry_count >= ?`, models.MaxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to clear failed outbox records: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) PendingCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM outbox WHERE retry_count < ?`)
}

func (r *SQLiteRepository) FailedCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM outbox WHERE retry_count >= ?`)
}

func (r *SQLiteRepository) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, models.MaxRetries).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count outbox records: %w", err)
	}
	return n, nil
}

func scanRecord(scan func(dest ...any) error) (*models.OutboxRecord, error) {
	rec := &models.OutboxRecord{}
	var payload []byte
	var lastAttempt sql.NullTime
	err := scan(&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Action, &payload,
		&rec.RetryCount, &rec.LastError, &lastAttempt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Payload = payload
	if lastAttempt.Valid {
		rec.LastAttempt = lastAttempt.Time
	}
	return rec, nil
}
