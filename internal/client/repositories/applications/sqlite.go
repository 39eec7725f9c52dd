package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const appColumns = `id, personal, contact, academic, intake_id, program_id, document_ids,
	status, decisions, timeline, sync_status, synced, remote_sync_id, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, a *models.Application) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = models.StatusDraft
	}
	if a.SyncStatus == "" {
		a.SyncStatus = models.SyncPending
	}

	personal, err := json.Marshal(a.Personal)
	if err != nil {
		return fmt.Errorf("failed to marshal personal info: %w", err)
	}
	contact, err := json.Marshal(a.Contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}
	academic, err := json.Marshal(a.Academic)
	if err != nil {
		return fmt.Errorf("failed to marshal academic info: %w", err)
	}
	docIDs, err := json.Marshal(a.DocumentIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal document ids: %w", err)
	}
	decisions, err := json.Marshal(a.Decisions)
	if err != nil {
		return fmt.Errorf("failed to marshal decisions: %w", err)
	}
	timeline, err := json.Marshal(a.Timeline)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	query := `INSERT INTO applications (` + appColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			personal = excluded.personal,
			contact = excluded.contact,
			academic = excluded.academic,
			intake_id = excluded.intake_id,
			program_id = excluded.program_id,
			document_ids = excluded.document_ids,
			status = excluded.status,
			decisions = excluded.decisions,
			timeline = excluded.timeline,
			sync_status = excluded.sync_status,
			synced = excluded.synced,
			remote_sync_id = excluded.remote_sync_id,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, personal, contact, academic, a.IntakeID, a.ProgramID, docIDs,
		a.Status, decisions, timeline, a.SyncStatus, a.Synced, a.RemoteSyncID,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert application: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]*models.Application, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.IntakeID != "" {
		conds = append(conds, "intake_id = ?")
		args = append(args, f.IntakeID)
	}
	if f.ProgramID != "" {
		conds = append(conds, "program_id = ?")
		args = append(args, f.ProgramID)
	}
	if f.Unsynced {
		conds = append(conds, "synced = 0")
	}

	query := `SELECT ` + appColumns + ` FROM applications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
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

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, remoteSyncID string) error {
	query := `UPDATE applications
		SET synced = 1, sync_status = ?, remote_sync_id = CASE WHEN ? != '' THEN ? ELSE remote_sync_id END, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, models.SyncSynced, remoteSyncID, remoteSyncID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark application synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncFailed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE applications SET sync_status = ? WHERE id = ?`, models.SyncFailed, id)
	if err != nil {
		return fmt.Errorf("failed to mark application sync failed: %w", err)
	}
	return nil
}

func scanApplication(scan func(dest ...any) error) (*models.Application, error) {
	var a models.Application
	var personal, contact, academic, docIDs, decs, tline []byte
	err := scan(&a.ID, &personal, &contact, &academic, &a.IntakeID, &a.ProgramID, &docIDs,
		&a.Status, &decs, &tline, &a.SyncStatus, &a.Synced, &a.RemoteSyncID,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(personal, &a.Personal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal personal info: %w", err)
	}
	if err := json.Unmarshal(contact, &a.Contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact info: %w", err)
	}
	if err := json.Unmarshal(academic, &a.Academic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal academic info: %w", err)
	}
	if err := json.Unmarshal(docIDs, &a.DocumentIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document ids: %w", err)
	}
	if err := json.Unmarshal(decs, &a.Decisions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decisions: %w", err)
	}
	if err := json.Unmarshal(tline, &a.Timeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}
	return &a, nil
}
