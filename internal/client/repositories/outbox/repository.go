// Package outbox persists the sync queue: one replayable record per
// locally-originated mutation, decoupled from the originating entity's
// lifecycle.
package outbox

import (
	"context"
	"time"

	"github.com/mgichure/EMIS/internal/client/models"
)

type Repository interface {
	// Enqueue appends a record. A pending record with the same
	// (entity id, action) is coalesced: its snapshot is replaced in place
	// and its created_at kept, preserving FIFO position. Failed records
	// are never coalesced into.
	Enqueue(ctx context.Context, rec *models.OutboxRecord) error
	GetByID(ctx context.Context, id string) (*models.OutboxRecord, error)
	// ListPending returns records with retry_count < MaxRetries in
	// created_at order. FIFO replay preserves create-before-update
	// causality.
	ListPending(ctx context.Context) ([]*models.OutboxRecord, error)
	// ListFailed returns records that exhausted their retry budget.
	ListFailed(ctx context.Context) ([]*models.OutboxRecord, error)
	// MarkRetried resets retry_count to zero, re-admitting a failed
	// record into the pending set.
	MarkRetried(ctx context.Context, id string) error
	// RecordFailure increments the retry counter and stamps the attempt.
	// When terminal is true the record jumps straight to the failed state.
	RecordFailure(ctx context.Context, id string, cause string, terminal bool, at time.Time) error
	// Remove deletes a record after the remote service acknowledged it.
	Remove(ctx context.Context, id string) error
	// ClearFailed bulk-deletes all failed records and reports how many
	// were removed. Destructive; confirmation is the caller's job.
	ClearFailed(ctx context.Context) (int64, error)
	PendingCount(ctx context.Context) (int, error)
	FailedCount(ctx context.Context) (int, error)
}
