// Package applications persists student applications in the local store.
package applications

import (
	"context"

	"github.com/mgichure/EMIS/internal/client/models"
)

// Filter narrows List results. Zero-value fields are ignored.
type Filter struct {
	Status    models.ApplicationStatus
	IntakeID  string
	ProgramID string
	// Unsynced, when true, restricts results to records not yet
	// acknowledged by the remote service.
	Unsynced bool
}

// Repository is the local-store contract for applications.
type Repository interface {
	// Save upserts the application, assigning a local id if absent and
	// refreshing UpdatedAt.
	Save(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, f Filter) ([]*models.Application, error)
	// DeleteByID removes the local record immediately; enqueuing the
	// remote delete is the caller's responsibility.
	DeleteByID(ctx context.Context, id string) error
	// MarkSynced flips the synced flag and sync status after a remote
	// acknowledgement, capturing any server-issued sync identifier.
	MarkSynced(ctx context.Context, id string, remoteSyncID string) error
	// MarkSyncFailed tags the application as failed for the UI without
	// touching the boolean synced flag.
	MarkSyncFailed(ctx context.Context, id string) error
}
