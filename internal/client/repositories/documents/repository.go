// Package documents persists supporting documents in the local store.
// Documents sync independently of their owning application.
package documents

import (
	"context"

	"github.com/mgichure/EMIS/internal/client/models"
)

type Repository interface {
	// Save upserts the document, assigning a local id if absent and
	// refreshing UpdatedAt.
	Save(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	// ListByApplication returns all documents attached to an application,
	// oldest first.
	ListByApplication(ctx context.Context, applicationID string) ([]*models.Document, error)
	DeleteByID(ctx context.Context, id string) error
	MarkSynced(ctx context.Context, id string) error
}
