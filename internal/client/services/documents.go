package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/repositories/applications"
	"github.com/mgichure/EMIS/internal/client/repositories/documents"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/dbx"
)

// DocumentService manages supporting documents. A document belongs to
// exactly one application and syncs independently of it.
type DocumentService interface {
	// Attach stores the document and links it to its application.
	Attach(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*models.Document, error)
	// Remove deletes the document and unlinks it from its application.
	Remove(ctx context.Context, id string) error
}

type documentService struct {
	store *store.Store
}

func NewDocumentService(st *store.Store) DocumentService {
	return &documentService{store: st}
}

func (s *documentService) Attach(ctx context.Context, doc *models.Document) error {
	if !models.ValidDocumentType(doc.Type) {
		return fmt.Errorf("%w: unknown document type %q", common.ErrValidation, doc.Type)
	}
	if err := models.Validate(doc); err != nil {
		return err
	}

	app, err := s.store.Repos.Applications.GetByID(ctx, doc.ApplicationID)
	if err != nil {
		return fmt.Errorf("failed to load owning application: %w", err)
	}

	err = dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := documents.NewSQLiteRepository(tx).Save(ctx, doc); err != nil {
			return err
		}
		app.DocumentIDs = append(app.DocumentIDs, doc.ID)
		if err := applications.NewSQLiteRepository(tx).Save(ctx, app); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityDocument, doc.ID, models.ActionCreate, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}

	s.store.Notifier.Notify(store.TopicDocuments)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.store.Repos.Documents.GetByID(ctx, id)
}

func (s *documentService) ListByApplication(ctx context.Context, applicationID string) ([]*models.Document, error) {
	return s.store.Repos.Documents.ListByApplication(ctx, applicationID)
}

func (s *documentService) Remove(ctx context.Context, id string) error {
	doc, err := s.store.Repos.Documents.GetByID(ctx, id)
	if err != nil {
		return err
	}

	app, err := s.store.Repos.Applications.GetByID(ctx, doc.ApplicationID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to load owning application: %w", err)
		}
		app = nil
	}

	err = dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := documents.NewSQLiteRepository(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		if app != nil {
			app.DocumentIDs = removeString(app.DocumentIDs, id)
			if err := applications.NewSQLiteRepository(tx).Save(ctx, app); err != nil {
				return err
			}
		}
		return enqueue(ctx, tx, models.EntityDocument, id, models.ActionDelete, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	s.store.Notifier.Notify(store.TopicDocuments)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
