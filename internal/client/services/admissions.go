// Package services contains the application services for the admissions
// client. Each mutating operation writes the entity and its outbox record in
// one transaction, so a crash never leaves a local change without a queued
// replay.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/repositories/applications"
	"github.com/mgichure/EMIS/internal/client/repositories/outbox"
	"github.com/mgichure/EMIS/internal/client/repositories/students"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/dbx"
)

// AdmissionsService drives the application workflow:
// draft → submitted → under_review → decision → enrolled.
type AdmissionsService interface {
	Create(ctx context.Context, app *models.Application) error
	Update(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, f applications.Filter) ([]*models.Application, error)
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, id, actor string) error
	StartReview(ctx context.Context, id, actor string) error
	// Decide moves an application under review to accepted, rejected or
	// waitlisted and records the decision on the application itself.
	Decide(ctx context.Context, id string, status models.ApplicationStatus, decidedBy, note string) error
	// Enroll converts an accepted application into a student profile. Both
	// the status change and the new profile land in one transaction.
	Enroll(ctx context.Context, id, actor string) (*models.StudentProfile, error)
}

type admissionsService struct {
	store *store.Store
}

func NewAdmissionsService(st *store.Store) AdmissionsService {
	return &admissionsService{store: st}
}

// enqueue snapshots the entity into an outbox record inside the caller's
// transaction.
func enqueue(ctx context.Context, tx dbx.DBTX, entityType models.EntityType, entityID string, action models.Action, entity any) error {
	rec, err := models.NewOutboxRecord(uuid.NewString(), entityType, entityID, action, entity, time.Now().UTC())
	if err != nil {
		return err
	}
	return outbox.NewSQLiteRepository(tx).Enqueue(ctx, rec)
}

func (s *admissionsService) saveWithOutbox(ctx context.Context, app *models.Application, action models.Action) error {
	app.Synced = false
	app.SyncStatus = models.SyncPending

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := applications.NewSQLiteRepository(tx).Save(ctx, app); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityApplication, app.ID, action, app)
	})
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}

	s.store.Notifier.Notify(store.TopicApplications)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func (s *admissionsService) Create(ctx context.Context, app *models.Application) error {
	if app.Status == "" {
		app.Status = models.StatusDraft
	}
	if err := models.Validate(app); err != nil {
		return err
	}
	return s.saveWithOutbox(ctx, app, models.ActionCreate)
}

func (s *admissionsService) Update(ctx context.Context, app *models.Application) error {
	if err := models.Validate(app); err != nil {
		return err
	}
	return s.saveWithOutbox(ctx, app, models.ActionUpdate)
}

func (s *admissionsService) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.store.Repos.Applications.GetByID(ctx, id)
}

func (s *admissionsService) List(ctx context.Context, f applications.Filter) ([]*models.Application, error) {
	return s.store.Repos.Applications.List(ctx, f)
}

func (s *admissionsService) Delete(ctx context.Context, id string) error {
	app, err := s.store.Repos.Applications.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := applications.NewSQLiteRepository(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityApplication, id, models.ActionDelete, app)
	})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	s.store.Notifier.Notify(store.TopicApplications)
	s.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

// transition loads, moves and persists the application in one step.
func (s *admissionsService) transition(ctx context.Context, id string, next models.ApplicationStatus, actor string) (*models.Application, error) {
	app, err := s.store.Repos.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := app.Transition(next, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.saveWithOutbox(ctx, app, models.ActionUpdate); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *admissionsService) Submit(ctx context.Context, id, actor string) error {
	_, err := s.transition(ctx, id, models.StatusSubmitted, actor)
	return err
}

func (s *admissionsService) StartReview(ctx context.Context, id, actor string) error {
	_, err := s.transition(ctx, id, models.StatusUnderReview, actor)
	return err
}

func (s *admissionsService) Decide(ctx context.Context, id string, status models.ApplicationStatus, decidedBy, note string) error {
	app, err := s.store.Repos.Applications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := app.Transition(status, decidedBy, time.Now().UTC()); err != nil {
		return err
	}
	app.AppendDecision(models.Decision{
		Status:    status,
		DecidedBy: decidedBy,
		Note:      note,
		DecidedAt: time.Now().UTC(),
	})
	return s.saveWithOutbox(ctx, app, models.ActionUpdate)
}

func (s *admissionsService) Enroll(ctx context.Context, id, actor string) (*models.StudentProfile, error) {
	app, err := s.store.Repos.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := app.Transition(models.StatusEnrolled, actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	app.Synced = false
	app.SyncStatus = models.SyncPending

	profile := &models.StudentProfile{
		ApplicationID: app.ID,
		FirstName:     app.Personal.FirstName,
		LastName:      app.Personal.LastName,
		Email:         app.Contact.Email,
		ProgramID:     app.ProgramID,
		IntakeID:      app.IntakeID,
	}

	err = dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := applications.NewSQLiteRepository(tx).Save(ctx, app); err != nil {
			return err
		}
		if err := students.NewSQLiteRepository(tx).Save(ctx, profile); err != nil {
			return err
		}
		if err := enqueue(ctx, tx, models.EntityApplication, app.ID, models.ActionUpdate, app); err != nil {
			return err
		}
		return enqueue(ctx, tx, models.EntityStudent, profile.ID, models.ActionCreate, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll application: %w", err)
	}

	s.store.Notifier.Notify(store.TopicApplications)
	s.store.Notifier.Notify(store.TopicOutbox)
	return profile, nil
}
