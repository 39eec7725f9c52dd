// Package sync drains the outbox against the remote admissions service.
// Drains are serialized, replay records oldest-first and isolate failures so
// one bad record never blocks the rest of the queue.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mgichure/EMIS/internal/client/api"
	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/repositories/applications"
	"github.com/mgichure/EMIS/internal/client/repositories/catalog"
	"github.com/mgichure/EMIS/internal/client/repositories/documents"
	"github.com/mgichure/EMIS/internal/client/repositories/metadata"
	"github.com/mgichure/EMIS/internal/client/repositories/outbox"
	"github.com/mgichure/EMIS/internal/client/repositories/students"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/dbx"
	"github.com/mgichure/EMIS/internal/logging"
)

// Pusher replays one outbox record remotely and returns the server-assigned
// sync id. Satisfied by *api.Client.
type Pusher interface {
	Push(ctx context.Context, rec *models.OutboxRecord) (string, error)
}

// Result summarizes one drain.
type Result struct {
	Synced int
	Failed int
	// Skipped is true when the drain did not run at all: offline, or
	// another drain was already in progress.
	Skipped bool
}

type Engine struct {
	store  *store.Store
	pusher Pusher
	online func() bool
	logger logging.Logger

	draining atomic.Bool
}

// New builds an engine. online is consulted before every drain; a nil online
// means always considered reachable.
func New(st *store.Store, pusher Pusher, online func() bool, logger logging.Logger) *Engine {
	if online == nil {
		online = func() bool { return true }
	}
	return &Engine{
		store:  st,
		pusher: pusher,
		online: online,
		logger: logger.With("component", "sync"),
	}
}

// SyncNow drains the pending queue once. Offline, or with a drain already
// running, it returns immediately with Skipped set.
func (e *Engine) SyncNow(ctx context.Context) (Result, error) {
	if !e.online() {
		return Result{Skipped: true}, nil
	}
	if !e.draining.CompareAndSwap(false, true) {
		return Result{Skipped: true}, nil
	}
	defer e.draining.Store(false)

	var res Result

	pending, err := e.store.Repos.Outbox.ListPending(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list pending records: %w", err)
	}

	for _, rec := range pending {
		if ctx.Err() != nil {
			break
		}

		syncID, err := e.pusher.Push(ctx, rec)
		if err != nil {
			res.Failed++
			e.recordFailure(ctx, rec, err)

			// Deliberate exception to per-record isolation: a
			// transport-level failure (no HTTP status) dooms every
			// remaining record, so the drain stops here and the rest
			// keep their retry budgets. Server rejections of any
			// status stay isolated.
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.StatusCode == 0 {
				e.logger.Warn(ctx, "service unreachable, stopping drain", "record", rec.ID)
				break
			}
			continue
		}

		if err := e.acknowledge(ctx, rec, syncID); err != nil {
			e.logger.Error(ctx, "failed to acknowledge synced record", "record", rec.ID, "error", err)
			res.Failed++
			continue
		}
		res.Synced++
	}

	// The stamp covers every completed drain that attempted a record,
	// partial or total failure included.
	if res.Synced > 0 || res.Failed > 0 {
		if err := e.stampLastSync(ctx); err != nil {
			e.logger.Error(ctx, "failed to record sync time", "error", err)
		}
		e.store.Notifier.Notify(store.TopicOutbox)
		e.store.Notifier.Notify(store.TopicApplications)
	}

	e.logger.Info(ctx, "drain finished", "synced", res.Synced, "failed", res.Failed)
	return res, nil
}

// acknowledge marks the local entity as synced and removes the outbox record
// in one transaction.
func (e *Engine) acknowledge(ctx context.Context, rec *models.OutboxRecord, syncID string) error {
	return dbx.WithTx(ctx, e.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if rec.Action != models.ActionDelete {
			if err := markEntitySynced(ctx, tx, rec, syncID); err != nil {
				// The entity may have been deleted locally after this
				// record was enqueued.
				if !errors.Is(err, common.ErrNotFound) {
					return err
				}
			}
		}
		return outbox.NewSQLiteRepository(tx).Remove(ctx, rec.ID)
	})
}

func markEntitySynced(ctx context.Context, tx dbx.DBTX, rec *models.OutboxRecord, syncID string) error {
	switch rec.EntityType {
	case models.EntityApplication:
		return applications.NewSQLiteRepository(tx).MarkSynced(ctx, rec.EntityID, syncID)
	case models.EntityDocument:
		return documents.NewSQLiteRepository(tx).MarkSynced(ctx, rec.EntityID)
	case models.EntityIntake:
		return catalog.NewSQLiteIntakeRepository(tx).MarkSynced(ctx, rec.EntityID)
	case models.EntityProgram:
		return catalog.NewSQLiteProgramRepository(tx).MarkSynced(ctx, rec.EntityID)
	case models.EntityStudent:
		return students.NewSQLiteRepository(tx).MarkSynced(ctx, rec.EntityID)
	default:
		return fmt.Errorf("unknown entity type %q", rec.EntityType)
	}
}

// recordFailure books the failed attempt. A terminal rejection skips the
// remaining retry budget and, for applications, surfaces on the entity.
func (e *Engine) recordFailure(ctx context.Context, rec *models.OutboxRecord, cause error) {
	terminal := !api.Retryable(cause)

	if err := e.store.Repos.Outbox.RecordFailure(ctx, rec.ID, cause.Error(), terminal, time.Now().UTC()); err != nil {
		e.logger.Error(ctx, "failed to record attempt", "record", rec.ID, "error", err)
		return
	}

	failedNow := terminal || rec.RetryCount+1 >= models.MaxRetries
	if failedNow && rec.EntityType == models.EntityApplication && rec.Action != models.ActionDelete {
		if err := e.store.Repos.Applications.MarkSyncFailed(ctx, rec.EntityID); err != nil && !errors.Is(err, common.ErrNotFound) {
			e.logger.Error(ctx, "failed to flag application", "application", rec.EntityID, "error", err)
		}
	}

	e.logger.Warn(ctx, "record replay failed",
		"record", rec.ID, "entity", rec.EntityID, "terminal", terminal, "error", cause)
}

// RetryFailed resets a failed record's budget so the next drain picks it up.
func (e *Engine) RetryFailed(ctx context.Context, id string) error {
	rec, err := e.store.Repos.Outbox.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rec.Failed() {
		return common.ErrRecordNotFailed
	}
	if err := e.store.Repos.Outbox.MarkRetried(ctx, id); err != nil {
		return err
	}
	e.store.Notifier.Notify(store.TopicOutbox)
	return nil
}

func (e *Engine) stampLastSync(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return e.store.Repos.Metadata.Set(ctx, metadata.KeyLastSyncAt, []byte(now))
}

// LastSyncAt returns the completion time of the last drain that attempted at
// least one record, failures included, or the zero time when no such drain
// has run yet.
func (e *Engine) LastSyncAt(ctx context.Context) (time.Time, error) {
	raw, err := e.store.Repos.Metadata.Get(ctx, metadata.KeyLastSyncAt)
	if err != nil {
		return time.Time{}, err
	}
	if len(raw) == 0 {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last sync time: %w", err)
	}
	return t, nil
}

// StartPeriodic drains on a fixed interval until ctx is cancelled. Run it on
// its own goroutine.
func (e *Engine) StartPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := e.SyncNow(ctx); err != nil {
				e.logger.Error(ctx, "periodic drain failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
