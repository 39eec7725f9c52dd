package sync

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgichure/EMIS/internal/client/api"
	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/logging"
)

// fakePusher scripts per-record outcomes and records replay order.
type fakePusher struct {
	errs   map[string]error // keyed by entity id
	order  []string
	syncID string
}

func (p *fakePusher) Push(ctx context.Context, rec *models.OutboxRecord) (string, error) {
	p.order = append(p.order, rec.EntityID)
	if err, ok := p.errs[rec.EntityID]; ok {
		return "", err
	}
	return p.syncID, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "emis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedApplication(t *testing.T, st *store.Store, id string) *models.Application {
	t.Helper()
	app := &models.Application{
		ID:        id,
		Personal:  models.PersonalInfo{FirstName: "Amina", LastName: "Otieno"},
		Contact:   models.ContactInfo{Email: "amina@example.org"},
		IntakeID:  "intake-1",
		ProgramID: "prog-1",
	}
	require.NoError(t, st.Repos.Applications.Save(context.Background(), app))
	return app
}

func enqueueUpdate(t *testing.T, st *store.Store, app *models.Application, at time.Time) *models.OutboxRecord {
	t.Helper()
	rec, err := models.NewOutboxRecord("rec-"+app.ID, models.EntityApplication, app.ID, models.ActionUpdate, app, at)
	require.NoError(t, err)
	require.NoError(t, st.Repos.Outbox.Enqueue(context.Background(), rec))
	return rec
}

func TestSyncNowSkipsWhenOffline(t *testing.T) {
	st := openStore(t)
	app := seedApplication(t, st, "app-1")
	enqueueUpdate(t, st, app, time.Now().UTC())

	pusher := &fakePusher{}
	e := New(st, pusher, func() bool { return false }, testLogger())

	res, err := e.SyncNow(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, pusher.order, "offline drains must not touch the network")

	n, err := st.Repos.Outbox.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "queue must be left untouched")
}

func TestSyncNowSkipsWhenDrainInProgress(t *testing.T) {
	st := openStore(t)
	e := New(st, &fakePusher{}, nil, testLogger())

	e.draining.Store(true)
	res, err := e.SyncNow(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestSyncNowDrainsFIFOAndAcknowledges(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Minute)
	for i, id := range []string{"app-1", "app-2", "app-3"} {
		app := seedApplication(t, st, id)
		enqueueUpdate(t, st, app, base.Add(time.Duration(i)*time.Second))
	}

	pusher := &fakePusher{syncID: "srv-1"}
	e := New(st, pusher, nil, testLogger())

	res, err := e.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, []string{"app-1", "app-2", "app-3"}, pusher.order)

	n, err := st.Repos.Outbox.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	app, err := st.Repos.Applications.GetByID(ctx, "app-1")
	require.NoError(t, err)
	assert.True(t, app.Synced)
	assert.Equal(t, models.SyncSynced, app.SyncStatus)
	assert.Equal(t, "srv-1", app.RemoteSyncID)

	last, err := e.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestSyncNowIsolatesFailures(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Minute)
	for i, id := range []string{"app-1", "app-2", "app-3"} {
		app := seedApplication(t, st, id)
		enqueueUpdate(t, st, app, base.Add(time.Duration(i)*time.Second))
	}

	pusher := &fakePusher{errs: map[string]error{
		"app-2": &api.Error{StatusCode: http.StatusInternalServerError, Message: "boom"},
	}}
	e := New(st, pusher, nil, testLogger())

	res, err := e.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"app-1", "app-2", "app-3"}, pusher.order, "a failed record must not block the rest")

	rec, err := st.Repos.Outbox.GetByID(ctx, "rec-app-2")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.RetryCount)
	assert.Contains(t, rec.LastError, "boom")
	assert.False(t, rec.Failed(), "a retryable failure keeps the record pending")
}

func TestSyncNowStopsWhenServiceUnreachable(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Minute)
	for i, id := range []string{"app-1", "app-2"} {
		app := seedApplication(t, st, id)
		enqueueUpdate(t, st, app, base.Add(time.Duration(i)*time.Second))
	}

	pusher := &fakePusher{errs: map[string]error{
		"app-1": &api.Error{Message: "connection refused"},
	}}
	e := New(st, pusher, nil, testLogger())

	res, err := e.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"app-1"}, pusher.order, "an unreachable service ends the drain")
	assert.Equal(t, 1, res.Failed)

	rec, err := st.Repos.Outbox.GetByID(ctx, "rec-app-2")
	require.NoError(t, err)
	assert.Zero(t, rec.RetryCount, "records after the stop keep their budget")
}

func TestSyncNowTerminalRejectionFailsImmediately(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	app := seedApplication(t, st, "app-1")
	enqueueUpdate(t, st, app, time.Now().UTC())

	pusher := &fakePusher{errs: map[string]error{
		"app-1": &api.Error{StatusCode: http.StatusUnprocessableEntity, Message: "bad payload"},
	}}
	e := New(st, pusher, nil, testLogger())

	_, err := e.SyncNow(ctx)
	require.NoError(t, err)

	rec, err := st.Repos.Outbox.GetByID(ctx, "rec-app-1")
	require.NoError(t, err)
	assert.True(t, rec.Failed(), "a terminal rejection skips the retry budget")

	got, err := st.Repos.Applications.GetByID(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, got.SyncStatus)
}

func TestSyncNowStampsLastSyncOnFailedDrain(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	app := seedApplication(t, st, "app-1")
	enqueueUpdate(t, st, app, time.Now().UTC())

	pusher := &fakePusher{errs: map[string]error{
		"app-1": &api.Error{StatusCode: http.StatusInternalServerError, Message: "down"},
	}}
	e := New(st, pusher, nil, testLogger())

	res, err := e.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.Synced)

	last, err := e.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero(), "a completed drain records the sync time even when every record failed")
}

func TestRetryBudgetExhaustionAndManualRetry(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	app := seedApplication(t, st, "app-1")
	enqueueUpdate(t, st, app, time.Now().UTC())

	pusher := &fakePusher{errs: map[string]error{
		"app-1": &api.Error{StatusCode: http.StatusInternalServerError, Message: "down"},
	}}
	e := New(st, pusher, nil, testLogger())

	for i := 0; i < models.MaxRetries; i++ {
		_, err := e.SyncNow(ctx)
		require.NoError(t, err)
	}

	pending, err := st.Repos.Outbox.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "an exhausted record leaves the pending set")

	failed, err := st.Repos.Outbox.ListFailed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)

	// Manual retry re-admits the record and the next drain replays it.
	require.NoError(t, e.RetryFailed(ctx, failed[0].ID))
	delete(pusher.errs, "app-1")

	res, err := e.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
}

func TestRetryFailedRejectsNonFailedRecords(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	app := seedApplication(t, st, "app-1")
	enqueueUpdate(t, st, app, time.Now().UTC())

	e := New(st, &fakePusher{}, nil, testLogger())
	err := e.RetryFailed(ctx, "rec-app-1")
	assert.ErrorIs(t, err, common.ErrRecordNotFailed)

	err = e.RetryFailed(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSyncNowIsIdempotentOnEmptyQueue(t *testing.T) {
	st := openStore(t)
	e := New(st, &fakePusher{}, nil, testLogger())

	for i := 0; i < 2; i++ {
		res, err := e.SyncNow(context.Background())
		require.NoError(t, err)
		assert.Zero(t, res.Synced)
		assert.Zero(t, res.Failed)
		assert.False(t, res.Skipped)
	}
}

func TestLastSyncAtUnsetReturnsZero(t *testing.T) {
	st := openStore(t)
	e := New(st, &fakePusher{}, nil, testLogger())

	last, err := e.LastSyncAt(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
