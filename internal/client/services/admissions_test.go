package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/common"
)

func TestCreateAssignsIDAndEnqueues(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))
	require.NotEmpty(t, app.ID)
	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Equal(t, models.SyncPending, app.SyncStatus)
	assert.Equal(t, 1, pendingCount(t, st))

	recs, err := st.Repos.Outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.EntityApplication, recs[0].EntityType)
	assert.Equal(t, models.ActionCreate, recs[0].Action)
	assert.Equal(t, app.ID, recs[0].EntityID)
}

func TestCreateRejectsInvalidApplication(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)

	app := draftApplication()
	app.Contact.Email = "not-an-email"

	err := svc.Create(context.Background(), app)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, pendingCount(t, st), "a rejected create must leave no queue entry")
}

func TestSubmitAppendsTimelineAndEnqueuesUpdate(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))
	require.NoError(t, svc.Submit(ctx, app.ID, "jane"))

	got, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	require.NotEmpty(t, got.Timeline)
	assert.Equal(t, "status_changed", got.Timeline[len(got.Timeline)-1].Event)
	assert.Equal(t, "jane", got.Timeline[len(got.Timeline)-1].Actor)

	assert.Equal(t, 2, pendingCount(t, st), "create plus update records")
}

func TestIllegalTransitionIsRejected(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))

	// draft → enrolled skips the whole workflow.
	_, err := svc.Enroll(ctx, app.ID, "jane")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status, "a rejected transition must not persist")
}

func TestDecideRecordsDecision(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))
	require.NoError(t, svc.Submit(ctx, app.ID, "jane"))
	require.NoError(t, svc.StartReview(ctx, app.ID, "jane"))
	require.NoError(t, svc.Decide(ctx, app.ID, models.StatusAccepted, "dean", "strong grades"))

	got, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	require.Len(t, got.Decisions, 1)
	assert.Equal(t, "dean", got.Decisions[0].DecidedBy)
	assert.Equal(t, "strong grades", got.Decisions[0].Note)
}

func TestEnrollCreatesStudentProfile(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))
	require.NoError(t, svc.Submit(ctx, app.ID, "jane"))
	require.NoError(t, svc.StartReview(ctx, app.ID, "jane"))
	require.NoError(t, svc.Decide(ctx, app.ID, models.StatusAccepted, "dean", ""))

	profile, err := svc.Enroll(ctx, app.ID, "registrar")
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	assert.Equal(t, app.ID, profile.ApplicationID)
	assert.Equal(t, "Amina", profile.FirstName)
	assert.Equal(t, "prog-1", profile.ProgramID)

	saved, err := st.Repos.Students.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.org", saved.Email)

	got, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, got.Status)

	// Queue carries the profile create next to the application updates.
	recs, err := st.Repos.Outbox.ListPending(ctx)
	require.NoError(t, err)
	var studentCreates int
	for _, r := range recs {
		if r.EntityType == models.EntityStudent && r.Action == models.ActionCreate {
			studentCreates++
		}
	}
	assert.Equal(t, 1, studentCreates)
}

func TestDeleteEnqueuesRemoteDelete(t *testing.T) {
	st := openStore(t)
	svc := NewAdmissionsService(st)
	ctx := context.Background()

	app := draftApplication()
	require.NoError(t, svc.Create(ctx, app))
	require.NoError(t, svc.Delete(ctx, app.ID))

	_, err := svc.Get(ctx, app.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	recs, err := st.Repos.Outbox.ListPending(ctx)
	require.NoError(t, err)
	var deletes int
	for _, r := range recs {
		if r.Action == models.ActionDelete {
			deletes++
		}
	}
	assert.Equal(t, 1, deletes)
}
