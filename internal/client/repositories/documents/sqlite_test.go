package documents

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE documents (
  id TEXT PRIMARY KEY,
  application_id TEXT NOT NULL,
  name TEXT NOT NULL,
  doc_type TEXT NOT NULL,
  size INTEGER NOT NULL DEFAULT 0,
  payload BLOB,
  synced INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSave_AssignsIDAndSize(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := &models.Document{
		ApplicationID: "app-1",
		Name:          "transcript.pdf",
		Type:          models.DocTypeTranscript,
		Payload:       []byte("pdf-bytes"),
	}
	require.NoError(t, r.Save(ctx, d))
	require.NotEmpty(t, d.ID)
	assert.Equal(t, int64(len("pdf-bytes")), d.Size)

	got, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), got.Payload)
	assert.Equal(t, models.DocTypeTranscript, got.Type)
	assert.False(t, got.Synced)
}

func TestListByApplication(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, appID := range []string{"app-1", "app-1", "app-2"} {
		require.NoError(t, r.Save(ctx, &models.Document{
			ApplicationID: appID,
			Name:          "doc",
			Type:          models.DocTypeOther,
			Payload:       []byte("x"),
		}))
	}

	got, err := r.ListByApplication(ctx, "app-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.ListByApplication(ctx, "app-3")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkSyncedAndDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := &models.Document{ApplicationID: "app-1", Name: "id.png", Type: models.DocTypeIDCopy, Payload: []byte("img")}
	require.NoError(t, r.Save(ctx, d))

	require.NoError(t, r.MarkSynced(ctx, d.ID))
	got, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Synced)

	require.NoError(t, r.DeleteByID(ctx, d.ID))
	_, err = r.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, r.DeleteByID(ctx, d.ID), common.ErrNotFound)
}
