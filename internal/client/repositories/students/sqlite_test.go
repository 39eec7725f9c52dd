package students

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
CREATE TABLE student_profiles (
  id TEXT PRIMARY KEY,
  application_id TEXT NOT NULL DEFAULT '',
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  program_id TEXT NOT NULL DEFAULT '',
  intake_id TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestStudentRepository_CRUD(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	s := &models.StudentProfile{
		ApplicationID: "app-1",
		FirstName:     "Brian",
		LastName:      "Mwangi",
		Email:         "brian@example.com",
	}
	require.NoError(t, r.Save(ctx, s))
	require.NotEmpty(t, s.ID)

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mwangi", got.LastName)
	assert.False(t, got.Synced)

	require.NoError(t, r.MarkSynced(ctx, s.ID))
	got, err = r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Synced)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.DeleteByID(ctx, s.ID))
	_, err = r.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
