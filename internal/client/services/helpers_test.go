package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "emis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func draftApplication() *models.Application {
	return &models.Application{
		Personal:  models.PersonalInfo{FirstName: "Amina", LastName: "Otieno"},
		Contact:   models.ContactInfo{Email: "amina@example.org"},
		IntakeID:  "intake-1",
		ProgramID: "prog-1",
	}
}

func pendingCount(t *testing.T, st *store.Store) int {
	t.Helper()
	n, err := st.Repos.Outbox.PendingCount(context.Background())
	require.NoError(t, err)
	return n
}
