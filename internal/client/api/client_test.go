package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgichure/EMIS/internal/client/models"
)

func newRecord(t *testing.T, action models.Action) *models.OutboxRecord {
	t.Helper()
	app := &models.Application{ID: "app-1", Status: models.StatusDraft}
	rec, err := models.NewOutboxRecord("rec-1", models.EntityApplication, "app-1", action, app, time.Now().UTC())
	require.NoError(t, err)
	return rec
}

func TestPushCreate(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set(SyncIDHeader, "srv-42")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetToken("tok")

	syncID, err := c.Push(context.Background(), newRecord(t, models.ActionCreate))
	require.NoError(t, err)
	assert.Equal(t, "srv-42", syncID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/admissions/applications", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "app-1", gotBody["id"])
}

func TestPushUpdateAndDeleteRouting(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	_, err := c.Push(context.Background(), newRecord(t, models.ActionUpdate))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/admissions/applications", gotPath)
	assert.Equal(t, "app-1", gotBody["id"])

	_, err = c.Push(context.Background(), newRecord(t, models.ActionDelete))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/admissions/applications", gotPath)
	assert.Equal(t, "app-1", gotBody["id"], "a delete identifies the record in the body")
}

func TestPushErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, true},
		{"throttled", http.StatusTooManyRequests, true},
		{"request timeout", http.StatusRequestTimeout, true},
		{"validation rejection", http.StatusUnprocessableEntity, false},
		{"not found", http.StatusNotFound, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			_, err := c.Push(context.Background(), newRecord(t, models.ActionCreate))
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.retryable, Retryable(err))
		})
	}
}

func TestPushNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, time.Second)
	_, err := c.Push(context.Background(), newRecord(t, models.ActionCreate))
	require.Error(t, err)
	assert.True(t, Retryable(err))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "jane" || creds["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	token, err := c.Login(context.Background(), "jane", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = c.Login(context.Background(), "jane", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, apiErr.Retryable())
}

func TestPing(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.NoError(t, c.Ping(context.Background()))

	healthy = false
	assert.Error(t, c.Ping(context.Background()))
}
