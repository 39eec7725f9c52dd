// Package api is the REST client for the admissions service. The sync
// engine replays outbox records through it; the auth service uses it to
// sign staff in.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mgichure/EMIS/internal/client/models"
)

// SyncIDHeader carries the server-assigned identifier for a replayed
// mutation. It is persisted next to the local entity after a successful push.
const SyncIDHeader = "x-sync-id"

var entityPaths = map[models.EntityType]string{
	models.EntityApplication: "/api/admissions/applications",
	models.EntityDocument:    "/api/admissions/documents",
	models.EntityIntake:      "/api/admissions/intakes",
	models.EntityProgram:     "/api/admissions/programs",
	models.EntityStudent:     "/api/admissions/students",
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token attached to every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return resp, nil
}

// readError drains the response and turns a non-2xx status into an *Error.
func readError(resp *http.Response) error {
	defer resp.Body.Close()

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := resp.Status
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

// Ping probes the health endpoint. Used by the connectivity monitor; a nil
// error means the service is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Login exchanges staff credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", readError(resp)
	}
	defer resp.Body.Close()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return out.AccessToken, nil
}

// Push replays one outbox record against the collection endpoint it belongs
// to and returns the server-assigned sync id, when the server sends one.
func (c *Client) Push(ctx context.Context, rec *models.OutboxRecord) (string, error) {
	path, ok := entityPaths[rec.EntityType]
	if !ok {
		return "", &Error{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("unknown entity type %q", rec.EntityType)}
	}

	// Every action addresses the bare collection path; the snapshot's id
	// field identifies the record server-side, including deletes.
	var (
		method string
		body   any
	)
	switch rec.Action {
	case models.ActionCreate:
		method = http.MethodPost
		body = rec.Payload
	case models.ActionUpdate:
		method = http.MethodPut
		body = rec.Payload
	case models.ActionDelete:
		method = http.MethodDelete
		body = rec.Payload
	default:
		return "", &Error{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("unknown action %q", rec.Action)}
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readError(resp)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.Header.Get(SyncIDHeader), nil
}
