package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxRetries is the per-record replay budget. A record whose retry count
// reaches this value is failed and only re-admitted by an explicit user
// retry.
const MaxRetries = 3

// EntityType tags an outbox payload with the collection it belongs to.
type EntityType string

const (
	EntityApplication EntityType = "application"
	EntityDocument    EntityType = "document"
	EntityIntake      EntityType = "intake"
	EntityProgram     EntityType = "program"
	EntityStudent     EntityType = "student"
)

// Action is the remote operation an outbox record replays.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// OutboxRecord is one pending local mutation destined for the remote
// service. The payload is a snapshot taken at enqueue time; later local
// edits do not alter an already-enqueued record.
type OutboxRecord struct {
	ID          string          `json:"id"`
	EntityType  EntityType      `json:"entityType"`
	EntityID    string          `json:"entityId"`
	Action      Action          `json:"action"`
	Payload     json.RawMessage `json:"payload"`
	RetryCount  int             `json:"retryCount"`
	LastError   string          `json:"lastError,omitempty"`
	LastAttempt time.Time       `json:"lastAttempt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Failed reports whether the record has exhausted its replay budget.
func (r *OutboxRecord) Failed() bool {
	return r.RetryCount >= MaxRetries
}

// StatusLabel is the presentation string shown by the queue inspector.
func (r *OutboxRecord) StatusLabel() string {
	switch {
	case r.Failed():
		return "failed"
	case r.RetryCount > 0:
		return fmt.Sprintf("retrying (%d/%d)", r.RetryCount, MaxRetries)
	default:
		return "pending"
	}
}

// DecodePayload unmarshals the snapshot into the concrete entity named by
// EntityType, so callers never handle an untyped payload.
func (r *OutboxRecord) DecodePayload() (any, error) {
	switch r.EntityType {
	case EntityApplication:
		var v Application
		return &v, json.Unmarshal(r.Payload, &v)
	case EntityDocument:
		var v Document
		return &v, json.Unmarshal(r.Payload, &v)
	case EntityIntake:
		var v Intake
		return &v, json.Unmarshal(r.Payload, &v)
	case EntityProgram:
		var v Program
		return &v, json.Unmarshal(r.Payload, &v)
	case EntityStudent:
		var v StudentProfile
		return &v, json.Unmarshal(r.Payload, &v)
	default:
		return nil, fmt.Errorf("unknown entity type %q", r.EntityType)
	}
}

// NewOutboxRecord snapshots entity into a record ready to enqueue.
func NewOutboxRecord(id string, entityType EntityType, entityID string, action Action, entity any, now time.Time) (*OutboxRecord, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s payload: %w", entityType, err)
	}
	return &OutboxRecord{
		ID:         id,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    payload,
		CreatedAt:  now,
	}, nil
}
