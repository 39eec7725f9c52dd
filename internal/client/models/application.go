// Package models defines the admissions entities persisted in the local
// store and replayed to the remote service through the sync queue.
package models

import (
	"time"

	"github.com/mgichure/EMIS/internal/common"
)

// ApplicationStatus is the admissions workflow state of an application.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusWaitlisted  ApplicationStatus = "waitlisted"
	StatusEnrolled    ApplicationStatus = "enrolled"
)

// allowedTransitions encodes the legal workflow edges:
// draft → submitted → under_review → {accepted|rejected|waitlisted} → enrolled.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:       {StatusSubmitted},
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusAccepted, StatusRejected, StatusWaitlisted},
	StatusAccepted:    {StatusEnrolled},
	StatusRejected:    {StatusEnrolled},
	StatusWaitlisted:  {StatusEnrolled},
}

// SyncState is the coarse replication tag shown to the user. It is distinct
// from the boolean Synced flag and both are reconciled by the sync engine.
type SyncState string

const (
	SyncPending SyncState = "pending"
	SyncSynced  SyncState = "synced"
	SyncFailed  SyncState = "failed"
)

// PersonalInfo is the applicant's identity section.
type PersonalInfo struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	NationalID  string `json:"nationalId,omitempty"`
}

// ContactInfo is the applicant's contact section.
type ContactInfo struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	County  string `json:"county,omitempty"`
}

// AcademicInfo is the applicant's prior-education section.
type AcademicInfo struct {
	PreviousSchool string `json:"previousSchool,omitempty"`
	GradeAverage   string `json:"gradeAverage,omitempty"`
	ExamNumber     string `json:"examNumber,omitempty"`
	YearCompleted  int    `json:"yearCompleted,omitempty"`
}

// Decision is one admissions decision; the list on an application is
// append-only.
type Decision struct {
	Status    ApplicationStatus `json:"status"`
	DecidedBy string            `json:"decidedBy"`
	Note      string            `json:"note,omitempty"`
	DecidedAt time.Time         `json:"decidedAt"`
}

// TimelineEvent is one audit entry; the timeline is append-only.
type TimelineEvent struct {
	Event      string    `json:"event"`
	Actor      string    `json:"actor,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Application is a student application owned locally until the remote
// service acknowledges it.
type Application struct {
	ID           string            `json:"id"`
	Personal     PersonalInfo      `json:"personal" validate:"required"`
	Contact      ContactInfo       `json:"contact" validate:"required"`
	Academic     AcademicInfo      `json:"academic"`
	IntakeID     string            `json:"intakeId" validate:"required"`
	ProgramID    string            `json:"programId" validate:"required"`
	DocumentIDs  []string          `json:"documentIds,omitempty"`
	Status       ApplicationStatus `json:"status"`
	Decisions    []Decision        `json:"decisions,omitempty"`
	Timeline     []TimelineEvent   `json:"timeline,omitempty"`
	SyncStatus   SyncState         `json:"syncStatus"`
	Synced       bool              `json:"synced"`
	RemoteSyncID string            `json:"remoteSyncId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// CanTransition reports whether moving the application to next is a legal
// workflow edge.
func (a *Application) CanTransition(next ApplicationStatus) bool {
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Transition moves the application to next, appending a timeline event.
// It returns common.ErrInvalidTransition on an illegal edge. UpdatedAt is
// left to the store layer, which refreshes it on every write.
func (a *Application) Transition(next ApplicationStatus, actor string, at time.Time) error {
	if !a.CanTransition(next) {
		return common.ErrInvalidTransition
	}
	a.Status = next
	a.AppendTimeline(TimelineEvent{
		Event:      "status_changed",
		Actor:      actor,
		Detail:     string(next),
		OccurredAt: at,
	})
	return nil
}

// AppendDecision records a decision; the slice is never truncated or
// rewritten.
func (a *Application) AppendDecision(d Decision) {
	a.Decisions = append(a.Decisions, d)
}

// AppendTimeline records an audit event; the slice is never truncated or
// rewritten.
func (a *Application) AppendTimeline(ev TimelineEvent) {
	a.Timeline = append(a.Timeline, ev)
}
