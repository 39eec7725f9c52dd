package models

import "time"

// Intake is an admissions window (e.g. "September 2026").
type Intake struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Term      string    `json:"term,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Capacity  int       `json:"capacity,omitempty"`
	Open      bool      `json:"open"`
	Synced    bool      `json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Program is a course of study applicants apply to.
type Program struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Code       string    `json:"code,omitempty"`
	Department string    `json:"department,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	Synced     bool      `json:"synced"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StudentProfile is the enrolled-student record created once an accepted
// application is enrolled.
type StudentProfile struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId,omitempty"`
	FirstName     string    `json:"firstName" validate:"required"`
	LastName      string    `json:"lastName" validate:"required"`
	Email         string    `json:"email,omitempty" validate:"omitempty,email"`
	ProgramID     string    `json:"programId,omitempty"`
	IntakeID      string    `json:"intakeId,omitempty"`
	Synced        bool      `json:"synced"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
