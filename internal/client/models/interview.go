package models

import "time"

// InterviewSchedule is one interview session for an intake.
type InterviewSchedule struct {
	ID        string    `json:"id"`
	IntakeID  string    `json:"intakeId" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Location  string    `json:"location,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Synced    bool      `json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RubricCriterion is one weighted scoring dimension.
type RubricCriterion struct {
	Name     string  `json:"name"`
	MaxScore float64 `json:"maxScore"`
	Weight   float64 `json:"weight"`
}

// InterviewRubric is the scoring template used by a panel.
type InterviewRubric struct {
	ID        string            `json:"id"`
	Name      string            `json:"name" validate:"required"`
	Criteria  []RubricCriterion `json:"criteria"`
	Synced    bool              `json:"synced"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Score is one panelist's mark against one rubric criterion.
type Score struct {
	Criterion string  `json:"criterion"`
	Value     float64 `json:"value"`
	ScoredBy  string  `json:"scoredBy,omitempty"`
}

// InterviewCandidate links an application to a schedule and carries the
// panel's scores. TotalScore and WeightedScore are derived and must be
// recomputed whenever Scores change.
type InterviewCandidate struct {
	ID            string    `json:"id"`
	ScheduleID    string    `json:"scheduleId" validate:"required"`
	ApplicationID string    `json:"applicationId" validate:"required"`
	RubricID      string    `json:"rubricId,omitempty"`
	Scores        []Score   `json:"scores,omitempty"`
	TotalScore    float64   `json:"totalScore"`
	WeightedScore float64   `json:"weightedScore"`
	Synced        bool      `json:"synced"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Recompute refreshes the derived totals from Scores. The weighted total
// uses the rubric's per-criterion weights; criteria missing from the
// rubric contribute with weight 1.
func (c *InterviewCandidate) Recompute(rubric *InterviewRubric) {
	weights := map[string]float64{}
	if rubric != nil {
		for _, cr := range rubric.Criteria {
			weights[cr.Name] = cr.Weight
		}
	}

	var total, weighted float64
	for _, s := range c.Scores {
		total += s.Value
		w, ok := weights[s.Criterion]
		if !ok {
			w = 1
		}
		weighted += s.Value * w
	}
	c.TotalScore = total
	c.WeightedScore = weighted
}

// PanelMember is a staff member sitting on an interview panel.
type PanelMember struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"scheduleId" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Role       string    `json:"role,omitempty"`
	Email      string    `json:"email,omitempty" validate:"omitempty,email"`
	Synced     bool      `json:"synced"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
