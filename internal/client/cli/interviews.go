package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mgichure/EMIS/internal/client/models"
)

const scheduleTimeLayout = "2006-01-02 15:04"

func (a *App) NewSchedule(ctx context.Context) error {
	intakeID, err := GetSimpleText(a.reader, "Intake id", os.Stdout)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Location (optional)", os.Stdout)
	if err != nil {
		return err
	}
	startsRaw, err := GetSimpleText(a.reader, "Starts at ("+scheduleTimeLayout+")", os.Stdout)
	if err != nil {
		return err
	}
	endsRaw, err := GetSimpleText(a.reader, "Ends at ("+scheduleTimeLayout+")", os.Stdout)
	if err != nil {
		return err
	}

	startsAt, err := time.Parse(scheduleTimeLayout, startsRaw)
	if err != nil {
		printFn("Invalid start time")
		return nil
	}
	endsAt, err := time.Parse(scheduleTimeLayout, endsRaw)
	if err != nil {
		printFn("Invalid end time")
		return nil
	}

	sched := &models.InterviewSchedule{
		IntakeID: intakeID,
		Title:    title,
		Location: location,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}
	if err := a.interviews.CreateSchedule(ctx, sched); err != nil {
		printFn("Could not create schedule:", err.Error())
		return err
	}
	printFn("Created schedule", sched.ID)
	return nil
}

func (a *App) ListSchedules(ctx context.Context, intakeID string) error {
	list, err := a.interviews.ListSchedules(ctx, intakeID)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	for _, s := range list {
		printFn(fmt.Sprintf("%s  %-24s %s  %s", s.ID, s.Title, s.StartsAt.Format(scheduleTimeLayout), s.Location))
	}
	return nil
}

// NewRubric collects criteria interactively until an empty name is entered.
func (a *App) NewRubric(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Rubric name", os.Stdout)
	if err != nil {
		return err
	}

	r := &models.InterviewRubric{Name: name}
	for {
		criterion, err := GetSimpleText(a.reader, "Criterion name (empty to finish)", os.Stdout)
		if err != nil {
			return err
		}
		if criterion == "" {
			break
		}
		maxRaw, err := GetSimpleText(a.reader, "Max score", os.Stdout)
		if err != nil {
			return err
		}
		maxScore, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			printFn("Max score must be a number")
			continue
		}
		weightRaw, err := GetSimpleText(a.reader, "Weight", os.Stdout)
		if err != nil {
			return err
		}
		weight, err := strconv.ParseFloat(weightRaw, 64)
		if err != nil {
			printFn("Weight must be a number")
			continue
		}
		r.Criteria = append(r.Criteria, models.RubricCriterion{Name: criterion, MaxScore: maxScore, Weight: weight})
	}

	if err := a.interviews.SaveRubric(ctx, r); err != nil {
		printFn("Could not save rubric:", err.Error())
		return err
	}
	printFn("Created rubric", r.ID)
	return nil
}

func (a *App) ListRubrics(ctx context.Context) error {
	list, err := a.interviews.ListRubrics(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	for _, r := range list {
		printFn(fmt.Sprintf("%s  %-24s %d criteria", r.ID, r.Name, len(r.Criteria)))
	}
	return nil
}

func (a *App) AddCandidate(ctx context.Context) error {
	scheduleID, err := GetSimpleText(a.reader, "Schedule id", os.Stdout)
	if err != nil {
		return err
	}
	applicationID, err := GetSimpleText(a.reader, "Application id", os.Stdout)
	if err != nil {
		return err
	}
	rubricID, err := GetSimpleText(a.reader, "Rubric id (optional)", os.Stdout)
	if err != nil {
		return err
	}

	c := &models.InterviewCandidate{
		ScheduleID:    scheduleID,
		ApplicationID: applicationID,
		RubricID:      rubricID,
	}
	if err := a.interviews.AddCandidate(ctx, c); err != nil {
		printFn("Could not add candidate:", err.Error())
		return err
	}
	printFn("Added candidate", c.ID)
	return nil
}

func (a *App) ScoreCandidate(ctx context.Context, candidateID string) error {
	criterion, err := GetSimpleText(a.reader, "Criterion", os.Stdout)
	if err != nil {
		return err
	}
	valueRaw, err := GetSimpleText(a.reader, "Score", os.Stdout)
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(valueRaw, 64)
	if err != nil {
		printFn("Score must be a number")
		return nil
	}

	score := models.Score{Criterion: criterion, Value: value, ScoredBy: a.userName}
	if err := a.interviews.Score(ctx, candidateID, score); err != nil {
		printFn("Could not record score:", err.Error())
		return err
	}
	printFn("Scored", criterion)
	return nil
}

func (a *App) RankedCandidates(ctx context.Context, scheduleID string) error {
	list, err := a.interviews.RankedCandidates(ctx, scheduleID)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	for i, c := range list {
		printFn(fmt.Sprintf("%2d. %s  app=%s  total=%.1f weighted=%.2f",
			i+1, c.ID, c.ApplicationID, c.TotalScore, c.WeightedScore))
	}
	return nil
}

func (a *App) AddPanelMember(ctx context.Context, scheduleID string) error {
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Role (optional)", os.Stdout)
	if err != nil {
		return err
	}

	m := &models.PanelMember{ScheduleID: scheduleID, Name: name, Role: role}
	if err := a.interviews.AddPanelMember(ctx, m); err != nil {
		printFn("Could not add panel member:", err.Error())
		return err
	}
	printFn("Added panel member", m.ID)
	return nil
}
