package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mgichure/EMIS/internal/client/models"
	"github.com/mgichure/EMIS/internal/client/repositories/applications"
)

func (a *App) NewApplication(ctx context.Context) error {
	app := &models.Application{}

	var err error
	prompt := func(label string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = GetSimpleText(a.reader, label, os.Stdout)
		return v
	}

	app.Personal.FirstName = prompt("First name")
	app.Personal.LastName = prompt("Last name")
	app.Contact.Email = prompt("Email")
	app.Contact.Phone = prompt("Phone (optional)")
	app.Academic.PreviousSchool = prompt("Previous school (optional)")
	app.IntakeID = prompt("Intake id")
	app.ProgramID = prompt("Program id")
	if err != nil {
		return err
	}

	if err := a.admissions.Create(ctx, app); err != nil {
		printFn("Could not create application:", err.Error())
		return err
	}
	printFn("Created application", app.ID)
	return nil
}

func (a *App) ListApplications(ctx context.Context) error {
	list, err := a.admissions.List(ctx, applications.Filter{})
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	if len(list) == 0 {
		printFn("No applications yet")
		return nil
	}
	for _, app := range list {
		printFn(fmt.Sprintf("%s  %-12s %-8s %s %s",
			app.ID, app.Status, app.SyncStatus, app.Personal.FirstName, app.Personal.LastName))
	}
	return nil
}

func (a *App) ShowApplication(ctx context.Context, id string) error {
	app, err := a.admissions.Get(ctx, id)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}

	printFn(fmt.Sprintf("Application %s", app.ID))
	printFn(fmt.Sprintf("  Applicant: %s %s <%s>", app.Personal.FirstName, app.Personal.LastName, app.Contact.Email))
	printFn(fmt.Sprintf("  Intake: %s  Program: %s", app.IntakeID, app.ProgramID))
	printFn(fmt.Sprintf("  Status: %s  Sync: %s", app.Status, app.SyncStatus))
	if app.RemoteSyncID != "" {
		printFn("  Remote id: " + app.RemoteSyncID)
	}
	if len(app.DocumentIDs) > 0 {
		printFn("  Documents: " + strconv.Itoa(len(app.DocumentIDs)))
	}
	for _, d := range app.Decisions {
		printFn(fmt.Sprintf("  Decision: %s by %s (%s)", d.Status, d.DecidedBy, d.Note))
	}
	for _, ev := range app.Timeline {
		printFn(fmt.Sprintf("  %s  %s %s", ev.OccurredAt.Format("2006-01-02 15:04"), ev.Event, ev.Detail))
	}
	return nil
}

func (a *App) SubmitApplication(ctx context.Context, id string) error {
	if err := a.admissions.Submit(ctx, id, a.userName); err != nil {
		printFn("Could not submit:", err.Error())
		return err
	}
	printFn("Submitted", id)
	return nil
}

func (a *App) ReviewApplication(ctx context.Context, id string) error {
	if err := a.admissions.StartReview(ctx, id, a.userName); err != nil {
		printFn("Could not start review:", err.Error())
		return err
	}
	printFn("Under review", id)
	return nil
}

func (a *App) DecideApplication(ctx context.Context, id, verdict string) error {
	status := models.ApplicationStatus(verdict)
	switch status {
	case models.StatusAccepted, models.StatusRejected, models.StatusWaitlisted:
	default:
		printFn("Verdict must be accepted, rejected or waitlisted")
		return nil
	}

	note, err := GetSimpleText(a.reader, "Decision note (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.admissions.Decide(ctx, id, status, a.userName, note); err != nil {
		printFn("Could not record decision:", err.Error())
		return err
	}
	printFn("Recorded decision:", verdict)
	return nil
}

func (a *App) EnrollApplication(ctx context.Context, id string) error {
	profile, err := a.admissions.Enroll(ctx, id, a.userName)
	if err != nil {
		printFn("Could not enroll:", err.Error())
		return err
	}
	printFn("Enrolled; student profile", profile.ID)
	return nil
}

func (a *App) DeleteApplication(ctx context.Context, id string) error {
	ok, err := GetConfirmation(a.reader, "Delete application "+id+"?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printFn("Cancelled")
		return nil
	}
	if err := a.admissions.Delete(ctx, id); err != nil {
		printFn("Could not delete:", err.Error())
		return err
	}
	printFn("Deleted", id)
	return nil
}
