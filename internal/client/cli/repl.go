package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for user-facing output.
var printFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	NewApplication(ctx context.Context) error
	ListApplications(ctx context.Context) error
	ShowApplication(ctx context.Context, id string) error
	SubmitApplication(ctx context.Context, id string) error
	ReviewApplication(ctx context.Context, id string) error
	DecideApplication(ctx context.Context, id, verdict string) error
	EnrollApplication(ctx context.Context, id string) error
	DeleteApplication(ctx context.Context, id string) error

	AttachDocument(ctx context.Context, applicationID string) error
	ListDocuments(ctx context.Context, applicationID string) error

	NewIntake(ctx context.Context) error
	ListIntakes(ctx context.Context) error
	NewProgram(ctx context.Context) error
	ListPrograms(ctx context.Context) error

	NewSchedule(ctx context.Context) error
	ListSchedules(ctx context.Context, intakeID string) error
	NewRubric(ctx context.Context) error
	ListRubrics(ctx context.Context) error
	AddCandidate(ctx context.Context) error
	ScoreCandidate(ctx context.Context, candidateID string) error
	RankedCandidates(ctx context.Context, scheduleID string) error
	AddPanelMember(ctx context.Context, scheduleID string) error

	Sync(ctx context.Context) error
	ShowQueue(ctx context.Context) error
	RetryRecord(ctx context.Context, id string) error
	ClearFailed(ctx context.Context) error
	ShowStatus(ctx context.Context) error
}

const helpLoggedIn = `Applications: newapp, apps, show <id>, submit <id>, review <id>,
              decide <id> <accepted|rejected|waitlisted>, enroll <id>, delapp <id>
Documents:    attach <app-id>, docs <app-id>
Catalog:      newintake, intakes, newprogram, programs
Interviews:   newschedule, schedules <intake-id>, newrubric, rubrics,
              addcandidate, score <candidate-id>, ranked <schedule-id>,
              addpanel <schedule-id>
Sync:         sync, queue, retry <record-id>, clearfailed, status
Session:      logout, exit`

const helpLoggedOut = `Available commands: login, status, exit`

// runREPL reads a line, parses the first token as the command and dispatches
// to a. Unknown commands are reported back. The loop exits on scanner EOF or
// "exit"/"quit". Handlers report their own errors; the loop ignores them to
// stay resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printFn(fmt.Sprintf("emis %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}
		needArg := func(usage string) bool {
			if len(args) == 0 {
				printFn("Usage: " + usage)
				return false
			}
			return true
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printFn(helpLoggedIn)
			} else {
				printFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "newapp":
			_ = a.NewApplication(ctx)
		case "apps":
			_ = a.ListApplications(ctx)
		case "show":
			if needArg("show <id>") {
				_ = a.ShowApplication(ctx, arg(0))
			}
		case "submit":
			if needArg("submit <id>") {
				_ = a.SubmitApplication(ctx, arg(0))
			}
		case "review":
			if needArg("review <id>") {
				_ = a.ReviewApplication(ctx, arg(0))
			}
		case "decide":
			if len(args) < 2 {
				printFn("Usage: decide <id> <accepted|rejected|waitlisted>")
				continue
			}
			_ = a.DecideApplication(ctx, arg(0), arg(1))
		case "enroll":
			if needArg("enroll <id>") {
				_ = a.EnrollApplication(ctx, arg(0))
			}
		case "delapp":
			if needArg("delapp <id>") {
				_ = a.DeleteApplication(ctx, arg(0))
			}

		case "attach":
			if needArg("attach <app-id>") {
				_ = a.AttachDocument(ctx, arg(0))
			}
		case "docs":
			if needArg("docs <app-id>") {
				_ = a.ListDocuments(ctx, arg(0))
			}

		case "newintake":
			_ = a.NewIntake(ctx)
		case "intakes":
			_ = a.ListIntakes(ctx)
		case "newprogram":
			_ = a.NewProgram(ctx)
		case "programs":
			_ = a.ListPrograms(ctx)

		case "newschedule":
			_ = a.NewSchedule(ctx)
		case "schedules":
			if needArg("schedules <intake-id>") {
				_ = a.ListSchedules(ctx, arg(0))
			}
		case "newrubric":
			_ = a.NewRubric(ctx)
		case "rubrics":
			_ = a.ListRubrics(ctx)
		case "addcandidate":
			_ = a.AddCandidate(ctx)
		case "score":
			if needArg("score <candidate-id>") {
				_ = a.ScoreCandidate(ctx, arg(0))
			}
		case "ranked":
			if needArg("ranked <schedule-id>") {
				_ = a.RankedCandidates(ctx, arg(0))
			}
		case "addpanel":
			if needArg("addpanel <schedule-id>") {
				_ = a.AddPanelMember(ctx, arg(0))
			}

		case "sync":
			_ = a.Sync(ctx)
		case "queue":
			_ = a.ShowQueue(ctx)
		case "retry":
			if needArg("retry <record-id>") {
				_ = a.RetryRecord(ctx, arg(0))
			}
		case "clearfailed":
			_ = a.ClearFailed(ctx)
		case "status":
			_ = a.ShowStatus(ctx)

		case "exit", "quit":
			printFn("Bye!")
			return

		default:
			printFn("Unknown command:", cmd)
		}
	}
}
