package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func (f *fakeExec) NewApplication(ctx context.Context) error  { return f.record("newapp") }
func (f *fakeExec) ListApplications(ctx context.Context) error { return f.record("apps") }
func (f *fakeExec) ShowApplication(ctx context.Context, id string) error {
	return f.record("show", id)
}
func (f *fakeExec) SubmitApplication(ctx context.Context, id string) error {
	return f.record("submit", id)
}
func (f *fakeExec) ReviewApplication(ctx context.Context, id string) error {
	return f.record("review", id)
}
func (f *fakeExec) DecideApplication(ctx context.Context, id, verdict string) error {
	return f.record("decide", id, verdict)
}
func (f *fakeExec) EnrollApplication(ctx context.Context, id string) error {
	return f.record("enroll", id)
}
func (f *fakeExec) DeleteApplication(ctx context.Context, id string) error {
	return f.record("delapp", id)
}

func (f *fakeExec) AttachDocument(ctx context.Context, id string) error {
	return f.record("attach", id)
}
func (f *fakeExec) ListDocuments(ctx context.Context, id string) error {
	return f.record("docs", id)
}

func (f *fakeExec) NewIntake(ctx context.Context) error    { return f.record("newintake") }
func (f *fakeExec) ListIntakes(ctx context.Context) error  { return f.record("intakes") }
func (f *fakeExec) NewProgram(ctx context.Context) error   { return f.record("newprogram") }
func (f *fakeExec) ListPrograms(ctx context.Context) error { return f.record("programs") }

func (f *fakeExec) NewSchedule(ctx context.Context) error { return f.record("newschedule") }
func (f *fakeExec) ListSchedules(ctx context.Context, id string) error {
	return f.record("schedules", id)
}
func (f *fakeExec) NewRubric(ctx context.Context) error    { return f.record("newrubric") }
func (f *fakeExec) ListRubrics(ctx context.Context) error  { return f.record("rubrics") }
func (f *fakeExec) AddCandidate(ctx context.Context) error { return f.record("addcandidate") }
func (f *fakeExec) ScoreCandidate(ctx context.Context, id string) error {
	return f.record("score", id)
}
func (f *fakeExec) RankedCandidates(ctx context.Context, id string) error {
	return f.record("ranked", id)
}
func (f *fakeExec) AddPanelMember(ctx context.Context, id string) error {
	return f.record("addpanel", id)
}

func (f *fakeExec) Sync(ctx context.Context) error      { return f.record("sync") }
func (f *fakeExec) ShowQueue(ctx context.Context) error { return f.record("queue") }
func (f *fakeExec) RetryRecord(ctx context.Context, id string) error {
	return f.record("retry", id)
}
func (f *fakeExec) ClearFailed(ctx context.Context) error { return f.record("clearfailed") }
func (f *fakeExec) ShowStatus(ctx context.Context) error  { return f.record("status") }

func muteOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printFn
	printFn = func(args ...any) {
		if len(args) > 0 {
			if s, ok := args[0].(string); ok {
				lines = append(lines, s)
			}
		}
	}
	t.Cleanup(func() { printFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	muteOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"newapp",
		"apps",
		"show app-1",
		"submit app-1",
		"decide app-1 accepted",
		"attach app-1",
		"sync",
		"queue",
		"retry rec-9",
		"status",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "newapp", "apps", "show", "submit", "decide",
		"attach", "sync", "queue", "retry", "status", "logout",
	}, exec.calls)
	assert.Contains(t, exec.args, "app-1")
	assert.Contains(t, exec.args, "accepted")
	assert.Contains(t, exec.args, "rec-9")
}

func TestRunREPL_ArglessInvocationPrintsUsage(t *testing.T) {
	lines := muteOutput(t)

	exec := &fakeExec{loggedIn: true}
	input := strings.Join([]string{"show", "retry", "exit"}, "\n")
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Empty(t, exec.calls, "commands without their argument must not dispatch")

	var usages int
	for _, l := range *lines {
		if strings.HasPrefix(l, "Usage:") {
			usages++
		}
	}
	assert.Equal(t, 2, usages)
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	lines := muteOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("frobnicate\nexit\n")))

	found := false
	for _, l := range *lines {
		if strings.HasPrefix(l, "Unknown command") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	muteOutput(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))
	assert.Empty(t, exec.calls)
}
