package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailyboost/internal/auth"
	"github.com/julianstephens/dailyboost/internal/config"
	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/core"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/notifier"
)

type memActive struct{ v string }

func (m *memActive) Get() (string, error) { return m.v, nil }

func (m *memActive) Set(v string) error {
	m.v = v
	return nil
}

func (m *memActive) Delete() error {
	m.v = ""
	return nil
}

type testEnv struct {
	ctx *Context
	out *bytes.Buffer
	now time.Time
}

func newTestContext(t *testing.T, backend string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		out: &bytes.Buffer{},
		now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
	opts := []core.Option{
		core.WithClock(func() time.Time { return env.now }),
		core.WithNotifier(notifier.Disabled{}),
		core.WithActiveStore(&memActive{}),
		core.WithAuthOptions(auth.WithCost(bcrypt.MinCost)),
	}
	if backend == constants.BackendMemory {
		opts = append(opts, core.WithStore(kv.New(kv.NewMemory())))
	}
	env.ctx = &Context{
		Config: config.Config{
			DataDir:  dir,
			Backend:  backend,
			Timezone: "UTC",
			Listen:   constants.DefaultListen,
			Notifier: constants.NotifierNone,
		},
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Out:        env.out,
		Options:    opts,
	}
	t.Cleanup(func() { env.ctx.Close() })
	return env
}

func (e *testEnv) run(t *testing.T, cmd interface{ Run(*Context) error }) string {
	t.Helper()
	e.out.Reset()
	if err := cmd.Run(e.ctx); err != nil {
		t.Fatalf("%T.Run() error = %v", cmd, err)
	}
	return e.out.String()
}

func stubPrompts(t *testing.T, password string, confirm bool) {
	t.Helper()
	origPassword, origConfirm := promptPassword, promptConfirm
	promptPassword = func(string) (string, error) { return password, nil }
	promptConfirm = func(string) (bool, error) { return confirm, nil }
	t.Cleanup(func() {
		promptPassword, promptConfirm = origPassword, origConfirm
	})
}

func TestResolveHabit(t *testing.T) {
	habits := []models.Habit{
		{ID: "aaaa1111-0000", Title: "Drink water"},
		{ID: "aaaa2222-0000", Title: "Read"},
		{ID: "bbbb3333-0000", Title: "Stretch"},
	}
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"full id", "bbbb3333-0000", "bbbb3333-0000", false},
		{"unique prefix", "aaaa1", "aaaa1111-0000", false},
		{"title ignores case", "drink WATER", "aaaa1111-0000", false},
		{"ambiguous prefix", "aaaa", "", true},
		{"no match", "zzz", "", true},
		{"empty", "  ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveHabit(habits, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveHabit(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got.ID != tt.want {
				t.Errorf("resolveHabit(%q) = %q, want %q", tt.ref, got.ID, tt.want)
			}
		})
	}
}

func TestHabitCommands(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)

	env.run(t, &HabitAddCmd{Title: "Drink water", Type: "COUNT", Goal: 4})
	env.run(t, &HabitAddCmd{Title: "Stretch", Type: "yes_no", Goal: 1})

	if out := env.run(t, &HabitIncCmd{Habit: "drink water", By: 2}); !strings.Contains(out, "2/4") {
		t.Errorf("inc output = %q", out)
	}
	env.run(t, &HabitDoneCmd{Habit: "Stretch"})

	out := env.run(t, &HabitListCmd{})
	for _, want := range []string{"Drink water", "Stretch", "2/4", "COUNT", "YES_NO"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = env.run(t, &TodayCmd{})
	// (2/4 + 1) / 2 = 75%
	if !strings.Contains(out, "75%") || !strings.Contains(out, "1/2 done") {
		t.Errorf("today output:\n%s", out)
	}

	if err := (&HabitIncCmd{Habit: "Stretch", By: 1}).Run(env.ctx); err == nil {
		t.Error("inc on a YES_NO habit succeeded")
	}
	if err := (&HabitAddCmd{Title: "x", Type: "DAILY", Goal: 1}).Run(env.ctx); !errors.Is(err, models.ErrInvalidHabitType) {
		t.Errorf("bad type error = %v", err)
	}

	env.run(t, &HabitEditCmd{Habit: "Drink water", Goal: 1, Pause: true})
	app, _ := env.ctx.App()
	h, _ := resolveHabit(app.ListHabits(), "Drink water")
	if h.GoalPerDay != 1 || h.ProgressToday != 1 || h.IsActive {
		t.Errorf("edited habit = %+v", h)
	}

	env.run(t, &HabitDeleteCmd{Habit: "Stretch"})
	if n := len(app.ListHabits()); n != 1 {
		t.Errorf("habits after delete = %d", n)
	}
}

func TestTodayAfterMidnight(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	env.run(t, &HabitAddCmd{Title: "Walk", Type: "YES_NO", Goal: 1})
	env.run(t, &HabitDoneCmd{Habit: "Walk"})

	env.now = env.now.Add(24 * time.Hour)
	out := env.run(t, &TodayCmd{})
	if !strings.Contains(out, "2026-05-05") || !strings.Contains(out, "1 day") || !strings.Contains(out, "0/1 done") {
		t.Errorf("today output:\n%s", out)
	}
}

func TestReminderCommands(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)

	if out := env.run(t, &ReminderRecoverCmd{}); !strings.Contains(out, "nothing to recover") {
		t.Errorf("recover while off = %q", out)
	}
	if out := env.run(t, &ReminderEnableCmd{Interval: 90}); !strings.Contains(out, "Next at 10:30 • Every 90 minutes") ||
		!strings.Contains(out, "dailyboost serve") {
		t.Errorf("enable output = %q", out)
	}
	if out := env.run(t, &ReminderRecoverCmd{}); !strings.Contains(out, "already active") {
		t.Errorf("recover while registered = %q", out)
	}
	if out := env.run(t, &ReminderIntervalCmd{Minutes: 60}); !strings.Contains(out, "Every 1 hour") {
		t.Errorf("interval output = %q", out)
	}
	if err := (&ReminderIntervalCmd{Minutes: 0}).Run(env.ctx); err == nil {
		t.Error("interval 0 accepted")
	}
	if out := env.run(t, &ReminderStatusCmd{}); !strings.Contains(out, constants.ReminderTaskName) {
		t.Errorf("status output = %q", out)
	}
	env.run(t, &ReminderDisableCmd{})
	app, _ := env.ctx.App()
	if st := app.ReminderState(); st.Enabled || st.NextDueEpochMillis != 0 {
		t.Errorf("state after disable = %+v", st)
	}
}

func TestMoodAndWaterCommands(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)

	if out := env.run(t, &MoodAddCmd{Emoji: "5", Note: "great run"}); !strings.Contains(out, "🤩") {
		t.Errorf("mood add output = %q", out)
	}
	env.run(t, &MoodAddCmd{})
	out := env.run(t, &MoodListCmd{Limit: 20})
	if !strings.Contains(out, "great run") || !strings.Contains(out, models.NeutralMood) {
		t.Errorf("mood list output:\n%s", out)
	}
	if out := env.run(t, &MoodWeekCmd{}); !strings.Contains(out, "7-day average: 4.0") {
		t.Errorf("mood week output:\n%s", out)
	}

	env.run(t, &HydrationGoalCmd{Goal: 1000, Drink: 250})
	if out := env.run(t, &HydrationDrinkCmd{}); !strings.Contains(out, "250/1000 ml") {
		t.Errorf("drink output = %q", out)
	}
	if out := env.run(t, &HydrationDrinkCmd{Ml: 500}); !strings.Contains(out, "750/1000 ml") {
		t.Errorf("drink 500 output = %q", out)
	}
	if err := (&HydrationGoalCmd{Goal: 1200, Drink: -1}).Run(env.ctx); err == nil {
		t.Error("negative drink size accepted")
	}
	app, _ := env.ctx.App()
	if app.Water.GoalMl() != 1000 {
		t.Errorf("goal changed by rejected command: %d", app.Water.GoalMl())
	}
}

func TestAccountCommands(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	stubPrompts(t, "hunter22", false)

	if out := env.run(t, &AccountRegisterCmd{Name: "Ada", Email: "Ada@Example.com"}); !strings.Contains(out, "ada@example.com") {
		t.Errorf("register output = %q", out)
	}
	env.run(t, &AccountRegisterCmd{Name: "Bob", Email: "bob@example.com", Password: "secret1"})

	if err := (&AccountLoginCmd{Email: "ada@example.com", Password: "wrong-pass", Remember: true}).Run(env.ctx); !errors.Is(err, auth.ErrWrongCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if out := env.run(t, &AccountLoginCmd{Email: "ada@example.com", Remember: true}); !strings.Contains(out, "Ada") {
		t.Errorf("login output = %q", out)
	}

	out := env.run(t, &AccountListCmd{})
	if !strings.Contains(out, "ada@example.com") || !strings.Contains(out, "bob@example.com") {
		t.Errorf("list output:\n%s", out)
	}

	env.run(t, &AccountSwitchCmd{Email: "bob@example.com"})
	if err := (&AccountSwitchCmd{Email: "nobody@example.com"}).Run(env.ctx); !errors.Is(err, auth.ErrNoAccount) {
		t.Errorf("switch unknown error = %v", err)
	}

	if out := env.run(t, &AccountClearCmd{}); !strings.Contains(out, "Cancelled") {
		t.Errorf("clear without confirmation = %q", out)
	}
	env.run(t, &AccountClearCmd{Yes: true})
	app, _ := env.ctx.App()
	if n := len(app.Accounts.Users()); n != 0 {
		t.Errorf("accounts after clear = %d", n)
	}
}

func TestDoctorMemoryBackend(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	orig := keyringAvailable
	keyringAvailable = func() bool { return false }
	t.Cleanup(func() { keyringAvailable = orig })

	out := env.run(t, &DoctorCmd{})
	for _, want := range []string{
		"Storage reachable: OK",
		"Schema version: SKIPPED",
		"Backups present: SKIPPED",
		"Notifications: WARNING",
		"OS keyring: WARNING",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestBackupCommandsSQLite(t *testing.T) {
	env := newTestContext(t, constants.BackendSQLite)
	env.run(t, &HabitAddCmd{Title: "Before backup", Type: "COUNT", Goal: 1})

	if out := env.run(t, &BackupCreateCmd{}); !strings.Contains(out, "Backup created") {
		t.Fatalf("create output = %q", out)
	}
	app, _ := env.ctx.App()
	mgr, err := app.Backups()
	if err != nil {
		t.Fatal(err)
	}
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v", backups, err)
	}
	if out := env.run(t, &BackupListCmd{}); !strings.Contains(out, backups[0].Name()) {
		t.Errorf("list output:\n%s", out)
	}

	env.run(t, &HabitAddCmd{Title: "After backup", Type: "COUNT", Goal: 1})

	out := env.run(t, &BackupRestoreCmd{BackupFile: backups[0].Name(), Yes: true})
	if !strings.Contains(out, "restored successfully") {
		t.Fatalf("restore output = %q", out)
	}

	app, err = env.ctx.App()
	if err != nil {
		t.Fatalf("reopen after restore: %v", err)
	}
	habits := app.ListHabits()
	if len(habits) != 1 || habits[0].Title != "Before backup" {
		t.Errorf("habits after restore = %+v", habits)
	}
}

func TestBackupNeedsSQLite(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	if err := (&BackupCreateCmd{}).Run(env.ctx); !errors.Is(err, core.ErrNoBackups) {
		t.Errorf("backup on memory backend error = %v", err)
	}
}

func TestDebugDump(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	env.run(t, &HabitAddCmd{Title: "Journal", Type: "YES_NO", Goal: 1})

	out := env.run(t, &DebugDumpCmd{})
	if !strings.Contains(out, `"`+constants.KeyHabits+`": [`) || !strings.Contains(out, "Journal") {
		t.Errorf("dump output:\n%s", out)
	}
	if out := env.run(t, &DebugDumpHabitCmd{Habit: "journal"}); !strings.Contains(out, `"type": "YES_NO"`) {
		t.Errorf("dump-habit output:\n%s", out)
	}
}

func TestInit(t *testing.T) {
	env := newTestContext(t, constants.BackendMemory)
	if out := env.run(t, &InitCmd{}); !strings.Contains(out, "Wrote default config") {
		t.Errorf("first init output = %q", out)
	}
	if out := env.run(t, &InitCmd{}); !strings.Contains(out, "already exists") {
		t.Errorf("second init output = %q", out)
	}
}
