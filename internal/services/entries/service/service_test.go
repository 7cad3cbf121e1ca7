package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voicelog/internal/core/budget"
	"voicelog/internal/modkit/repokit"
	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/timex"
	"voicelog/internal/services/entries/domain"
	"voicelog/internal/services/entries/repo"
)

var day = timex.Date{Year: 2024, Month: time.January, Day: 15}

// memRepo is an in-memory repo.Repo for policy tests
type memRepo struct {
	entries []domain.TimeEntry
	seq     int
}

func (m *memRepo) Insert(_ context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	m.seq++
	e.ID = fmt.Sprintf("entry-%d", m.seq)
	e.CreatedAt = time.Date(2024, time.January, 15, 12, 0, m.seq, 0, time.UTC)
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memRepo) ListRange(_ context.Context, from, to timex.Date) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, e := range m.entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// stubDB satisfies repokit.TxRunner without a database; Tx just runs fn
type stubDB struct{}

func (stubDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("unexpected Exec")
}
func (stubDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	panic("unexpected Query")
}
func (stubDB) QueryRow(context.Context, string, ...any) repokit.Row {
	panic("unexpected QueryRow")
}
func (db stubDB) Tx(_ context.Context, fn func(q repokit.Queryer) error) error { return fn(db) }

func newService(mem *memRepo, cfg Config) *Service {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return mem })
	return New(stubDB{}, binder, cfg)
}

func entry(hours float64) domain.TimeEntry {
	return domain.TimeEntry{Date: day, ProjectName: "Website", Hours: hours, Description: "fixes"}
}

func TestSubmit_WithinBudget(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8, Mode: budget.ModeEnforce})

	res, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(3)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Notice != nil {
		t.Fatalf("unexpected notice: %+v", res.Notice)
	}
	if res.Entry.ID == "" || res.Entry.Hours != 3 {
		t.Fatalf("entry = %+v", res.Entry)
	}
}

func TestSubmit_EnforceCapsAtFloor(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8, Mode: budget.ModeEnforce})

	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(7.5)}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// 7.5 of 8 used; requesting 3 accepts exactly the 0.5 floor
	res, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(3)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Entry.Hours != 0.5 {
		t.Fatalf("accepted hours = %v, want 0.5", res.Entry.Hours)
	}
	if res.Notice == nil || res.Notice.Kind != "capped" {
		t.Fatalf("notice = %+v", res.Notice)
	}
	if res.Notice.RequestedHours != 3 || res.Notice.AcceptedHours != 0.5 {
		t.Fatalf("notice = %+v", res.Notice)
	}
}

func TestSubmit_EnforceRefusesBelowFloor(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8, Mode: budget.ModeEnforce})

	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(7.75)}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(1)})
	if errors.CodeOf(err) != errors.ErrorCodeBudgetViolation {
		t.Fatalf("err = %v", err)
	}
	// The refused entry must not have been stored
	if len(mem.entries) != 1 {
		t.Fatalf("stored %d entries, want 1", len(mem.entries))
	}
}

func TestSubmit_AdvisoryWarnsWithExactOverage(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8, Mode: budget.ModeAdvisory})

	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(7)}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(3)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// Advisory keeps the full request
	if res.Entry.Hours != 3 {
		t.Fatalf("accepted hours = %v, want 3", res.Entry.Hours)
	}
	if res.Notice == nil || res.Notice.Kind != "overtime" || res.Notice.Overage != 2 {
		t.Fatalf("notice = %+v", res.Notice)
	}
}

func TestSubmit_ModeOverridePerCall(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8, Mode: budget.ModeAdvisory})

	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(8)}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Per-call enforce override refuses where the default advisory would warn
	_, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(1), Mode: budget.ModeEnforce})
	if errors.CodeOf(err) != errors.ErrorCodeBudgetViolation {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmit_RejectsInvalid(t *testing.T) {
	s := newService(&memRepo{}, Config{})
	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(0)}); err == nil {
		t.Fatal("zero hours accepted")
	}
	bad := entry(1)
	bad.Date = timex.Date{}
	if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: bad}); err == nil {
		t.Fatal("zero date accepted")
	}
}

func TestDayUsage(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8})

	for _, h := range []float64{3, 2.5} {
		if _, err := s.Submit(context.Background(), domain.SubmitInput{Entry: entry(h)}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	res, err := s.DayUsage(context.Background(), day, 0)
	if err != nil {
		t.Fatalf("DayUsage: %v", err)
	}
	if res.Used != 5.5 || res.Remaining != 2.5 || res.Overtime {
		t.Fatalf("usage = %+v", res)
	}

	// Caller-supplied limit wins
	res, err = s.DayUsage(context.Background(), day, 5)
	if err != nil {
		t.Fatalf("DayUsage: %v", err)
	}
	if res.Remaining != 0 || !res.Overtime {
		t.Fatalf("usage = %+v", res)
	}
}

func TestWindowUsage(t *testing.T) {
	mem := &memRepo{}
	s := newService(mem, Config{DailyLimit: 8})

	seed := []domain.TimeEntry{
		{Date: day, ProjectName: "Website", Hours: 3},               // Mon, client
		{Date: day.AddDays(2), ProjectName: "Website", Hours: 4},    // Wed, client
		{Date: day.AddDays(-1), ProjectName: "Website", Hours: 8},   // prior Sunday, outside week
		{Date: day.AddDays(1), ProjectName: "Internal", Hours: 2.5}, // Tue, other category
	}
	for _, e := range seed {
		mem.entries = append(mem.entries, e)
	}

	res, err := s.WindowUsage(context.Background(), domain.WindowUsageInput{
		Category: "client",
		Window:   budget.WindowWeekly,
		Date:     day.AddDays(2),
		Limit:    6,
		ProjectCategories: map[string]string{
			"Website":  "client",
			"Internal": "ops",
		},
	})
	if err != nil {
		t.Fatalf("WindowUsage: %v", err)
	}
	if res.Start.String() != "2024-01-15" || res.End.String() != "2024-01-21" {
		t.Fatalf("window = %s..%s", res.Start, res.End)
	}
	if res.Used != 7 || !res.Overtime {
		t.Fatalf("result = %+v", res)
	}
}

func TestList_RejectsInvertedRange(t *testing.T) {
	s := newService(&memRepo{}, Config{})
	if _, err := s.List(context.Background(), day, day.AddDays(-1)); err == nil {
		t.Fatal("inverted range accepted")
	}
}
