// Package service implements entry acceptance under the hours budget policy
package service

import (
	"context"
	"fmt"

	"voicelog/internal/core/budget"
	"voicelog/internal/modkit/repokit"
	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/logger"
	"voicelog/internal/platform/timex"
	"voicelog/internal/services/entries/domain"
	"voicelog/internal/services/entries/repo"
)

// Config holds the budget defaults the service applies when a submission
// doesn't override them
type Config struct {
	DailyLimit float64
	Mode       budget.Mode
}

// Service accepts entries, applies the budget policy, and answers usage queries
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cfg    Config
	log    *logger.Logger
}

// New constructs the entries service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Service {
	if db == nil {
		panic("entries service: nil TxRunner")
	}
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = 8
	}
	if cfg.Mode == "" {
		cfg.Mode = budget.ModeAdvisory
	}
	return &Service{
		db:     db,
		binder: binder,
		cfg:    cfg,
		log:    logger.Named("entries"),
	}
}

// Submit applies the budget policy to one validated entry and stores it.
// The existing-entry snapshot is read and the insert written in one
// transaction so a same-day submission race cannot double-spend the budget
func (s *Service) Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitResult, error) {
	if in.Entry.Hours <= 0 {
		return domain.SubmitResult{}, errors.InvalidArgf("hours must be positive")
	}
	if in.Entry.Date.IsZero() {
		return domain.SubmitResult{}, errors.InvalidArgf("date is required")
	}

	mode := in.Mode
	if mode == "" {
		mode = s.cfg.Mode
	}
	limit := in.Limit
	if limit <= 0 {
		limit = s.cfg.DailyLimit
	}

	var out domain.SubmitResult
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		existing, err := r.ListRange(ctx, in.Entry.Date, in.Entry.Date)
		if err != nil {
			return errors.MapPgError(err)
		}
		snapshot := make([]budget.Entry, 0, len(existing))
		for _, e := range existing {
			snapshot = append(snapshot, e.BudgetEntry())
		}

		entry, notice, err := applyPolicy(mode, in.Entry, snapshot, limit)
		if err != nil {
			return err
		}

		saved, err := r.Insert(ctx, entry)
		if err != nil {
			return errors.MapPgError(err)
		}
		out = domain.SubmitResult{Entry: saved, Notice: notice}
		return nil
	})
	if err != nil {
		return domain.SubmitResult{}, err
	}

	if out.Notice != nil {
		s.log.Info().
			Str("kind", out.Notice.Kind).
			Float64("requested", out.Notice.RequestedHours).
			Float64("accepted", out.Notice.AcceptedHours).
			Msg("budget policy applied")
	}
	return out, nil
}

// applyPolicy runs the enforce/advisory decision for one candidate against a
// same-day snapshot. Enforce caps at max(floor, remaining) and refuses outright
// when even the floor does not fit; advisory accepts and reports the overage
func applyPolicy(mode budget.Mode, entry domain.TimeEntry, snapshot []budget.Entry, limit float64) (domain.TimeEntry, *domain.BudgetNotice, error) {
	used := budget.DailyUsage(snapshot, entry.Date)
	remaining := budget.RemainingForDay(snapshot, entry.Date, limit)

	switch mode {
	case budget.ModeEnforce:
		if entry.Hours <= remaining {
			return entry, nil, nil
		}
		if remaining < budget.MinEntryHours {
			return domain.TimeEntry{}, nil, errors.BudgetViolationf(
				"%.1fh used of %.1fh on %s; even the %.1fh minimum does not fit",
				used, limit, entry.Date, budget.MinEntryHours)
		}
		requested := entry.Hours
		entry.Hours = remaining
		return entry, &domain.BudgetNotice{
			Kind:           "capped",
			Message:        fmt.Sprintf("hours reduced from %.1f to %.1f to fit the %.1fh daily limit", requested, entry.Hours, limit),
			RequestedHours: requested,
			AcceptedHours:  entry.Hours,
		}, nil

	default: // advisory
		total := used + entry.Hours
		if !budget.IsOvertime(total, limit) {
			return entry, nil, nil
		}
		return entry, &domain.BudgetNotice{
			Kind:           "overtime",
			Message:        fmt.Sprintf("day total %.1fh exceeds the %.1fh limit by %.1fh", total, limit, total-limit),
			RequestedHours: entry.Hours,
			AcceptedHours:  entry.Hours,
			Overage:        total - limit,
		}, nil
	}
}

// List returns stored entries in [from, to]
func (s *Service) List(ctx context.Context, from, to timex.Date) ([]domain.TimeEntry, error) {
	if to.Before(from) {
		return nil, errors.InvalidArgf("range end %s precedes start %s", to, from)
	}
	r := s.binder.Bind(s.db)
	out, err := r.ListRange(ctx, from, to)
	if err != nil {
		return nil, errors.MapPgError(err)
	}
	return out, nil
}

// DayUsage reports the budget position for one day. limit <= 0 uses the
// configured daily limit
func (s *Service) DayUsage(ctx context.Context, date timex.Date, limit float64) (domain.UsageResult, error) {
	if date.IsZero() {
		return domain.UsageResult{}, errors.InvalidArgf("date is required")
	}
	if limit <= 0 {
		limit = s.cfg.DailyLimit
	}

	entries, err := s.List(ctx, date, date)
	if err != nil {
		return domain.UsageResult{}, err
	}
	snapshot := make([]budget.Entry, 0, len(entries))
	for _, e := range entries {
		snapshot = append(snapshot, e.BudgetEntry())
	}

	used := budget.DailyUsage(snapshot, date)
	return domain.UsageResult{
		Date:      date,
		Used:      used,
		Limit:     limit,
		Remaining: budget.RemainingForDay(snapshot, date, limit),
		Overtime:  budget.IsOvertime(used, limit),
	}, nil
}

// WindowUsage reports a category's usage inside the week/month window
// containing the given date
func (s *Service) WindowUsage(ctx context.Context, in domain.WindowUsageInput) (domain.WindowUsageResult, error) {
	if in.Category == "" {
		return domain.WindowUsageResult{}, errors.InvalidArgf("category is required")
	}
	if in.Limit <= 0 {
		return domain.WindowUsageResult{}, errors.InvalidArgf("limit must be positive")
	}

	start, end := budget.Window(in.Window, in.Date)
	entries, err := s.List(ctx, start, end)
	if err != nil {
		return domain.WindowUsageResult{}, err
	}
	snapshot := make([]budget.Entry, 0, len(entries))
	for _, e := range entries {
		snapshot = append(snapshot, e.BudgetEntry())
	}

	categoryOf := func(project string) string { return in.ProjectCategories[project] }
	used := budget.CategoryUsage(snapshot, categoryOf, in.Category, start, end)

	return domain.WindowUsageResult{
		Category: in.Category,
		Window:   in.Window,
		Start:    start,
		End:      end,
		Used:     used,
		Limit:    in.Limit,
		Overtime: budget.IsOvertime(used, in.Limit),
	}, nil
}
