package domain

import (
	"context"

	"voicelog/internal/core/budget"
	"voicelog/internal/platform/timex"
)

// SubmitInput carries a validated candidate into the budget policy + store.
// Mode empty means the configured default; Limit <= 0 means the configured
// daily limit
type SubmitInput struct {
	Entry TimeEntry
	Mode  budget.Mode
	Limit float64
}

// WindowUsageInput asks for a category's usage in the window containing Date.
// ProjectCategories maps project name to category; unlisted projects count as
// uncategorized
type WindowUsageInput struct {
	Category          string
	Window            budget.WindowKind
	Date              timex.Date
	Limit             float64
	ProjectCategories map[string]string
}

// WriterPort accepts validated entries for storage
type WriterPort interface {
	Submit(ctx context.Context, in SubmitInput) (SubmitResult, error)
}

// ReaderPort queries stored entries by date range (inclusive)
type ReaderPort interface {
	List(ctx context.Context, from, to timex.Date) ([]TimeEntry, error)
}

// BudgetPort answers budget questions over stored entries
type BudgetPort interface {
	DayUsage(ctx context.Context, date timex.Date, limit float64) (UsageResult, error)
	WindowUsage(ctx context.Context, in WindowUsageInput) (WindowUsageResult, error)
}
