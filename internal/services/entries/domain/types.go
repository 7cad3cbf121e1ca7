// Package domain holds the persisted time-entry types and budget surfaces
package domain

import (
	"time"

	"voicelog/internal/core/budget"
	"voicelog/internal/platform/timex"
)

// TimeEntry is a persisted work-log entry. ID is assigned on save
type TimeEntry struct {
	ID          string     `json:"id,omitempty"`
	Date        timex.Date `json:"date"`
	ProjectName string     `json:"project_name"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
}

// BudgetEntry adapts a TimeEntry to the budget engine's view
func (e TimeEntry) BudgetEntry() budget.Entry {
	return budget.Entry{Date: e.Date, Project: e.ProjectName, Hours: e.Hours}
}

// BudgetNotice surfaces what the budget policy did to a submission
type BudgetNotice struct {
	// Kind is "capped" in enforce mode, "overtime" in advisory mode
	Kind           string  `json:"kind"`
	Message        string  `json:"message"`
	RequestedHours float64 `json:"requested_hours"`
	AcceptedHours  float64 `json:"accepted_hours"`
	Overage        float64 `json:"overage,omitempty"`
}

// SubmitResult is the outcome of accepting one entry
type SubmitResult struct {
	Entry  TimeEntry     `json:"entry"`
	Notice *BudgetNotice `json:"notice,omitempty"`
}

// UsageResult reports one day's budget position
type UsageResult struct {
	Date      timex.Date `json:"date"`
	Used      float64    `json:"used"`
	Limit     float64    `json:"limit"`
	Remaining float64    `json:"remaining"`
	Overtime  bool       `json:"overtime"`
}

// WindowUsageResult reports a category's position inside a week/month window
type WindowUsageResult struct {
	Category string            `json:"category"`
	Window   budget.WindowKind `json:"window"`
	Start    timex.Date        `json:"start"`
	End      timex.Date        `json:"end"`
	Used     float64           `json:"used"`
	Limit    float64           `json:"limit"`
	Overtime bool              `json:"overtime"`
}
