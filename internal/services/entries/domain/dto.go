package domain

import "voicelog/internal/platform/timex"

// SubmitRequest is the wire shape for submitting one entry
type SubmitRequest struct {
	Date        timex.Date `json:"date" validate:"required"`
	ProjectName string     `json:"project_name" validate:"required,min=1"`
	Hours       float64    `json:"hours" validate:"required,gt=0"`
	Description string     `json:"description"`
	Mode        string     `json:"mode" validate:"omitempty,oneof=enforce advisory"`
	Limit       float64    `json:"limit" validate:"omitempty,gt=0"`
}

// ListRequest is the wire shape for a date-range query
type ListRequest struct {
	From timex.Date `json:"from" validate:"required"`
	To   timex.Date `json:"to" validate:"required"`
}

// DayUsageRequest asks for one day's budget position
type DayUsageRequest struct {
	Date  timex.Date `json:"date" validate:"required"`
	Limit float64    `json:"limit" validate:"omitempty,gt=0"`
}

// WindowUsageRequest asks for a category's usage in a week/month window
type WindowUsageRequest struct {
	Category          string            `json:"category" validate:"required,min=1"`
	Window            string            `json:"window" validate:"required,oneof=weekly monthly"`
	Date              timex.Date        `json:"date" validate:"required"`
	Limit             float64           `json:"limit" validate:"required,gt=0"`
	ProjectCategories map[string]string `json:"project_categories" validate:"required,min=1"`
}
