// Package http provides http transport for budget queries
package http

import (
	stdhttp "net/http"

	"voicelog/internal/core/budget"
	"voicelog/internal/modkit/httpkit"
	entriesdomain "voicelog/internal/services/entries/domain"
)

// Register mounts the router
func Register(r httpkit.Router, usage entriesdomain.BudgetPort) {
	h := &handlers{usage: usage}
	httpkit.PostJSON[entriesdomain.DayUsageRequest](r, "/day", h.day)
	httpkit.PostJSON[entriesdomain.WindowUsageRequest](r, "/window", h.window)
}

type handlers struct{ usage entriesdomain.BudgetPort }

func (h *handlers) day(r *stdhttp.Request, in entriesdomain.DayUsageRequest) (any, error) {
	return h.usage.DayUsage(r.Context(), in.Date, in.Limit)
}

func (h *handlers) window(r *stdhttp.Request, in entriesdomain.WindowUsageRequest) (any, error) {
	return h.usage.WindowUsage(r.Context(), entriesdomain.WindowUsageInput{
		Category:          in.Category,
		Window:            budget.WindowKind(in.Window),
		Date:              in.Date,
		Limit:             in.Limit,
		ProjectCategories: in.ProjectCategories,
	})
}
