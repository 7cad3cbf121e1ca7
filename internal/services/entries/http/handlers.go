// Package http provides http transport for entries
package http

import (
	stdhttp "net/http"

	"voicelog/internal/core/budget"
	"voicelog/internal/modkit/httpkit"
	"voicelog/internal/services/entries/domain"
	svc "voicelog/internal/services/entries/service"
)

// Register mounts the router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.SubmitRequest](r, "/", h.submit)
	httpkit.PostJSON[domain.ListRequest](r, "/list", h.list)
}

type handlers struct{ svc *svc.Service }

func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitRequest) (any, error) {
	return h.svc.Submit(r.Context(), domain.SubmitInput{
		Entry: domain.TimeEntry{
			Date:        in.Date,
			ProjectName: in.ProjectName,
			Hours:       in.Hours,
			Description: in.Description,
		},
		Mode:  budget.Mode(in.Mode),
		Limit: in.Limit,
	})
}

func (h *handlers) list(r *stdhttp.Request, in domain.ListRequest) (any, error) {
	return h.svc.List(r.Context(), in.From, in.To)
}
