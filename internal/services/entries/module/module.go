// Package module implements the entries module
package module

import (
	"voicelog/internal/modkit"
	"voicelog/internal/modkit/httpkit"
	"voicelog/internal/services/entries/domain"
	entrieshttp "voicelog/internal/services/entries/http"
	"voicelog/internal/services/entries/repo"
	"voicelog/internal/services/entries/service"
)

// Ports exposed by the entries module
type Ports struct {
	Writer domain.WriterPort
	Reader domain.ReaderPort
	Budget domain.BudgetPort
}

// Module implements modkit.Module
type Module struct {
	name string

	svc   *service.Service
	ports Ports
}

// New constructs the entries module over the shared Postgres seam
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("entries"),
		modkit.WithPrefix("/entries"),
	}, opts...)...)

	if deps.PG == nil {
		panic("entries module: Postgres store is required")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		DailyLimit: cfg.DailyLimit,
		Mode:       cfg.Mode,
	})

	m := &Module{name: b.Name, svc: svc}
	m.ports = Ports{Writer: svc, Reader: svc, Budget: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, "/entries", nil, func(sub httpkit.Router) {
		entrieshttp.Register(sub, m.svc)
	})
}
