// Package module implements the budget module. It owns no storage of its own;
// the entries module's budget port is injected at wiring time
package module

import (
	"voicelog/internal/modkit"
	"voicelog/internal/modkit/httpkit"
	budgethttp "voicelog/internal/services/budget/http"
	entriesdomain "voicelog/internal/services/entries/domain"
)

// Ports consumed by the budget module
type Ports struct {
	Usage entriesdomain.BudgetPort
}

// Module implements modkit.Module
type Module struct {
	name  string
	ports Ports
}

// New constructs the budget module. Wire it with
// modkit.WithPorts(budget.Ports{Usage: ...})
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("budget"),
		modkit.WithPrefix("/budget"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("budget module: expected WithPorts(budget/module.Ports)")
	}
	if ports.Usage == nil {
		panic("budget module: Ports missing Usage")
	}

	return &Module{name: b.Name, ports: ports}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, "/budget", nil, func(sub httpkit.Router) {
		budgethttp.Register(sub, m.ports.Usage)
	})
}
