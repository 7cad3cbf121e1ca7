// Package module implements the parse module
package module

import (
	"voicelog/internal/core/locale"
	"voicelog/internal/core/normalize"
	"voicelog/internal/modkit"
	"voicelog/internal/modkit/httpkit"
	"voicelog/internal/services/parse/domain"
	parsehttp "voicelog/internal/services/parse/http"
	"voicelog/internal/services/parse/service"
)

// Ports exposed by the parse module
type Ports struct {
	Parser domain.ParserPort
}

// Module implements modkit.Module
type Module struct {
	name  string
	ports Ports
}

// New constructs the parse module. With no CORE_PARSE_TOKEN the language
// service is left unwired and parsing runs deterministic-only
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("parse"),
		modkit.WithPrefix("/parse"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	pack, err := locale.Load()
	if err != nil {
		panic(err)
	}
	norm := normalize.New()

	det := service.NewDeterministic(pack, norm, cfg.LookBackDays)

	var primary domain.EntryParser
	if cfg.Token != "" {
		primary = service.NewCompletion(service.CompletionConfig{
			URL:          cfg.URL,
			Token:        cfg.Token,
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			Timeout:      cfg.Timeout,
			LookBackDays: cfg.LookBackDays,
		}, pack, norm)
	}

	m := &Module{name: b.Name}
	m.ports = Ports{Parser: service.NewOrchestrator(primary, det)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, "/parse", nil, func(sub httpkit.Router) {
		parsehttp.Register(sub, m.ports.Parser)
	})
}
