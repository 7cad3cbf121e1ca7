// Package api assembles the HTTP API for the application
package api

import (
	"voicelog/internal/platform/config"
	"voicelog/internal/platform/logger"
	phttp "voicelog/internal/platform/net/http"
	"voicelog/internal/platform/store"

	"voicelog/internal/modkit"
	"voicelog/internal/modkit/httpkit"
	"voicelog/internal/modkit/module"

	budgetmod "voicelog/internal/services/budget/module"
	entriesmod "voicelog/internal/services/entries/module"
	parsemod "voicelog/internal/services/parse/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Entries owns storage and the budget policy; budget is an API shell
	// over its usage port
	entries := entriesmod.New(deps)
	usage := module.MustPortsOf[entriesmod.Ports](entries).Budget

	mods := []module.Module{
		parsemod.New(deps),
		entries,
		budgetmod.New(deps, modkit.WithPorts(budgetmod.Ports{Usage: usage})),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})
}
