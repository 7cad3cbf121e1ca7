// voicelog-parse runs the parse pipeline once over a dictated line and prints
// the candidate entry as JSON. Useful for trying rule-table changes without
// the API or a microphone.
//
// Usage:
//
//	VOICELOG_PROJECTS="Website,Customer Support" voicelog-parse 2 hours on website yesterday
package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"voicelog/internal/platform/config"
	"voicelog/internal/platform/logger"
	"voicelog/internal/services/parse/domain"
	parsemod "voicelog/internal/services/parse/module"

	"voicelog/internal/modkit"
	"voicelog/internal/modkit/module"
)

func main() {
	root := config.New()
	l := logger.Get()

	text := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if text == "" {
		l.Fatal().Msg("usage: voicelog-parse <dictated text>")
	}

	var projects []domain.KnownProject
	for _, name := range root.MayCSV("VOICELOG_PROJECTS", nil) {
		projects = append(projects, domain.KnownProject{Name: name})
	}
	if len(projects) == 0 {
		l.Fatal().Msg("VOICELOG_PROJECTS must list at least one project name")
	}

	// The parse module wires the orchestrator; CORE_PARSE_TOKEN decides whether
	// the language service participates
	pm := parsemod.New(modkit.Deps{Cfg: root})
	parser := module.MustPortsOf[parsemod.Ports](pm).Parser

	entry, err := parser.Parse(context.Background(), domain.ParseInput{
		Text:     text,
		Projects: projects,
		Locale:   root.MayString("VOICELOG_LOCALE", "en-US"),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("parse failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entry); err != nil {
		l.Fatal().Err(err).Msg("encode failed")
	}
}
