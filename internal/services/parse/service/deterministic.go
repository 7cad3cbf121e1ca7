// Package service implements the entry parsers and the parse orchestrator
package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"voicelog/internal/core/locale"
	"voicelog/internal/core/normalize"
	"voicelog/internal/core/temporal"
	"voicelog/internal/platform/errors"
	"voicelog/internal/services/parse/domain"
)

// minDescriptionRunes is the shortest leftover text still worth keeping as a
// description; anything shorter is replaced by the locale placeholder
const minDescriptionRunes = 3

// Deterministic is the offline, rule-table entry parser. It is pure and always
// available; accuracy is traded for not needing the language service
type Deterministic struct {
	pack *locale.Pack
	norm *normalize.Normalizer

	lookBackDays int
}

// NewDeterministic constructs the deterministic parser over the compiled
// locale pack. lookBackDays <= 0 uses the resolver default
func NewDeterministic(pack *locale.Pack, norm *normalize.Normalizer, lookBackDays int) *Deterministic {
	return &Deterministic{pack: pack, norm: norm, lookBackDays: lookBackDays}
}

// Parse extracts a candidate entry from dictated text using keyword tables and
// substring project matching. It fails closed when no known project is
// mentioned; it never invents an entry against an arbitrary project
func (p *Deterministic) Parse(_ context.Context, in domain.ParseInput) (domain.CandidateEntry, error) {
	text := p.norm.Normalize(in.Text)
	if text == "" {
		return domain.CandidateEntry{}, errors.Unrecognizablef("empty utterance")
	}
	if len(in.Projects) == 0 {
		return domain.CandidateEntry{}, errors.NoProjectMatchf("no known projects configured")
	}

	rules := p.pack.Rules(in.Locale)
	now := in.At()

	res := temporal.Resolve(text, rules, now)
	date := temporal.Verify(res.Date, text, rules, now, temporal.VerifyOptions{LookBackDays: p.lookBackDays})

	// Strip the date token before hunting numbers so a numeric date is never
	// mistaken for an hour count
	rest := temporal.StripToken(text, res.Token)

	hours, hourExpr := extractHours(rules, rest)
	rest = temporal.StripToken(rest, hourExpr)

	project, matched := matchProject(p.norm, text, in.Projects)
	if project == "" {
		return domain.CandidateEntry{}, errors.NoProjectMatchf("no known project mentioned in %q", in.Text)
	}
	rest = temporal.StripToken(rest, matched)

	desc := trimConnectors(rest, rules)
	if utf8.RuneCountInString(desc) < minDescriptionRunes {
		desc = rules.Placeholder(project)
	}

	return domain.CandidateEntry{
		Date:        date,
		ProjectName: project,
		Hours:       hours,
		Description: desc,
	}, nil
}

// extractHours finds a unit-qualified hour count, falls back to the first bare
// number, and defaults to 1. It never yields hours <= 0
func extractHours(rules *locale.Rules, text string) (float64, string) {
	num, expr, ok := rules.HourExpr(text)
	if !ok {
		num, ok = rules.BareNumber(text)
		expr = num
	}
	if !ok {
		return 1, ""
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil || v <= 0 {
		return 1, ""
	}
	return v, expr
}

// matchProject picks the known project whose name occurs in the normalized
// text, preferring the longest name so "website redesign" beats "website".
// Returns the canonical name and the normalized form that matched
func matchProject(norm *normalize.Normalizer, text string, projects []domain.KnownProject) (canonical, matched string) {
	for _, p := range projects {
		np := norm.Normalize(p.Name)
		if np == "" || !strings.Contains(text, np) {
			continue
		}
		if utf8.RuneCountInString(np) > utf8.RuneCountInString(matched) {
			canonical, matched = p.Name, np
		}
	}
	return canonical, matched
}

// trimConnectors drops locale filler words (on, for, на, над, ...) left
// dangling at the edges after token stripping
func trimConnectors(text string, rules *locale.Rules) string {
	fields := strings.Fields(text)
	for len(fields) > 0 {
		if _, ok := rules.Connectors[fields[0]]; !ok {
			break
		}
		fields = fields[1:]
	}
	for len(fields) > 0 {
		if _, ok := rules.Connectors[fields[len(fields)-1]]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}
