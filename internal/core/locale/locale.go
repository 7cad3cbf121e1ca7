// Package locale loads and compiles per-locale parsing rules from the embedded locales.json.
// It prepares keyword sets and hour-expression regexes for the temporal resolver and the
// deterministic entry parser
package locale

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed locales.json
var embedded []byte

// Supported locale tags
const (
	EnUS = "en-US"
	UkUA = "uk-UA"
)

// DefaultTag is the locale used when a requested tag is unknown
const DefaultTag = EnUS

type rawLocale struct {
	Tag                string   `json:"tag"`
	Today              []string `json:"today"`
	Yesterday          []string `json:"yesterday"`
	HourUnits          []string `json:"hour_units"`
	Connectors         []string `json:"connectors"`
	DayFirstSeparators []string `json:"day_first_separators"`
	Placeholder        string   `json:"placeholder"`
}

type rawPack struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta"`
	Locales []rawLocale    `json:"locales"`
}

// Rules holds the compiled tables for a single locale
type Rules struct {
	Tag string

	// Keyword sets, lowercased
	Today     []string
	Yesterday []string

	// Hour unit tokens, longest first
	HourUnits []string

	// Filler words trimmed from the edges of a stripped description
	Connectors map[string]struct{}

	// Numeric-date separators that flip component order to day-first
	dayFirstSeps map[string]struct{}

	// Description placeholder with a single %s for the project name
	placeholder string

	hourRe *regexp.Regexp
}

// Pack represents the compiled locale tables
type Pack struct {
	Version int
	Meta    map[string]any

	byTag map[string]*Rules
}

// numericDateRe matches d/m/y-ish tokens with ./-/ separators; component order is locale-dependent
var numericDateRe = regexp.MustCompile(`(\d{1,2})([./-])(\d{1,2})[./-](\d{2,4})`)

// bareNumberRe matches a standalone number with an optional decimal part (dot or comma)
var bareNumberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Load returns the compiled pack from the embedded locales.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("locale: parse locales.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("locale: unsupported locales.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version: rp.Version,
		Meta:    rp.Meta,
		byTag:   make(map[string]*Rules, len(rp.Locales)),
	}

	for _, rl := range rp.Locales {
		tag := strings.TrimSpace(rl.Tag)
		if tag == "" {
			return nil, fmt.Errorf("locale: locale with empty tag")
		}
		r := &Rules{
			Tag:          tag,
			Today:        lowerAll(rl.Today),
			Yesterday:    lowerAll(rl.Yesterday),
			HourUnits:    lowerAll(rl.HourUnits),
			Connectors:   toSet(rl.Connectors),
			dayFirstSeps: toSet(rl.DayFirstSeparators),
			placeholder:  rl.Placeholder,
		}
		if len(r.Today) == 0 || len(r.Yesterday) == 0 || len(r.HourUnits) == 0 {
			return nil, fmt.Errorf("locale: %s: keyword tables must be non-empty", tag)
		}
		if !strings.Contains(r.placeholder, "%s") {
			return nil, fmt.Errorf("locale: %s: placeholder must contain %%s", tag)
		}

		// Longest-first so "hours" wins over "h" and "години" over "год"
		sort.Slice(r.HourUnits, func(i, j int) bool { return len(r.HourUnits[i]) > len(r.HourUnits[j]) })

		re, err := compileHourRe(r.HourUnits)
		if err != nil {
			return nil, fmt.Errorf("locale: %s: %w", tag, err)
		}
		r.hourRe = re
		p.byTag[tag] = r
	}

	if _, ok := p.byTag[DefaultTag]; !ok {
		return nil, fmt.Errorf("locale: default tag %s missing from locales.json", DefaultTag)
	}
	return p, nil
}

// compileHourRe builds "<number> <unit>" with the unit anchored at a non-letter boundary.
// \b is ASCII-only in Go regexp, so Cyrillic units use an explicit letter-class guard
func compileHourRe(units []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(units))
	for _, u := range units {
		quoted = append(quoted, regexp.QuoteMeta(u))
	}
	src := `((\d+(?:[.,]\d+)?)\s*(?:` + strings.Join(quoted, "|") + `))(?:$|[^\p{L}\p{N}])`
	return regexp.Compile(src)
}

// Rules returns the compiled rules for tag, falling back to the default locale
// for unknown tags
func (p *Pack) Rules(tag string) *Rules {
	if r, ok := p.byTag[tag]; ok {
		return r
	}
	return p.byTag[DefaultTag]
}

// Known reports whether tag is one of the compiled locales
func (p *Pack) Known(tag string) bool {
	_, ok := p.byTag[tag]
	return ok
}

// Tags lists the compiled locale tags in stable order
func (p *Pack) Tags() []string {
	out := make([]string, 0, len(p.byTag))
	for t := range p.byTag {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HourExpr finds the first "<number> <unit>" expression in normalized text.
// Returns the numeric token and the full matched expression
func (r *Rules) HourExpr(text string) (num, matched string, ok bool) {
	m := r.hourRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[2], m[1], true
}

// BareNumber finds the first standalone numeric token in normalized text
func (r *Rules) BareNumber(text string) (string, bool) {
	m := bareNumberRe.FindString(text)
	return m, m != ""
}

// NumericDate finds the first numeric date token. Returns raw components
// (first, second, year), the separator, and the full matched token
func (r *Rules) NumericDate(text string) (first, second, year int, sep, matched string, ok bool) {
	m := numericDateRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, 0, "", "", false
	}
	// regex groups are all-digit, Atoi cannot fail
	first = mustAtoi(m[1])
	second = mustAtoi(m[3])
	year = mustAtoi(m[4])
	return first, second, year, m[2], m[0], true
}

// DayFirst reports whether a numeric date with the given separator reads day-first
// in this locale
func (r *Rules) DayFirst(sep string) bool {
	_, ok := r.dayFirstSeps[sep]
	return ok
}

// Placeholder renders the fallback description for project
func (r *Rules) Placeholder(project string) string {
	return fmt.Sprintf(r.placeholder, project)
}

// TodayKeyword returns the first today-keyword found in normalized text
func (r *Rules) TodayKeyword(text string) (string, bool) { return firstWord(text, r.Today) }

// YesterdayKeyword returns the first yesterday-keyword found in normalized text
func (r *Rules) YesterdayKeyword(text string) (string, bool) { return firstWord(text, r.Yesterday) }

// firstWord returns the first keyword present in text as a whole word
func firstWord(text string, kws []string) (string, bool) {
	for _, kw := range kws {
		if containsWord(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// containsWord reports whether kw occurs in text bounded by non-letter runes
func containsWord(text, kw string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		if letterBefore(text, i) || letterAfter(text, i+len(kw)) {
			start = i + len(kw)
			continue
		}
		return true
	}
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}

func mustAtoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
