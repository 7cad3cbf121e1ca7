// Package temporal resolves calendar dates from dictated work-log text.
// It is pure: callers supply "now" and the compiled locale rules
package temporal

import (
	"strings"
	"time"

	"voicelog/internal/core/locale"
	"voicelog/internal/platform/timex"
)

// DefaultLookBackDays bounds how far in the past a plausible dictated date can sit
const DefaultLookBackDays = 7

// Resolution is the outcome of resolving text against a reference time.
// Token is the exact substring that decided the date, empty when the
// resolver fell through to the default
type Resolution struct {
	Date  timex.Date
	Token string
}

// Resolve finds the calendar date a dictated utterance refers to.
// Precedence, first match wins: today keyword, yesterday keyword,
// an explicit numeric date, then now's date as the default.
// text must already be normalized (case-folded, collapsed whitespace)
func Resolve(text string, rules *locale.Rules, now time.Time) Resolution {
	if kw, ok := rules.TodayKeyword(text); ok {
		return Resolution{Date: timex.DateOf(now), Token: kw}
	}
	if kw, ok := rules.YesterdayKeyword(text); ok {
		return Resolution{Date: timex.DateOf(now.AddDate(0, 0, -1)), Token: kw}
	}
	if d, token, ok := numericDate(text, rules); ok {
		return Resolution{Date: d, Token: token}
	}
	return Resolution{Date: timex.DateOf(now)}
}

// numericDate parses the first D[./-]M[./-]Y-style token. The locale decides
// component order per separator; two-digit years promote to 20YY. An impossible
// calendar date (40/01, 31/02) falls through as a non-match
func numericDate(text string, rules *locale.Rules) (timex.Date, string, bool) {
	first, second, year, sep, token, ok := rules.NumericDate(text)
	if !ok {
		return timex.Date{}, "", false
	}

	day, month := second, first
	if rules.DayFirst(sep) {
		day, month = first, second
	}
	if year < 100 {
		year += 2000
	}

	d, ok := timex.MakeDate(year, month, day)
	if !ok {
		return timex.Date{}, "", false
	}
	return d, token, true
}

// VerifyOptions tunes the plausibility window used by Verify
type VerifyOptions struct {
	// LookBackDays is how many days before now a date may sit; zero means DefaultLookBackDays
	LookBackDays int
}

// Verify re-checks a date produced elsewhere (typically by the language service)
// against the original text. A today/yesterday keyword in the text overrides the
// candidate outright; otherwise a candidate outside [now - lookback, now] is
// treated as implausible for a work-log utterance and clamped to now's date
func Verify(candidate timex.Date, text string, rules *locale.Rules, now time.Time, opt VerifyOptions) timex.Date {
	if _, ok := rules.TodayKeyword(text); ok {
		return timex.DateOf(now)
	}
	if _, ok := rules.YesterdayKeyword(text); ok {
		return timex.DateOf(now.AddDate(0, 0, -1))
	}

	lookback := opt.LookBackDays
	if lookback <= 0 {
		lookback = DefaultLookBackDays
	}

	today := timex.DateOf(now)
	floor := today.AddDays(-lookback)
	if candidate.IsZero() || candidate.Before(floor) || candidate.After(today) {
		return today
	}
	return candidate
}

// StripToken removes the resolved date token from text and tidies the gap it
// leaves behind. A defaulted resolution (empty token) returns text unchanged
func StripToken(text, token string) string {
	if token == "" {
		return text
	}
	out := strings.Replace(text, token, " ", 1)
	return strings.Join(strings.Fields(out), " ")
}
