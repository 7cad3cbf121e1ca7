// Package domain holds the parse pipeline types
package domain

import (
	"time"

	"voicelog/internal/platform/timex"
)

// KnownProject is a project the user may dictate against. Name is canonical
// casing; matching is always case-insensitive against it
type KnownProject struct {
	Name string `json:"name" validate:"required,min=1"`
}

// CandidateEntry is one parsed utterance, not yet persisted. ProjectName always
// equals some KnownProject.Name exactly; hours are strictly positive; the date
// is a real calendar day no further back than the look-back window and never
// in the future
type CandidateEntry struct {
	Date        timex.Date `json:"date"`
	ProjectName string     `json:"project_name"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
}

// ParseInput is one utterance plus the context needed to resolve it
type ParseInput struct {
	Text     string
	Projects []KnownProject
	Locale   string
	// Now anchors relative dates; the zero value means time.Now at call time
	Now time.Time
}

// At returns the reference time for relative-date resolution
func (in ParseInput) At() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}
