package domain

import "context"

// EntryParser turns one utterance into a candidate entry. Implementations
// return taxonomy errors (parse-failure codes), never panic, and never retry
type EntryParser interface {
	Parse(ctx context.Context, in ParseInput) (CandidateEntry, error)
}

// ParserPort is the orchestrated parse surface other modules consume
type ParserPort interface {
	EntryParser
}
