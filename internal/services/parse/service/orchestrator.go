package service

import (
	"context"
	"sync/atomic"

	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/logger"
	"voicelog/internal/services/parse/domain"
)

// Orchestrator runs the two-path parse: the language service when configured,
// with the deterministic parser as the always-available fallback. Parsing is
// strictly one-in-flight to stop a duplicated stop+final event race from
// double-submitting the same utterance
type Orchestrator struct {
	primary  domain.EntryParser // nil when no service credential is configured
	fallback domain.EntryParser
	log      *logger.Logger

	busy atomic.Bool
}

// NewOrchestrator wires the orchestrator. primary may be nil, which pins the
// pipeline to deterministic-only mode
func NewOrchestrator(primary, fallback domain.EntryParser) *Orchestrator {
	if fallback == nil {
		panic("parse orchestrator: fallback parser is required")
	}
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		log:      logger.Named("parse"),
	}
}

// Parse resolves one utterance into a candidate entry. Language-service
// failures are logged and absorbed by falling back; only fallback failures
// surface, always as parse-failure values
func (o *Orchestrator) Parse(ctx context.Context, in domain.ParseInput) (domain.CandidateEntry, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return domain.CandidateEntry{}, errors.Unavailablef("a parse is already in flight")
	}
	defer o.busy.Store(false)

	if o.primary != nil {
		entry, err := o.primary.Parse(ctx, in)
		if err == nil {
			return entry, nil
		}
		if ctx.Err() != nil {
			return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseServiceUnreachable, "parse cancelled")
		}
		o.log.Warn().Err(err).Str("locale", in.Locale).Msg("language service parse failed; falling back")
	}

	entry, err := o.fallback.Parse(ctx, in)
	if err != nil {
		if errors.IsParseFailure(err) {
			return domain.CandidateEntry{}, err
		}
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseUnrecognizable, "could not understand utterance")
	}
	return entry, nil
}
