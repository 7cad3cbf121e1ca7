package service

import (
	"context"
	"sync"
	"testing"

	"voicelog/internal/core/locale"
	"voicelog/internal/platform/errors"
	"voicelog/internal/services/parse/domain"
)

// stubParser counts calls and returns a canned result or error
type stubParser struct {
	mu      sync.Mutex
	calls   int
	entry   domain.CandidateEntry
	err     error
	started chan struct{} // closed on first call when set
	release chan struct{} // blocks the call until closed when set
}

func (s *stubParser) Parse(_ context.Context, _ domain.ParseInput) (domain.CandidateEntry, error) {
	s.mu.Lock()
	s.calls++
	started := s.started
	s.started = nil
	s.mu.Unlock()
	if started != nil {
		close(started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.entry, s.err
}

func (s *stubParser) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var okEntry = domain.CandidateEntry{ProjectName: "Website", Hours: 2, Description: "fixes"}

func input() domain.ParseInput {
	return domain.ParseInput{Text: "2 hours on website", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow}
}

func TestOrchestrator_NoCredentialSkipsService(t *testing.T) {
	det := &stubParser{entry: okEntry}
	o := NewOrchestrator(nil, det)

	entry, err := o.Parse(context.Background(), input())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry != okEntry {
		t.Fatalf("entry = %+v", entry)
	}
	if det.callCount() != 1 {
		t.Fatalf("deterministic calls = %d", det.callCount())
	}
}

func TestOrchestrator_PrimarySuccessSkipsFallback(t *testing.T) {
	primary := &stubParser{entry: okEntry}
	det := &stubParser{}
	o := NewOrchestrator(primary, det)

	if _, err := o.Parse(context.Background(), input()); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if det.callCount() != 0 {
		t.Fatal("fallback ran despite primary success")
	}
}

func TestOrchestrator_PrimaryFailureFallsBack(t *testing.T) {
	primary := &stubParser{err: errors.Newf(errors.ErrorCodeParseNoJSON, "no JSON object in completion content")}
	det := &stubParser{entry: okEntry}
	o := NewOrchestrator(primary, det)

	entry, err := o.Parse(context.Background(), input())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry != okEntry {
		t.Fatalf("entry = %+v", entry)
	}
	if primary.callCount() != 1 || det.callCount() != 1 {
		t.Fatalf("calls = (%d, %d)", primary.callCount(), det.callCount())
	}
}

func TestOrchestrator_BothPathsFailing(t *testing.T) {
	primary := &stubParser{err: errors.Newf(errors.ErrorCodeParseServiceUnreachable, "completion service returned 502")}
	det := &stubParser{err: errors.NoProjectMatchf("no known project mentioned")}
	o := NewOrchestrator(primary, det)

	_, err := o.Parse(context.Background(), input())
	if !errors.IsParseFailure(err) {
		t.Fatalf("err = %v", err)
	}
	if errors.CodeOf(err) != errors.ErrorCodeParseNoProjectMatch {
		t.Fatalf("fallback error not surfaced: %v", err)
	}
}

func TestOrchestrator_OneInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	det := &stubParser{entry: okEntry, release: release, started: started}
	o := NewOrchestrator(nil, det)

	done := make(chan error, 1)
	go func() {
		_, err := o.Parse(context.Background(), input())
		done <- err
	}()
	<-started

	// A second parse while one is in flight is refused, not queued
	if _, err := o.Parse(context.Background(), input()); errors.CodeOf(err) != errors.ErrorCodeUnavailable {
		t.Fatalf("concurrent parse err = %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first parse: %v", err)
	}

	// The guard clears once the first parse finishes
	det.release = nil
	if _, err := o.Parse(context.Background(), input()); err != nil {
		t.Fatalf("follow-up parse: %v", err)
	}
}
