package service

import (
	"testing"

	"voicelog/internal/platform/errors"
	"voicelog/internal/services/capture/domain"
)

// fakeDevice records opened sessions and lets tests drive callbacks by hand
type fakeDevice struct {
	openErr  error
	sessions []*fakeSession
}

type fakeSession struct {
	cfg     domain.DeviceConfig
	cb      domain.DeviceCallbacks
	stopped bool
	aborted bool

	// finalOnStop, when set, is emitted as the final result inside Stop
	finalOnStop string
}

func (d *fakeDevice) Open(cfg domain.DeviceConfig, cb domain.DeviceCallbacks) (domain.DeviceSession, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	fs := &fakeSession{cfg: cfg, cb: cb}
	d.sessions = append(d.sessions, fs)
	return fs, nil
}

func (s *fakeSession) Stop() {
	s.stopped = true
	if s.finalOnStop != "" {
		s.cb.OnResult(domain.Result{Text: s.finalOnStop, Final: true})
	}
	s.cb.OnEnd()
}

func (s *fakeSession) Abort() {
	s.aborted = true
	s.cb.OnEnd()
}

func (d *fakeDevice) last(t *testing.T) *fakeSession {
	t.Helper()
	if len(d.sessions) == 0 {
		t.Fatal("no device session opened")
	}
	return d.sessions[len(d.sessions)-1]
}

func TestSession_StartListens(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)

	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := s.State(); got != domain.StateListening {
		t.Fatalf("state = %s", got)
	}
	fs := dev.last(t)
	if !fs.cfg.Continuous || !fs.cfg.InterimResults || fs.cfg.Locale != "en-US" {
		t.Fatalf("device config = %+v", fs.cfg)
	}
}

func TestSession_StartWhileListeningSameLocaleIsNoop(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if len(dev.sessions) != 1 {
		t.Fatalf("opened %d sessions, want 1", len(dev.sessions))
	}
}

func TestSession_LocaleChangeRebuildsSession(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	first := dev.last(t)
	if err := s.Start("uk-UA"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !first.aborted {
		t.Fatal("old session not torn down before rebuild")
	}
	if len(dev.sessions) != 2 {
		t.Fatalf("opened %d sessions, want 2", len(dev.sessions))
	}
	if dev.last(t).cfg.Locale != "uk-UA" {
		t.Fatalf("new session locale = %s", dev.last(t).cfg.Locale)
	}
	if got := s.State(); got != domain.StateListening {
		t.Fatalf("state after rebuild = %s", got)
	}
}

func TestSession_InterimNeverOverwritesTranscript(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fs := dev.last(t)

	fs.cb.OnResult(domain.Result{Text: "two hou", Final: false})
	if text, _ := s.Transcript(); text != "" {
		t.Fatalf("interim leaked into transcript: %q", text)
	}
	if snap := s.Snapshot(); snap.Interim != "two hou" {
		t.Fatalf("interim buffer = %q", snap.Interim)
	}

	fs.cb.OnResult(domain.Result{Text: "two hours on website", Final: true})
	text, loc := s.Transcript()
	if text != "two hours on website" || loc != "en-US" {
		t.Fatalf("transcript = (%q, %q)", text, loc)
	}
	if snap := s.Snapshot(); snap.Interim != "" {
		t.Fatalf("interim not cleared after final: %q", snap.Interim)
	}
}

func TestSession_StopWaitsForFinal(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dev.last(t).finalOnStop = "three hours yesterday"

	s.Stop()
	if got := s.State(); got != domain.StateInactive {
		t.Fatalf("state after stop = %s", got)
	}
	if text, _ := s.Transcript(); text != "three hours yesterday" {
		t.Fatalf("transcript = %q", text)
	}
}

func TestSession_StopWithNothingPendingFlushes(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fs := dev.last(t)
	fs.cb.OnResult(domain.Result{Text: "logged support work", Final: true})

	// No final result arrives inside Stop; the end event flushes to inactive
	s.Stop()
	if got := s.State(); got != domain.StateInactive {
		t.Fatalf("state = %s", got)
	}
	if text, _ := s.Transcript(); text != "logged support work" {
		t.Fatalf("transcript lost on flush: %q", text)
	}
}

func TestSession_StopWhenInactiveIsNoop(t *testing.T) {
	s := NewSession(&fakeDevice{})
	s.Stop() // must not panic or change state
	if got := s.State(); got != domain.StateInactive {
		t.Fatalf("state = %s", got)
	}
}

func TestSession_OpenFailureIsCaptureError(t *testing.T) {
	dev := &fakeDevice{openErr: errors.New(errors.ErrorCodeCaptureUnsupported, "no speech capture on device")}
	s := NewSession(dev)

	err := s.Start("en-US")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCapture(err) || errors.CodeOf(err) != errors.ErrorCodeCaptureUnsupported {
		t.Fatalf("err = %v", err)
	}
	if got := s.State(); got != domain.StateError {
		t.Fatalf("state = %s", got)
	}
}

func TestSession_DeviceErrorThenAutoRecover(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fs := dev.last(t)

	fs.cb.OnError(errors.New(errors.ErrorCodeCaptureNoSpeech, "no speech detected"))
	if got := s.State(); got != domain.StateError {
		t.Fatalf("state = %s", got)
	}
	if errors.CodeOf(s.Err()) != errors.ErrorCodeCaptureNoSpeech {
		t.Fatalf("err = %v", s.Err())
	}

	// The device's own end event recovers the session
	fs.cb.OnEnd()
	if got := s.State(); got != domain.StateInactive {
		t.Fatalf("state after end = %s", got)
	}

	// And a retry works
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("retry Start: %v", err)
	}
	if got := s.State(); got != domain.StateListening {
		t.Fatalf("state after retry = %s", got)
	}
	if s.Err() != nil {
		t.Fatalf("stale error survived restart: %v", s.Err())
	}
}

func TestSession_UncategorizedErrorBecomesTransport(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dev.last(t).cb.OnError(errors.Newf(errors.ErrorCodeUnknown, "socket closed"))
	if errors.CodeOf(s.Err()) != errors.ErrorCodeCaptureTransport {
		t.Fatalf("err = %v", s.Err())
	}
}

func TestSession_AbortDiscards(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Start("en-US"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fs := dev.last(t)
	fs.cb.OnResult(domain.Result{Text: "half an entry", Final: true})

	s.Abort()
	if !fs.aborted {
		t.Fatal("device session not aborted")
	}
	if got := s.State(); got != domain.StateInactive {
		t.Fatalf("state = %s", got)
	}
	if text, _ := s.Transcript(); text != "" {
		t.Fatalf("transcript survived abort: %q", text)
	}
}
