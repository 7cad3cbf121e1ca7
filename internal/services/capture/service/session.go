// Package service implements the speech capture session state machine
package service

import (
	"sync"

	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/logger"
	"voicelog/internal/services/capture/domain"
)

// Session owns at most one open device session and exposes the transcript
// buffer plus the lifecycle state. All methods are safe for concurrent use.
// Device callbacks may fire synchronously from Stop/Abort, so the session
// never calls into the device while holding its own lock
type Session struct {
	dev domain.DevicePort
	log *logger.Logger

	mu         sync.Mutex
	gen        uint64 // bumped on every open/teardown; stale callbacks are dropped
	cur        domain.DeviceSession
	state      domain.State
	locale     string
	transcript string
	interim    string
	lastErr    error
}

// NewSession constructs an inactive capture session over dev
func NewSession(dev domain.DevicePort) *Session {
	return &Session{
		dev:   dev,
		log:   logger.Named("capture"),
		state: domain.StateInactive,
	}
}

// Start opens a device session for locale and begins listening.
// Already listening with the same locale is a no-op. A locale change while
// listening tears the old session down first; two device sessions are never
// open at once. Start clears the previous transcript buffer
func (s *Session) Start(locale string) error {
	s.mu.Lock()
	if s.state == domain.StateListening && s.locale == locale {
		s.mu.Unlock()
		return nil
	}
	old := s.cur
	s.cur = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if old != nil {
		old.Abort()
	}

	cb := domain.DeviceCallbacks{
		OnResult: func(res domain.Result) { s.onResult(gen, res) },
		OnError:  func(err error) { s.onError(gen, err) },
		OnEnd:    func() { s.onEnd(gen) },
	}
	sess, err := s.dev.Open(domain.DeviceConfig{
		Locale:         locale,
		Continuous:     true,
		InterimResults: true,
	}, cb)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A competing Start won; close the session we just opened
		if sess != nil {
			go sess.Abort()
		}
		return nil
	}
	if err != nil {
		s.state = domain.StateError
		s.lastErr = categorize(err)
		s.log.Warn().Err(err).Str("locale", locale).Msg("device open failed")
		return s.lastErr
	}
	s.cur = sess
	s.state = domain.StateListening
	s.locale = locale
	s.transcript = ""
	s.interim = ""
	s.lastErr = nil
	return nil
}

// Stop asks the device to finalize the current utterance. The session sits in
// processing until the final result (or the end event) arrives, then returns
// to inactive. Calling Stop with nothing pending just flushes what exists
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != domain.StateListening || s.cur == nil {
		s.mu.Unlock()
		return
	}
	s.state = domain.StateProcessing
	cur := s.cur
	s.mu.Unlock()

	cur.Stop()
}

// Abort tears down any open device session and discards the in-progress
// transcript. Safe to call in any state
func (s *Session) Abort() {
	s.mu.Lock()
	old := s.cur
	s.cur = nil
	s.gen++
	s.state = domain.StateInactive
	s.transcript = ""
	s.interim = ""
	s.mu.Unlock()

	if old != nil {
		old.Abort()
	}
}

// State returns the current lifecycle state
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the finalized transcript buffer and the locale it was
// captured under. Interim text is never included
func (s *Session) Transcript() (text, locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript, s.locale
}

// Snapshot returns the full observable view in one take
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		State:      s.state,
		Locale:     s.locale,
		Transcript: s.transcript,
		Interim:    s.interim,
	}
}

// Err returns the last device error observed; cleared on the next successful Start
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) onResult(gen uint64, res domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if !res.Final {
		s.interim = res.Text
		return
	}
	s.transcript = res.Text
	s.interim = ""
	if s.state == domain.StateProcessing {
		s.state = domain.StateInactive
	}
}

func (s *Session) onError(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.state = domain.StateError
	s.lastErr = categorize(err)
	s.log.Warn().Err(err).Str("locale", s.locale).Msg("device session error")
}

// onEnd is the device's own end event; the session auto-recovers to inactive
// from processing and error states here
func (s *Session) onEnd(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.cur = nil
	if s.state != domain.StateInactive {
		s.state = domain.StateInactive
	}
}

// categorize maps raw device failures onto the capture error taxonomy.
// Errors already carrying a capture code pass through untouched
func categorize(err error) error {
	if errors.IsCapture(err) {
		return err
	}
	return errors.Wrap(err, errors.ErrorCodeCaptureTransport, "device session failed")
}
