package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestCodeOfAndWrap(t *testing.T) {
	base := New(ErrorCodeNotFound, "missing")
	if CodeOf(base) != ErrorCodeNotFound {
		t.Fatalf("CodeOf = %v", CodeOf(base))
	}

	wrapped := Wrap(base, ErrorCodeDB, "query failed")
	if CodeOf(wrapped) != ErrorCodeDB {
		t.Fatalf("wrapped CodeOf = %v", CodeOf(wrapped))
	}
	if !stderrors.Is(wrapped, base) {
		t.Fatal("Unwrap chain broken")
	}
	if Root(wrapped) != base {
		t.Fatalf("Root = %v", Root(wrapped))
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	if CodeOf(stderrors.New("plain")) != ErrorCodeUnknown {
		t.Fatal("plain errors should map to unknown")
	}
}

func TestReasonSlugs(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeCaptureUnsupported, "unsupported"},
		{ErrorCodeCapturePermission, "permission-denied"},
		{ErrorCodeCaptureNoSpeech, "no-speech"},
		{ErrorCodeCaptureTransport, "transport"},
		{ErrorCodeCaptureAborted, "aborted"},
		{ErrorCodeParseNoProjectMatch, "no-project-match"},
		{ErrorCodeParseNoJSON, "no-json-in-response"},
		{ErrorCodeParseMissingField, "missing-field"},
		{ErrorCodeParseServiceUnreachable, "service-unreachable"},
		{ErrorCodeParseUnrecognizable, "unrecognizable-text"},
		{ErrorCodeBudgetViolation, "budget-violation"},
	}
	for _, tc := range cases {
		if got := Reason(tc.code); got != tc.want {
			t.Fatalf("Reason(%v) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestTaxonomyPredicates(t *testing.T) {
	if !IsCapture(New(ErrorCodeCaptureNoSpeech, "x")) {
		t.Fatal("capture code not recognized")
	}
	if IsCapture(New(ErrorCodeParseNoJSON, "x")) {
		t.Fatal("parse code misread as capture")
	}
	if !IsParseFailure(NoProjectMatchf("x")) {
		t.Fatal("parse failure not recognized")
	}
	if IsParseFailure(BudgetViolationf("x")) {
		t.Fatal("budget violation misread as parse failure")
	}
}

func TestWireCarriesReason(t *testing.T) {
	w := WireFrom(NoProjectMatchf("no project in %q", "utterance"))
	if w.Reason != "no-project-match" {
		t.Fatalf("wire reason = %q", w.Reason)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFoundf("x"), http.StatusNotFound},
		{InvalidArgf("x"), http.StatusUnprocessableEntity},
		{JSONErrf("x"), http.StatusBadRequest},
		{NoProjectMatchf("x"), http.StatusUnprocessableEntity},
		{Newf(ErrorCodeParseServiceUnreachable, "x"), http.StatusServiceUnavailable},
		{BudgetViolationf("x"), http.StatusConflict},
		{Internalf("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWithFieldAndOp(t *testing.T) {
	err := WithOp(WithField(InvalidArgf("bad hours"), "hours"), "entries.submit")
	e, ok := As(err)
	if !ok {
		t.Fatal("As failed")
	}
	if e.Field() != "hours" || e.Op() != "entries.submit" {
		t.Fatalf("field/op = %q/%q", e.Field(), e.Op())
	}
}
