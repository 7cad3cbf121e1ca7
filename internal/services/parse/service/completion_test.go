package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voicelog/internal/core/locale"
	"voicelog/internal/core/normalize"
	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/timex"
	"voicelog/internal/services/parse/domain"
)

// completionServer fakes the chat-completions endpoint with a canned content body
func completionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newCompletion(t *testing.T, url string) *Completion {
	t.Helper()
	pack, err := locale.Load()
	if err != nil {
		t.Fatalf("locale.Load: %v", err)
	}
	return NewCompletion(CompletionConfig{
		URL:         url,
		Token:       "test-token",
		Model:       "gpt-4o-mini",
		Temperature: 0.1,
		MaxTokens:   300,
		Timeout:     2 * time.Second,
	}, pack, normalize.New())
}

func TestCompletion_Success(t *testing.T) {
	srv := completionServer(t, `{"date":"2024-01-14","project_name":"website","hours":2.5,"description":"homepage copy"}`, http.StatusOK)
	defer srv.Close()

	entry, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text:     "worked two and a half hours on the website",
		Projects: projects("Website", "Support"),
		Locale:   locale.EnUS,
		Now:      testNow,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Exact match is case-insensitive but the canonical casing wins
	if entry.ProjectName != "Website" {
		t.Fatalf("project = %q", entry.ProjectName)
	}
	if entry.Hours != 2.5 || entry.Description != "homepage copy" {
		t.Fatalf("entry = %+v", entry)
	}
	if want := (timex.Date{Year: 2024, Month: time.January, Day: 14}); entry.Date != want {
		t.Fatalf("date = %s", entry.Date)
	}
}

func TestCompletion_JSONWrappedInCommentary(t *testing.T) {
	srv := completionServer(t, "Sure! Here is the extraction:\n```json\n"+
		`{"date":"2024-01-15","project_name":"Support","hours":1,"description":"tickets"}`+
		"\n```\nLet me know if you need anything else.", http.StatusOK)
	defer srv.Close()

	entry, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "an hour of support tickets", Projects: projects("Support"), Locale: locale.EnUS, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry.ProjectName != "Support" || entry.Description != "tickets" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestCompletion_NoJSONInResponse(t *testing.T) {
	srv := completionServer(t, "I could not parse that utterance, sorry.", http.StatusOK)
	defer srv.Close()

	_, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "gibberish", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
	})
	if errors.CodeOf(err) != errors.ErrorCodeParseNoJSON {
		t.Fatalf("err = %v", err)
	}
}

func TestCompletion_MissingFields(t *testing.T) {
	cases := []struct{ name, content string }{
		{"no date", `{"project_name":"Website","hours":2}`},
		{"no project", `{"date":"2024-01-15","hours":2}`},
		{"zero hours", `{"date":"2024-01-15","project_name":"Website","hours":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := completionServer(t, tc.content, http.StatusOK)
			defer srv.Close()

			_, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
				Text: "two hours on website", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
			})
			if errors.CodeOf(err) != errors.ErrorCodeParseMissingField {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestCompletion_UnknownProjectFails(t *testing.T) {
	srv := completionServer(t, `{"date":"2024-01-15","project_name":"Marketing","hours":2}`, http.StatusOK)
	defer srv.Close()

	_, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "two hours on marketing", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
	})
	if errors.CodeOf(err) != errors.ErrorCodeParseNoProjectMatch {
		t.Fatalf("err = %v", err)
	}
}

func TestCompletion_HTTPFailureIsUnreachable(t *testing.T) {
	srv := completionServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	_, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "two hours on website", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
	})
	if errors.CodeOf(err) != errors.ErrorCodeParseServiceUnreachable {
		t.Fatalf("err = %v", err)
	}
}

func TestCompletion_KeywordOverridesServiceDate(t *testing.T) {
	// The service claims an in-window date, but the utterance says yesterday
	srv := completionServer(t, `{"date":"2024-01-12","project_name":"Website","hours":2,"description":"fixes"}`, http.StatusOK)
	defer srv.Close()

	entry, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "2 hours yesterday on website fixes", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := timex.DateOf(testNow.AddDate(0, 0, -1)); entry.Date != want {
		t.Fatalf("date = %s, want keyword override %s", entry.Date, want)
	}
}

func TestCompletion_ImplausibleDateClamps(t *testing.T) {
	srv := completionServer(t, `{"date":"2023-06-01","project_name":"Website","hours":2,"description":"fixes"}`, http.StatusOK)
	defer srv.Close()

	entry, err := newCompletion(t, srv.URL).Parse(context.Background(), domain.ParseInput{
		Text: "2 hours on website fixes", Projects: projects("Website"), Locale: locale.EnUS, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := timex.DateOf(testNow); entry.Date != want {
		t.Fatalf("date = %s, want clamp to %s", entry.Date, want)
	}
}
