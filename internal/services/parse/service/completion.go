package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voicelog/internal/core/locale"
	"voicelog/internal/core/normalize"
	"voicelog/internal/core/temporal"
	"voicelog/internal/platform/errors"
	"voicelog/internal/platform/logger"
	"voicelog/internal/platform/timex"
	"voicelog/internal/services/parse/domain"
)

// CompletionConfig configures the language-service parser. An empty Token
// means the service is not configured, which is a valid deployment (the
// orchestrator then runs deterministic-only)
type CompletionConfig struct {
	URL         string
	Token       string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	LookBackDays int
}

// Completion is the language-service entry parser. One outbound request per
// utterance, no retries; every failure becomes a parse-failure value the
// orchestrator can fall back from
type Completion struct {
	cfg  CompletionConfig
	hc   *http.Client
	pack *locale.Pack
	norm *normalize.Normalizer
	log  *logger.Logger
}

// NewCompletion constructs the language-service parser
func NewCompletion(cfg CompletionConfig, pack *locale.Pack, norm *normalize.Normalizer) *Completion {
	return &Completion{
		cfg:  cfg,
		hc:   &http.Client{Timeout: cfg.Timeout},
		pack: pack,
		norm: norm,
		log:  logger.Named("parse.completion"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// extracted is the JSON object the service is instructed to emit
type extracted struct {
	Date        string  `json:"date"`
	ProjectName string  `json:"project_name"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// Parse sends the utterance to the completion service and validates the
// extraction against the known projects and the temporal plausibility rules
func (p *Completion) Parse(ctx context.Context, in domain.ParseInput) (domain.CandidateEntry, error) {
	rules := p.pack.Rules(in.Locale)
	now := in.At()

	body, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: p.prompt(rules, in.Projects, now)},
			{Role: "user", Content: in.Text},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseServiceUnreachable, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseServiceUnreachable, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)

	resp, err := p.hc.Do(req)
	if err != nil {
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseServiceUnreachable, "completion call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseServiceUnreachable,
			"completion service returned %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseNoJSON, "decode completion response")
	}
	if len(cr.Choices) == 0 {
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseNoJSON, "completion response had no choices")
	}

	raw, ok := firstJSONObject(cr.Choices[0].Message.Content)
	if !ok {
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseNoJSON, "no JSON object in completion content")
	}
	var ex extracted
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return domain.CandidateEntry{}, errors.Wrap(err, errors.ErrorCodeParseNoJSON, "malformed extraction object")
	}

	if strings.TrimSpace(ex.Date) == "" {
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseMissingField, "extraction missing date")
	}
	if strings.TrimSpace(ex.ProjectName) == "" {
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseMissingField, "extraction missing project_name")
	}
	if ex.Hours <= 0 {
		return domain.CandidateEntry{}, errors.Newf(errors.ErrorCodeParseMissingField, "extraction missing hours")
	}

	// The service's date is advice, not truth: keywords in the utterance win,
	// and implausible dates clamp to today
	candidate, err := timex.ParseDate(strings.TrimSpace(ex.Date))
	if err != nil {
		candidate = timex.Date{}
	}
	text := p.norm.Normalize(in.Text)
	date := temporal.Verify(candidate, text, rules, now, temporal.VerifyOptions{LookBackDays: p.cfg.LookBackDays})

	project, ok := exactProject(p.norm, ex.ProjectName, in.Projects)
	if !ok {
		return domain.CandidateEntry{}, errors.NoProjectMatchf("language service returned unknown project %q", ex.ProjectName)
	}

	desc := strings.TrimSpace(ex.Description)
	if desc == "" {
		desc = rules.Placeholder(project)
	}

	return domain.CandidateEntry{
		Date:        date,
		ProjectName: project,
		Hours:       ex.Hours,
		Description: desc,
	}, nil
}

// prompt builds the locale-specific extraction instruction. Project names are
// embedded verbatim so the service can be told to match them exactly
func (p *Completion) prompt(rules *locale.Rules, projects []domain.KnownProject, now time.Time) string {
	today := timex.DateOf(now)
	yesterday := today.AddDays(-1)

	var sb strings.Builder
	if rules.Tag == locale.UkUA {
		sb.WriteString("Ти розбираєш надиктовані записи робочого часу.\n")
		fmt.Fprintf(&sb, "Сьогодні %s, вчора було %s.\n", today, yesterday)
		sb.WriteString("Назви проєктів (project_name має збігатися з однією з них дослівно):\n")
	} else {
		sb.WriteString("You extract structured work-log entries from dictated text.\n")
		fmt.Fprintf(&sb, "Today is %s, yesterday was %s.\n", today, yesterday)
		sb.WriteString("Known project names (project_name must match one of these verbatim):\n")
	}
	for _, pr := range projects {
		sb.WriteString("- ")
		sb.WriteString(pr.Name)
		sb.WriteString("\n")
	}
	sb.WriteString(`Return ONLY a JSON object, no commentary:
{"date": "YYYY-MM-DD", "project_name": "...", "hours": 1.5, "description": "..."}`)
	return sb.String()
}

// firstJSONObject returns the first balanced {...} block in s, tolerating the
// service wrapping its JSON in prose. Braces inside JSON strings are skipped
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inStr := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// exactProject resolves name to a known project by case-insensitive exact
// match only; fuzziness is the deterministic parser's job
func exactProject(norm *normalize.Normalizer, name string, projects []domain.KnownProject) (string, bool) {
	want := norm.Normalize(name)
	for _, p := range projects {
		if norm.Normalize(p.Name) == want {
			return p.Name, true
		}
	}
	return "", false
}
