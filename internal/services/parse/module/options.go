package module

import (
	"time"

	"voicelog/internal/platform/config"
)

// Options holds configuration settings for the parse module
type Options struct {
	URL         string
	Token       string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	LookBackDays int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CORE_PARSE_")
	return Options{
		URL:          pf.MayString("URL", "https://api.openai.com/v1/chat/completions"),
		Token:        pf.MayString("TOKEN", ""),
		Model:        pf.MayString("MODEL", "gpt-4o-mini"),
		Temperature:  pf.MayFloat64("TEMPERATURE", 0.1),
		MaxTokens:    pf.MayInt("MAX_TOKENS", 300),
		Timeout:      pf.MayDuration("TIMEOUT", 10*time.Second),
		LookBackDays: pf.MayInt("LOOKBACK_DAYS", 7),
	}
}
