package module

import (
	"voicelog/internal/core/budget"
	"voicelog/internal/platform/config"
)

// Options holds configuration settings for the entries module
type Options struct {
	DailyLimit float64
	Mode       budget.Mode
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	bf := cfg.Prefix("CORE_BUDGET_")
	return Options{
		DailyLimit: bf.MayFloat64("DAILY_LIMIT", 8),
		Mode:       budget.Mode(bf.MayEnum("MODE", string(budget.ModeAdvisory), string(budget.ModeAdvisory), string(budget.ModeEnforce))),
	}
}
