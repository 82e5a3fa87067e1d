package module

import (
	"time"

	"hansard/internal/platform/config"
	"hansard/internal/services/votes/service"
)

// FromConfig reads vote sync tuning with the CORE_VOTES_ prefix
func FromConfig(cfg config.Conf) service.Config {
	v := cfg.Prefix("CORE_VOTES_")
	return service.Config{
		PageLimit:  v.MayInt("PAGE_LIMIT", 100),
		MaxPages:   v.MayInt("MAX_PAGES", 0),
		Workers:    v.MayInt("WORKERS", 4),
		BatchDelay: v.MayDuration("BATCH_DELAY", 250*time.Millisecond),
	}
}
