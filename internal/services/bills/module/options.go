package module

import (
	"time"

	"hansard/internal/platform/config"
	"hansard/internal/services/bills/service"
)

// FromConfig reads bill sync tuning with the CORE_BILLS_ prefix
func FromConfig(cfg config.Conf) service.Config {
	b := cfg.Prefix("CORE_BILLS_")
	return service.Config{
		PageLimit:  b.MayInt("PAGE_LIMIT", 100),
		MaxPages:   b.MayInt("MAX_PAGES", 0),
		BatchDelay: b.MayDuration("BATCH_DELAY", 250*time.Millisecond),
	}
}
