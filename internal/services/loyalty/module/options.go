package module

import (
	"time"

	"hansard/internal/platform/config"
	"hansard/internal/services/loyalty/service"
)

// FromConfig reads loyalty tuning with the CORE_LOYALTY_ prefix
func FromConfig(cfg config.Conf) service.Config {
	l := cfg.Prefix("CORE_LOYALTY_")
	return service.Config{
		TTL: l.MayDuration("TTL", 7*24*time.Hour),
	}
}
