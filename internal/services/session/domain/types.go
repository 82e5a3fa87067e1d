// Package domain holds the parliamentary session types and ports
package domain

import "time"

// Session is one parliamentary session ("45-1" style identifier).
// At most one row is current at any time
type Session struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	IsCurrent bool
}
