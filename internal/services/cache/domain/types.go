package domain

import "time"

// TTL classes. Listing pages churn as new votes land; detail payloads
// describe historical records that never change once published
const (
	TTLVoteList = 6 * time.Hour
	TTLDetail   = 30 * 24 * time.Hour
)
