// Package domain holds the bill sync types and ports
package domain

import "time"

// Bill is a locally stored bill row. Zero and nil fields mean the feed
// has not supplied them yet; upserts enrich in place
type Bill struct {
	ID                  int64
	LegisinfoID         *int64 `validate:"omitempty,gt=0"`
	Number              string `validate:"required"`
	Session             string `validate:"required"`
	Name                string
	Introduced          *time.Time
	SponsorLegislatorID *int64
	SponsorParty        string
	Law                 bool
	PrivateMember       bool
	Status              string
}

// Sponsorship links a legislator to a bill in a role
type Sponsorship struct {
	LegislatorID int64  `validate:"required,gt=0"`
	BillID       int64  `validate:"required,gt=0"`
	Role         string `validate:"required"`
}

// RoleSponsor is the only role the sync pipeline writes today
const RoleSponsor = "sponsor"
