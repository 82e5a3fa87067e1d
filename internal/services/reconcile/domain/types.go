// Package domain holds the entity reconciliation types and ports
package domain

// LegislatorRef is what the external feed gives us to identify a person
type LegislatorRef struct {
	Name string // display name, may be empty
	Slug string // trailing identifier of the politician URL
}

// Legislator is the locally stored representation
type Legislator struct {
	ID        int64
	Name      string
	FirstName string
	LastName  string
	Slug      string
	Party     string
}
