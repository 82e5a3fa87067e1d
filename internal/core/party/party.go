// Package party provides the canonical party enumeration and one
// normalization function that every comparison site goes through.
// Feeds on loose strings from the external feed ("NDP", "New Democratic
// Party", "Bloc Québécois", "Green Party of Canada") and local rows alike
package party

import "strings"

// Party is a canonical party identity
type Party string

// Canonical parties. Unknown covers independents and anything the
// normalizer does not recognize
const (
	Liberal      Party = "liberal"
	Conservative Party = "conservative"
	NDP          Party = "ndp"
	Bloc         Party = "bloc"
	Green        Party = "green"
	Unknown      Party = "unknown"
)

// String returns the canonical lowercase name
func (p Party) String() string { return string(p) }

// Known reports whether p is one of the recognized parties
func (p Party) Known() bool { return p != Unknown && p != "" }

// Normalize maps a free-form party label to its canonical Party.
// Matching is substring based over a folded form so feed variants and
// local spellings land on the same value
func Normalize(s string) Party {
	f := fold(s)
	switch {
	case strings.Contains(f, "liberal"):
		return Liberal
	case strings.Contains(f, "conservative"):
		return Conservative
	case strings.Contains(f, "ndp"), strings.Contains(f, "new democratic"):
		return NDP
	case strings.Contains(f, "bloc"), strings.Contains(f, "quebecois"):
		return Bloc
	case strings.Contains(f, "green"):
		return Green
	default:
		return Unknown
	}
}

// Same reports whether two loose labels normalize to the same known party.
// Two Unknowns never match; that would turn every independent into a bloc
func Same(a, b string) bool {
	pa, pb := Normalize(a), Normalize(b)
	return pa.Known() && pa == pb
}

// fold lowercases and strips the accents that show up in feed party names
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer("é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c")
	return r.Replace(s)
}
