// Package domain holds the sync run ledger types and ports
package domain

// RunStats counts record outcomes for one stage of a run
type RunStats struct {
	Inserted int
	Updated  int
	Skipped  int
	Erred    int
}

// Add folds another stat block into this one
func (s *RunStats) Add(o RunStats) {
	s.Inserted += o.Inserted
	s.Updated += o.Updated
	s.Skipped += o.Skipped
	s.Erred += o.Erred
}

// Total is the number of records the stage touched
func (s RunStats) Total() int { return s.Inserted + s.Updated + s.Skipped + s.Erred }
