package domain

import (
	"context"
	"time"
)

// ReaderPort is the session lookup surface other modules call
type ReaderPort interface {
	// Current returns the current session; ok is false when none is marked
	Current(ctx context.Context) (Session, bool, error)
}

// WriterPort manages session rows
type WriterPort interface {
	ReaderPort

	// SetCurrent flips the current marker to the named session in one
	// transaction; unknown names are a NotFound error
	SetCurrent(ctx context.Context, name string) error

	// EnsureSession creates the session on first sighting and returns it
	EnsureSession(ctx context.Context, name string, start time.Time) (Session, error)
}

// Repo is the storage surface bound per transaction
type Repo interface {
	Current(ctx context.Context) (Session, bool, error)
	ByName(ctx context.Context, name string) (Session, bool, error)
	Insert(ctx context.Context, name string, start time.Time) error
	ClearCurrent(ctx context.Context) error
	MarkCurrent(ctx context.Context, name string) (int64, error)
}
