package domain

import (
	"context"

	"github.com/google/uuid"
)

// LedgerPort records stage lifecycles so partially failed runs stay
// inspectable after the process exits
type LedgerPort interface {
	StartRun(ctx context.Context, runID uuid.UUID, stage string) error
	FinishRun(ctx context.Context, runID uuid.UUID, stage string, stats RunStats, runErr error) error
}

// Repo is the storage surface bound per transaction
type Repo interface {
	Start(ctx context.Context, runID uuid.UUID, stage string) error
	Finish(ctx context.Context, runID uuid.UUID, stage string, stats RunStats, errText string) error
}
