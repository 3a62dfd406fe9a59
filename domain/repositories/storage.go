package repositories

import (
	"context"

	"github.com/satori-health/meridia/domain/entities"
)

// ContextStore holds per-session accumulated report analyses and vitals
// observations. It is the only resource shared across sessions and must
// support concurrent reads and appends keyed by session identifier.
type ContextStore interface {
	// Read returns the current snapshot for a session. An unknown session
	// yields an empty snapshot, not an error.
	Read(ctx context.Context, sessionID string) (entities.ContextSnapshot, error)
	AppendReport(ctx context.Context, sessionID string, report entities.ReportSummary) error
	AppendVitals(ctx context.Context, sessionID string, vitals entities.VitalsObservation) error
}
