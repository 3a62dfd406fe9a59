package memory

import (
	"context"
	"sync"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
)

// ContextStore keeps per-session medical context in process memory.
// Suitable for development and single-instance deployments.
type ContextStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionContext
}

type sessionContext struct {
	report *entities.ReportSummary
	vitals []entities.VitalsObservation
}

var _ repositories.ContextStore = (*ContextStore)(nil)

func NewContextStore() *ContextStore {
	return &ContextStore{sessions: make(map[string]*sessionContext)}
}

// Read returns the session's snapshot. Unknown sessions yield an empty
// snapshot, not an error.
func (s *ContextStore) Read(ctx context.Context, sessionID string) (entities.ContextSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.sessions[sessionID]
	if !ok {
		return entities.ContextSnapshot{}, nil
	}

	snapshot := entities.ContextSnapshot{}
	if sc.report != nil {
		report := *sc.report
		snapshot.Report = &report
	}
	if len(sc.vitals) > 0 {
		latest := sc.vitals[len(sc.vitals)-1]
		snapshot.LatestVitals = &latest
	}
	return snapshot, nil
}

// AppendReport stores the analyzed report, replacing any previous one.
func (s *ContextStore) AppendReport(ctx context.Context, sessionID string, report entities.ReportSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.ensure(sessionID)
	sc.report = &report
	return nil
}

// AppendVitals records a measurement; the latest one wins in snapshots.
func (s *ContextStore) AppendVitals(ctx context.Context, sessionID string, vitals entities.VitalsObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.ensure(sessionID)
	sc.vitals = append(sc.vitals, vitals)
	return nil
}

func (s *ContextStore) ensure(sessionID string) *sessionContext {
	sc, ok := s.sessions[sessionID]
	if !ok {
		sc = &sessionContext{}
		s.sessions[sessionID] = sc
	}
	return sc
}
