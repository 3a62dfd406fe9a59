package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
)

// ContextStore persists per-session medical context in the
// "session_context" collection, one document per session.
type ContextStore struct {
	collection *mongo.Collection
}

var _ repositories.ContextStore = (*ContextStore)(nil)

// NewContextStore creates a new MongoDB context store
func NewContextStore(db *mongo.Database) *ContextStore {
	return &ContextStore{
		collection: db.Collection("session_context"),
	}
}

type contextDocument struct {
	SessionID string                       `bson:"session_id"`
	Report    *entities.ReportSummary      `bson:"report,omitempty"`
	Vitals    []entities.VitalsObservation `bson:"vitals,omitempty"`
}

// Read implements repositories.ContextStore. Missing documents yield an
// empty snapshot.
func (s *ContextStore) Read(ctx context.Context, sessionID string) (entities.ContextSnapshot, error) {
	if sessionID == "" {
		return entities.ContextSnapshot{}, errors.New("session ID cannot be empty")
	}

	var doc contextDocument
	err := s.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.ContextSnapshot{}, nil
	}
	if err != nil {
		return entities.ContextSnapshot{}, fmt.Errorf("failed to read session context: %w", err)
	}

	snapshot := entities.ContextSnapshot{Report: doc.Report}
	if len(doc.Vitals) > 0 {
		latest := doc.Vitals[len(doc.Vitals)-1]
		snapshot.LatestVitals = &latest
	}
	return snapshot, nil
}

// AppendReport implements repositories.ContextStore
func (s *ContextStore) AppendReport(ctx context.Context, sessionID string, report entities.ReportSummary) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"report": report}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// AppendVitals implements repositories.ContextStore
func (s *ContextStore) AppendVitals(ctx context.Context, sessionID string, vitals entities.VitalsObservation) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$push": bson.M{"vitals": vitals}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store vitals: %w", err)
	}
	return nil
}
