// Package mongo stores event documents in a MongoDB collection, one BSON
// document per event with RSVPs and announcements embedded.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

const collectionName = "events"

// EventStore persists events to MongoDB.
type EventStore struct {
	coll *mongo.Collection
	log  *zap.Logger
}

var _ repository.EventStore = (*EventStore)(nil)

// NewEventStore uses the events collection of db.
func NewEventStore(db *mongo.Database, log *zap.Logger) *EventStore {
	return &EventStore{coll: db.Collection(collectionName), log: log}
}

// InitIndexes creates the indexes listing queries rely on.
func (s *EventStore) InitIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "startDate", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "organizer.primary", Value: 1}}},
		{Keys: bson.D{{Key: "organizer.coOrganizers", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (s *EventStore) Create(ctx context.Context, e *model.Event) error {
	e.Version = 1
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create %s: %w", e.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// Save replaces the document only if its version is unchanged.
func (s *EventStore) Save(ctx context.Context, e *model.Event) error {
	next := *e
	next.Version = e.Version + 1

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID, "version": e.Version}, &next)
	if err != nil {
		return fmt.Errorf("replace event: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.coll.CountDocuments(ctx, bson.M{"_id": e.ID})
		if err != nil {
			return fmt.Errorf("check event: %w", err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		s.log.Debug("stale event write", zap.String("event_id", e.ID))
		return repository.ErrVersionConflict
	}
	e.Version = next.Version
	return nil
}

func (s *EventStore) Find(ctx context.Context, f repository.Filter) ([]*model.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, BuildFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*model.Event
	for cur.Next(ctx) {
		var e model.Event
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, &e)
	}
	return events, cur.Err()
}

// BuildFilter translates a repository.Filter into a query document.
func BuildFilter(f repository.Filter) bson.M {
	q := bson.M{}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": repository.StatusStrings(f.Statuses)}
	}
	if len(f.Visibilities) > 0 {
		q["visibility"] = bson.M{"$in": repository.VisibilityStrings(f.Visibilities)}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.OrganizerID != "" {
		q["$or"] = bson.A{
			bson.M{"organizer.primary": f.OrganizerID},
			bson.M{"organizer.coOrganizers": f.OrganizerID},
		}
	}
	if len(f.Tags) > 0 {
		q["tags"] = bson.M{"$in": f.Tags}
	}

	start := bson.M{}
	if f.StartFrom != nil {
		start["$gte"] = *f.StartFrom
	}
	if f.StartTo != nil {
		start["$lte"] = *f.StartTo
	}
	if len(start) > 0 {
		q["startDate"] = start
	}
	if f.EndFrom != nil {
		q["endDate"] = bson.M{"$gte": *f.EndFrom}
	}
	return q
}

func (s *EventStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// Close is a no-op; the client is owned by the caller.
func (s *EventStore) Close() error {
	return nil
}
