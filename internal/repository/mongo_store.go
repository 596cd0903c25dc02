package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollectionUsers         = "users"
	CollectionProperties    = "properties"
	CollectionUnits         = "units"
	CollectionLeases        = "leases"
	CollectionPayments      = "payments"
	CollectionMaintenance   = "maintenancerequests"
	CollectionBookings      = "bookings"
	CollectionNotifications = "notifications"
)

var (
	newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	latestDue   = bson.D{{Key: "dueDate", Value: -1}, {Key: "_id", Value: -1}}
)

type record[E any] interface {
	*E
	domain.Record
}

// mongoStore implements the shared part of domain.Store over one collection
type mongoStore[E any, P record[E]] struct {
	coll   *mongo.Collection
	entity string
	logger *slog.Logger
}

func newMongoStore[E any, P record[E]](db *mongo.Database, collection, entity string, logger *slog.Logger) *mongoStore[E, P] {
	if logger == nil {
		logger = slog.Default()
	}
	return &mongoStore[E, P]{
		coll:   db.Collection(collection),
		entity: entity,
		logger: logger,
	}
}

// Create assigns an id and timestamps, then inserts the record
func (s *mongoStore[E, P]) Create(ctx context.Context, item *E) error {
	P(item).Meta().Stamp(time.Now().UTC())
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		s.logger.Error("failed to insert document",
			slog.String("entity", s.entity),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create %s: %w", s.entity, err)
	}
	return nil
}

// GetByID retrieves a record by id
func (s *mongoStore[E, P]) GetByID(ctx context.Context, id primitive.ObjectID) (*E, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// Update replaces the stored record and refreshes updatedAt
func (s *mongoStore[E, P]) Update(ctx context.Context, item *E) error {
	meta := P(item).Meta()
	meta.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": meta.ID}, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to update %s: %w", s.entity, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a record by id
func (s *mongoStore[E, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.entity, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *mongoStore[E, P]) findOne(ctx context.Context, filter bson.M) (*E, error) {
	var out E
	if err := s.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.entity, err)
	}
	return &out, nil
}

func (s *mongoStore[E, P]) find(ctx context.Context, filter bson.M, sort bson.D, limit int) ([]*E, error) {
	opts := options.Find().SetSort(sort).SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.entity, err)
	}
	defer cur.Close(ctx)

	var rows []E
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.entity, err)
	}
	out := make([]*E, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

// setID adds an equality condition when id is set
func setID(filter bson.M, key string, id *primitive.ObjectID) {
	if id != nil {
		filter[key] = *id
	}
}

func setString[S ~string](filter bson.M, key string, v S) {
	if v != "" {
		filter[key] = string(v)
	}
}

func timeRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	return r
}
