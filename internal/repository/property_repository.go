package repository

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPropertyRepository implements domain.PropertyRepository using MongoDB
type MongoPropertyRepository struct {
	*mongoStore[domain.Property, *domain.Property]
}

// NewMongoPropertyRepository creates a new property repository
func NewMongoPropertyRepository(db *mongo.Database, logger *slog.Logger) *MongoPropertyRepository {
	return &MongoPropertyRepository{newMongoStore[domain.Property](db, CollectionProperties, domain.EntityProperty, logger)}
}

// List returns matching properties, newest first
func (r *MongoPropertyRepository) List(ctx context.Context, f domain.PropertyFilter) ([]*domain.Property, error) {
	return r.find(ctx, propertyQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.PropertyListLimit))
}

func propertyQuery(f domain.PropertyFilter) bson.M {
	q := bson.M{}
	setString(q, "status", f.Status)
	setID(q, "landlordId", f.LandlordID)
	if f.City != "" {
		q["address.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.City), Options: "i"}
	}
	return q
}
