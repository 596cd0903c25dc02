package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUnitRepository implements domain.UnitRepository using MongoDB
type MongoUnitRepository struct {
	*mongoStore[domain.Unit, *domain.Unit]
}

func NewMongoUnitRepository(db *mongo.Database, logger *slog.Logger) *MongoUnitRepository {
	return &MongoUnitRepository{newMongoStore[domain.Unit](db, CollectionUnits, domain.EntityUnit, logger)}
}

func (r *MongoUnitRepository) List(ctx context.Context, f domain.UnitFilter) ([]*domain.Unit, error) {
	return r.find(ctx, unitQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func unitQuery(f domain.UnitFilter) bson.M {
	q := bson.M{}
	setID(q, "propertyId", f.PropertyID)
	setID(q, "landlordId", f.LandlordID)
	setString(q, "status", f.Status)
	return q
}
