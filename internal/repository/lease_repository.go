package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLeaseRepository implements domain.LeaseRepository using MongoDB
type MongoLeaseRepository struct {
	*mongoStore[domain.Lease, *domain.Lease]
}

// NewMongoLeaseRepository creates a new lease repository
func NewMongoLeaseRepository(db *mongo.Database, logger *slog.Logger) *MongoLeaseRepository {
	return &MongoLeaseRepository{newMongoStore[domain.Lease](db, CollectionLeases, domain.EntityLease, logger)}
}

// List returns matching leases, newest first
func (r *MongoLeaseRepository) List(ctx context.Context, f domain.LeaseFilter) ([]*domain.Lease, error) {
	return r.find(ctx, leaseQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func leaseQuery(f domain.LeaseFilter) bson.M {
	q := bson.M{}
	setID(q, "unitId", f.UnitID)
	setID(q, "tenantId", f.TenantID)
	setID(q, "landlordId", f.LandlordID)
	setString(q, "status", f.Status)
	if r := timeRange(f.EndFrom, f.EndTo); r != nil {
		q["endDate"] = r
	}
	return q
}
