package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoMaintenanceRepository implements domain.MaintenanceRepository using MongoDB
type MongoMaintenanceRepository struct {
	*mongoStore[domain.MaintenanceRequest, *domain.MaintenanceRequest]
}

// NewMongoMaintenanceRepository creates a new maintenance request repository
func NewMongoMaintenanceRepository(db *mongo.Database, logger *slog.Logger) *MongoMaintenanceRepository {
	return &MongoMaintenanceRepository{newMongoStore[domain.MaintenanceRequest](db, CollectionMaintenance, domain.EntityMaintenance, logger)}
}

func (r *MongoMaintenanceRepository) List(ctx context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	return r.find(ctx, maintenanceQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func maintenanceQuery(f domain.MaintenanceFilter) bson.M {
	q := bson.M{}
	setID(q, "propertyId", f.PropertyID)
	setID(q, "tenantId", f.TenantID)
	setID(q, "landlordId", f.LandlordID)
	setString(q, "status", f.Status)
	return q
}
