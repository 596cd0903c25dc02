package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes lists the secondary indexes each collection needs
var collectionIndexes = map[string][]mongo.IndexModel{
	CollectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	CollectionProperties: {
		{Keys: bson.D{{Key: "landlordId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "address.city", Value: 1}}},
	},
	CollectionUnits: {
		{Keys: bson.D{{Key: "propertyId", Value: 1}}},
		{Keys: bson.D{{Key: "landlordId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "rent.amount", Value: 1}}},
	},
	CollectionLeases: {
		{Keys: bson.D{{Key: "unitId", Value: 1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		{Keys: bson.D{{Key: "landlordId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "endDate", Value: 1}}},
	},
	CollectionPayments: {
		{Keys: bson.D{{Key: "leaseId", Value: 1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		{Keys: bson.D{{Key: "landlordId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "dueDate", Value: 1}}},
	},
	CollectionMaintenance: {
		{Keys: bson.D{{Key: "propertyId", Value: 1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		{Keys: bson.D{{Key: "landlordId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	CollectionBookings: {
		{Keys: bson.D{{Key: "unitId", Value: 1}}},
		{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	CollectionNotifications: {
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "read", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes creates any missing indexes. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for coll, models := range collectionIndexes {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
		logger.Debug("indexes ensured", slog.String("collection", coll), slog.Int("count", len(names)))
	}
	return nil
}
