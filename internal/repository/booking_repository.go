package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepository implements domain.BookingRepository using MongoDB
type MongoBookingRepository struct {
	*mongoStore[domain.Booking, *domain.Booking]
}

func NewMongoBookingRepository(db *mongo.Database, logger *slog.Logger) *MongoBookingRepository {
	return &MongoBookingRepository{newMongoStore[domain.Booking](db, CollectionBookings, domain.EntityBooking, logger)}
}

func (r *MongoBookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	return r.find(ctx, bookingQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func bookingQuery(f domain.BookingFilter) bson.M {
	q := bson.M{}
	setID(q, "unitId", f.UnitID)
	setID(q, "tenantId", f.TenantID)
	setID(q, "landlordId", f.LandlordID)
	setString(q, "status", f.Status)
	return q
}
