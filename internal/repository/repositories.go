package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Repositories groups every store the services depend on
type Repositories struct {
	Users         domain.UserRepository
	Properties    domain.PropertyRepository
	Units         domain.UnitRepository
	Leases        domain.LeaseRepository
	Payments      domain.PaymentRepository
	Maintenance   domain.MaintenanceRepository
	Bookings      domain.BookingRepository
	Notifications domain.NotificationRepository

	// Ping reports backend reachability for readiness checks
	Ping func(ctx context.Context) error
}

// NewMongoRepositories builds all repositories over one database
func NewMongoRepositories(db *mongo.Database, logger *slog.Logger) *Repositories {
	return &Repositories{
		Users:         NewMongoUserRepository(db, logger),
		Properties:    NewMongoPropertyRepository(db, logger),
		Units:         NewMongoUnitRepository(db, logger),
		Leases:        NewMongoLeaseRepository(db, logger),
		Payments:      NewMongoPaymentRepository(db, logger),
		Maintenance:   NewMongoMaintenanceRepository(db, logger),
		Bookings:      NewMongoBookingRepository(db, logger),
		Notifications: NewMongoNotificationRepository(db, logger),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}
