package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPaymentRepository implements domain.PaymentRepository using MongoDB
type MongoPaymentRepository struct {
	*mongoStore[domain.Payment, *domain.Payment]
}

// NewMongoPaymentRepository creates a new payment repository
func NewMongoPaymentRepository(db *mongo.Database, logger *slog.Logger) *MongoPaymentRepository {
	return &MongoPaymentRepository{newMongoStore[domain.Payment](db, CollectionPayments, domain.EntityPayment, logger)}
}

// List returns matching payments ordered by due date, latest first
func (r *MongoPaymentRepository) List(ctx context.Context, f domain.PaymentFilter) ([]*domain.Payment, error) {
	return r.find(ctx, paymentQuery(f), latestDue, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func paymentQuery(f domain.PaymentFilter) bson.M {
	q := bson.M{}
	setID(q, "leaseId", f.LeaseID)
	setID(q, "tenantId", f.TenantID)
	setID(q, "landlordId", f.LandlordID)
	setString(q, "status", f.Status)
	if r := timeRange(f.DueFrom, f.DueTo); r != nil {
		q["dueDate"] = r
	}
	return q
}
