package repository

import (
	"context"
	"log/slog"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoNotificationRepository implements domain.NotificationRepository using MongoDB
type MongoNotificationRepository struct {
	*mongoStore[domain.Notification, *domain.Notification]
}

func NewMongoNotificationRepository(db *mongo.Database, logger *slog.Logger) *MongoNotificationRepository {
	return &MongoNotificationRepository{newMongoStore[domain.Notification](db, CollectionNotifications, domain.EntityNotification, logger)}
}

func (r *MongoNotificationRepository) List(ctx context.Context, f domain.NotificationFilter) ([]*domain.Notification, error) {
	return r.find(ctx, notificationQuery(f), newestFirst, domain.ClampLimit(f.Limit, domain.DefaultListLimit))
}

func notificationQuery(f domain.NotificationFilter) bson.M {
	q := bson.M{}
	setID(q, "userId", f.UserID)
	if f.UnreadOnly {
		q["read"] = false
	}
	return q
}
