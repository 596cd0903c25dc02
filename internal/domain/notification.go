package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationPaymentDue      NotificationType = "payment_due"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationBookingRequest  NotificationType = "booking_request"
	NotificationLeaseExpiring   NotificationType = "lease_expiring"
	NotificationMaintenance     NotificationType = "maintenance"
	NotificationSystem          NotificationType = "system"
)

// Notification is an in-app message addressed to a single user
type Notification struct {
	Base     `bson:",inline"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Type     NotificationType   `bson:"type" json:"type"`
	Title    string             `bson:"title" json:"title"`
	Message  string             `bson:"message" json:"message"`
	Data     map[string]any     `bson:"data,omitempty" json:"data,omitempty"`
	Read     bool               `bson:"read" json:"read"`
	ReadAt   *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
	Channels []string           `bson:"channels" json:"channels"`
	SentAt   *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}

type NotificationFilter struct {
	UserID     *primitive.ObjectID
	UnreadOnly bool
	Limit      int
}

type NotificationRepository = Store[Notification, NotificationFilter]
