package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusConverted BookingStatus = "converted"
)

// Booking is a tenant's request to view or move into a unit
type Booking struct {
	Base        `bson:",inline"`
	UnitID      primitive.ObjectID `bson:"unitId" json:"unitId"`
	TenantID    primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	LandlordID  primitive.ObjectID `bson:"landlordId" json:"landlordId"`
	ViewingDate *time.Time         `bson:"viewingDate,omitempty" json:"viewingDate,omitempty"`
	MoveInDate  time.Time          `bson:"moveInDate" json:"moveInDate"`
	Status      BookingStatus      `bson:"status" json:"status"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Response    string             `bson:"response,omitempty" json:"response,omitempty"`
	RespondedAt *time.Time         `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}

type BookingFilter struct {
	UnitID     *primitive.ObjectID
	TenantID   *primitive.ObjectID
	LandlordID *primitive.ObjectID
	Status     BookingStatus
	Limit      int
}

type BookingPatch struct {
	ViewingDate *time.Time     `json:"viewingDate"`
	MoveInDate  *time.Time     `json:"moveInDate"`
	Status      *BookingStatus `json:"status" validate:"omitempty,oneof=pending confirmed cancelled converted"`
	Message     *string        `json:"message"`
}

func (p BookingPatch) Apply(b *Booking) {
	if p.ViewingDate != nil {
		b.ViewingDate = p.ViewingDate
	}
	if p.MoveInDate != nil {
		b.MoveInDate = *p.MoveInDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Message != nil {
		b.Message = *p.Message
	}
}

type BookingRepository = Store[Booking, BookingFilter]
