package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaseStatus string

const (
	LeaseStatusPending    LeaseStatus = "pending"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
)

type LeaseDocument struct {
	Name       string    `bson:"name" json:"name"`
	URL        string    `bson:"url" json:"url"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Lease binds a tenant to a unit. One active lease per unit is expected but not enforced.
type Lease struct {
	Base          `bson:",inline"`
	UnitID        primitive.ObjectID `bson:"unitId" json:"unitId"`
	PropertyID    primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	LandlordID    primitive.ObjectID `bson:"landlordId" json:"landlordId"`
	TenantID      primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	EndDate       time.Time          `bson:"endDate" json:"endDate"`
	RentAmount    float64            `bson:"rentAmount" json:"rentAmount"`
	DepositAmount float64            `bson:"depositAmount" json:"depositAmount"`
	PaymentDay    int                `bson:"paymentDay" json:"paymentDay"`
	Status        LeaseStatus        `bson:"status" json:"status"`
	Documents     []LeaseDocument    `bson:"documents" json:"documents"`
	Terms         string             `bson:"terms,omitempty" json:"terms,omitempty"`
	SignedAt      *time.Time         `bson:"signedAt,omitempty" json:"signedAt,omitempty"`
}

type LeaseFilter struct {
	UnitID     *primitive.ObjectID
	TenantID   *primitive.ObjectID
	LandlordID *primitive.ObjectID
	Status     LeaseStatus
	EndFrom    *time.Time
	EndTo      *time.Time
	Limit      int
}

type LeasePatch struct {
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	RentAmount    *float64         `json:"rentAmount" validate:"omitempty,gt=0"`
	DepositAmount *float64         `json:"depositAmount" validate:"omitempty,min=0"`
	PaymentDay    *int             `json:"paymentDay" validate:"omitempty,min=1,max=31"`
	Status        *LeaseStatus     `json:"status" validate:"omitempty,oneof=pending active expired terminated"`
	Documents     *[]LeaseDocument `json:"documents"`
	Terms         *string          `json:"terms"`
	SignedAt      *time.Time       `json:"signedAt"`
}

func (p LeasePatch) Apply(l *Lease) {
	if p.StartDate != nil {
		l.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		l.EndDate = *p.EndDate
	}
	if p.RentAmount != nil {
		l.RentAmount = *p.RentAmount
	}
	if p.DepositAmount != nil {
		l.DepositAmount = *p.DepositAmount
	}
	if p.PaymentDay != nil {
		l.PaymentDay = *p.PaymentDay
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Documents != nil {
		l.Documents = *p.Documents
	}
	if p.Terms != nil {
		l.Terms = *p.Terms
	}
	if p.SignedAt != nil {
		l.SignedAt = p.SignedAt
	}
}

type LeaseRepository = Store[Lease, LeaseFilter]
