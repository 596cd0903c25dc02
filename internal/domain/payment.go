package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment is one billing-cycle charge against a lease
type Payment struct {
	Base          `bson:",inline"`
	LeaseID       primitive.ObjectID `bson:"leaseId" json:"leaseId"`
	TenantID      primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	LandlordID    primitive.ObjectID `bson:"landlordId" json:"landlordId"`
	UnitID        primitive.ObjectID `bson:"unitId" json:"unitId"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Type          string             `bson:"type" json:"type"`
	DueDate       time.Time          `bson:"dueDate" json:"dueDate"`
	PaidDate      *time.Time         `bson:"paidDate,omitempty" json:"paidDate,omitempty"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Receipt       string             `bson:"receipt,omitempty" json:"receipt,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PaymentFilter narrows a payment listing. Results are ordered by due date, latest first.
type PaymentFilter struct {
	LeaseID    *primitive.ObjectID
	TenantID   *primitive.ObjectID
	LandlordID *primitive.ObjectID
	Status     PaymentStatus
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
}

type PaymentPatch struct {
	Amount        *float64       `json:"amount" validate:"omitempty,gt=0"`
	Type          *string        `json:"type" validate:"omitempty,oneof=rent deposit maintenance utility"`
	DueDate       *time.Time     `json:"dueDate"`
	PaidDate      *time.Time     `json:"paidDate"`
	Status        *PaymentStatus `json:"status" validate:"omitempty,oneof=pending paid overdue partial cancelled"`
	PaymentMethod *string        `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer card mobile_money"`
	TransactionID *string        `json:"transactionId"`
	Receipt       *string        `json:"receipt"`
	Notes         *string        `json:"notes"`
}

func (p PaymentPatch) Apply(pay *Payment) {
	if p.Amount != nil {
		pay.Amount = *p.Amount
	}
	if p.Type != nil {
		pay.Type = *p.Type
	}
	if p.DueDate != nil {
		pay.DueDate = *p.DueDate
	}
	if p.PaidDate != nil {
		pay.PaidDate = p.PaidDate
	}
	if p.Status != nil {
		pay.Status = *p.Status
	}
	if p.PaymentMethod != nil {
		pay.PaymentMethod = *p.PaymentMethod
	}
	if p.TransactionID != nil {
		pay.TransactionID = *p.TransactionID
	}
	if p.Receipt != nil {
		pay.Receipt = *p.Receipt
	}
	if p.Notes != nil {
		pay.Notes = *p.Notes
	}
}

type PaymentRepository = Store[Payment, PaymentFilter]
