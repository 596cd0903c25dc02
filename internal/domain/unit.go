package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
	UnitStatusReserved    UnitStatus = "reserved"
)

type Rent struct {
	Amount   float64 `bson:"amount" json:"amount" validate:"gt=0"`
	Currency string  `bson:"currency" json:"currency"`
	Period   string  `bson:"period" json:"period" validate:"omitempty,oneof=monthly quarterly yearly"`
}

// Unit belongs to exactly one property and inherits its landlord
type Unit struct {
	Base            `bson:",inline"`
	PropertyID      primitive.ObjectID  `bson:"propertyId" json:"propertyId"`
	LandlordID      primitive.ObjectID  `bson:"landlordId" json:"landlordId"`
	UnitNumber      string              `bson:"unitNumber" json:"unitNumber"`
	Type            string              `bson:"type" json:"type"`
	Floor           int                 `bson:"floor" json:"floor"`
	Size            float64             `bson:"size" json:"size"`
	Bedrooms        int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms       int                 `bson:"bathrooms" json:"bathrooms"`
	Rent            Rent                `bson:"rent" json:"rent"`
	Deposit         float64             `bson:"deposit" json:"deposit"`
	Features        []string            `bson:"features" json:"features"`
	Images          []string            `bson:"images" json:"images"`
	Status          UnitStatus          `bson:"status" json:"status"`
	CurrentTenantID *primitive.ObjectID `bson:"currentTenantId,omitempty" json:"currentTenantId,omitempty"`
	AvailableFrom   *time.Time          `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
}

type UnitFilter struct {
	PropertyID *primitive.ObjectID
	LandlordID *primitive.ObjectID
	Status     UnitStatus
	Limit      int
}

type UnitPatch struct {
	UnitNumber    *string     `json:"unitNumber" validate:"omitempty,min=1"`
	Type          *string     `json:"type" validate:"omitempty,oneof=studio 1bed 2bed 3bed 4bed+ commercial"`
	Floor         *int        `json:"floor"`
	Size          *float64    `json:"size"`
	Bedrooms      *int        `json:"bedrooms"`
	Bathrooms     *int        `json:"bathrooms"`
	Rent          *Rent       `json:"rent"`
	Deposit       *float64    `json:"deposit" validate:"omitempty,min=0"`
	Features      *[]string   `json:"features"`
	Images        *[]string   `json:"images"`
	Status        *UnitStatus `json:"status" validate:"omitempty,oneof=available occupied maintenance reserved"`
	AvailableFrom *time.Time  `json:"availableFrom"`
}

func (p UnitPatch) Apply(u *Unit) {
	if p.UnitNumber != nil {
		u.UnitNumber = *p.UnitNumber
	}
	if p.Type != nil {
		u.Type = *p.Type
	}
	if p.Floor != nil {
		u.Floor = *p.Floor
	}
	if p.Size != nil {
		u.Size = *p.Size
	}
	if p.Bedrooms != nil {
		u.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		u.Bathrooms = *p.Bathrooms
	}
	if p.Rent != nil {
		u.Rent = *p.Rent
	}
	if p.Deposit != nil {
		u.Deposit = *p.Deposit
	}
	if p.Features != nil {
		u.Features = *p.Features
	}
	if p.Images != nil {
		u.Images = *p.Images
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.AvailableFrom != nil {
		u.AvailableFrom = p.AvailableFrom
	}
}

type UnitRepository = Store[Unit, UnitFilter]
