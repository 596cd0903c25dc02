package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyStatus string

const (
	PropertyStatusDraft    PropertyStatus = "draft"
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCompound   PropertyType = "compound"
	PropertyTypeCommercial PropertyType = "commercial"
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Address struct {
	Street      string       `bson:"street" json:"street" validate:"required"`
	City        string       `bson:"city" json:"city" validate:"required"`
	State       string       `bson:"state" json:"state" validate:"required"`
	Country     string       `bson:"country" json:"country" validate:"required"`
	PostalCode  string       `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// PaymentAccount is where tenants send rent for a property
type PaymentAccount struct {
	AccountNumber string `bson:"accountNumber" json:"accountNumber" validate:"required"`
	AccountName   string `bson:"accountName" json:"accountName" validate:"required"`
	BankName      string `bson:"bankName" json:"bankName" validate:"required"`
}

// Property is a landlord's listing. LandlordID is fixed at creation.
type Property struct {
	Base           `bson:",inline"`
	LandlordID     primitive.ObjectID  `bson:"landlordId" json:"landlordId"`
	Name           string              `bson:"name" json:"name"`
	Type           PropertyType        `bson:"type" json:"type"`
	Description    string              `bson:"description" json:"description"`
	Address        Address             `bson:"address" json:"address"`
	Images         []string            `bson:"images" json:"images"`
	Amenities      []string            `bson:"amenities" json:"amenities"`
	TotalUnits     int                 `bson:"totalUnits" json:"totalUnits"`
	Status         PropertyStatus      `bson:"status" json:"status"`
	ApprovedBy     *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	QRCode         string              `bson:"qrCode,omitempty" json:"qrCode,omitempty"`
	PaymentAccount *PaymentAccount     `bson:"paymentAccount,omitempty" json:"paymentAccount,omitempty"`
}

// PropertyFilter narrows a property listing. Empty fields do not constrain.
type PropertyFilter struct {
	Status     PropertyStatus
	City       string
	LandlordID *primitive.ObjectID
	Limit      int
}

// PropertyPatch is a partial update. Nil fields are left untouched.
type PropertyPatch struct {
	Name        *string         `json:"name" validate:"omitempty,min=1"`
	Type        *PropertyType   `json:"type" validate:"omitempty,oneof=apartment house compound commercial"`
	Description *string         `json:"description"`
	Address     *Address        `json:"address"`
	Images      *[]string       `json:"images"`
	Amenities   *[]string       `json:"amenities"`
	TotalUnits  *int            `json:"totalUnits" validate:"omitempty,min=0"`
	Status      *PropertyStatus `json:"status" validate:"omitempty,oneof=draft pending approved rejected"`
}

func (p PropertyPatch) Apply(prop *Property) {
	if p.Name != nil {
		prop.Name = *p.Name
	}
	if p.Type != nil {
		prop.Type = *p.Type
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.Address != nil {
		prop.Address = *p.Address
	}
	if p.Images != nil {
		prop.Images = *p.Images
	}
	if p.Amenities != nil {
		prop.Amenities = *p.Amenities
	}
	if p.TotalUnits != nil {
		prop.TotalUnits = *p.TotalUnits
	}
	if p.Status != nil {
		prop.Status = *p.Status
	}
}

type PropertyRepository = Store[Property, PropertyFilter]
