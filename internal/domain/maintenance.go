package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

const DefaultMaintenancePriority = "medium"

// MaintenanceRequest is raised by a tenant against a property. LandlordID is copied from the
// property at creation and is not refreshed afterwards.
type MaintenanceRequest struct {
	Base        `bson:",inline"`
	PropertyID  primitive.ObjectID  `bson:"propertyId" json:"propertyId"`
	UnitID      *primitive.ObjectID `bson:"unitId,omitempty" json:"unitId,omitempty"`
	TenantID    primitive.ObjectID  `bson:"tenantId" json:"tenantId"`
	LandlordID  primitive.ObjectID  `bson:"landlordId" json:"landlordId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    string              `bson:"category" json:"category"`
	Priority    string              `bson:"priority" json:"priority"`
	Status      MaintenanceStatus   `bson:"status" json:"status"`
	Images      []string            `bson:"images" json:"images"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CompletedAt *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes       string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

type MaintenanceFilter struct {
	PropertyID *primitive.ObjectID
	TenantID   *primitive.ObjectID
	LandlordID *primitive.ObjectID
	Status     MaintenanceStatus
	Limit      int
}

type MaintenancePatch struct {
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	Category    *string            `json:"category" validate:"omitempty,oneof=plumbing electrical hvac appliance structural other"`
	Priority    *string            `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      *MaintenanceStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Images      *[]string          `json:"images"`
	Notes       *string            `json:"notes"`
}

func (p MaintenancePatch) Apply(m *MaintenanceRequest) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Priority != nil {
		m.Priority = *p.Priority
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Images != nil {
		m.Images = *p.Images
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
}

type MaintenanceRepository = Store[MaintenanceRequest, MaintenanceFilter]
