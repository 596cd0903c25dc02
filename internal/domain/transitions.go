package domain

import "fmt"

// Entity names used for transition lookups and audit records
const (
	EntityProperty     = "property"
	EntityUnit         = "unit"
	EntityLease        = "lease"
	EntityPayment      = "payment"
	EntityMaintenance  = "maintenance"
	EntityBooking      = "booking"
	EntityNotification = "notification"
)

type transitionTable map[string][]string

// Transitions lists the legal status moves per entity. They are only enforced when strict
// transitions are switched on; otherwise any status may overwrite any other.
var Transitions = map[string]transitionTable{
	EntityProperty: {
		string(PropertyStatusDraft):    {string(PropertyStatusPending)},
		string(PropertyStatusPending):  {string(PropertyStatusApproved), string(PropertyStatusRejected), string(PropertyStatusDraft)},
		string(PropertyStatusApproved): {string(PropertyStatusRejected), string(PropertyStatusPending)},
		string(PropertyStatusRejected): {string(PropertyStatusPending), string(PropertyStatusApproved)},
	},
	EntityUnit: {
		string(UnitStatusAvailable):   {string(UnitStatusReserved), string(UnitStatusOccupied), string(UnitStatusMaintenance)},
		string(UnitStatusReserved):    {string(UnitStatusAvailable), string(UnitStatusOccupied)},
		string(UnitStatusOccupied):    {string(UnitStatusAvailable), string(UnitStatusMaintenance)},
		string(UnitStatusMaintenance): {string(UnitStatusAvailable)},
	},
	EntityLease: {
		string(LeaseStatusPending): {string(LeaseStatusActive), string(LeaseStatusTerminated)},
		string(LeaseStatusActive):  {string(LeaseStatusExpired), string(LeaseStatusTerminated)},
	},
	EntityPayment: {
		string(PaymentStatusPending): {string(PaymentStatusPaid), string(PaymentStatusPartial), string(PaymentStatusOverdue), string(PaymentStatusCancelled)},
		string(PaymentStatusPartial): {string(PaymentStatusPaid), string(PaymentStatusOverdue), string(PaymentStatusCancelled)},
		string(PaymentStatusOverdue): {string(PaymentStatusPaid), string(PaymentStatusPartial), string(PaymentStatusCancelled)},
	},
	EntityMaintenance: {
		string(MaintenanceStatusPending):    {string(MaintenanceStatusInProgress), string(MaintenanceStatusCompleted), string(MaintenanceStatusCancelled)},
		string(MaintenanceStatusInProgress): {string(MaintenanceStatusCompleted), string(MaintenanceStatusCancelled)},
	},
	EntityBooking: {
		string(BookingStatusPending):   {string(BookingStatusConfirmed), string(BookingStatusCancelled)},
		string(BookingStatusConfirmed): {string(BookingStatusConverted), string(BookingStatusCancelled)},
	},
}

// CanTransition reports whether entity may move from one status to another.
// Writing the current status again is always allowed.
func CanTransition(entity, from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range Transitions[entity][from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a validation error for an illegal status move
func CheckTransition(entity, from, to string) error {
	if CanTransition(entity, from, to) {
		return nil
	}
	return NewValidationError(fmt.Sprintf("Invalid %s status transition from %s to %s", entity, from, to))
}
