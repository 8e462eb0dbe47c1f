package model

import (
	"tourdesk/shared/model"
)

const (
	TableCustomers = "customers"
	TableCars      = "cars"
	TableDrivers   = "drivers"
	TableTourReps  = "tour_reps"

	EntityCustomer = "customer"
	EntityCar      = "car"
	EntityDriver   = "driver"
	EntityTourRep  = "tour_rep"

	FieldID        = "id"
	FieldAccountID = "account_id"
	FieldName      = "name"
)

// Resource is the shape shared by the four reference tables bookings can point
// at. Only existence lookups run against them here.
type Resource struct {
	ID        string `db:"id"`
	AccountID string `db:"account_id"`
	Name      string `db:"name"`
	model.Metadata
}
