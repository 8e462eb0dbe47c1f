package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourdesk/shared/constant"
	"tourdesk/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldAccountID     = "account_id"
	FieldTemplateID    = "template_id"
	FieldCustomerID    = "customer_id"
	FieldTourRepID     = "tour_rep_id"
	FieldCarID         = "car_id"
	FieldDriverID      = "driver_id"
	FieldBookingNumber = "booking_number"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldStatus        = "status"
	FieldTotalAmount   = "total_amount"
	FieldPaidAmount    = "paid_amount"
	FieldCurrency      = "currency"
	FieldNotes         = "notes"
)

const (
	ValueTableName  = "booking_field_values"
	ValueEntityName = "booking_field_value"

	FieldValueID        = "id"
	FieldValueBookingID = "booking_id"
	FieldValueFieldName = "field_name"
	FieldValueValue     = "value"
)

const (
	PhotoTableName  = "booking_photos"
	PhotoEntityName = "booking_photo"

	FieldPhotoID        = "id"
	FieldPhotoBookingID = "booking_id"
	FieldPhotoType      = "photo_type"
	FieldPhotoFilePath  = "file_path"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID            string          `db:"id"`
	AccountID     string          `db:"account_id"`
	TemplateID    string          `db:"template_id"`
	CustomerID    string          `db:"customer_id"`
	TourRepID     string          `db:"tour_rep_id"`
	CarID         *string         `db:"car_id"`
	DriverID      *string         `db:"driver_id"`
	BookingNumber string          `db:"booking_number"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	Status        string          `db:"status"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	PaidAmount    decimal.Decimal `db:"paid_amount"`
	Currency      string          `db:"currency"`
	Notes         string          `db:"notes"`
	model.Metadata
}

type FieldValue struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	AccountID string `db:"account_id"`
	FieldName string `db:"field_name"`
	Value     string `db:"value"`
	model.Metadata
}

type Photo struct {
	ID          string `db:"id"`
	BookingID   string `db:"booking_id"`
	AccountID   string `db:"account_id"`
	PhotoType   string `db:"photo_type"`
	Description string `db:"description"`
	FilePath    string `db:"file_path"`
	model.Metadata
}

// GenerateBookingNumber builds a human-readable booking number of the form
// BK20260315A1B2C3D4. Uniqueness is enforced by the database; callers retry
// with a fresh number on a unique violation.
func GenerateBookingNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return fmt.Sprintf("%s%s%s", constant.BookingNumberPrefix, now.Format(constant.BookingNumberDateFormat), random)
}
