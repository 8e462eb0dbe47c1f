package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourdesk/internal/domains/booking/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

type CreateBookingRequest struct {
	TemplateID  string            `json:"template_id"  validate:"required,uuid"`
	CustomerID  string            `json:"customer_id"  validate:"required,uuid"`
	TourRepID   string            `json:"tour_rep_id"  validate:"required,uuid"`
	CarID       string            `json:"car_id"       validate:"omitempty,uuid"`
	DriverID    string            `json:"driver_id"    validate:"omitempty,uuid"`
	StartDate   string            `json:"start_date"   validate:"required"`
	EndDate     string            `json:"end_date"     validate:"required"`
	Status      string            `json:"status"       validate:"omitempty,oneof=pending confirmed ongoing completed cancelled"`
	TotalAmount decimal.Decimal   `json:"total_amount" validate:"omitempty"`
	Currency    string            `json:"currency"     validate:"omitempty,len=3"`
	Notes       string            `json:"notes"        validate:"omitempty"`
	FieldValues map[string]string `json:"field_values"`
}

func (c *CreateBookingRequest) ToModel(accountID, user, defaultCurrency string, start, end time.Time) model.Booking {
	status := model.StatusPending
	if c.Status != "" {
		status = c.Status
	}

	currency := defaultCurrency
	if c.Currency != "" {
		currency = c.Currency
	}

	var carID, driverID *string
	if c.CarID != "" {
		carID = &c.CarID
	}

	if c.DriverID != "" {
		driverID = &c.DriverID
	}

	return model.Booking{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		TemplateID:    c.TemplateID,
		CustomerID:    c.CustomerID,
		TourRepID:     c.TourRepID,
		CarID:         carID,
		DriverID:      driverID,
		BookingNumber: model.GenerateBookingNumber(timezone.Now()),
		StartDate:     start,
		EndDate:       end,
		Status:        status,
		TotalAmount:   c.TotalAmount,
		PaidAmount:    decimal.Zero,
		Currency:      currency,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingRequest struct {
	CustomerID  string             `db:"customer_id"  json:"customer_id"  validate:"omitempty,uuid"`
	TourRepID   string             `db:"tour_rep_id"  json:"tour_rep_id"  validate:"omitempty,uuid"`
	CarID       string             `db:"car_id"       json:"car_id"       validate:"omitempty,uuid"`
	DriverID    string             `db:"driver_id"    json:"driver_id"    validate:"omitempty,uuid"`
	StartDate   string             `json:"start_date"   validate:"omitempty"`
	EndDate     string             `json:"end_date"     validate:"omitempty"`
	Status      string             `db:"status"       json:"status"       validate:"omitempty,oneof=pending confirmed ongoing completed cancelled"`
	TotalAmount *decimal.Decimal   `db:"total_amount" json:"total_amount" validate:"omitempty"`
	Currency    string             `db:"currency"     json:"currency"     validate:"omitempty,len=3"`
	Notes       string             `db:"notes"        json:"notes"        validate:"omitempty"`
	FieldValues *map[string]string `json:"field_values"`
}

// IsEmpty reports whether the request carries nothing to change.
func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.CustomerID == "" && u.TourRepID == "" && u.CarID == "" && u.DriverID == "" &&
		u.StartDate == "" && u.EndDate == "" &&
		u.Status == "" && u.TotalAmount == nil && u.Currency == "" && u.Notes == "" && u.FieldValues == nil
}

// ListBookingsQuery carries the list filters callers may combine.
type ListBookingsQuery struct {
	Status     string `validate:"omitempty,oneof=pending confirmed ongoing completed cancelled"`
	DateFrom   string `validate:"omitempty"`
	DateTo     string `validate:"omitempty"`
	CustomerID string `validate:"omitempty,uuid"`
	TourRepID  string `validate:"omitempty,uuid"`
}

type FieldValueResponse struct {
	FieldName string `json:"field_name"`
	Value     string `json:"value"`
}

type PhotoResponse struct {
	ID          string `json:"id"`
	PhotoType   string `json:"photo_type"`
	Description string `json:"description"`
	URL         string `json:"url"`
	gDto.Metadata
}

func (r *PhotoResponse) FromModel(photo model.Photo) {
	r.ID = photo.ID
	r.PhotoType = photo.PhotoType
	r.Description = photo.Description
	r.URL = photo.FilePath
	r.Metadata.FromModel(photo.Metadata)
}

type BookingResponse struct {
	ID            string               `json:"id"`
	TemplateID    string               `json:"template_id"`
	CustomerID    string               `json:"customer_id"`
	TourRepID     string               `json:"tour_rep_id"`
	CarID         string               `json:"car_id,omitempty"`
	DriverID      string               `json:"driver_id,omitempty"`
	BookingNumber string               `json:"booking_number"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Status        string               `json:"status"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	Currency      string               `json:"currency"`
	Notes         string               `json:"notes"`
	FieldValues   []FieldValueResponse `json:"field_values,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking, values []model.FieldValue) {
	r.ID = booking.ID
	r.TemplateID = booking.TemplateID
	r.CustomerID = booking.CustomerID
	r.TourRepID = booking.TourRepID
	r.BookingNumber = booking.BookingNumber
	r.StartDate = timezone.Format(booking.StartDate, constant.DateOnlyFormat)
	r.EndDate = timezone.Format(booking.EndDate, constant.DateOnlyFormat)
	r.Status = booking.Status
	r.TotalAmount = booking.TotalAmount
	r.PaidAmount = booking.PaidAmount
	r.Currency = booking.Currency
	r.Notes = booking.Notes
	r.Metadata.FromModel(booking.Metadata)

	if booking.CarID != nil {
		r.CarID = *booking.CarID
	}

	if booking.DriverID != nil {
		r.DriverID = *booking.DriverID
	}

	if len(values) > 0 {
		r.FieldValues = make([]FieldValueResponse, len(values))
		for i, value := range values {
			r.FieldValues[i] = FieldValueResponse{FieldName: value.FieldName, Value: value.Value}
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, nil)
	}
}

type UploadPhotoRequest struct {
	PhotoType   string                `json:"photo_type"  validate:"omitempty,max=50"`
	Description string                `json:"description" validate:"omitempty"`
	Photo       *multipart.FileHeader `json:"photo"       swaggerignore:"true"        validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=10"`
	PhotoFile   multipart.File        `json:"-"`
}

func (u *UploadPhotoRequest) ToModel(bookingID, accountID, user, url string) model.Photo {
	return model.Photo{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		AccountID:   accountID,
		PhotoType:   u.PhotoType,
		Description: u.Description,
		FilePath:    url,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type GetPhotosResponse struct {
	Photos []PhotoResponse `json:"photos"`
}

func (r *GetPhotosResponse) FromModels(models []model.Photo) {
	r.Photos = make([]PhotoResponse, len(models))
	for i, mod := range models {
		r.Photos[i].FromModel(mod)
	}
}
