package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourdesk/internal/domains/payment/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

type CreatePaymentRequest struct {
	BookingID            string          `json:"booking_id"            validate:"required,uuid"`
	Amount               decimal.Decimal `json:"amount"                validate:"required"`
	Currency             string          `json:"currency"              validate:"omitempty,len=3"`
	PaymentMethod        string          `json:"payment_method"        validate:"omitempty,oneof=cash card bank_transfer pos other"`
	PaymentDate          string          `json:"payment_date"          validate:"omitempty"`
	Status               string          `json:"status"                validate:"omitempty,oneof=pending completed failed refunded"`
	ReceiptNumber        string          `json:"receipt_number"        validate:"omitempty,max=100"`
	TransactionReference string          `json:"transaction_reference" validate:"omitempty,max=200"`
	Notes                string          `json:"notes"                 validate:"omitempty"`
}

func (c *CreatePaymentRequest) ToModel(accountID, user, bookingCurrency string) (model.Payment, error) {
	paymentDate := timezone.Now()

	if c.PaymentDate != "" {
		parsed, err := timezone.Parse(constant.DateOnlyFormat, c.PaymentDate)
		if err != nil {
			return model.Payment{}, err
		}

		paymentDate = parsed
	}

	status := model.StatusPending
	if c.Status != "" {
		status = c.Status
	}

	method := model.MethodCash
	if c.PaymentMethod != "" {
		method = c.PaymentMethod
	}

	currency := bookingCurrency
	if c.Currency != "" {
		currency = c.Currency
	}

	return model.Payment{
		ID:                   uuid.NewString(),
		AccountID:            accountID,
		BookingID:            c.BookingID,
		Amount:               c.Amount,
		Currency:             currency,
		PaymentMethod:        method,
		PaymentDate:          paymentDate,
		Status:               status,
		ReceiptNumber:        c.ReceiptNumber,
		TransactionReference: c.TransactionReference,
		Notes:                c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdatePaymentRequest struct {
	Amount               *decimal.Decimal `db:"amount"                json:"amount"                validate:"omitempty"`
	PaymentMethod        string           `db:"payment_method"        json:"payment_method"        validate:"omitempty,oneof=cash card bank_transfer pos other"`
	PaymentDate          string           `json:"payment_date"        validate:"omitempty"`
	Status               string           `db:"status"                json:"status"                validate:"omitempty,oneof=pending completed failed refunded"`
	ReceiptNumber        string           `db:"receipt_number"        json:"receipt_number"        validate:"omitempty,max=100"`
	TransactionReference string           `db:"transaction_reference" json:"transaction_reference" validate:"omitempty,max=200"`
	Notes                string           `db:"notes"                 json:"notes"                 validate:"omitempty"`
}

// IsEmpty reports whether the request carries nothing to change.
func (u *UpdatePaymentRequest) IsEmpty() bool {
	return u.Amount == nil && u.PaymentMethod == "" && u.PaymentDate == "" &&
		u.Status == "" && u.ReceiptNumber == "" && u.TransactionReference == "" && u.Notes == ""
}

type UploadReceiptRequest struct {
	Receipt     *multipart.FileHeader `json:"receipt" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg application/pdf,maxfilesize=10"`
	ReceiptFile multipart.File        `json:"-"`
}

type PaymentResponse struct {
	ID                   string          `json:"id"`
	BookingID            string          `json:"booking_id"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentDate          string          `json:"payment_date"`
	Status               string          `json:"status"`
	ReceiptNumber        string          `json:"receipt_number"`
	TransactionReference string          `json:"transaction_reference"`
	ReceiptURL           string          `json:"receipt_url,omitempty"`
	Notes                string          `json:"notes"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(payment model.Payment) {
	r.ID = payment.ID
	r.BookingID = payment.BookingID
	r.Amount = payment.Amount
	r.Currency = payment.Currency
	r.PaymentMethod = payment.PaymentMethod
	r.PaymentDate = payment.PaymentDate.Format(constant.DateOnlyFormat)
	r.Status = payment.Status
	r.ReceiptNumber = payment.ReceiptNumber
	r.TransactionReference = payment.TransactionReference
	r.ReceiptURL = payment.ReceiptFilePath
	r.Notes = payment.Notes
	r.Metadata.FromModel(payment.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

// ParsePaymentDate converts the optional payment_date field of an update into
// a time in the application timezone.
func (u *UpdatePaymentRequest) ParsePaymentDate() (time.Time, error) {
	return timezone.Parse(constant.DateOnlyFormat, u.PaymentDate)
}
