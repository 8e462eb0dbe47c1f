package model

import (
	"time"

	"github.com/shopspring/decimal"

	"tourdesk/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID                   = "id"
	FieldAccountID            = "account_id"
	FieldBookingID            = "booking_id"
	FieldAmount               = "amount"
	FieldCurrency             = "currency"
	FieldPaymentMethod        = "payment_method"
	FieldPaymentDate          = "payment_date"
	FieldStatus               = "status"
	FieldReceiptNumber        = "receipt_number"
	FieldTransactionReference = "transaction_reference"
	FieldReceiptFilePath      = "receipt_file_path"
	FieldNotes                = "notes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodPos          = "pos"
	MethodOther        = "other"
)

type Payment struct {
	ID                   string          `db:"id"`
	AccountID            string          `db:"account_id"`
	BookingID            string          `db:"booking_id"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	PaymentMethod        string          `db:"payment_method"`
	PaymentDate          time.Time       `db:"payment_date"`
	Status               string          `db:"status"`
	ReceiptNumber        string          `db:"receipt_number"`
	TransactionReference string          `db:"transaction_reference"`
	ReceiptFilePath      string          `db:"receipt_file_path"`
	Notes                string          `db:"notes"`
	model.Metadata
}
