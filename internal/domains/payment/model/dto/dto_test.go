package dto_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tourdesk/internal/domains/payment/model"
	"tourdesk/internal/domains/payment/model/dto"
	"tourdesk/shared/validator"
)

func TestCreatePaymentRequest_MethodVocabulary(t *testing.T) {
	tests := []struct {
		method  string
		wantErr bool
	}{
		{method: "cash"},
		{method: "card"},
		{method: "bank_transfer"},
		{method: "pos"},
		{method: "other"},
		{method: "online", wantErr: true},
		{method: "cheque", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := dto.CreatePaymentRequest{
				BookingID:     "11111111-1111-1111-1111-111111111111",
				Amount:        decimal.NewFromInt(100),
				PaymentMethod: tt.method,
			}

			err := validator.ValidateStruct(&req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatePaymentRequest_ToModelDefaults(t *testing.T) {
	req := dto.CreatePaymentRequest{
		BookingID: "11111111-1111-1111-1111-111111111111",
		Amount:    decimal.NewFromInt(100),
	}

	payment, err := req.ToModel("account-id", "user-id", "USD")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, payment.Status)
	assert.Equal(t, model.MethodCash, payment.PaymentMethod)
	assert.Equal(t, "USD", payment.Currency)
}
