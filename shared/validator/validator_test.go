package validator_test

import (
	"strings"
	"testing"

	"tourdesk/shared/validator"
)

type bookingRequestStub struct {
	CustomerName string `validate:"required" json:"customer_name"`
	Email        string `validate:"required,email" json:"email"`
	Passengers   int    `validate:"gte=1,lte=50" json:"passengers"`
	Status       string `validate:"oneof=pending confirmed cancelled" json:"status"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *bookingRequestStub
		expectError bool
	}{
		{
			name: "valid struct",
			data: &bookingRequestStub{
				CustomerName: "Jane Perera",
				Email:        "jane@example.com",
				Passengers:   4,
				Status:       "pending",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &bookingRequestStub{
				Email:      "jane@example.com",
				Passengers: 4,
				Status:     "pending",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &bookingRequestStub{
				CustomerName: "Jane Perera",
				Email:        "not-an-email",
				Passengers:   4,
				Status:       "pending",
			},
			expectError: true,
		},
		{
			name: "passengers out of range",
			data: &bookingRequestStub{
				CustomerName: "Jane Perera",
				Email:        "jane@example.com",
				Passengers:   120,
				Status:       "pending",
			},
			expectError: true,
		},
		{
			name: "invalid status",
			data: &bookingRequestStub{
				CustomerName: "Jane Perera",
				Email:        "jane@example.com",
				Passengers:   4,
				Status:       "archived",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "test",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid uuid",
			field:       "0c5e7c6a-9f2a-4e43-93a4-9d14f1a1a111",
			tag:         "uuid",
			expectError: false,
		},
		{
			name:        "invalid uuid",
			field:       "not-a-uuid",
			tag:         "uuid",
			expectError: true,
		},
		{
			name:        "valid oneof",
			field:       "confirmed",
			tag:         "oneof=pending confirmed cancelled",
			expectError: false,
		},
		{
			name:        "invalid oneof",
			field:       "archived",
			tag:         "oneof=pending confirmed cancelled",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"customer_name":"Jane Perera","email":"jane@example.com","passengers":4,"status":"pending"}`,
			expectError: false,
		},
		{
			name:        "invalid field value",
			jsonBody:    `{"customer_name":"Jane Perera","email":"not-an-email","passengers":4,"status":"pending"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"customer_name":"Jane Perera","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.jsonBody)
			var data bookingRequestStub
			err := validator.Validate(reader, &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &bookingRequestStub{}
	err := validator.ValidateStruct(data)

	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "required") {
		t.Errorf("expected error message containing 'required', got: %s", errorMsg)
	}
}
