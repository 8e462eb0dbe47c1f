package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"tourdesk/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	err := failure.NotFound("booking not found")
	assert.Equal(t, "booking not found", err.Error())
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: failure.NotFound("template not found"), want: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("template is referenced by bookings"), want: http.StatusConflict},
		{name: "bad request", err: failure.BadRequestFromString("amount must be positive"), want: http.StatusBadRequest},
		{name: "validation", err: failure.Validation("pickup_date", "is required"), want: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), want: http.StatusUnauthorized},
		{name: "storage", err: failure.Storage(errors.New("put failed")), want: http.StatusBadGateway},
		{name: "internal", err: failure.InternalError(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "wrapped failure", err: fmt.Errorf("outer: %w", failure.NotFound("payment not found")), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestValidation_NamesField(t *testing.T) {
	err := failure.Validation("fuel_level", "is required")
	assert.Equal(t, "fuel_level: is required", err.Error())
}

func TestBadRequest_NilError(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, failure.IsNotFound(failure.NotFound("booking not found")))
	assert.False(t, failure.IsNotFound(failure.Conflict("busy")))
	assert.True(t, failure.IsConflict(failure.Conflict("busy")))
	assert.False(t, failure.IsConflict(errors.New("boom")))
}
