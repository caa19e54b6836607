package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"servio/shared/failure"
	"servio/shared/validator"
)

type createBookingBody struct {
	CustomerID string `validate:"required,uuid4" json:"customer_id"`
	ServiceID  string `validate:"required,uuid4" json:"service_id"`
	Notes      string `validate:"max=500" json:"notes"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        createBookingBody
		expectError bool
	}{
		{
			name: "valid body",
			data: createBookingBody{
				CustomerID: "5f8a4f2e-1b3c-4d5e-8f7a-9b0c1d2e3f4a",
				ServiceID:  "6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b",
				Notes:      "please arrive ten minutes early",
			},
		},
		{
			name: "missing customer",
			data: createBookingBody{
				ServiceID: "6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b",
			},
			expectError: true,
		},
		{
			name: "malformed uuid",
			data: createBookingBody{
				CustomerID: "not-a-uuid",
				ServiceID:  "6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b",
			},
			expectError: true,
		},
		{
			name: "notes too long",
			data: createBookingBody{
				CustomerID: "5f8a4f2e-1b3c-4d5e-8f7a-9b0c1d2e3f4a",
				ServiceID:  "6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b",
				Notes:      strings.Repeat("x", 501),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, failure.KindValidation))
			} else {
				assert.NoError(t, err)
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
			name:     "valid json",
			jsonBody: `{"customer_id":"5f8a4f2e-1b3c-4d5e-8f7a-9b0c1d2e3f4a","service_id":"6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b"}`,
		},
		{
			name:        "valid json failing validation",
			jsonBody:    `{"customer_id":"nope","service_id":"6a9b5c3f-2c4d-4e6f-9a8b-0c1d2e3f4a5b"}`,
			expectError: true,
		},
		{
			name:        "malformed json",
			jsonBody:    `{"customer_id":}`,
			expectError: true,
		},
		{
			name:        "empty object",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data createBookingBody

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, failure.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "required present", field: "confirmed", tag: "required"},
		{name: "required empty", field: "", tag: "required", expectError: true},
		{name: "oneof match", field: "provider", tag: "oneof=admin provider customer"},
		{name: "oneof mismatch", field: "root", tag: "oneof=admin provider customer", expectError: true},
		{name: "custom empty tag on zero value", field: "", tag: "empty"},
		{name: "custom empty tag on set value", field: "x", tag: "empty", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationMessageNamesField(t *testing.T) {
	var data createBookingBody

	err := validator.ValidateStruct(&data)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
