package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/internal/domains/template/model"
	"tourdesk/shared/failure"
)

func TestCanonicalValue(t *testing.T) {
	tests := []struct {
		name      string
		field     model.TemplateField
		raw       string
		expected  string
		expectErr bool
	}{
		{
			name:     "text passes through",
			field:    model.TemplateField{FieldName: "pickup_location", FieldType: model.FieldTypeText},
			raw:      "Colombo Fort",
			expected: "Colombo Fort",
		},
		{
			name:     "number is normalized",
			field:    model.TemplateField{FieldName: "pax", FieldType: model.FieldTypeNumber},
			raw:      "04.50",
			expected: "4.5",
		},
		{
			name:      "number rejects text",
			field:     model.TemplateField{FieldName: "pax", FieldType: model.FieldTypeNumber},
			raw:       "four",
			expectErr: true,
		},
		{
			name:     "date is normalized",
			field:    model.TemplateField{FieldName: "tour_date", FieldType: model.FieldTypeDate},
			raw:      "2026-03-15",
			expected: "2026-03-15",
		},
		{
			name:      "date rejects bad format",
			field:     model.TemplateField{FieldName: "tour_date", FieldType: model.FieldTypeDate},
			raw:       "15/03/2026",
			expectErr: true,
		},
		{
			name:     "datetime round trips",
			field:    model.TemplateField{FieldName: "pickup_at", FieldType: model.FieldTypeDatetime},
			raw:      "2026-03-15T09:30:00Z",
			expected: "2026-03-15T09:30:00Z",
		},
		{
			name:     "checkbox normalizes to true",
			field:    model.TemplateField{FieldName: "needs_guide", FieldType: model.FieldTypeCheckbox},
			raw:      "1",
			expected: "true",
		},
		{
			name:      "checkbox rejects non boolean",
			field:     model.TemplateField{FieldName: "needs_guide", FieldType: model.FieldTypeCheckbox},
			raw:       "yes please",
			expectErr: true,
		},
		{
			name: "dropdown accepts listed option",
			field: model.TemplateField{
				FieldName: "vehicle_class",
				FieldType: model.FieldTypeDropdown,
				Options:   `["sedan","van","coach"]`,
			},
			raw:      "van",
			expected: "van",
		},
		{
			name: "dropdown rejects unknown option",
			field: model.TemplateField{
				FieldName: "vehicle_class",
				FieldType: model.FieldTypeDropdown,
				Options:   `["sedan","van","coach"]`,
			},
			raw:       "tuk-tuk",
			expectErr: true,
		},
		{
			name:     "reference accepts uuid",
			field:    model.TemplateField{FieldName: "driver", FieldType: model.FieldTypeDriverSelect},
			raw:      "0c5e7c6a-9f2a-4e43-93a4-9d14f1a1a111",
			expected: "0c5e7c6a-9f2a-4e43-93a4-9d14f1a1a111",
		},
		{
			name:      "reference rejects non uuid",
			field:     model.TemplateField{FieldName: "driver", FieldType: model.FieldTypeDriverSelect},
			raw:       "driver-7",
			expectErr: true,
		},
		{
			name:      "unknown field type fails",
			field:     model.TemplateField{FieldName: "mystery", FieldType: "geo_point"},
			raw:       "6.9271,79.8612",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical, err := tt.field.CanonicalValue(tt.raw)

			if tt.expectErr {
				require.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))
				assert.Contains(t, err.Error(), tt.field.FieldName)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, canonical)
		})
	}
}

func TestParseOptions(t *testing.T) {
	field := model.TemplateField{Options: `["a","b"]`}
	assert.Equal(t, []string{"a", "b"}, field.ParseOptions())

	empty := model.TemplateField{}
	assert.Nil(t, empty.ParseOptions())

	malformed := model.TemplateField{Options: `{"not":"an array"}`}
	assert.Nil(t, malformed.ParseOptions())
}

func TestIsValidFieldType(t *testing.T) {
	assert.True(t, model.IsValidFieldType(model.FieldTypeText))
	assert.True(t, model.IsValidFieldType(model.FieldTypeTourRepSelect))
	assert.False(t, model.IsValidFieldType("geo_point"))
}

func TestIsReferenceType(t *testing.T) {
	assert.True(t, model.IsReferenceType(model.FieldTypeCarSelect))
	assert.True(t, model.IsReferenceType(model.FieldTypeCustomerSelect))
	assert.False(t, model.IsReferenceType(model.FieldTypeDropdown))
}
