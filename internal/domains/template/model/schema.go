package model

import (
	"encoding/json"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
)

// ParseOptions decodes the JSON array of allowed dropdown values. A field
// without options yields an empty slice.
func (f *TemplateField) ParseOptions() []string {
	if f.Options == "" {
		return nil
	}

	var options []string
	if err := json.Unmarshal([]byte(f.Options), &options); err != nil {
		return nil
	}

	return options
}

// CanonicalValue validates a raw submitted value against the field's type and
// returns the canonical string form that gets persisted. The error names the
// field so callers can surface it unchanged.
func (f *TemplateField) CanonicalValue(raw string) (string, error) {
	switch f.FieldType {
	case FieldTypeText, FieldTypeTextarea, FieldTypeFile:
		return raw, nil

	case FieldTypeNumber:
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return "", failure.Validation(f.FieldName, "must be a number") //nolint:wrapcheck
		}

		return value.String(), nil

	case FieldTypeDate:
		value, err := time.Parse(constant.DateOnlyFormat, raw)
		if err != nil {
			return "", failure.Validation(f.FieldName, "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		return value.Format(constant.DateOnlyFormat), nil

	case FieldTypeDatetime:
		value, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", failure.Validation(f.FieldName, "must be an RFC 3339 datetime") //nolint:wrapcheck
		}

		return value.Format(time.RFC3339), nil

	case FieldTypeCheckbox:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return "", failure.Validation(f.FieldName, "must be a boolean") //nolint:wrapcheck
		}

		return strconv.FormatBool(value), nil

	case FieldTypeDropdown:
		options := f.ParseOptions()
		if !slices.Contains(options, raw) {
			return "", failure.Validation(f.FieldName, "is not one of the allowed options") //nolint:wrapcheck
		}

		return raw, nil

	case FieldTypeCarSelect, FieldTypeDriverSelect, FieldTypeCustomerSelect, FieldTypeTourRepSelect:
		if _, err := uuid.Parse(raw); err != nil {
			return "", failure.Validation(f.FieldName, "must be a valid reference id") //nolint:wrapcheck
		}

		return raw, nil

	default:
		return "", failure.Validation(f.FieldName, "has an unknown field type") //nolint:wrapcheck
	}
}
