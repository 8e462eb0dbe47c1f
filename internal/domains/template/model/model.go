package model

import (
	"slices"

	"tourdesk/shared/model"
)

const (
	TableName  = "booking_templates"
	EntityName = "template"

	FieldID          = "id"
	FieldAccountID   = "account_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldIsActive    = "is_active"
)

const (
	FieldTableName  = "template_fields"
	FieldEntityName = "template_field"

	FieldFieldID         = "id"
	FieldFieldTemplateID = "template_id"
	FieldFieldName       = "field_name"
	FieldFieldLabel      = "label"
	FieldFieldType       = "field_type"
	FieldFieldIsRequired = "is_required"
	FieldFieldOptions    = "options"
	FieldFieldSortOrder  = "sort_order"
)

// Field types a template field may carry. The four *_select types hold the id
// of a tenant-owned reference row rather than free text.
const (
	FieldTypeText           = "text"
	FieldTypeNumber         = "number"
	FieldTypeDate           = "date"
	FieldTypeDatetime       = "datetime"
	FieldTypeDropdown       = "dropdown"
	FieldTypeTextarea       = "textarea"
	FieldTypeCheckbox       = "checkbox"
	FieldTypeFile           = "file"
	FieldTypeCarSelect      = "car_select"
	FieldTypeDriverSelect   = "driver_select"
	FieldTypeCustomerSelect = "customer_select"
	FieldTypeTourRepSelect  = "tour_rep_select"
)

var fieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeDatetime,
	FieldTypeDropdown,
	FieldTypeTextarea,
	FieldTypeCheckbox,
	FieldTypeFile,
	FieldTypeCarSelect,
	FieldTypeDriverSelect,
	FieldTypeCustomerSelect,
	FieldTypeTourRepSelect,
}

func IsValidFieldType(fieldType string) bool {
	return slices.Contains(fieldTypes, fieldType)
}

// IsReferenceType reports whether the field type holds the id of a reference
// row (car, driver, customer, tour rep).
func IsReferenceType(fieldType string) bool {
	switch fieldType {
	case FieldTypeCarSelect, FieldTypeDriverSelect, FieldTypeCustomerSelect, FieldTypeTourRepSelect:
		return true
	default:
		return false
	}
}

type Template struct {
	ID          string `db:"id"`
	AccountID   string `db:"account_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	model.Metadata
}

type TemplateField struct {
	ID         string `db:"id"`
	TemplateID string `db:"template_id"`
	AccountID  string `db:"account_id"`
	FieldName  string `db:"field_name"`
	Label      string `db:"label"`
	FieldType  string `db:"field_type"`
	IsRequired bool   `db:"is_required"`
	Options    string `db:"options"`
	SortOrder  int    `db:"sort_order"`
	model.Metadata
}
