package dto

import (
	"encoding/json"

	"github.com/google/uuid"

	"tourdesk/internal/domains/template/model"
	"tourdesk/shared"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

type TemplateFieldRequest struct {
	FieldName  string   `json:"field_name"  validate:"required,max=100"`
	Label      string   `json:"label"       validate:"omitempty,max=200"`
	FieldType  string   `json:"field_type"  validate:"required"`
	IsRequired bool     `json:"is_required"`
	Options    []string `json:"options"     validate:"omitempty,dive,max=200"`
	SortOrder  int      `json:"sort_order"  validate:"omitempty,gte=0"`
}

func (f *TemplateFieldRequest) ToModel(templateID, accountID, user string) model.TemplateField {
	options := ""
	if len(f.Options) > 0 {
		encoded, err := json.Marshal(f.Options)
		if err == nil {
			options = string(encoded)
		}
	}

	label := f.Label
	if label == "" {
		label = f.FieldName
	}

	return model.TemplateField{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		AccountID:  accountID,
		FieldName:  f.FieldName,
		Label:      label,
		FieldType:  f.FieldType,
		IsRequired: f.IsRequired,
		Options:    options,
		SortOrder:  f.SortOrder,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateTemplateRequest struct {
	Name        string                 `json:"name"        validate:"required,max=200"`
	Description string                 `json:"description" validate:"omitempty"`
	IsActive    *bool                  `json:"is_active"`
	Fields      []TemplateFieldRequest `json:"fields"      validate:"omitempty,dive"`
}

func (c *CreateTemplateRequest) ToModel(accountID, user string) (model.Template, []model.TemplateField) {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	template := model.Template{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    isActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	fields := make([]model.TemplateField, len(c.Fields))
	for i, field := range c.Fields {
		fields[i] = field.ToModel(template.ID, accountID, user)
	}

	return template, fields
}

type UpdateTemplateRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=200"`
	Description string `db:"description" json:"description" validate:"omitempty"`
	IsActive    *bool  `db:"is_active"   json:"is_active"`
}

type TemplateFieldResponse struct {
	ID         string   `json:"id"`
	FieldName  string   `json:"field_name"`
	Label      string   `json:"label"`
	FieldType  string   `json:"field_type"`
	IsRequired bool     `json:"is_required"`
	Options    []string `json:"options,omitempty"`
	SortOrder  int      `json:"sort_order"`
}

func (r *TemplateFieldResponse) FromModel(field model.TemplateField) {
	r.ID = field.ID
	r.FieldName = field.FieldName
	r.Label = field.Label
	r.FieldType = field.FieldType
	r.IsRequired = field.IsRequired
	r.Options = field.ParseOptions()
	r.SortOrder = field.SortOrder
}

type TemplateResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	IsActive    bool                    `json:"is_active"`
	Fields      []TemplateFieldResponse `json:"fields,omitempty"`
	gDto.Metadata
}

func (r *TemplateResponse) FromModel(template model.Template, fields []model.TemplateField) {
	r.ID = template.ID
	r.Name = template.Name
	r.Description = template.Description
	r.IsActive = template.IsActive
	r.Metadata.FromModel(template.Metadata)

	r.Fields = make([]TemplateFieldResponse, len(fields))
	for i, field := range fields {
		r.Fields[i].FromModel(field)
	}
}

type GetTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetTemplatesResponse) FromModels(models []model.Template, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Templates = make([]TemplateResponse, len(models))
	for i, mod := range models {
		r.Templates[i].FromModel(mod, nil)
	}
}
