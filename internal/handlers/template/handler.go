package template

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourdesk/infras/otel"
	"tourdesk/internal/domains/template/model/dto"
	"tourdesk/internal/domains/template/service"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/validator"
	"tourdesk/transport/http/response"
)

type Handler struct {
	service service.Template
	otel    otel.Otel
}

func New(service service.Template, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/templates", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTemplate)
		routerGroup.Get("/", handler.GetTemplates)
		routerGroup.Get("/{id}", handler.GetTemplateByID)
		routerGroup.Patch("/{id}", handler.UpdateTemplate)
		routerGroup.Delete("/{id}", handler.DeleteTemplate)
		routerGroup.Post("/{id}/fields", handler.AddField)
		routerGroup.Delete("/{id}/fields/{field_id}", handler.DeleteField)
	})
}

// CreateTemplate handles the creation of a new booking template.
// @Summary Create a new booking template
// @Description Create a booking template with its field definitions.
// @Tags Template
// @Accept json
// @Produce json
// @Param request body dto.CreateTemplateRequest true "Create Template Request"
// @Success 201 {object} dto.TemplateResponse "Template created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates [post]
// @Security BearerAuth
func (handler *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTemplate")
	defer scope.End()

	req := dto.CreateTemplateRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create template")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Template created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetTemplates retrieves all booking templates for the account.
// @Summary Get all booking templates
// @Description Retrieve the account's booking templates with pagination.
// @Tags Template
// @Accept json
// @Produce json
// @Param active query bool false "Only return active templates"
// @Success 200 {object} dto.GetTemplatesResponse "List of templates"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates [get]
// @Security BearerAuth
func (handler *Handler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTemplates")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	var activeOnly *bool

	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err == nil {
			activeOnly = &parsed
		}
	}

	templates, err := handler.service.GetAll(ctx, queryParams, activeOnly)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get templates")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Templates retrieved successfully")

	response.WithJSON(w, http.StatusOK, templates)
}

// GetTemplateByID retrieves a booking template with its fields.
// @Summary Get a booking template by ID
// @Description Retrieve a booking template and its field definitions.
// @Tags Template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse "Template details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTemplateByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTemplateByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	template, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get template by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Template retrieved successfully")

	response.WithJSON(w, http.StatusOK, template)
}

// UpdateTemplate updates an existing booking template.
// @Summary Update a booking template by ID
// @Description Update the name, description or active flag of a template.
// @Tags Template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdateTemplateRequest true "Update Template Request"
// @Success 200 {object} response.Message "Template updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTemplate")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTemplateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update template")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Template updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Template updated successfully")
}

// DeleteTemplate deletes a booking template and its fields.
// @Summary Delete a booking template by ID
// @Description Delete a template that no booking references.
// @Tags Template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Message "Template deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTemplate")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete template")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Template deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Template deleted successfully")
}

// AddField adds a field definition to an existing template.
// @Summary Add a field to a template
// @Description Add a new field definition to an existing booking template.
// @Tags Template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.TemplateFieldRequest true "Template Field Request"
// @Success 201 {object} dto.TemplateFieldResponse "Field added successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates/{id}/fields [post]
// @Security BearerAuth
func (handler *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddField")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.TemplateFieldRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddField(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add template field")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Template field added successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// DeleteField removes a field definition from a template.
// @Summary Delete a template field
// @Description Remove a field definition from a booking template.
// @Tags Template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param field_id path string true "Field ID"
// @Success 200 {object} response.Message "Field deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/templates/{id}/fields/{field_id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteField")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	fieldID := chi.URLParam(r, constant.RequestParamFieldID)

	if err := handler.service.DeleteField(ctx, id, fieldID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete template field")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Template field deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Template field deleted successfully")
}
