package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	bookingModel "tourdesk/internal/domains/booking/model"
	bookingRepo "tourdesk/internal/domains/booking/repository"
	"tourdesk/internal/domains/template/model"
	"tourdesk/internal/domains/template/model/dto"
	"tourdesk/internal/domains/template/repository"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
)

const (
	cacheGetTemplate    = "template:get"
	cacheGetAllTemplate = "template:gets"
	cacheCountTemplate  = "template:count"
)

type Template interface {
	Create(ctx context.Context, req dto.CreateTemplateRequest) (dto.TemplateResponse, error)
	Get(ctx context.Context, id string) (dto.TemplateResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, activeOnly *bool) (dto.GetTemplatesResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req dto.UpdateTemplateRequest, id string) error
	Delete(ctx context.Context, id string) error
	AddField(ctx context.Context, templateID string, req dto.TemplateFieldRequest) (dto.TemplateFieldResponse, error)
	DeleteField(ctx context.Context, templateID, fieldID string) error
}

type serviceImpl struct {
	repo        repository.Template
	fieldRepo   repository.TemplateField
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Template,
	fieldRepo repository.TemplateField,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Template {
	return &serviceImpl{
		repo:        repo,
		fieldRepo:   fieldRepo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func identity(ctx context.Context) (accountID, userID string) {
	accountID, _ = ctx.Value(constant.ContextKeyAccountID).(string)
	userID, _ = ctx.Value(constant.ContextKeyUserID).(string)

	return accountID, userID
}

func validateFieldRequests(fields []dto.TemplateFieldRequest, existing []model.TemplateField) error {
	seen := make(map[string]bool, len(existing))
	for _, field := range existing {
		seen[field.FieldName] = true
	}

	for _, field := range fields {
		if !model.IsValidFieldType(field.FieldType) {
			return failure.Validation(field.FieldName, fmt.Sprintf("has unknown field type %q", field.FieldType)) //nolint:wrapcheck
		}

		if field.FieldType == model.FieldTypeDropdown && len(field.Options) == 0 {
			return failure.Validation(field.FieldName, "dropdown fields need at least one option") //nolint:wrapcheck
		}

		if seen[field.FieldName] {
			return failure.Validation(field.FieldName, "is declared more than once") //nolint:wrapcheck
		}

		seen[field.FieldName] = true
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTemplateRequest) (res dto.TemplateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)

	if err = validateFieldRequests(req.Fields, nil); err != nil {
		return res, err
	}

	template, fields := req.ToModel(accountID, user)

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, template); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		if len(fields) > 0 {
			if err := s.fieldRepo.InsertBulkTx(ctx, tx, fields); err != nil {
				return fmt.Errorf("failed to create template fields: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create template")

		return res, err
	}

	s.invalidateListCaches(ctx)

	res.FromModel(template, fields)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TemplateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetTemplate, accountID, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for template")

		return res, nil
	}

	template, err := s.repo.Get(ctx, shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get template")

		return res, fmt.Errorf("failed to get template: %w", err)
	}

	if template.ID == constant.Empty {
		return res, failure.NotFound("template not found") //nolint:wrapcheck
	}

	fields, err := s.getFields(ctx, accountID, id)
	if err != nil {
		return res, err
	}

	res.FromModel(template, fields)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save template to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, activeOnly *bool) (res dto.GetTemplatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterAccountOnly(accountID, model.TableName),
		},
	}

	if activeOnly != nil && *activeOnly {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Value:    true,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTemplate, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for templates")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count templates")

		return res, fmt.Errorf("failed to count templates: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get templates")

		return res, fmt.Errorf("failed to get templates: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save templates to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTemplate, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count templates")

		return res, fmt.Errorf("failed to count templates: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save template count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTemplateRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateTemplateRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	accountID, user := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if template exists")

		return fmt.Errorf("failed to check if template exists: %w", err)
	}

	if !exist {
		return failure.NotFound("template not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update template")

		return fmt.Errorf("failed to update template: %w", err)
	}

	s.invalidateTemplateCaches(ctx, accountID, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if template exists")

		return fmt.Errorf("failed to check if template exists: %w", err)
	}

	if !exist {
		return failure.NotFound("template not found") //nolint:wrapcheck
	}

	referenced, err := s.bookingRepo.Exist(ctx, shared.FilterByAccountID(id, accountID, bookingModel.FieldTemplateID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check template references")

		return fmt.Errorf("failed to check template references: %w", err)
	}

	if referenced {
		return failure.Conflict("template is referenced by existing bookings") //nolint:wrapcheck
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		fieldFilter := shared.FilterByAccountID(id, accountID, model.FieldFieldTemplateID, model.FieldTableName)
		if err := s.fieldRepo.DeleteTx(ctx, tx, fieldFilter); err != nil {
			return fmt.Errorf("failed to delete template fields: %w", err)
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete template")

		return err
	}

	s.invalidateTemplateCaches(ctx, accountID, id)

	return nil
}

func (s *serviceImpl) AddField(ctx context.Context, templateID string, req dto.TemplateFieldRequest) (res dto.TemplateFieldResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.AddField")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)

	exist, err := s.repo.Exist(ctx, shared.FilterByAccountID(templateID, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if template exists")

		return res, fmt.Errorf("failed to check if template exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("template not found") //nolint:wrapcheck
	}

	existing, err := s.getFields(ctx, accountID, templateID)
	if err != nil {
		return res, err
	}

	if err = validateFieldRequests([]dto.TemplateFieldRequest{req}, existing); err != nil {
		return res, err
	}

	field := req.ToModel(templateID, accountID, user)
	if err = s.fieldRepo.Insert(ctx, field); err != nil {
		log.Error().Err(err).Msg("failed to add template field")

		return res, fmt.Errorf("failed to add template field: %w", err)
	}

	s.invalidateTemplateCaches(ctx, accountID, templateID)

	res.FromModel(field)

	return res, nil
}

func (s *serviceImpl) DeleteField(ctx context.Context, templateID, fieldID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".template.DeleteField")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	filter := shared.FilterByAccountID(fieldID, accountID, model.FieldFieldID, model.FieldTableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldFieldTemplateID,
		Value:    templateID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.FieldTableName,
	})

	exist, err := s.fieldRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if template field exists")

		return fmt.Errorf("failed to check if template field exists: %w", err)
	}

	if !exist {
		return failure.NotFound("template field not found") //nolint:wrapcheck
	}

	if err = s.fieldRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete template field")

		return fmt.Errorf("failed to delete template field: %w", err)
	}

	s.invalidateTemplateCaches(ctx, accountID, templateID)

	return nil
}

func (s *serviceImpl) getFields(ctx context.Context, accountID, templateID string) ([]model.TemplateField, error) {
	params := gDto.QueryParams{SortBy: model.FieldFieldSortOrder, SortDir: "ASC"}

	fields, err := s.fieldRepo.GetAll(ctx, params, shared.FilterByAccountID(templateID, accountID, model.FieldFieldTemplateID, model.FieldTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get template fields")

		return nil, fmt.Errorf("failed to get template fields: %w", err)
	}

	return fields, nil
}

func (s *serviceImpl) invalidateTemplateCaches(ctx context.Context, accountID, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTemplate, accountID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete template from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTemplate)
		shared.InvalidateCaches(c, s.cache, cacheCountTemplate)
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTemplate)
		shared.InvalidateCaches(c, s.cache, cacheCountTemplate)
	}()
}
