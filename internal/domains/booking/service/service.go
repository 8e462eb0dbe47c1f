package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/infras/s3"
	"tourdesk/internal/domains/booking/model"
	"tourdesk/internal/domains/booking/model/dto"
	"tourdesk/internal/domains/booking/repository"
	paymentModel "tourdesk/internal/domains/payment/model"
	paymentRepo "tourdesk/internal/domains/payment/repository"
	resourceRepo "tourdesk/internal/domains/resource/repository"
	templateModel "tourdesk/internal/domains/template/model"
	templateRepo "tourdesk/internal/domains/template/repository"
	"tourdesk/internal/notifier"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, query dto.ListBookingsQuery) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, bookingID string, req dto.UploadPhotoRequest) (dto.PhotoResponse, error)
	GetPhotos(ctx context.Context, bookingID string) (dto.GetPhotosResponse, error)
	DeletePhoto(ctx context.Context, bookingID, photoID string) error
}

type serviceImpl struct {
	repo              repository.Booking
	fieldValueRepo    repository.FieldValue
	photoRepo         repository.Photo
	templateRepo      templateRepo.Template
	templateFieldRepo templateRepo.TemplateField
	resourceLookup    resourceRepo.Lookup
	paymentRepo       paymentRepo.Payment
	transactor        postgres.Transactor
	notifier          notifier.Notifier
	cfg               *config.Config
	cache             cache.RedisCache
	otel              otel.Otel
	s3                s3.S3
}

func New(
	repo repository.Booking,
	fieldValueRepo repository.FieldValue,
	photoRepo repository.Photo,
	tmplRepo templateRepo.Template,
	tmplFieldRepo templateRepo.TemplateField,
	resourceLookup resourceRepo.Lookup,
	payRepo paymentRepo.Payment,
	transactor postgres.Transactor,
	notif notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Booking {
	return &serviceImpl{
		repo:              repo,
		fieldValueRepo:    fieldValueRepo,
		photoRepo:         photoRepo,
		templateRepo:      tmplRepo,
		templateFieldRepo: tmplFieldRepo,
		resourceLookup:    resourceLookup,
		paymentRepo:       payRepo,
		transactor:        transactor,
		notifier:          notif,
		cfg:               cfg,
		cache:             cache,
		otel:              otel,
		s3:                s3,
	}
}

func identity(ctx context.Context) (accountID, userID string) {
	accountID, _ = ctx.Value(constant.ContextKeyAccountID).(string)
	userID, _ = ctx.Value(constant.ContextKeyUserID).(string)

	return accountID, userID
}

// resolveFieldValues checks submitted values against the template's fields and
// returns the canonical rows to persist. Unknown field names are rejected,
// required fields must be present and non-empty, and reference fields must
// point at rows the account owns.
func (s *serviceImpl) resolveFieldValues(
	ctx context.Context,
	accountID, user, bookingID string,
	fields []templateModel.TemplateField,
	values map[string]string,
) ([]model.FieldValue, error) {
	byName := make(map[string]templateModel.TemplateField, len(fields))
	for _, field := range fields {
		byName[field.FieldName] = field
	}

	for name := range values {
		if _, ok := byName[name]; !ok {
			return nil, failure.Validation(name, "is not defined by the template") //nolint:wrapcheck
		}
	}

	resolved := make([]model.FieldValue, 0, len(values))

	for _, field := range fields {
		raw, present := values[field.FieldName]

		if !present || raw == constant.Empty {
			if field.IsRequired {
				return nil, failure.Validation(field.FieldName, "is required") //nolint:wrapcheck
			}

			continue
		}

		canonical, err := field.CanonicalValue(raw)
		if err != nil {
			return nil, err
		}

		if templateModel.IsReferenceType(field.FieldType) {
			exists, err := s.resourceLookup.Exist(ctx, field.FieldType, canonical, accountID)
			if err != nil {
				log.Error().Err(err).Str("field", field.FieldName).Msg("failed to check field reference")

				return nil, fmt.Errorf("failed to check field reference: %w", err)
			}

			if !exists {
				return nil, failure.NotFound(fmt.Sprintf("%s reference not found", field.FieldName)) //nolint:wrapcheck
			}
		}

		resolved = append(resolved, model.FieldValue{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			AccountID: accountID,
			FieldName: field.FieldName,
			Value:     canonical,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		})
	}

	return resolved, nil
}

// checkResourceRefs verifies every supplied reference row exists in the
// caller's account. A missing or foreign row surfaces as NotFound naming the
// entity, never revealing whether another tenant owns it.
func (s *serviceImpl) checkResourceRefs(ctx context.Context, accountID, customerID, tourRepID, carID, driverID string) error {
	refs := []struct {
		fieldType string
		id        string
		entity    string
	}{
		{templateModel.FieldTypeCustomerSelect, customerID, "customer"},
		{templateModel.FieldTypeTourRepSelect, tourRepID, "tour rep"},
		{templateModel.FieldTypeCarSelect, carID, "car"},
		{templateModel.FieldTypeDriverSelect, driverID, "driver"},
	}

	for _, ref := range refs {
		if ref.id == constant.Empty {
			continue
		}

		exists, err := s.resourceLookup.Exist(ctx, ref.fieldType, ref.id, accountID)
		if err != nil {
			log.Error().Err(err).Str("entity", ref.entity).Msg("failed to check booking reference")

			return fmt.Errorf("failed to check booking reference: %w", err)
		}

		if !exists {
			return failure.NotFound(ref.entity + " not found") //nolint:wrapcheck
		}
	}

	return nil
}

func parseBookingDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := timezone.Parse(constant.DateOnlyFormat, start)
	if err != nil {
		return time.Time{}, time.Time{}, failure.Validation("start_date", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	endDate, err := timezone.Parse(constant.DateOnlyFormat, end)
	if err != nil {
		return time.Time{}, time.Time{}, failure.Validation("end_date", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, failure.Validation("end_date", "must not be before start_date") //nolint:wrapcheck
	}

	return startDate, endDate, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)

	start, end, err := parseBookingDates(req.StartDate, req.EndDate)
	if err != nil {
		return res, err
	}

	template, err := s.templateRepo.Get(ctx, shared.FilterByAccountID(req.TemplateID, accountID, templateModel.FieldID, templateModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get template")

		return res, fmt.Errorf("failed to get template: %w", err)
	}

	if template.ID == constant.Empty {
		return res, failure.NotFound("template not found") //nolint:wrapcheck
	}

	if !template.IsActive {
		return res, failure.BadRequestFromString("template is not active") //nolint:wrapcheck
	}

	if err = s.checkResourceRefs(ctx, accountID, req.CustomerID, req.TourRepID, req.CarID, req.DriverID); err != nil {
		return res, err
	}

	fields, err := s.templateFieldRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: templateModel.FieldFieldSortOrder, SortDir: "ASC"},
		shared.FilterByAccountID(template.ID, accountID, templateModel.FieldFieldTemplateID, templateModel.FieldTableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get template fields")

		return res, fmt.Errorf("failed to get template fields: %w", err)
	}

	booking := req.ToModel(accountID, user, s.cfg.App.DefaultCurrency, start, end)

	values, err := s.resolveFieldValues(ctx, accountID, user, booking.ID, fields, req.FieldValues)
	if err != nil {
		return res, err
	}

	for attempt := 0; ; attempt++ {
		err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
			if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
				return err //nolint:wrapcheck
			}

			if len(values) > 0 {
				if err := s.fieldValueRepo.InsertBulkTx(ctx, tx, values); err != nil {
					return err //nolint:wrapcheck
				}
			}

			return nil
		})
		if err == nil {
			break
		}

		if repository.IsUniqueViolation(err) && attempt < constant.BookingNumberMaxRetries-1 {
			log.Warn().Str("bookingNumber", booking.BookingNumber).Msg("booking number collision, retrying")
			booking.BookingNumber = model.GenerateBookingNumber(timezone.Now())

			continue
		}

		log.Error().Err(err).Msg("failed to create booking")

		if repository.IsUniqueViolation(err) {
			return res, failure.Conflict("could not allocate a unique booking number") //nolint:wrapcheck
		}

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, accountID, booking.ID)
	go s.notifier.BookingEvent(context.WithoutCancel(ctx), notifier.EventBookingCreated, accountID, booking.ID)

	res.FromModel(booking, values)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetBooking, accountID, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	values, err := s.fieldValueRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByAccountID(id, accountID, model.FieldValueBookingID, model.ValueTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking field values")

		return res, fmt.Errorf("failed to get booking field values: %w", err)
	}

	res.FromModel(booking, values)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// buildListFilter turns the caller's list query into a tenant-scoped filter
// group. The date range selects bookings by their start date.
func buildListFilter(accountID string, query dto.ListBookingsQuery) (gDto.FilterGroup, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterAccountOnly(accountID, model.TableName),
		},
	}

	if query.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Value:    query.Status,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if query.DateFrom != constant.Empty {
		from, err := timezone.Parse(constant.DateOnlyFormat, query.DateFrom)
		if err != nil {
			return filter, failure.Validation("date_from", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "filter_date_from",
			Field:    model.FieldStartDate,
			Value:    from,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	if query.DateTo != constant.Empty {
		to, err := timezone.Parse(constant.DateOnlyFormat, query.DateTo)
		if err != nil {
			return filter, failure.Validation("date_to", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "filter_date_to",
			Field:    model.FieldStartDate,
			Value:    to.AddDate(0, 0, 1),
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
		})
	}

	refFilters := []struct {
		field string
		arg   string
		value string
	}{
		{model.FieldCustomerID, "filter_customer_id", query.CustomerID},
		{model.FieldTourRepID, "filter_tour_rep_id", query.TourRepID},
	}

	for _, ref := range refFilters {
		if ref.value == constant.Empty {
			continue
		}

		refID, err := uuid.Parse(ref.value)
		if err != nil {
			return filter, failure.Validation(ref.field, "must be a valid id") //nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  ref.arg,
			Field:    ref.field,
			Value:    refID.String(),
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return filter, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, query dto.ListBookingsQuery) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	filter, err := buildListFilter(accountID, query)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	accountID, user := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if err = s.checkResourceRefs(ctx, accountID, req.CustomerID, req.TourRepID, req.CarID, req.DriverID); err != nil {
		return err
	}

	var values []model.FieldValue

	if req.FieldValues != nil {
		fields, err := s.templateFieldRepo.GetAll(ctx,
			gDto.QueryParams{SortBy: templateModel.FieldFieldSortOrder, SortDir: "ASC"},
			shared.FilterByAccountID(booking.TemplateID, accountID, templateModel.FieldFieldTemplateID, templateModel.FieldTableName),
		)
		if err != nil {
			log.Error().Err(err).Msg("failed to get template fields")

			return fmt.Errorf("failed to get template fields: %w", err)
		}

		values, err = s.resolveFieldValues(ctx, accountID, user, booking.ID, fields, *req.FieldValues)
		if err != nil {
			return err
		}
	}

	updatedFields := shared.TransformFields(req, user)

	// Date strings carry no db tag; they are parsed here and checked for
	// ordering against the stored dates when only one side changes.
	if req.StartDate != constant.Empty || req.EndDate != constant.Empty {
		startStr := req.StartDate
		if startStr == constant.Empty {
			startStr = timezone.Format(booking.StartDate, constant.DateOnlyFormat)
		}

		endStr := req.EndDate
		if endStr == constant.Empty {
			endStr = timezone.Format(booking.EndDate, constant.DateOnlyFormat)
		}

		start, end, err := parseBookingDates(startStr, endStr)
		if err != nil {
			return err
		}

		if req.StartDate != constant.Empty {
			updatedFields[model.FieldStartDate] = start
		}

		if req.EndDate != constant.Empty {
			updatedFields[model.FieldEndDate] = end
		}
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		// Supplied field values replace the existing set wholesale.
		if req.FieldValues != nil {
			valueFilter := shared.FilterByAccountID(id, accountID, model.FieldValueBookingID, model.ValueTableName)
			if err := s.fieldValueRepo.DeleteTx(ctx, tx, valueFilter); err != nil {
				return fmt.Errorf("failed to delete booking field values: %w", err)
			}

			if len(values) > 0 {
				if err := s.fieldValueRepo.InsertBulkTx(ctx, tx, values); err != nil {
					return fmt.Errorf("failed to insert booking field values: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return err
	}

	s.invalidateBookingCaches(ctx, accountID, id)
	go s.notifier.BookingEvent(context.WithoutCancel(ctx), notifier.EventBookingUpdated, accountID, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	hasPayments, err := s.paymentRepo.Exist(ctx, shared.FilterByAccountID(id, accountID, paymentModel.FieldBookingID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking payments")

		return fmt.Errorf("failed to check booking payments: %w", err)
	}

	if hasPayments {
		return failure.Conflict("booking has recorded payments") //nolint:wrapcheck
	}

	photoFilter := shared.FilterByAccountID(id, accountID, model.FieldPhotoBookingID, model.PhotoTableName)

	photos, err := s.photoRepo.GetAll(ctx, gDto.QueryParams{}, photoFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking photos")

		return fmt.Errorf("failed to get booking photos: %w", err)
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		valueFilter := shared.FilterByAccountID(id, accountID, model.FieldValueBookingID, model.ValueTableName)
		if err := s.fieldValueRepo.DeleteTx(ctx, tx, valueFilter); err != nil {
			return fmt.Errorf("failed to delete booking field values: %w", err)
		}

		if len(photos) > 0 {
			if err := s.photoRepo.DeleteTx(ctx, tx, photoFilter); err != nil {
				return fmt.Errorf("failed to delete booking photos: %w", err)
			}
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return err
	}

	s.invalidateBookingCaches(ctx, accountID, id)

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.BookingEvent(c, notifier.EventBookingDeleted, accountID, id)
		s.deletePhotoBlobs(c, photos)
	}()

	return nil
}

func (s *serviceImpl) UploadPhoto(ctx context.Context, bookingID string, req dto.UploadPhotoRequest) (res dto.PhotoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UploadPhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)

	exist, err := s.repo.Exist(ctx, shared.FilterByAccountID(bookingID, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return res, fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName
	fileName := fmt.Sprintf("%s_%s_%s", bookingID, uuid.NewString(), req.Photo.Filename)

	// The object is written before the row so the row never points at a blob
	// that does not exist.
	url, err := s.s3.UploadFile(ctx, bucketName, constant.S3DirectoryBookingPhotos, req.PhotoFile, req.Photo, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload photo to S3")

		return res, failure.Storage(err) //nolint:wrapcheck
	}

	photo := req.ToModel(bookingID, accountID, user, url)

	if err = s.photoRepo.Insert(ctx, photo); err != nil {
		log.Error().Err(err).Msg("failed to save booking photo")

		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL(bucketName, url)
			if objectName != constant.Empty {
				if err := s.s3.DeleteFile(c, bucketName, constant.S3DirectoryBookingPhotos, objectName); err != nil {
					log.Error().Err(err).Msg("failed to clean up orphaned photo blob")
				}
			}
		}()

		return res, fmt.Errorf("failed to save booking photo: %w", err)
	}

	s.invalidateBookingCaches(ctx, accountID, bookingID)

	res.FromModel(photo)

	return res, nil
}

func (s *serviceImpl) GetPhotos(ctx context.Context, bookingID string) (res dto.GetPhotosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetPhotos")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	exist, err := s.repo.Exist(ctx, shared.FilterByAccountID(bookingID, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return res, fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	photos, err := s.photoRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByAccountID(bookingID, accountID, model.FieldPhotoBookingID, model.PhotoTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking photos")

		return res, fmt.Errorf("failed to get booking photos: %w", err)
	}

	res.FromModels(photos)

	return res, nil
}

func (s *serviceImpl) DeletePhoto(ctx context.Context, bookingID, photoID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.DeletePhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	filter := shared.FilterByAccountID(photoID, accountID, model.FieldPhotoID, model.PhotoTableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldPhotoBookingID,
		Value:    bookingID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.PhotoTableName,
	})

	photo, err := s.photoRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking photo")

		return fmt.Errorf("failed to get booking photo: %w", err)
	}

	if photo.ID == constant.Empty {
		return failure.NotFound("booking photo not found") //nolint:wrapcheck
	}

	if err = s.photoRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking photo")

		return fmt.Errorf("failed to delete booking photo: %w", err)
	}

	s.invalidateBookingCaches(ctx, accountID, bookingID)

	go s.deletePhotoBlobs(context.WithoutCancel(ctx), []model.Photo{photo})

	return nil
}

// deletePhotoBlobs removes photo objects after their rows are gone. Failures
// only leave orphaned blobs, so they are logged and swallowed.
func (s *serviceImpl) deletePhotoBlobs(ctx context.Context, photos []model.Photo) {
	bucketName := s.cfg.External.S3.BucketName

	for _, photo := range photos {
		objectName := s.s3.GetObjectNameFromURL(bucketName, photo.FilePath)
		if objectName == constant.Empty {
			log.Warn().Str("url", photo.FilePath).Msg("failed to extract object name from URL")

			continue
		}

		if err := s.s3.DeleteFile(ctx, bucketName, constant.S3DirectoryBookingPhotos, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete photo from S3")
		}
	}
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, accountID, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, accountID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
