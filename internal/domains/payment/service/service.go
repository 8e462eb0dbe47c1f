package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/infras/s3"
	bookingModel "tourdesk/internal/domains/booking/model"
	bookingRepo "tourdesk/internal/domains/booking/repository"
	"tourdesk/internal/domains/payment/model"
	"tourdesk/internal/domains/payment/model/dto"
	"tourdesk/internal/domains/payment/repository"
	"tourdesk/internal/notifier"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
)

const (
	cacheGetPayment    = "payment:get"
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, bookingID string) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadReceipt(ctx context.Context, paymentID string, req dto.UploadReceiptRequest) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	notifier    notifier.Notifier
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	notif notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		notifier:    notif,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func identity(ctx context.Context) (accountID, userID string) {
	accountID, _ = ctx.Value(constant.ContextKeyAccountID).(string)
	userID, _ = ctx.Value(constant.ContextKeyUserID).(string)

	return accountID, userID
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)

	if !req.Amount.IsPositive() {
		return res, failure.Validation("amount", "must be greater than zero") //nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByAccountID(req.BookingID, accountID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	// paid_amount is a plain sum; a payment in another currency would corrupt it.
	if req.Currency != constant.Empty && req.Currency != booking.Currency {
		return res, failure.Validation("currency", "must match the booking's currency") //nolint:wrapcheck
	}

	payment, err := req.ToModel(accountID, user, booking.Currency)
	if err != nil {
		return res, failure.Validation("payment_date", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	// The payment row and the booking's running paid_amount move in one
	// transaction; the increment happens in the database so concurrent
	// payments cannot clobber each other.
	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if err := s.bookingRepo.ApplyPaidDeltaTx(ctx, tx, payment.BookingID, accountID, payment.Amount); err != nil {
			return fmt.Errorf("failed to update booking paid amount: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create payment")

		return res, err
	}

	s.invalidatePaymentCaches(ctx, accountID, payment.ID, payment.BookingID)
	go s.notifier.PaymentEvent(context.WithoutCancel(ctx), notifier.EventPaymentRecorded, accountID, payment.ID, payment.BookingID)

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetPayment, accountID, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payment")

		return res, nil
	}

	payment, err := s.repo.Get(ctx, shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	res.FromModel(payment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, bookingID string) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterAccountOnly(accountID, model.TableName),
		},
	}

	if bookingID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldBookingID,
			Value:    bookingID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, accountID, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	accountID, user := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return failure.NotFound("payment not found") //nolint:wrapcheck
	}

	delta := decimal.Zero

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return failure.Validation("amount", "must be greater than zero") //nolint:wrapcheck
		}

		delta = req.Amount.Sub(payment.Amount)
	}

	updatedFields := shared.TransformFields(req, user)

	if req.PaymentDate != constant.Empty {
		paymentDate, err := req.ParsePaymentDate()
		if err != nil {
			return failure.Validation("payment_date", "must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		updatedFields[model.FieldPaymentDate] = paymentDate
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		if !delta.IsZero() {
			if err := s.bookingRepo.ApplyPaidDeltaTx(ctx, tx, payment.BookingID, accountID, delta); err != nil {
				return fmt.Errorf("failed to update booking paid amount: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update payment")

		return err
	}

	s.invalidatePaymentCaches(ctx, accountID, id, payment.BookingID)
	go s.notifier.PaymentEvent(context.WithoutCancel(ctx), notifier.EventPaymentUpdated, accountID, id, payment.BookingID)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, _ := identity(ctx)
	filter := shared.FilterByAccountID(id, accountID, model.FieldID, model.TableName)

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return failure.NotFound("payment not found") //nolint:wrapcheck
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}

		if err := s.bookingRepo.ApplyPaidDeltaTx(ctx, tx, payment.BookingID, accountID, payment.Amount.Neg()); err != nil {
			return fmt.Errorf("failed to update booking paid amount: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete payment")

		return err
	}

	s.invalidatePaymentCaches(ctx, accountID, id, payment.BookingID)

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.PaymentEvent(c, notifier.EventPaymentDeleted, accountID, id, payment.BookingID)

		if payment.ReceiptFilePath != constant.Empty {
			s.deleteReceiptBlob(c, payment.ReceiptFilePath)
		}
	}()

	return nil
}

func (s *serviceImpl) UploadReceipt(ctx context.Context, paymentID string, req dto.UploadReceiptRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.UploadReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	accountID, user := identity(ctx)
	filter := shared.FilterByAccountID(paymentID, accountID, model.FieldID, model.TableName)

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName
	fileName := fmt.Sprintf("%s_%s", paymentID, req.Receipt.Filename)

	url, err := s.s3.UploadFile(ctx, bucketName, constant.S3DirectoryPaymentReceipts, req.ReceiptFile, req.Receipt, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload receipt to S3")

		return res, failure.Storage(err) //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct {
		ReceiptFilePath string `db:"receipt_file_path"`
	}{ReceiptFilePath: url}, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to save receipt path")

		return res, fmt.Errorf("failed to save receipt path: %w", err)
	}

	s.invalidatePaymentCaches(ctx, accountID, paymentID, payment.BookingID)

	// The old blob goes away only after the row points at the new one.
	if payment.ReceiptFilePath != constant.Empty {
		go s.deleteReceiptBlob(context.WithoutCancel(ctx), payment.ReceiptFilePath)
	}

	payment.ReceiptFilePath = url
	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) deleteReceiptBlob(ctx context.Context, receiptURL string) {
	bucketName := s.cfg.External.S3.BucketName

	objectName := s.s3.GetObjectNameFromURL(bucketName, receiptURL)
	if objectName == constant.Empty {
		log.Warn().Str("url", receiptURL).Msg("failed to extract object name from URL")

		return
	}

	if err := s.s3.DeleteFile(ctx, bucketName, constant.S3DirectoryPaymentReceipts, objectName); err != nil {
		log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete receipt from S3")
	}
}

func (s *serviceImpl) invalidatePaymentCaches(ctx context.Context, accountID, id, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPayment, accountID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete payment from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)

		// The owning booking's paid_amount changed with the payment.
		if err := s.cache.Delete(c, shared.BuildCacheKey("booking:get", accountID, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, "booking:gets")
	}()
}
