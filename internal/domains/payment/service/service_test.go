package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tourdesk/config"
	otelMocks "tourdesk/infras/otel/mocks"
	pgMocks "tourdesk/infras/postgres/mocks"
	s3Mocks "tourdesk/infras/s3/mocks"
	bookingMocks "tourdesk/internal/domains/booking/mocks"
	bookingModel "tourdesk/internal/domains/booking/model"
	paymentMocks "tourdesk/internal/domains/payment/mocks"
	"tourdesk/internal/domains/payment/model"
	"tourdesk/internal/domains/payment/model/dto"
	"tourdesk/internal/domains/payment/service"
	notifierMocks "tourdesk/internal/notifier/mocks"
	cacheMocks "tourdesk/shared/cache/mocks"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
)

type paymentTestDeps struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	transactor  *pgMocks.MockTransactor
	cache       *cacheMocks.MockRedisCache
	s3          *s3Mocks.MockS3
	svc         service.Payment
}

func newPaymentTestDeps(ctrl *gomock.Controller) paymentTestDeps {
	repo := paymentMocks.NewMockPayment(ctrl)
	bookingRepo := bookingMocks.NewMockBooking(ctrl)
	transactor := pgMocks.NewMockTransactor(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "tourdesk-test"

	// Cache writes, invalidations and events happen on background goroutines.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().PaymentEvent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockS3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("object-name").AnyTimes()
	mockS3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return paymentTestDeps{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cache:       mockCache,
		s3:          mockS3,
		svc:         service.New(repo, bookingRepo, transactor, mockNotifier, cfg, mockCache, mockOtel, mockS3),
	}
}

func paymentTestContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyAccountID, "test-account-id")

	return context.WithValue(ctx, constant.ContextKeyUserID, "test-user-id")
}

func runTx(fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

func TestPaymentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	booking := bookingModel.Booking{
		ID:       "booking-id",
		Currency: "USD",
	}

	tests := []struct {
		name      string
		req       dto.CreatePaymentRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreatePaymentRequest{
				BookingID: "booking-id",
				Amount:    decimal.NewFromInt(100),
			},
			setupMock: func() {
				deps.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.bookingRepo.EXPECT().
					ApplyPaidDeltaTx(gomock.Any(), gomock.Any(), "booking-id", gomock.Any(), decimal.NewFromInt(100)).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "non-positive amount",
			req: dto.CreatePaymentRequest{
				BookingID: "booking-id",
				Amount:    decimal.Zero,
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "booking not found",
			req: dto.CreatePaymentRequest{
				BookingID: "nonexistent-id",
				Amount:    decimal.NewFromInt(100),
			},
			setupMock: func() {
				deps.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{}, nil)
			},
			wantErr: true,
		},
		{
			name: "currency differs from the booking",
			req: dto.CreatePaymentRequest{
				BookingID: "booking-id",
				Amount:    decimal.NewFromInt(100),
				Currency:  "EUR",
			},
			setupMock: func() {
				deps.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: true,
		},
		{
			name: "invalid payment date",
			req: dto.CreatePaymentRequest{
				BookingID:   "booking-id",
				Amount:      decimal.NewFromInt(100),
				PaymentDate: "15/01/2026",
			},
			setupMock: func() {
				deps.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: true,
		},
		{
			name: "transaction error",
			req: dto.CreatePaymentRequest{
				BookingID: "booking-id",
				Amount:    decimal.NewFromInt(100),
			},
			setupMock: func() {
				deps.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.Create(paymentTestContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.BookingID, result.BookingID)
				assert.Equal(t, "USD", result.Currency)
				assert.Equal(t, model.StatusPending, result.Status)
			}
		})
	}
}

func TestPaymentService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	payment := model.Payment{
		ID:        "payment-id",
		BookingID: "booking-id",
		Amount:    decimal.NewFromInt(100),
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			id:   "payment-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss, successful get from db",
			id:   "payment-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)
			},
			wantErr: false,
			wantID:  "payment-id",
		},
		{
			name: "payment not found",
			id:   "nonexistent-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Payment{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.Get(paymentTestContext(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.wantID != "" {
					assert.Equal(t, tt.wantID, result.ID)
				}
			}
		})
	}
}

func TestPaymentService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	tests := []struct {
		name      string
		bookingID string
		setupMock func()
		wantErr   bool
		wantTotal int
	}{
		{
			name:      "successful get all scoped to booking",
			bookingID: "booking-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				deps.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(2, nil)

				deps.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Payment{
						{ID: "p1", Amount: decimal.NewFromInt(60)},
						{ID: "p2", Amount: decimal.NewFromInt(40)},
					}, nil)
			},
			wantErr:   false,
			wantTotal: 2,
		},
		{
			name: "count error",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				deps.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.GetAll(paymentTestContext(), gDto.QueryParams{Limit: 10, Page: 1}, tt.bookingID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, result.TotalData)
			}
		})
	}
}

func TestPaymentService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	payment := model.Payment{
		ID:        "payment-id",
		BookingID: "booking-id",
		Amount:    decimal.NewFromInt(100),
	}

	newAmount := decimal.NewFromInt(150)
	badAmount := decimal.NewFromInt(-10)

	tests := []struct {
		name      string
		req       dto.UpdatePaymentRequest
		id        string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "amount change applies delta to booking",
			req:  dto.UpdatePaymentRequest{Amount: &newAmount},
			id:   "payment-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.bookingRepo.EXPECT().
					ApplyPaidDeltaTx(gomock.Any(), gomock.Any(), "booking-id", gomock.Any(), decimal.NewFromInt(50)).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "status-only update skips the delta",
			req:  dto.UpdatePaymentRequest{Status: model.StatusRefunded},
			id:   "payment-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty update request",
			req:       dto.UpdatePaymentRequest{},
			id:        "payment-id",
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "non-positive amount",
			req:  dto.UpdatePaymentRequest{Amount: &badAmount},
			id:   "payment-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)
			},
			wantErr: true,
		},
		{
			name: "payment not found",
			req:  dto.UpdatePaymentRequest{Amount: &newAmount},
			id:   "nonexistent-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Payment{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := deps.svc.Update(paymentTestContext(), tt.req, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	payment := model.Payment{
		ID:              "payment-id",
		BookingID:       "booking-id",
		Amount:          decimal.NewFromInt(100),
		ReceiptFilePath: "https://cdn.test/receipt.pdf",
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "deletion reverses the paid amount",
			id:   "payment-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.bookingRepo.EXPECT().
					ApplyPaidDeltaTx(gomock.Any(), gomock.Any(), "booking-id", gomock.Any(), decimal.NewFromInt(-100)).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "payment not found",
			id:   "nonexistent-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Payment{}, nil)
			},
			wantErr: true,
		},
		{
			name: "delta error rolls back",
			id:   "payment-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.bookingRepo.EXPECT().
					ApplyPaidDeltaTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("no rows updated"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := deps.svc.Delete(paymentTestContext(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentService_UploadReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newPaymentTestDeps(ctrl)

	payment := model.Payment{
		ID:        "payment-id",
		BookingID: "booking-id",
		Amount:    decimal.NewFromInt(100),
	}

	req := dto.UploadReceiptRequest{
		Receipt: &multipart.FileHeader{Filename: "receipt.pdf"},
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful upload",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.s3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.test/receipt.pdf", nil)

				deps.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "payment not found",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Payment{}, nil)
			},
			wantErr: true,
		},
		{
			name: "upload error",
			setupMock: func() {
				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(payment, nil)

				deps.s3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("upload error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.UploadReceipt(paymentTestContext(), "payment-id", req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://cdn.test/receipt.pdf", result.ReceiptURL)
			}
		})
	}
}
