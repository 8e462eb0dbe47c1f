package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tourdesk/config"
	otelMocks "tourdesk/infras/otel/mocks"
	pgMocks "tourdesk/infras/postgres/mocks"
	bookingMocks "tourdesk/internal/domains/booking/mocks"
	templateMocks "tourdesk/internal/domains/template/mocks"
	"tourdesk/internal/domains/template/model"
	"tourdesk/internal/domains/template/model/dto"
	"tourdesk/internal/domains/template/service"
	cacheMocks "tourdesk/shared/cache/mocks"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

type templateTestDeps struct {
	repo        *templateMocks.MockTemplate
	fieldRepo   *templateMocks.MockTemplateField
	bookingRepo *bookingMocks.MockBooking
	transactor  *pgMocks.MockTransactor
	cache       *cacheMocks.MockRedisCache
	svc         service.Template
}

func newTemplateTestDeps(ctrl *gomock.Controller) templateTestDeps {
	repo := templateMocks.NewMockTemplate(ctrl)
	fieldRepo := templateMocks.NewMockTemplateField(ctrl)
	bookingRepo := bookingMocks.NewMockBooking(ctrl)
	transactor := pgMocks.NewMockTransactor(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Cache writes and invalidations happen on background goroutines.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return templateTestDeps{
		repo:        repo,
		fieldRepo:   fieldRepo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cache:       mockCache,
		svc:         service.New(repo, fieldRepo, bookingRepo, transactor, cfg, mockCache, mockOtel),
	}
}

func templateTestContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyAccountID, "test-account-id")

	return context.WithValue(ctx, constant.ContextKeyUserID, "test-user-id")
}

func runTx(fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

func TestTemplateService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateTemplateRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation with fields",
			req: dto.CreateTemplateRequest{
				Name: "Day Tour",
				Fields: []dto.TemplateFieldRequest{
					{FieldName: "pickup_location", FieldType: model.FieldTypeText, IsRequired: true},
					{FieldName: "pax", FieldType: model.FieldTypeNumber},
				},
			},
			setupMock: func() {
				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.fieldRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "unknown field type",
			req: dto.CreateTemplateRequest{
				Name: "Day Tour",
				Fields: []dto.TemplateFieldRequest{
					{FieldName: "pickup_location", FieldType: "geojson"},
				},
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "dropdown without options",
			req: dto.CreateTemplateRequest{
				Name: "Day Tour",
				Fields: []dto.TemplateFieldRequest{
					{FieldName: "meal_choice", FieldType: model.FieldTypeDropdown},
				},
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "duplicate field name",
			req: dto.CreateTemplateRequest{
				Name: "Day Tour",
				Fields: []dto.TemplateFieldRequest{
					{FieldName: "pax", FieldType: model.FieldTypeNumber},
					{FieldName: "pax", FieldType: model.FieldTypeText},
				},
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "transaction error",
			req: dto.CreateTemplateRequest{
				Name: "Day Tour",
			},
			setupMock: func() {
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

			result, err := deps.svc.Create(templateTestContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.Name, result.Name)
				assert.Len(t, result.Fields, len(tt.req.Fields))
			}
		})
	}
}

func TestTemplateService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	template := model.Template{
		ID:        "test-id",
		AccountID: "test-account-id",
		Name:      "Day Tour",
		IsActive:  true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
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
			id:   "test-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss, successful get from db",
			id:   "test-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(template, nil)

				deps.fieldRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.TemplateField{
						{ID: "field-id", FieldName: "pax", FieldType: model.FieldTypeNumber},
					}, nil)
			},
			wantErr: false,
			wantID:  "test-id",
		},
		{
			name: "template not found",
			id:   "nonexistent-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Template{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			id:   "test-id",
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				deps.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Template{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.Get(templateTestContext(), tt.id)

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

func TestTemplateService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	active := true

	tests := []struct {
		name       string
		params     gDto.QueryParams
		activeOnly *bool
		setupMock  func()
		wantErr    bool
		wantResult dto.GetTemplatesResponse
	}{
		{
			name:       "successful get all with active filter",
			params:     gDto.QueryParams{Limit: 10, Page: 1},
			activeOnly: &active,
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				deps.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				deps.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Template{{ID: "test-id", Name: "Day Tour", IsActive: true}}, nil)
			},
			wantErr:    false,
			wantResult: dto.GetTemplatesResponse{TotalData: 1, TotalPage: 1},
		},
		{
			name:   "count error",
			params: gDto.QueryParams{Limit: 10, Page: 1},
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
		{
			name:   "get all error",
			params: gDto.QueryParams{Limit: 10, Page: 1},
			setupMock: func() {
				deps.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				deps.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				deps.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("get all error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.GetAll(templateTestContext(), tt.params, tt.activeOnly)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantResult.TotalData, result.TotalData)
				assert.Equal(t, tt.wantResult.TotalPage, result.TotalPage)
			}
		})
	}
}

func TestTemplateService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	tests := []struct {
		name      string
		req       dto.UpdateTemplateRequest
		id        string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update",
			req:  dto.UpdateTemplateRequest{Name: "Updated Tour"},
			id:   "test-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty update request",
			req:       dto.UpdateTemplateRequest{},
			id:        "test-id",
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "template not found",
			req:  dto.UpdateTemplateRequest{Name: "Updated Tour"},
			id:   "nonexistent-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "update error",
			req:  dto.UpdateTemplateRequest{Name: "Updated Tour"},
			id:   "test-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := deps.svc.Update(templateTestContext(), tt.req, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTemplateService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful deletion",
			id:   "test-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.bookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				deps.transactor.EXPECT().
					WithTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
						return runTx(fn)
					})

				deps.fieldRepo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				deps.repo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "template not found",
			id:   "nonexistent-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "referenced by bookings",
			id:   "test-id",
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.bookingRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := deps.svc.Delete(templateTestContext(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTemplateService_AddField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	tests := []struct {
		name      string
		req       dto.TemplateFieldRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful addition",
			req:  dto.TemplateFieldRequest{FieldName: "hotel_name", FieldType: model.FieldTypeText},
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.fieldRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.TemplateField{{FieldName: "pax", FieldType: model.FieldTypeNumber}}, nil)

				deps.fieldRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "template not found",
			req:  dto.TemplateFieldRequest{FieldName: "hotel_name", FieldType: model.FieldTypeText},
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "field name already declared",
			req:  dto.TemplateFieldRequest{FieldName: "pax", FieldType: model.FieldTypeText},
			setupMock: func() {
				deps.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.fieldRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.TemplateField{{FieldName: "pax", FieldType: model.FieldTypeNumber}}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := deps.svc.AddField(templateTestContext(), "test-id", tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.FieldName, result.FieldName)
			}
		})
	}
}

func TestTemplateService_DeleteField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := newTemplateTestDeps(ctrl)

	tests := []struct {
		name      string
		fieldID   string
		setupMock func()
		wantErr   bool
	}{
		{
			name:    "successful deletion",
			fieldID: "field-id",
			setupMock: func() {
				deps.fieldRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				deps.fieldRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:    "field not found",
			fieldID: "nonexistent-id",
			setupMock: func() {
				deps.fieldRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := deps.svc.DeleteField(templateTestContext(), "test-id", tt.fieldID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
