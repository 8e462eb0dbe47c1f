package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/template/model"
	gDto "tourdesk/shared/dto"
	gRepo "tourdesk/shared/repository"
)

type Template interface {
	Insert(ctx context.Context, model model.Template) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Template) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Template, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Template, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
}

type TemplateField interface {
	Insert(ctx context.Context, model model.TemplateField) error
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.TemplateField) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TemplateField, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TemplateField, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
}

type templateRepositoryImpl struct {
	gRepo.Repository[model.Template]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Template {
	return &templateRepositoryImpl{
		Repository: gRepo.NewRepository[model.Template](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type templateFieldRepositoryImpl struct {
	gRepo.Repository[model.TemplateField]
	db   *postgres.Connection
	otel otel.Otel
}

func NewField(db *postgres.Connection, otel otel.Otel) TemplateField {
	return &templateFieldRepositoryImpl{
		Repository: gRepo.NewRepository[model.TemplateField](model.FieldEntityName, model.FieldTableName, model.FieldFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
