package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/booking/model"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/logger"
	gRepo "tourdesk/shared/repository"
	"tourdesk/shared/timezone"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	ApplyPaidDeltaTx(ctx context.Context, tx *sqlx.Tx, bookingID, accountID string, delta decimal.Decimal) error
}

type FieldValue interface {
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.FieldValue) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.FieldValue, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
}

type Photo interface {
	Insert(ctx context.Context, model model.Photo) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Photo, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Photo, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
}

type bookingRepositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &bookingRepositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ApplyPaidDeltaTx shifts a booking's paid_amount by delta in a single
// statement, so concurrent payment mutations never lose each other's updates.
func (repo *bookingRepositoryImpl) ApplyPaidDeltaTx(ctx context.Context, tx *sqlx.Tx, bookingID, accountID string, delta decimal.Decimal) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ApplyPaidDeltaTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `UPDATE bookings
		SET paid_amount = paid_amount + :delta, modified_at = :modified_at
		WHERE id = :id AND account_id = :account_id`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.NamedExecContext(ctx, query, map[string]any{
		"delta":       delta,
		"modified_at": timezone.Now(),
		"id":          bookingID,
		"account_id":  accountID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to apply paid amount delta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("booking %s not found for paid amount delta", bookingID)
	}

	return nil
}

type fieldValueRepositoryImpl struct {
	gRepo.Repository[model.FieldValue]
	db   *postgres.Connection
	otel otel.Otel
}

func NewFieldValue(db *postgres.Connection, otel otel.Otel) FieldValue {
	return &fieldValueRepositoryImpl{
		Repository: gRepo.NewRepository[model.FieldValue](model.ValueEntityName, model.ValueTableName, model.FieldValueID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type photoRepositoryImpl struct {
	gRepo.Repository[model.Photo]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPhoto(db *postgres.Connection, otel otel.Otel) Photo {
	return &photoRepositoryImpl{
		Repository: gRepo.NewRepository[model.Photo](model.PhotoEntityName, model.PhotoTableName, model.FieldPhotoID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// IsUniqueViolation reports whether err stems from a postgres unique
// constraint, e.g. a booking number collision.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
