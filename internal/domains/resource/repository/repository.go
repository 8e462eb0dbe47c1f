package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/resource/model"
	templateModel "tourdesk/internal/domains/template/model"
	"tourdesk/shared"
	gRepo "tourdesk/shared/repository"
)

// Lookup resolves whether a reference row a booking field points at exists in
// the caller's account. The field type picks the table.
type Lookup interface {
	Exist(ctx context.Context, fieldType, id, accountID string) (bool, error)
}

type lookupImpl struct {
	customers gRepo.Repository[model.Resource]
	cars      gRepo.Repository[model.Resource]
	drivers   gRepo.Repository[model.Resource]
	tourReps  gRepo.Repository[model.Resource]
}

func New(db *postgres.Connection, otel otel.Otel) Lookup {
	return &lookupImpl{
		customers: gRepo.NewRepository[model.Resource](model.EntityCustomer, model.TableCustomers, model.FieldID, db, otel),
		cars:      gRepo.NewRepository[model.Resource](model.EntityCar, model.TableCars, model.FieldID, db, otel),
		drivers:   gRepo.NewRepository[model.Resource](model.EntityDriver, model.TableDrivers, model.FieldID, db, otel),
		tourReps:  gRepo.NewRepository[model.Resource](model.EntityTourRep, model.TableTourReps, model.FieldID, db, otel),
	}
}

func (l *lookupImpl) Exist(ctx context.Context, fieldType, id, accountID string) (bool, error) {
	var (
		repo  *gRepo.Repository[model.Resource]
		table string
	)

	switch fieldType {
	case templateModel.FieldTypeCustomerSelect:
		repo, table = &l.customers, model.TableCustomers
	case templateModel.FieldTypeCarSelect:
		repo, table = &l.cars, model.TableCars
	case templateModel.FieldTypeDriverSelect:
		repo, table = &l.drivers, model.TableDrivers
	case templateModel.FieldTypeTourRepSelect:
		repo, table = &l.tourReps, model.TableTourReps
	default:
		return false, fmt.Errorf("field type %q does not reference a lookup table", fieldType)
	}

	return repo.Exist(ctx, shared.FilterByAccountID(id, accountID, model.FieldID, table)) //nolint:wrapcheck
}
