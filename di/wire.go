//go:build wireinject
// +build wireinject

package di

import (
	"tourdesk/config"
	"tourdesk/infras/jwt"
	"tourdesk/infras/kafka"
	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/infras/redis"
	"tourdesk/infras/s3"
	"tourdesk/internal/notifier"
	"tourdesk/permissions"
	"tourdesk/shared/cache"
	"tourdesk/transport/http"
	"tourdesk/transport/http/middleware"
	"tourdesk/transport/http/router"

	bookingHandler "tourdesk/internal/handlers/booking"
	paymentHandler "tourdesk/internal/handlers/payment"
	templateHandler "tourdesk/internal/handlers/template"

	bookingRepository "tourdesk/internal/domains/booking/repository"
	bookingService "tourdesk/internal/domains/booking/service"
	paymentRepository "tourdesk/internal/domains/payment/repository"
	paymentService "tourdesk/internal/domains/payment/service"
	resourceRepository "tourdesk/internal/domains/resource/repository"
	templateRepository "tourdesk/internal/domains/template/repository"
	templateService "tourdesk/internal/domains/template/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	permissions.Get,
	notifier.New,
)

var templateDomain = wire.NewSet(
	templateRepository.New,
	templateRepository.NewField,
	templateService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewFieldValue,
	bookingRepository.NewPhoto,
	resourceRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var domains = wire.NewSet(
	templateDomain,
	bookingDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	templateHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
