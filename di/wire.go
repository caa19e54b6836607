//go:build wireinject
// +build wireinject

package di

import (
	"servio/config"
	"servio/infras/jwt"
	"servio/infras/kafka"
	"servio/infras/otel"
	"servio/infras/postgres"
	"servio/infras/redis"
	"servio/infras/s3"
	"servio/permissions"
	"servio/shared/cache"
	"servio/transport/http"
	"servio/transport/http/middleware"
	"servio/transport/http/router"

	auditRepository "servio/internal/domains/audit/repository"
	auditService "servio/internal/domains/audit/service"
	bookingRepository "servio/internal/domains/booking/repository"
	bookingService "servio/internal/domains/booking/service"
	catalogRepository "servio/internal/domains/catalog/repository"
	catalogService "servio/internal/domains/catalog/service"
	reviewRepository "servio/internal/domains/review/repository"
	reviewService "servio/internal/domains/review/service"
	userRepository "servio/internal/domains/user/repository"
	userService "servio/internal/domains/user/service"

	auditHandler "servio/internal/handlers/audit"
	bookingHandler "servio/internal/handlers/booking"
	catalogHandler "servio/internal/handlers/catalog"
	reviewHandler "servio/internal/handlers/review"
	userHandler "servio/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.NewCategory,
	catalogRepository.NewService,
	catalogService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewSchedule,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewRepository.NewComment,
	reviewService.New,
)

var domains = wire.NewSet(
	auditDomain,
	userDomain,
	catalogDomain,
	bookingDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	userHandler.New,
	catalogHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	auditHandler.New,
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
