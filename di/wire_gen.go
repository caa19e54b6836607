// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"servio/config"
	"servio/infras/jwt"
	"servio/infras/kafka"
	"servio/infras/otel"
	"servio/infras/postgres"
	"servio/infras/redis"
	"servio/infras/s3"
	repository2 "servio/internal/domains/audit/repository"
	"servio/internal/domains/audit/service"
	repository4 "servio/internal/domains/booking/repository"
	service4 "servio/internal/domains/booking/service"
	repository3 "servio/internal/domains/catalog/repository"
	service3 "servio/internal/domains/catalog/service"
	repository5 "servio/internal/domains/review/repository"
	service5 "servio/internal/domains/review/service"
	"servio/internal/domains/user/repository"
	service2 "servio/internal/domains/user/service"
	"servio/internal/handlers/audit"
	"servio/internal/handlers/booking"
	"servio/internal/handlers/catalog"
	"servio/internal/handlers/review"
	"servio/internal/handlers/user"
	"servio/permissions"
	"servio/shared/cache"
	"servio/transport/http"
	"servio/transport/http/middleware"
	"servio/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryUser := repository.New(connection, otelOtel)
	repositoryAudit := repository2.New(connection, otelOtel)
	s3S3 := s3.New(configConfig, otelOtel)
	recorder := service.New(repositoryAudit, s3S3, configConfig, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceUser := service2.New(repositoryUser, recorder, connection, configConfig, redisCache, otelOtel)
	handler := user.New(serviceUser, otelOtel)
	category := repository3.NewCategory(connection, otelOtel)
	repositoryService := repository3.NewService(connection, otelOtel)
	serviceCatalog := service3.New(category, repositoryService, repositoryUser, recorder, connection, configConfig, redisCache, otelOtel)
	catalogHandler := catalog.New(serviceCatalog, otelOtel)
	repositoryBooking := repository4.New(connection, otelOtel)
	schedule := repository4.NewSchedule(connection, otelOtel)
	kafkaClient := kafka.New(configConfig)
	serviceBooking := service4.New(repositoryBooking, schedule, repositoryUser, repositoryService, recorder, connection, kafkaClient, configConfig, redisCache, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	repositoryReview := repository5.New(connection, otelOtel)
	comment := repository5.NewComment(connection, otelOtel)
	serviceReview := service5.New(repositoryReview, comment, repositoryBooking, recorder, connection, configConfig, redisCache, otelOtel)
	reviewHandler := review.New(serviceReview, otelOtel)
	auditHandler := audit.New(recorder, otelOtel)
	domainHandlers := router.DomainHandlers{
		User:    handler,
		Catalog: catalogHandler,
		Booking: bookingHandler,
		Review:  reviewHandler,
		Audit:   auditHandler,
	}
	jwtJWT := jwt.New(configConfig)
	permissionData := permissions.Get()
	authRole := middleware.NewAuthRoleMiddleware(jwtJWT, otelOtel, permissionData, configConfig)
	routerRouter := router.New(domainHandlers, authRole)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get, permissions.Get)

var infrastructures = wire.NewSet(postgres.New, wire.Bind(new(postgres.Transactor), new(*postgres.Connection)), otel.New, redis.New, kafka.New, s3.New, jwt.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthRoleMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var auditDomain = wire.NewSet(repository2.New, service.New)

var userDomain = wire.NewSet(repository.New, service2.New)

var catalogDomain = wire.NewSet(repository3.NewCategory, repository3.NewService, service3.New)

var bookingDomain = wire.NewSet(repository4.New, repository4.NewSchedule, service4.New)

var reviewDomain = wire.NewSet(repository5.New, repository5.NewComment, service5.New)

var domains = wire.NewSet(
	auditDomain,
	userDomain,
	catalogDomain,
	bookingDomain,
	reviewDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), user.New, catalog.New, booking.New, review.New, audit.New, router.New)
