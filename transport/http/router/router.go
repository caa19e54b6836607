package router

import (
	"servio/internal/handlers/audit"
	"servio/internal/handlers/booking"
	"servio/internal/handlers/catalog"
	"servio/internal/handlers/review"
	"servio/internal/handlers/user"
	"servio/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	User    user.Handler
	Catalog catalog.Handler
	Booking booking.Handler
	Review  review.Handler
	Audit   audit.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
