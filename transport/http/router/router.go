package router

import (
	"github.com/go-chi/chi/v5"

	"tourdesk/internal/handlers/booking"
	"tourdesk/internal/handlers/payment"
	"tourdesk/internal/handlers/template"
)

type DomainHandlers struct {
	Template template.Handler
	Booking  booking.Handler
	Payment  payment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Template.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
