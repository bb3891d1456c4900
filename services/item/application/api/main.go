package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemchain/pkg/app"
	"github.com/ghuser/itemchain/pkg/auth"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// ItemRoutes registers item and escrow endpoints on the provided chi router.
// Reads are public; every state-changing endpoint requires a session.
func ItemRoutes(r chi.Router, a *app.Application) {
	Routes(r, appsvcs.New(a), a)
}

// Routes mounts the endpoints backed by svcs.
func Routes(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	isProduction := a.Config.Environment == config.EnvProduction
	requireAuth := auth.RequireAuth(a.SessionStore, a.Logger)

	r.Route("/item", func(r chi.Router) {
		r.Get("/", handlers.NewGetItemsHandler(svcs, isProduction).Execute)
		r.Get("/{index}", handlers.NewGetItemHandler(svcs, isProduction).Execute)
		r.Get("/{index}/events", handlers.NewGetItemEventsHandler(svcs, isProduction).Execute)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", handlers.NewPostItemHandler(svcs, isProduction).Execute)
			r.Post("/{index}/payment", handlers.NewPostPaymentHandler(svcs, isProduction).Execute)
			r.Post("/{index}/delivery", handlers.NewPostDeliveryHandler(svcs, isProduction).Execute)
		})
	})

	r.Route("/escrow", func(r chi.Router) {
		r.Get("/{id}", handlers.NewGetEscrowHandler(svcs, isProduction).Execute)
		r.With(requireAuth).Post("/{id}/deposit", handlers.NewPostDepositHandler(svcs, isProduction).Execute)
	})

	if a.Config.Environment == config.EnvDevelopment {
		r.Post("/session", handlers.NewPostSessionHandler(a.SessionStore, a.Logger).Execute)
	}
}
