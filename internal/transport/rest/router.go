package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/garments-tracker/internal/auth"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/order"
	"github.com/frahmantamala/garments-tracker/internal/product"
	"github.com/frahmantamala/garments-tracker/internal/transport/middleware"
	"github.com/frahmantamala/garments-tracker/internal/transport/swagger"
	"github.com/frahmantamala/garments-tracker/internal/user"
)

// Handlers groups the HTTP entry points mounted under /api/v1.
type Handlers struct {
	Auth    *auth.Handler
	Guard   *auth.Guard
	User    *user.Handler
	Order   *order.Handler
	Product *product.Handler
}

type Options struct {
	AllowedOrigins []string
	LoginLimiter   *middleware.RateLimiter
	// OpenAPIPath is validated and served at /openapi.yml. Empty skips the docs routes.
	OpenAPIPath string
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware. RemoteAddr is the rate limit key, so forwarded
	// headers are not trusted here.
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.OpenAPIPath != "" {
		spec, err := swagger.SpecHandler(opts.OpenAPIPath)
		if err != nil {
			logger.Error("openapi document not served", "path", opts.OpenAPIPath, "error", err)
		} else {
			router.Handle(swagger.SpecRoute, spec)
			router.Handle("/swagger/*", swagger.Handler())
		}
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.With(loginLimit(opts.LoginLimiter)...).Post("/login", h.Auth.Login)
			ar.Post("/logout", h.Auth.Logout)
		})

		// Public catalog reads
		r.Get("/products/home", h.Product.ListHome)
		r.Get("/products", h.Product.ListAll)
		r.Get("/products/{id}", h.Product.GetProduct)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Guard.Authenticate)

			pr.Post("/products", h.Product.CreateProduct)
			pr.Put("/products/{id}", h.Product.UpdateProduct)
			pr.Delete("/products/{id}", h.Product.DeleteProduct)

			pr.Route("/orders", func(or chi.Router) {
				or.Post("/", h.Order.PlaceOrder)
				or.Get("/", h.Order.ListAll)
				or.Get("/mine", h.Order.ListOwnOrders)
				or.Get("/pending", h.Order.ListPending)
				or.Get("/{id}", h.Order.GetOrder)
				or.Patch("/{id}/approve", h.Order.Approve)
				or.Patch("/{id}/reject", h.Order.Reject)
				or.Get("/{id}/tracking", h.Order.GetTracking)
				or.Post("/{id}/tracking", h.Order.AppendTracking)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetCurrentUser)

				// Admin account management
				ur.Group(func(ad chi.Router) {
					ad.Use(h.Guard.Require(access.OpUserList))
					ad.Get("/", h.User.ListUsers)
					ad.Patch("/{id}", h.User.UpdateAccount)
					ad.Patch("/{id}/suspend", h.User.SuspendAccount)
				})
			})
		})
	})
}

func loginLimit(rl *middleware.RateLimiter) []func(http.Handler) http.Handler {
	if rl == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{rl.Middleware()}
}
