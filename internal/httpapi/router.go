package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/guard"
)

// RouterDeps holds everything the route tree needs.
type RouterDeps struct {
	Session  *SessionHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Auth     guard.SessionState
}

// NewRouter builds the storefront route tree. Session endpoints for
// anonymous visitors sit behind the public gate, everything stateful
// behind the protected gate, and the dashboard additionally requires
// the ADMIN role.
func NewRouter(deps RouterDeps, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Anonymous-only entry points. Authenticated users get bounced to
	// their landing page instead of seeing log-in again.
	r.Group(func(r chi.Router) {
		r.Use(guard.Public(deps.Auth))
		r.Post("/session/log-in", deps.Session.Login)
		r.Post("/session/sign-up", deps.Session.Register)
	})

	// Everything below needs an authenticated session.
	r.Group(func(r chi.Router) {
		r.Use(guard.Protected(deps.Auth, nil, guard.DefaultFallbackPath))

		r.Route("/session", func(r chi.Router) {
			r.Get("/me", deps.Session.Me)
			r.Put("/me", deps.Session.UpdateProfile)
			r.Post("/logout", deps.Session.Logout)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Post("/items/{product_id}/increment", deps.Cart.IncrementQuantity)
			r.Post("/items/{product_id}/decrement", deps.Cart.DecrementQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.ClearCart)
		})

		r.Post("/checkout", deps.Checkout.Submit)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.Orders.List)
			r.Get("/{id}", deps.Orders.Get)
			r.Post("/{id}/cancel", deps.Orders.Cancel)
		})
	})

	// Admin landing. Non-admins are redirected to /unauthorized.
	r.Group(func(r chi.Router) {
		r.Use(guard.Protected(deps.Auth, domain.RoleSet{domain.RoleAdmin: {}}, guard.DefaultFallbackPath))
		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"page": "dashboard"})
		})
	})

	return r
}
