// AngelaMos | 2026
// routes.go

package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/store-ratings/internal/admin"
	"github.com/carterperez-dev/store-ratings/internal/auth"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

type Handlers struct {
	Auth   *auth.Handler
	User   *user.Handler
	Store  *store.Handler
	Rating *rating.Handler
	Admin  *admin.Handler
}

// MountAPI registers every role-scoped route. Each group checks the token
// and its role allow-list before any handler runs.
func MountAPI(r chi.Router, verifier middleware.TokenVerifier, h Handlers) {
	h.Auth.RegisterRoutes(r, middleware.Guard(verifier))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Guard(verifier, core.RoleAdmin))
		h.Admin.RegisterRoutes(r)
		h.User.RegisterAdminRoutes(r)
		h.Store.RegisterAdminRoutes(r)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(middleware.Guard(verifier, core.RoleUser))
		h.Store.RegisterUserRoutes(r)
		h.Rating.RegisterUserRoutes(r)
	})

	r.Route("/store", func(r chi.Router) {
		r.Use(middleware.Guard(verifier, core.RoleStoreOwner))
		h.Store.RegisterOwnerRoutes(r)
	})
}
