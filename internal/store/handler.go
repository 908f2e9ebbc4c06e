// AngelaMos | 2026
// handler.go

package store

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterAdminRoutes expects a router that already requires Admin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/stores", h.ListStores)
	r.Post("/add-store", h.CreateStore)
	r.Patch("/stores/{storeID}/owner", h.AssignOwner)
}

// RegisterUserRoutes expects a router that already requires User.
func (h *Handler) RegisterUserRoutes(r chi.Router) {
	r.Get("/stores", h.ListForUser)
}

// RegisterOwnerRoutes expects a router that already requires StoreOwner.
func (h *Handler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/my-stats", h.OwnerStats)
}

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context(), listParams(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToStoreResponseList(stores))
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.CreateStore(r.Context(), req); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.ConflictError("A store with this email already exists"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Message(w, http.StatusCreated, "Store added successfully")
}

func (h *Handler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if !core.ValidID(storeID) {
		core.NotFound(w, "store")
		return
	}

	var req AssignOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.AssignOwner(r.Context(), storeID, req.OwnerID); err != nil {
		switch {
		case errors.Is(err, ErrInvalidOwner):
			core.BadRequest(w, ErrInvalidOwner.Error())
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.ConflictError("owner already has a store"))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "store")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Message(w, http.StatusOK, "Store owner updated successfully")
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stores, err := h.service.ListForUser(r.Context(), userID, listParams(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserStoreResponseList(stores))
}

func (h *Handler) OwnerStats(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())

	stats, err := h.service.OwnerStats(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("Store not found for this owner"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOwnerStatsResponse(stats))
}

func listParams(r *http.Request) ListStoresParams {
	return ListStoresParams{Search: r.URL.Query().Get("search")}
}
