// AngelaMos | 2026
// handler.go

package rating

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type SubmitRatingRequest struct {
	StoreID     string `json:"storeId"     validate:"required"`
	RatingValue int    `json:"ratingValue" validate:"min=1,max=5"`
}

type SubmitRatingResponse struct {
	Message       string     `json:"message"`
	AverageRating core.Score `json:"averageRating"`
}

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

// RegisterUserRoutes mounts rating submission on a router that already
// requires the User role.
func (h *Handler) RegisterUserRoutes(r chi.Router) {
	r.Post("/rate", h.Submit)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if !core.ValidID(req.StoreID) {
		core.NotFound(w, "store")
		return
	}

	sub, err := h.service.Submit(r.Context(), userID, req.StoreID, req.RatingValue)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "store")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "ratingValue must be between 1 and 5")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, SubmitRatingResponse{
		Message:       "Rating saved successfully",
		AverageRating: sub.Average,
	})
}
