// AngelaMos | 2026
// dto.go

package store

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type CreateStoreRequest struct {
	Name    string `json:"name"    validate:"required,min=20,max=60"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Address string `json:"address" validate:"required,max=400"`
}

type AssignOwnerRequest struct {
	OwnerID string `json:"ownerId" validate:"required,uuid"`
}

type ListStoresParams struct {
	Search string
}

type StoreResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	Rating    core.Score `json:"rating"`
	OwnerID   *string    `json:"ownerId"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UserStoreResponse struct {
	StoreResponse
	MyRating int `json:"myRating"`
}

type RaterUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RaterResponse struct {
	User      RaterUser `json:"user"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type OwnerStatsResponse struct {
	Store  StoreResponse   `json:"store"`
	Raters []RaterResponse `json:"raters"`
}

func ToStoreResponse(s *Store) StoreResponse {
	resp := StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		Rating:    s.Rating,
		CreatedAt: s.CreatedAt,
	}
	if s.HasOwner() {
		resp.OwnerID = s.OwnerID
	}
	return resp
}

func ToStoreResponseList(stores []Store) []StoreResponse {
	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, ToStoreResponse(&stores[i]))
	}
	return responses
}

func ToUserStoreResponseList(stores []UserStore) []UserStoreResponse {
	responses := make([]UserStoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, UserStoreResponse{
			StoreResponse: ToStoreResponse(&stores[i].Store),
			MyRating:      stores[i].MyRating,
		})
	}
	return responses
}

func ToOwnerStatsResponse(stats *OwnerStats) OwnerStatsResponse {
	raters := make([]RaterResponse, 0, len(stats.Raters))
	for _, r := range stats.Raters {
		raters = append(raters, RaterResponse{
			User:      RaterUser{Name: r.UserName, Email: r.UserEmail},
			Rating:    r.Value,
			CreatedAt: r.CreatedAt,
		})
	}

	return OwnerStatsResponse{
		Store:  ToStoreResponse(stats.Store),
		Raters: raters,
	}
}
