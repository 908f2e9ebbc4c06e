// AngelaMos | 2026
// service.go

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
)

var ErrInvalidOwner = errors.New("owner must be an existing StoreOwner")

// RatingReader is the read side of the rating ledger.
type RatingReader interface {
	ValuesByUser(ctx context.Context, userID string) (map[string]int, error)
	ListRatersByStore(ctx context.Context, storeID string) ([]rating.Rater, error)
}

// OwnerDirectory resolves the role of a prospective owner.
type OwnerDirectory interface {
	RoleOf(ctx context.Context, userID string) (core.Role, error)
}

type Service struct {
	repo    Repository
	ratings RatingReader
	owners  OwnerDirectory
}

func NewService(
	repo Repository,
	ratings RatingReader,
	owners OwnerDirectory,
) *Service {
	return &Service{
		repo:    repo,
		ratings: ratings,
		owners:  owners,
	}
}

// CreateStore registers a store with no owner and a zero rating.
func (s *Service) CreateStore(
	ctx context.Context,
	req CreateStoreRequest,
) (*Store, error) {
	store := &Store{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Address: req.Address,
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Service) ListStores(
	ctx context.Context,
	params ListStoresParams,
) ([]Store, error) {
	return s.repo.List(ctx, params)
}

// ListForUser returns every store with the caller's own rating attached,
// 0 where the caller has not rated.
func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
	params ListStoresParams,
) ([]UserStore, error) {
	stores, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	mine, err := s.ratings.ValuesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]UserStore, 0, len(stores))
	for _, st := range stores {
		result = append(result, UserStore{
			Store:    st,
			MyRating: mine[st.ID],
		})
	}

	return result, nil
}

// OwnerStats returns the store owned by ownerID with its raters, newest
// first. An owner without a store gets core.ErrNotFound.
func (s *Service) OwnerStats(
	ctx context.Context,
	ownerID string,
) (*OwnerStats, error) {
	store, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	raters, err := s.ratings.ListRatersByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	return &OwnerStats{Store: store, Raters: raters}, nil
}

// AssignOwner links a store to a StoreOwner account. Each owner holds at
// most one store.
func (s *Service) AssignOwner(
	ctx context.Context,
	storeID, ownerID string,
) (*Store, error) {
	role, err := s.owners.RoleOf(ctx, ownerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("assign owner: %w", ErrInvalidOwner)
		}
		return nil, err
	}
	if role != core.RoleStoreOwner {
		return nil, fmt.Errorf("assign owner: role %s: %w", role, ErrInvalidOwner)
	}

	if err := s.repo.AssignOwner(ctx, storeID, ownerID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, storeID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
