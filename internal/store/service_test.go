// AngelaMos | 2026
// service_test.go

package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
)

type fakeRepo struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stores: make(map[string]*Store)}
}

func (f *fakeRepo) Create(_ context.Context, s *Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.stores {
		if existing.Email == s.Email {
			return fmt.Errorf("create store: %w", core.ErrDuplicateKey)
		}
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	clone := *s
	f.stores[s.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.stores[id]
	if !ok {
		return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
	}
	clone := *s
	return &clone, nil
}

func (f *fakeRepo) GetByOwner(_ context.Context, ownerID string) (*Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.stores {
		if s.OwnerID != nil && *s.OwnerID == ownerID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get store by owner: %w", core.ErrNotFound)
}

func (f *fakeRepo) List(_ context.Context, params ListStoresParams) ([]Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stores := []Store{}
	needle := strings.ToLower(params.Search)
	for _, s := range f.stores {
		if needle == "" ||
			strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Address), needle) {
			stores = append(stores, *s)
		}
	}
	slices.SortFunc(stores, func(a, b Store) int { return strings.Compare(a.Name, b.Name) })
	return stores, nil
}

func (f *fakeRepo) AssignOwner(_ context.Context, storeID, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.stores[storeID]
	if !ok {
		return fmt.Errorf("assign owner: %w", core.ErrNotFound)
	}
	for id, other := range f.stores {
		if id != storeID && other.OwnerID != nil && *other.OwnerID == ownerID {
			return fmt.Errorf("assign owner: %w", core.ErrDuplicateKey)
		}
	}
	s.OwnerID = &ownerID
	return nil
}

func (f *fakeRepo) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stores), nil
}

type fakeRatings struct {
	byUser  map[string]map[string]int
	byStore map[string][]rating.Rater
}

func (f fakeRatings) ValuesByUser(_ context.Context, userID string) (map[string]int, error) {
	if v, ok := f.byUser[userID]; ok {
		return v, nil
	}
	return map[string]int{}, nil
}

func (f fakeRatings) ListRatersByStore(_ context.Context, storeID string) ([]rating.Rater, error) {
	return f.byStore[storeID], nil
}

type fakeOwners map[string]core.Role

func (f fakeOwners) RoleOf(_ context.Context, userID string) (core.Role, error) {
	role, ok := f[userID]
	if !ok {
		return "", fmt.Errorf("role of: %w", core.ErrNotFound)
	}
	return role, nil
}

func seedStore(t *testing.T, svc *Service, name, email, address string) *Store {
	t.Helper()
	s, err := svc.CreateStore(context.Background(), CreateStoreRequest{
		Name:    name,
		Email:   email,
		Address: address,
	})
	require.NoError(t, err)
	return s
}

func TestCreateStoreStartsUnratedAndUnowned(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeRatings{}, fakeOwners{})

	s := seedStore(t, svc, "Corner Grocery And Deli Shop", "  Shop@Example.COM ", "12 Main Street")

	assert.True(t, core.ValidID(s.ID))
	assert.Equal(t, "shop@example.com", s.Email)
	assert.Equal(t, core.Score(0), s.Rating)
	assert.Nil(t, s.OwnerID)
}

func TestCreateStoreDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeRatings{}, fakeOwners{})
	seedStore(t, svc, "Corner Grocery And Deli Shop", "shop@example.com", "12 Main Street")

	_, err := svc.CreateStore(context.Background(), CreateStoreRequest{
		Name:    "Another Grocery And Deli Shop",
		Email:   "SHOP@example.com",
		Address: "14 Main Street",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestListForUserAttachesOwnRating(t *testing.T) {
	repo := newFakeRepo()
	ratings := fakeRatings{byUser: map[string]map[string]int{}}
	svc := NewService(repo, ratings, fakeOwners{})

	a := seedStore(t, svc, "Alpha Hardware And Garden Supply", "alpha@example.com", "1 First Ave")
	seedStore(t, svc, "Beta Books And Stationery Store", "beta@example.com", "2 Second Ave")
	ratings.byUser["u1"] = map[string]int{a.ID: 4}

	stores, err := svc.ListForUser(context.Background(), "u1", ListStoresParams{})
	require.NoError(t, err)
	require.Len(t, stores, 2)

	assert.Equal(t, a.ID, stores[0].ID)
	assert.Equal(t, 4, stores[0].MyRating)
	assert.Equal(t, 0, stores[1].MyRating)

	stores, err = svc.ListForUser(context.Background(), "u2", ListStoresParams{Search: "second"})
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Beta Books And Stationery Store", stores[0].Name)
	assert.Zero(t, stores[0].MyRating)
}

func TestOwnerStats(t *testing.T) {
	repo := newFakeRepo()
	ownerID := uuid.NewString()
	otherOwner := uuid.NewString()

	svc := NewService(repo, fakeRatings{}, fakeOwners{
		ownerID:    core.RoleStoreOwner,
		otherOwner: core.RoleStoreOwner,
	})
	s := seedStore(t, svc, "Gamma Coffee Roasters Company", "gamma@example.com", "3 Third Ave")

	_, err := svc.OwnerStats(context.Background(), ownerID)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.AssignOwner(context.Background(), s.ID, ownerID)
	require.NoError(t, err)

	now := time.Now()
	svc.ratings = fakeRatings{byStore: map[string][]rating.Rater{
		s.ID: {
			{UserName: "Newest Rater Full Name Here", UserEmail: "n@example.com", Value: 5, CreatedAt: now},
			{UserName: "Oldest Rater Full Name Here", UserEmail: "o@example.com", Value: 3, CreatedAt: now.Add(-time.Hour)},
		},
	}}

	stats, err := svc.OwnerStats(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stats.Store.ID)
	require.Len(t, stats.Raters, 2)
	assert.Equal(t, "n@example.com", stats.Raters[0].UserEmail)

	_, err = svc.OwnerStats(context.Background(), otherOwner)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAssignOwnerRequiresStoreOwnerRole(t *testing.T) {
	admin := uuid.NewString()
	user := uuid.NewString()
	owner := uuid.NewString()

	svc := NewService(newFakeRepo(), fakeRatings{}, fakeOwners{
		admin: core.RoleAdmin,
		user:  core.RoleUser,
		owner: core.RoleStoreOwner,
	})
	s := seedStore(t, svc, "Delta Electronics Repair Center", "delta@example.com", "4 Fourth Ave")

	for _, id := range []string{admin, user, uuid.NewString()} {
		_, err := svc.AssignOwner(context.Background(), s.ID, id)
		assert.ErrorIs(t, err, ErrInvalidOwner)
	}

	updated, err := svc.AssignOwner(context.Background(), s.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, updated.OwnerID)
	assert.Equal(t, owner, *updated.OwnerID)

	_, err = svc.AssignOwner(context.Background(), uuid.NewString(), owner)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAssignOwnerOneStorePerOwner(t *testing.T) {
	owner := uuid.NewString()
	svc := NewService(newFakeRepo(), fakeRatings{}, fakeOwners{owner: core.RoleStoreOwner})

	first := seedStore(t, svc, "Epsilon Bakery And Pastry House", "eps@example.com", "5 Fifth Ave")
	second := seedStore(t, svc, "Zeta Florist And Plant Nursery", "zeta@example.com", "6 Sixth Ave")

	_, err := svc.AssignOwner(context.Background(), first.ID, owner)
	require.NoError(t, err)

	_, err = svc.AssignOwner(context.Background(), second.ID, owner)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	total, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
