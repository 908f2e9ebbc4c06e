// AngelaMos | 2026
// memdb_test.go

package server

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

type ratingKey struct {
	userID  string
	storeID string
}

// memDB backs every repository in the end to end tests so that the rating
// ledger and the store listing observe the same rows.
type memDB struct {
	mu      sync.Mutex
	clock   time.Time
	users   map[string]*user.User
	stores  map[string]*store.Store
	ratings map[ratingKey]rating.Rating
}

func newMemDB() *memDB {
	return &memDB{
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:   make(map[string]*user.User),
		stores:  make(map[string]*store.Store),
		ratings: make(map[ratingKey]rating.Rating),
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) ratingRows(storeID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for k := range db.ratings {
		if k.storeID == storeID {
			n++
		}
	}
	return n
}

type userRepo struct{ db *memDB }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.CreatedAt = r.db.tick()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	r.db.users[u.ID] = &clone
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (r userRepo) UpdateRole(_ context.Context, id string, role core.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = role
	return nil
}

func (r userRepo) List(_ context.Context, params user.ListUsersParams) ([]user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users := []user.User{}
	for _, u := range r.db.users {
		if params.Role == "" || u.Role.String() == params.Role {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r userRepo) Count(context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users), nil
}

func (r userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type storeRepo struct{ db *memDB }

func (r storeRepo) Create(_ context.Context, s *store.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.stores {
		if existing.Email == s.Email {
			return fmt.Errorf("create store: %w", core.ErrDuplicateKey)
		}
	}
	s.CreatedAt = r.db.tick()
	s.UpdatedAt = s.CreatedAt
	clone := *s
	r.db.stores[s.ID] = &clone
	return nil
}

func (r storeRepo) GetByID(_ context.Context, id string) (*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.stores[id]
	if !ok {
		return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
	}
	clone := *s
	return &clone, nil
}

func (r storeRepo) GetByOwner(_ context.Context, ownerID string) (*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.stores {
		if s.OwnerID != nil && *s.OwnerID == ownerID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get store by owner: %w", core.ErrNotFound)
}

func (r storeRepo) List(_ context.Context, params store.ListStoresParams) ([]store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	needle := strings.ToLower(params.Search)
	stores := []store.Store{}
	for _, s := range r.db.stores {
		if needle == "" || strings.Contains(strings.ToLower(s.Name), needle) {
			stores = append(stores, *s)
		}
	}
	slices.SortFunc(stores, func(a, b store.Store) int { return strings.Compare(a.Name, b.Name) })
	return stores, nil
}

func (r storeRepo) AssignOwner(_ context.Context, storeID, ownerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.stores[storeID]
	if !ok {
		return fmt.Errorf("assign owner: %w", core.ErrNotFound)
	}
	for id, other := range r.db.stores {
		if id != storeID && other.OwnerID != nil && *other.OwnerID == ownerID {
			return fmt.Errorf("assign owner: %w", core.ErrDuplicateKey)
		}
	}
	s.OwnerID = &ownerID
	return nil
}

func (r storeRepo) Count(context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.stores), nil
}

type ratingRepo struct{ db *memDB }

func (r ratingRepo) WithinTx(_ context.Context, fn func(rating.Ledger) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	tx := &ratingTx{
		db:       r.db,
		ratings:  maps.Clone(r.db.ratings),
		averages: make(map[string]core.Score),
	}
	if err := fn(tx); err != nil {
		return err
	}

	r.db.ratings = tx.ratings
	for id, avg := range tx.averages {
		r.db.stores[id].Rating = avg
	}
	return nil
}

func (r ratingRepo) ListRatersByStore(_ context.Context, storeID string) ([]rating.Rater, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	raters := []rating.Rater{}
	for k, row := range r.db.ratings {
		if k.storeID != storeID {
			continue
		}
		u := r.db.users[k.userID]
		raters = append(raters, rating.Rater{
			UserName:  u.Name,
			UserEmail: u.Email,
			Value:     row.Value,
			CreatedAt: row.CreatedAt,
		})
	}
	slices.SortFunc(raters, func(a, b rating.Rater) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return raters, nil
}

func (r ratingRepo) ValuesByUser(_ context.Context, userID string) (map[string]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	values := make(map[string]int)
	for k, row := range r.db.ratings {
		if k.userID == userID {
			values[k.storeID] = row.Value
		}
	}
	return values, nil
}

func (r ratingRepo) Count(context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.ratings), nil
}

type ratingTx struct {
	db       *memDB
	ratings  map[ratingKey]rating.Rating
	averages map[string]core.Score
}

func (tx *ratingTx) LockStore(_ context.Context, storeID string) error {
	if _, ok := tx.db.stores[storeID]; !ok {
		return fmt.Errorf("lock store: %w", core.ErrNotFound)
	}
	return nil
}

func (tx *ratingTx) Upsert(_ context.Context, userID, storeID string, value int) (*rating.Rating, error) {
	now := tx.db.tick()
	key := ratingKey{userID: userID, storeID: storeID}

	row, ok := tx.ratings[key]
	if !ok {
		row = rating.Rating{
			ID:        fmt.Sprintf("r-%d", len(tx.ratings)+1),
			UserID:    userID,
			StoreID:   storeID,
			CreatedAt: now,
		}
	}
	row.Value = value
	row.UpdatedAt = now
	tx.ratings[key] = row
	return &row, nil
}

func (tx *ratingTx) ValuesForStore(_ context.Context, storeID string) ([]int, error) {
	values := []int{}
	for k, row := range tx.ratings {
		if k.storeID == storeID {
			values = append(values, row.Value)
		}
	}
	return values, nil
}

func (tx *ratingTx) SetStoreRating(_ context.Context, storeID string, avg core.Score) error {
	tx.averages[storeID] = avg
	return nil
}
