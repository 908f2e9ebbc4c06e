// AngelaMos | 2026
// entity.go

package store

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
)

// Store is a rated business. Rating is written only by the rating ledger.
type Store struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Address   string     `db:"address"`
	Rating    core.Score `db:"rating"`
	OwnerID   *string    `db:"owner_id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (s *Store) HasOwner() bool {
	return s.OwnerID != nil && *s.OwnerID != ""
}

// UserStore is a store as seen by one customer.
type UserStore struct {
	Store
	MyRating int
}

// OwnerStats is the feedback view of an owned store.
type OwnerStats struct {
	Store  *Store
	Raters []rating.Rater
}
