// AngelaMos | 2026
// entity.go

package rating

import (
	"time"
)

// Rating is the single ledger row for one (user, store) pair.
type Rating struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	StoreID   string    `db:"store_id"`
	Value     int       `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Rater is a ledger row joined with the rating user's display fields.
type Rater struct {
	UserName  string    `db:"user_name"`
	UserEmail string    `db:"user_email"`
	Value     int       `db:"value"`
	CreatedAt time.Time `db:"created_at"`
}
