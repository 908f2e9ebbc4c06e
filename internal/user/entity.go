// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Address      string    `db:"address"`
	Role         core.Role `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == core.RoleAdmin
}
