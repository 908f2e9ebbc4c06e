// AngelaMos | 2026
// repository.go

package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

// Ledger is the set of writes that make up one rating submission. All calls
// on a Ledger handed out by a Transactor share one transaction.
type Ledger interface {
	LockStore(ctx context.Context, storeID string) error
	Upsert(ctx context.Context, userID, storeID string, value int) (*Rating, error)
	ValuesForStore(ctx context.Context, storeID string) ([]int, error)
	SetStoreRating(ctx context.Context, storeID string, avg core.Score) error
}

// Transactor runs fn against a Ledger inside a single transaction. fn
// returning an error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Ledger) error) error
}

type Repository interface {
	ListRatersByStore(ctx context.Context, storeID string) ([]Rater, error)
	ValuesByUser(ctx context.Context, userID string) (map[string]int, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func NewLedger(db core.DBTX) Ledger {
	return &repository{db: db}
}

// LockStore takes a row lock on the store so concurrent submissions for
// the same store aggregate one after another.
func (r *repository) LockStore(ctx context.Context, storeID string) error {
	var id string
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM stores WHERE id = $1 FOR UPDATE`, storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock store: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	return nil
}

func (r *repository) Upsert(
	ctx context.Context,
	userID, storeID string,
	value int,
) (*Rating, error) {
	query := `
		INSERT INTO ratings (id, user_id, store_id, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, store_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING id, user_id, store_id, value, created_at, updated_at`

	var rating Rating
	err := r.db.GetContext(ctx, &rating, query,
		uuid.New().String(), userID, storeID, value)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return nil, fmt.Errorf("upsert rating: %w", core.ErrNotFound)
		}
		if core.IsCheckViolation(err) {
			return nil, fmt.Errorf("upsert rating: %w", core.ErrInvalidInput)
		}
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	return &rating, nil
}

func (r *repository) ValuesForStore(
	ctx context.Context,
	storeID string,
) ([]int, error) {
	values := []int{}
	err := r.db.SelectContext(ctx, &values,
		`SELECT value FROM ratings WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list rating values: %w", err)
	}
	return values, nil
}

func (r *repository) SetStoreRating(
	ctx context.Context,
	storeID string,
	avg core.Score,
) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE stores SET rating = $2, updated_at = NOW() WHERE id = $1`,
		storeID, avg.Float64())
	if err != nil {
		return fmt.Errorf("set store rating: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set store rating: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set store rating: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListRatersByStore(
	ctx context.Context,
	storeID string,
) ([]Rater, error) {
	query := `
		SELECT u.name AS user_name, u.email AS user_email,
			r.value, r.created_at
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC`

	raters := []Rater{}
	if err := r.db.SelectContext(ctx, &raters, query, storeID); err != nil {
		return nil, fmt.Errorf("list raters: %w", err)
	}
	return raters, nil
}

func (r *repository) ValuesByUser(
	ctx context.Context,
	userID string,
) (map[string]int, error) {
	var rows []struct {
		StoreID string `db:"store_id"`
		Value   int    `db:"value"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT store_id, value FROM ratings WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}

	values := make(map[string]int, len(rows))
	for _, row := range rows {
		values[row.StoreID] = row.Value
	}
	return values, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ratings`); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return total, nil
}

type sqlTransactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(
	ctx context.Context,
	fn func(Ledger) error,
) error {
	return core.InTx(ctx, t.db, func(tx *sqlx.Tx) error {
		return fn(NewLedger(tx))
	})
}
