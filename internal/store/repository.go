// AngelaMos | 2026
// repository.go

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type Repository interface {
	Create(ctx context.Context, store *Store) error
	GetByID(ctx context.Context, id string) (*Store, error)
	GetByOwner(ctx context.Context, ownerID string) (*Store, error)
	List(ctx context.Context, params ListStoresParams) ([]Store, error)
	AssignOwner(ctx context.Context, storeID, ownerID string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const storeColumns = `id, name, email, address, rating::float8 AS rating,
	owner_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, store *Store) error {
	query := `
		INSERT INTO stores (id, name, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING rating::float8, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		store.ID,
		store.Name,
		store.Email,
		store.Address,
	)
	if err := row.Scan(&store.Rating, &store.CreatedAt, &store.UpdatedAt); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create store: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create store: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Store, error) {
	return r.getOne(ctx, "get store", `WHERE id = $1`, id)
}

func (r *repository) GetByOwner(
	ctx context.Context,
	ownerID string,
) (*Store, error) {
	return r.getOne(ctx, "get store by owner", `WHERE owner_id = $1`, ownerID)
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	args ...any,
) (*Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ` + where

	var store Store
	err := r.db.GetContext(ctx, &store, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &store, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListStoresParams,
) ([]Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	var args []any

	if params.Search != "" {
		query += ` WHERE (name ILIKE $1 OR address ILIKE $1)`
		args = append(args, "%"+escapeLike(params.Search)+"%")
	}
	query += ` ORDER BY name ASC`

	stores := []Store{}
	if err := r.db.SelectContext(ctx, &stores, query, args...); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return stores, nil
}

func (r *repository) AssignOwner(
	ctx context.Context,
	storeID, ownerID string,
) error {
	query := `
		UPDATE stores
		SET owner_id = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, storeID, ownerID)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("assign owner: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("assign owner: %w", ErrInvalidOwner)
		}
		return fmt.Errorf("assign owner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign owner: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assign owner: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stores`); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return total, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
