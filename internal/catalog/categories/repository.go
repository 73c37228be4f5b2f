package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winside-retail/backoffice/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, form CategoryForm) (*Category, error)
	Update(ctx context.Context, id int64, form CategoryForm) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, color, sort_order, created_at, updated_at
		FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, color, sort_order, created_at, updated_at
		FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, form CategoryForm) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, color, sort_order, created_at, updated_at)
		VALUES ($1, $2, COALESCE((SELECT MAX(sort_order) + 1 FROM categories), 0), NOW(), NOW())
		RETURNING id, name, color, sort_order, created_at, updated_at`,
		form.Name, form.Color,
	).Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, id int64, form CategoryForm) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name = $1, color = $2, updated_at = NOW() WHERE id = $3`,
		form.Name, form.Color, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Reorder(ctx context.Context, ids []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for pos, id := range ids {
			tag, err := tx.Exec(ctx, `UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, pos, id)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}
