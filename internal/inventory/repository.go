package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winside-retail/backoffice/internal/platform/db"
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Adjust(ctx context.Context, adj *Adjustment) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var current int
		var err error
		if adj.VariantID != nil {
			err = tx.QueryRow(ctx, `
				SELECT quantity FROM stock_levels
				WHERE product_id = $1 AND variant_id = $2
				FOR UPDATE`, adj.ProductID, *adj.VariantID).Scan(&current)
		} else {
			err = tx.QueryRow(ctx, `
				SELECT quantity FROM stock_levels
				WHERE product_id = $1 AND variant_id IS NULL
				FOR UPDATE`, adj.ProductID).Scan(&current)
		}
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		adj.Previous = current
		adj.New, adj.Clamped = ApplyDelta(current, adj.Delta)

		if adj.VariantID != nil {
			_, err = tx.Exec(ctx, `
				UPDATE stock_levels SET quantity = $1, updated_at = NOW()
				WHERE product_id = $2 AND variant_id = $3`,
				adj.New, adj.ProductID, *adj.VariantID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE stock_levels SET quantity = $1, updated_at = NOW()
				WHERE product_id = $2 AND variant_id IS NULL`,
				adj.New, adj.ProductID)
		}
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO stock_adjustments (reference, product_id, variant_id, delta, previous_quantity, new_quantity, clamped, reason, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING id, created_at`,
			adj.Reference, adj.ProductID, adj.VariantID, adj.Delta,
			adj.Previous, adj.New, adj.Clamped, adj.Reason, adj.ActorID,
		).Scan(&adj.ID, &adj.CreatedAt)
	})
}

func (r *repository) ListAdjustments(ctx context.Context, req ListAdjustmentsRequest) ([]Adjustment, int, error) {
	whereClause := ""
	var args []interface{}
	argPos := 1
	if req.ProductID > 0 {
		whereClause = fmt.Sprintf("WHERE product_id = $%d", argPos)
		args = append(args, req.ProductID)
		argPos++
	}

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM stock_adjustments %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`
		SELECT id, reference, product_id, variant_id, delta, previous_quantity, new_quantity, clamped, reason, actor_id, created_at
		FROM stock_adjustments %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Adjustment
	for rows.Next() {
		var adj Adjustment
		var variantID pgtype.Int8
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&adj.ID, &adj.Reference, &adj.ProductID, &variantID, &adj.Delta,
			&adj.Previous, &adj.New, &adj.Clamped, &adj.Reason, &adj.ActorID, &createdAt); err != nil {
			return nil, 0, err
		}
		if variantID.Valid {
			v := variantID.Int64
			adj.VariantID = &v
		}
		if createdAt.Valid {
			adj.CreatedAt = createdAt.Time
		}
		result = append(result, adj)
	}
	return result, total, rows.Err()
}

// LowStock joins stock rows against the catalog so the report carries
// human-facing identifiers, skipping archived products.
func (r *repository) LowStock(ctx context.Context, brand string, threshold int) ([]LowStockItem, error) {
	query := `
		SELECT sl.product_id, sl.variant_id, p.article, p.title, COALESCE(v.sku, ''), p.brand, sl.quantity
		FROM stock_levels sl
		JOIN products p ON p.id = sl.product_id
		LEFT JOIN variants v ON v.id = sl.variant_id
		WHERE sl.quantity <= $1 AND NOT p.archived`
	args := []interface{}{threshold}
	if brand != "" {
		query += " AND p.brand = $2"
		args = append(args, brand)
	}
	query += " ORDER BY sl.quantity ASC, p.article"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LowStockItem
	for rows.Next() {
		var item LowStockItem
		var variantID pgtype.Int8
		if err := rows.Scan(&item.ProductID, &variantID, &item.Article, &item.Title,
			&item.SKU, &item.Brand, &item.Quantity); err != nil {
			return nil, err
		}
		if variantID.Valid {
			v := variantID.Int64
			item.VariantID = &v
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
