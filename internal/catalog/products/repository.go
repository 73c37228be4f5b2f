package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winside-retail/backoffice/internal/money"
	"github.com/winside-retail/backoffice/internal/platform/db"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	GetByArticle(ctx context.Context, brand, article string) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, id int64, product Product, replaceVariants bool) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const productColumns = `p.id, p.article, p.title, p.brand, p.category_id, p.attributes,
	p.wholesale_cents, p.retail_cents, p.club_cents, p.cost_before_cents, p.cost_after_cents,
	p.archived, p.created_at, p.updated_at,
	COALESCE(sl.quantity, 0)`

const productFrom = `products p
	LEFT JOIN stock_levels sl ON sl.product_id = p.id AND sl.variant_id IS NULL`

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	return r.getWhere(ctx, "p.id = $1", id)
}

func (r *repository) GetByArticle(ctx context.Context, brand, article string) (*Product, error) {
	return r.getWhere(ctx, "p.brand = $1 AND p.article = $2", brand, article)
}

func (r *repository) getWhere(ctx context.Context, cond string, args ...interface{}) (*Product, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, productColumns, productFrom, cond), args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadVariants(ctx, r.pool, []*Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("p.brand = $%d", argPos))
		args = append(args, req.Brand)
		argPos++
	}
	if req.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argPos))
		args = append(args, *req.CategoryID)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.article ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	if req.Archived != nil {
		conditions = append(conditions, fmt.Sprintf("p.archived = $%d", argPos))
		args = append(args, *req.Archived)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products p %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY p.article LIMIT $%d OFFSET $%d`,
		productColumns, productFrom, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Product
	var refs []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range result {
		refs = append(refs, &result[i])
	}
	if err := r.loadVariants(ctx, r.pool, refs); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repository) Create(ctx context.Context, product Product) (*Product, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		attrs, err := json.Marshal(stringsOrEmpty(product.Attributes))
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO products (article, title, brand, category_id, attributes,
				wholesale_cents, retail_cents, club_cents, cost_before_cents, cost_after_cents,
				archived, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NOW(), NOW())
			RETURNING id`,
			product.Article, product.Title, product.Brand, product.CategoryID, attrs,
			int64(product.Wholesale), int64(product.Retail), int64(product.Club),
			int64(product.CostBefore), int64(product.CostAfter),
		).Scan(&product.ID)
		if err != nil {
			return mapConstraint(err)
		}

		if len(product.Variants) == 0 {
			// Variant-less products keep a single stock row with NULL variant.
			_, err := tx.Exec(ctx, `
				INSERT INTO stock_levels (product_id, variant_id, quantity, updated_at)
				VALUES ($1, NULL, $2, NOW())`, product.ID, product.Quantity)
			return err
		}

		for i := range product.Variants {
			if err := insertVariant(ctx, tx, product.ID, &product.Variants[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, product.ID)
}

func (r *repository) Update(ctx context.Context, id int64, product Product, replaceVariants bool) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		attrs, err := json.Marshal(stringsOrEmpty(product.Attributes))
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE products SET title = $1, category_id = $2, attributes = $3,
				wholesale_cents = $4, retail_cents = $5, club_cents = $6,
				cost_before_cents = $7, cost_after_cents = $8, archived = $9, updated_at = NOW()
			WHERE id = $10`,
			product.Title, product.CategoryID, attrs,
			int64(product.Wholesale), int64(product.Retail), int64(product.Club),
			int64(product.CostBefore), int64(product.CostAfter), product.Archived, id)
		if err != nil {
			return mapConstraint(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if !replaceVariants {
			return nil
		}
		return replaceProductVariants(ctx, tx, id, product.Variants)
	})
}

func (r *repository) SetArchived(ctx context.Context, id int64, archived bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET archived = $1, updated_at = NOW() WHERE id = $2`, archived, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	// Variants and stock rows cascade via FK constraints.
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// replaceProductVariants reconciles the stored variants with the submitted
// set, matching by SKU so stock levels survive attribute or price edits.
func replaceProductVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []Variant) error {
	existing := make(map[string]int64)
	rows, err := tx.Query(ctx, `SELECT id, sku FROM variants WHERE product_id = $1`, productID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var vid int64
		var sku string
		if err := rows.Scan(&vid, &sku); err != nil {
			rows.Close()
			return err
		}
		existing[sku] = vid
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(variants))
	for i := range variants {
		v := &variants[i]
		keep[v.SKU] = struct{}{}
		if vid, ok := existing[v.SKU]; ok {
			attrs, err := json.Marshal(mapOrEmpty(v.Attributes))
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				UPDATE variants SET attributes = $1, wholesale_cents = $2, retail_cents = $3, club_cents = $4
				WHERE id = $5`,
				attrs, amountPtr(v.Wholesale), amountPtr(v.Retail), amountPtr(v.Club), vid); err != nil {
				return err
			}
			v.ID = vid
			continue
		}
		if err := insertVariant(ctx, tx, productID, v); err != nil {
			return err
		}
	}

	for sku, vid := range existing {
		if _, ok := keep[sku]; ok {
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM variants WHERE id = $1`, vid); err != nil {
			return err
		}
	}

	// A product that just gained variants no longer tracks product-level
	// stock; one that lost its last variant goes back to a single row with
	// NULL variant so adjustments keep a target.
	if len(variants) > 0 {
		_, err := tx.Exec(ctx, `DELETE FROM stock_levels WHERE product_id = $1 AND variant_id IS NULL`, productID)
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_levels (product_id, variant_id, quantity, updated_at)
		SELECT $1, NULL, 0, NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM stock_levels WHERE product_id = $1 AND variant_id IS NULL
		)`, productID)
	return err
}

func insertVariant(ctx context.Context, tx pgx.Tx, productID int64, v *Variant) error {
	attrs, err := json.Marshal(mapOrEmpty(v.Attributes))
	if err != nil {
		return err
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO variants (product_id, sku, attributes, wholesale_cents, retail_cents, club_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		productID, v.SKU, attrs, amountPtr(v.Wholesale), amountPtr(v.Retail), amountPtr(v.Club),
	).Scan(&v.ID)
	if err != nil {
		return mapConstraint(err)
	}
	v.ProductID = productID
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_levels (product_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())`, productID, v.ID, v.Quantity)
	return err
}

func (r *repository) loadVariants(ctx context.Context, q dbtx, prods []*Product) error {
	if len(prods) == 0 {
		return nil
	}
	byID := make(map[int64]*Product, len(prods))
	ids := make([]int64, 0, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := q.Query(ctx, `
		SELECT v.id, v.product_id, v.sku, v.attributes,
			v.wholesale_cents, v.retail_cents, v.club_cents,
			COALESCE(sl.quantity, 0)
		FROM variants v
		LEFT JOIN stock_levels sl ON sl.variant_id = v.id
		WHERE v.product_id = ANY($1)
		ORDER BY v.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v Variant
		var attrs []byte
		var wholesale, retail, club pgtype.Int8
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &attrs, &wholesale, &retail, &club, &v.Quantity); err != nil {
			return err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &v.Attributes); err != nil {
				return err
			}
		}
		v.Wholesale = amountFromInt8(wholesale)
		v.Retail = amountFromInt8(retail)
		v.Club = amountFromInt8(club)
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var categoryID pgtype.Int8
	var attrs []byte
	var wholesale, retail, club, costBefore, costAfter int64
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.Article, &p.Title, &p.Brand, &categoryID, &attrs,
		&wholesale, &retail, &club, &costBefore, &costAfter,
		&p.Archived, &createdAt, &updatedAt, &p.Quantity)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return nil, err
		}
	}
	p.Wholesale = money.Amount(wholesale)
	p.Retail = money.Amount(retail)
	p.Club = money.Amount(club)
	p.CostBefore = money.Amount(costBefore)
	p.CostAfter = money.Amount(costAfter)
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func amountPtr(a *money.Amount) *int64 {
	if a == nil {
		return nil
	}
	v := int64(*a)
	return &v
}

func amountFromInt8(v pgtype.Int8) *money.Amount {
	if !v.Valid {
		return nil
	}
	a := money.Amount(v.Int64)
	return &a
}

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func mapOrEmpty(v map[string]string) map[string]string {
	if v == nil {
		return map[string]string{}
	}
	return v
}
