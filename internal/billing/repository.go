package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winside-retail/backoffice/internal/money"
	"github.com/winside-retail/backoffice/internal/platform/db"
)

func amount(v int64) money.Amount { return money.Amount(v) }

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const invoiceColumns = `id, number, customer_id, brand, status, discount_type, discount_value, tax_rate,
	subtotal_cents, discount_cents, tax_cents, total_cents, due_date, created_at, updated_at`

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (number, customer_id, brand, status, discount_type, discount_value, tax_rate,
				subtotal_cents, discount_cents, tax_cents, total_cents, due_date, created_at, updated_at)
			VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id`,
			inv.CustomerID, inv.Brand, string(inv.Status), string(inv.DiscountType), inv.DiscountValue,
			inv.TaxRate, int64(inv.Subtotal), int64(inv.DiscountAmount), int64(inv.TaxAmount),
			int64(inv.Total), inv.DueDate,
		).Scan(&inv.ID)
		if err != nil {
			return mapConstraint(err)
		}

		// The human-facing number is derived from the generated id so it is
		// unique without a second sequence.
		inv.Number = fmt.Sprintf("INV-%06d", inv.ID)
		if _, err := tx.Exec(ctx, `UPDATE invoices SET number = $1 WHERE id = $2`, inv.Number, inv.ID); err != nil {
			return err
		}

		return insertLines(ctx, tx, inv)
	})
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoiceRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, []*Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argPos))
		args = append(args, req.Brand)
		argPos++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, req.Status)
		argPos++
	}
	if req.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, req.CustomerID)
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
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM invoices %s", whereClause), args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf(`SELECT %s FROM invoices %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, whereClause, argPos, argPos+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Invoice
	var refs []*Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range result {
		refs = append(refs, &result[i])
	}
	if err := r.loadLines(ctx, refs); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices
			SET discount_type = $1, discount_value = $2, tax_rate = $3,
				subtotal_cents = $4, discount_cents = $5, tax_cents = $6, total_cents = $7,
				due_date = $8, updated_at = NOW()
			WHERE id = $9`,
			string(inv.DiscountType), inv.DiscountValue, inv.TaxRate,
			int64(inv.Subtotal), int64(inv.DiscountAmount), int64(inv.TaxAmount), int64(inv.Total),
			inv.DueDate, inv.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return insertLines(ctx, tx, inv)
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, inv *Invoice) error {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.InvoiceID = inv.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_lines (invoice_id, position, product_id, variant_id, description, quantity, unit_price_cents, line_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			inv.ID, i, line.ProductID, line.VariantID, line.Description,
			line.Quantity, int64(line.UnitPrice), int64(line.LineTotal),
		).Scan(&line.ID)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

// loadLines fetches the line items for a batch of invoices in one query,
// preserving the stored line order.
func (r *repository) loadLines(ctx context.Context, invoices []*Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(invoices))
	byID := make(map[int64]*Invoice, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
		inv.Lines = nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, invoice_id, product_id, variant_id, description, quantity, unit_price_cents, line_total_cents
		FROM invoice_lines
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line LineItem
		var variantID pgtype.Int8
		var unit, lineTotal int64
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.ProductID, &variantID,
			&line.Description, &line.Quantity, &unit, &lineTotal); err != nil {
			return err
		}
		if variantID.Valid {
			v := variantID.Int64
			line.VariantID = &v
		}
		line.UnitPrice = amount(unit)
		line.LineTotal = amount(lineTotal)
		if inv, ok := byID[line.InvoiceID]; ok {
			inv.Lines = append(inv.Lines, line)
		}
	}
	return rows.Err()
}

func scanInvoiceRow(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var status, discountType string
	var subtotal, discount, tax, total int64
	var dueDate, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.Brand, &status, &discountType,
		&inv.DiscountValue, &inv.TaxRate, &subtotal, &discount, &tax, &total,
		&dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	inv.Status = InvoiceStatus(status)
	inv.DiscountType = DiscountType(discountType)
	inv.Subtotal = amount(subtotal)
	inv.DiscountAmount = amount(discount)
	inv.TaxAmount = amount(tax)
	inv.Total = amount(total)
	if dueDate.Valid {
		inv.DueDate = dueDate.Time
	}
	if createdAt.Valid {
		inv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		inv.UpdatedAt = updatedAt.Time
	}
	return &inv, nil
}

// mapConstraint turns foreign-key violations into the module's sentinel
// errors so a concurrent customer delete still yields a clean 404.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch pgErr.ConstraintName {
		case "invoices_customer_id_fkey":
			return ErrCustomerNotFound
		case "invoice_lines_product_id_fkey":
			return ErrProductNotFound
		case "invoice_lines_variant_id_fkey":
			return ErrVariantNotFound
		}
	}
	return err
}
