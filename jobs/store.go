package jobs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MaintenanceStore runs the SQL behind the cron tasks.
type MaintenanceStore struct {
	pool *pgxpool.Pool
}

func NewMaintenanceStore(pool *pgxpool.Pool) *MaintenanceStore {
	return &MaintenanceStore{pool: pool}
}

// MarkOverdue flips open invoices whose due date has passed. Draft and
// terminal invoices are untouched.
func (s *MaintenanceStore) MarkOverdue(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status IN ('pending', 'partial') AND due_date < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RefreshCustomerStats recomputes total_orders and total_spent_cents from
// non-cancelled, non-draft invoices. The counters stay informational: reads
// never depend on them being current.
func (s *MaintenanceStore) RefreshCustomerStats(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE customers c
		SET total_orders = agg.orders,
			total_spent_cents = agg.spent,
			updated_at = NOW()
		FROM (
			SELECT customer_id,
				COUNT(*) AS orders,
				COALESCE(SUM(total_cents), 0) AS spent
			FROM invoices
			WHERE status NOT IN ('draft', 'cancelled')
			GROUP BY customer_id
		) agg
		WHERE agg.customer_id = c.id
		  AND (c.total_orders <> agg.orders OR c.total_spent_cents <> agg.spent)`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
