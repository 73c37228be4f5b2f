package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/winside-retail/backoffice/internal/shared"
)

type Repository interface {
	// Adjust locks the stock row, applies the clamped delta, and records the
	// adjustment in one transaction. The passed Adjustment is filled in with
	// the previous and new quantities.
	Adjust(ctx context.Context, adj *Adjustment) error
	ListAdjustments(ctx context.Context, req ListAdjustmentsRequest) ([]Adjustment, int, error)
	LowStock(ctx context.Context, brand string, threshold int) ([]LowStockItem, error)
}

// IdempotencyGuard deduplicates retried adjustment requests by client key.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// AuditRecorder persists who changed what.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

const idempotencyModule = "inventory"

type Service struct {
	logger       *slog.Logger
	repo         Repository
	idempotency  IdempotencyGuard
	audit        AuditRecorder
	lowThreshold int
}

func NewService(logger *slog.Logger, repo Repository, guard IdempotencyGuard, audit AuditRecorder, lowThreshold int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:       logger,
		repo:         repo,
		idempotency:  guard,
		audit:        audit,
		lowThreshold: lowThreshold,
	}
}

// Adjust applies a signed delta to a stock level. The resulting quantity is
// floored at zero; flooring is reported in the returned Adjustment, not
// treated as a failure. A non-empty idempotencyKey makes retries safe.
func (s *Service) Adjust(ctx context.Context, actorID int64, req AdjustRequest, idempotencyKey string) (*Adjustment, error) {
	if idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return nil, err
		}
	}

	adj := &Adjustment{
		Reference: uuid.NewString(),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		ActorID:   actorID,
	}
	if err := s.repo.Adjust(ctx, adj); err != nil {
		if idempotencyKey != "" {
			if delErr := s.idempotency.Delete(ctx, idempotencyKey); delErr != nil {
				s.logger.Warn("release idempotency key", slog.Any("error", delErr))
			}
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "stock.adjust",
		Entity:   "stock_level",
		EntityID: adj.Reference,
		Meta: map[string]any{
			"product_id": adj.ProductID,
			"variant_id": adj.VariantID,
			"delta":      adj.Delta,
			"previous":   adj.Previous,
			"new":        adj.New,
			"clamped":    adj.Clamped,
			"reason":     adj.Reason,
		},
	}); err != nil {
		// The adjustment itself committed; a lost audit row is logged, not
		// surfaced to the caller.
		s.logger.Error("audit stock adjustment", slog.Any("error", err))
	}

	return adj, nil
}

func (s *Service) ListAdjustments(ctx context.Context, req ListAdjustmentsRequest) ([]Adjustment, int, error) {
	return s.repo.ListAdjustments(ctx, req)
}

// LowStock reports stock rows at or below the configured threshold.
func (s *Service) LowStock(ctx context.Context, brand string) ([]LowStockItem, error) {
	return s.repo.LowStock(ctx, brand, s.lowThreshold)
}
