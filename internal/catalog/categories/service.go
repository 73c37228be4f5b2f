package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("categories: record not found")
	ErrAlreadyExists = errors.New("categories: name already exists")
	ErrIncompleteSet = errors.New("categories: reorder must list every category exactly once")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, form CategoryForm) (*Category, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, errors.New("category name is required")
	}
	return s.repo.Create(ctx, form)
}

func (s *Service) Update(ctx context.Context, id int64, form CategoryForm) (*Category, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, errors.New("category name is required")
	}
	if err := s.repo.Update(ctx, id, form); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Reorder rewrites sort order from the supplied id list. The list must cover
// the current category set exactly, so concurrent creates surface as an error
// instead of silently landing at an arbitrary position.
func (s *Service) Reorder(ctx context.Context, req ReorderRequest) ([]Category, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.IDs) != len(existing) {
		return nil, fmt.Errorf("%w: got %d ids, have %d categories", ErrIncompleteSet, len(req.IDs), len(existing))
	}
	known := make(map[int64]struct{}, len(existing))
	for _, c := range existing {
		known[c.ID] = struct{}{}
	}
	seen := make(map[int64]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: unknown id %d", ErrIncompleteSet, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrIncompleteSet, id)
		}
		seen[id] = struct{}{}
	}
	if err := s.repo.Reorder(ctx, req.IDs); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
