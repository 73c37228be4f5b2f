package categories

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	byID   map[int64]*Category
	nextID int64
	order  []int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[int64]*Category{}, nextID: 1}
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]Category, error) {
	out := make([]Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeCategoryRepo) Get(_ context.Context, id int64) (*Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, form CategoryForm) (*Category, error) {
	for _, c := range f.byID {
		if c.Name == form.Name {
			return nil, ErrAlreadyExists
		}
	}
	c := &Category{ID: f.nextID, Name: form.Name, Color: form.Color, SortOrder: len(f.byID)}
	f.nextID++
	f.byID[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, id int64, form CategoryForm) error {
	c, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	c.Name = form.Name
	c.Color = form.Color
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCategoryRepo) Reorder(_ context.Context, ids []int64) error {
	for pos, id := range ids {
		f.byID[id].SortOrder = pos
	}
	f.order = ids
	return nil
}

func seedCategories(t *testing.T, svc *Service, names ...string) []Category {
	t.Helper()
	for _, name := range names {
		_, err := svc.Create(context.Background(), CategoryForm{Name: name})
		require.NoError(t, err)
	}
	out, err := svc.List(context.Background())
	require.NoError(t, err)
	return out
}

func TestCategoryCreateRequiresName(t *testing.T) {
	svc := NewService(newFakeCategoryRepo())
	_, err := svc.Create(context.Background(), CategoryForm{Name: "   "})
	require.Error(t, err)
}

func TestCategoryCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeCategoryRepo())
	seedCategories(t, svc, "Shirts")
	_, err := svc.Create(context.Background(), CategoryForm{Name: "Shirts"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCategoryReorder(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewService(repo)
	cats := seedCategories(t, svc, "Shirts", "Pants", "Shoes")

	reordered, err := svc.Reorder(context.Background(), ReorderRequest{
		IDs: []int64{cats[2].ID, cats[0].ID, cats[1].ID},
	})
	require.NoError(t, err)
	require.Equal(t, "Shoes", reordered[0].Name)
	require.Equal(t, "Shirts", reordered[1].Name)
	require.Equal(t, "Pants", reordered[2].Name)
}

func TestCategoryReorderRejectsIncompleteSet(t *testing.T) {
	svc := NewService(newFakeCategoryRepo())
	cats := seedCategories(t, svc, "Shirts", "Pants", "Shoes")

	_, err := svc.Reorder(context.Background(), ReorderRequest{IDs: []int64{cats[0].ID}})
	require.ErrorIs(t, err, ErrIncompleteSet)

	_, err = svc.Reorder(context.Background(), ReorderRequest{
		IDs: []int64{cats[0].ID, cats[1].ID, 999},
	})
	require.ErrorIs(t, err, ErrIncompleteSet)

	_, err = svc.Reorder(context.Background(), ReorderRequest{
		IDs: []int64{cats[0].ID, cats[1].ID, cats[1].ID},
	})
	require.ErrorIs(t, err, ErrIncompleteSet)
}

func TestCategoryUpdateUnknown(t *testing.T) {
	svc := NewService(newFakeCategoryRepo())
	_, err := svc.Update(context.Background(), 42, CategoryForm{Name: "Hats"})
	require.ErrorIs(t, err, ErrNotFound)
}
