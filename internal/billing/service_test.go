package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/money"
)

type fakeRepo struct {
	nextID   int64
	invoices map[int64]*Invoice
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, invoices: make(map[int64]*Invoice)}
}

func (f *fakeRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = f.nextID
	f.nextID++
	inv.Number = "INV-000001"
	stored := *inv
	f.invoices[inv.ID] = &stored
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, inv *Invoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	stored := *inv
	f.invoices[inv.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status InvoiceStatus) error {
	inv, ok := f.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

type fakeCustomers map[int64]*customers.Customer

func (f fakeCustomers) Get(_ context.Context, id int64) (*customers.Customer, error) {
	c, ok := f[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	return c, nil
}

type fakeProducts map[int64]*products.Product

func (f fakeProducts) Get(_ context.Context, id int64) (*products.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return p, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	wholesaleOverride := money.Amount(1250)
	repo := newFakeRepo()
	svc := NewService(repo,
		fakeCustomers{
			1: {ID: 1, Name: "Retail Rita", Brand: "winside", Tier: customers.TierRetail},
			2: {ID: 2, Name: "Wholesale Wes", Brand: "winside", Tier: customers.TierWholesale},
		},
		fakeProducts{
			10: {
				ID: 10, Article: "TS-100", Title: "Tee", Brand: "winside",
				Wholesale: 1500, Retail: 2500, Club: 2000,
				Variants: []products.Variant{
					{ID: 100, ProductID: 10, SKU: "TS-100-M", Wholesale: &wholesaleOverride},
				},
			},
		},
		0,
	)
	return svc, repo
}

func TestCreateCapturesRetailPrice(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 2}},
		DueDate:    time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, inv.Status)
	require.Len(t, inv.Lines, 1)
	require.Equal(t, money.Amount(2500), inv.Lines[0].UnitPrice)
	require.Equal(t, money.Amount(5000), inv.Subtotal)
	require.Equal(t, money.Amount(5000), inv.Total)
}

func TestCreateCapturesVariantWholesaleOverride(t *testing.T) {
	svc, _ := newTestService(t)
	variantID := int64(100)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 2,
		Lines:      []LineItemForm{{ProductID: 10, VariantID: &variantID, Quantity: 1}},
		DueDate:    time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(1250), inv.Lines[0].UnitPrice)
	require.Equal(t, "Tee (TS-100-M)", inv.Lines[0].Description)
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 99,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateUnknownVariant(t *testing.T) {
	svc, _ := newTestService(t)
	variantID := int64(999)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, VariantID: &variantID, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.ErrorIs(t, err, ErrVariantNotFound)
}

func TestCreateRejectsPercentageDiscountOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    1,
		Lines:         []LineItemForm{{ProductID: 10, Quantity: 1}},
		DiscountType:  string(DiscountPercentage),
		DiscountValue: 150,
		DueDate:       time.Now(),
	})
	require.ErrorIs(t, err, ErrInvalidDiscount)

	// Fixed discounts above the subtotal are legal; they clamp instead.
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    1,
		Lines:         []LineItemForm{{ProductID: 10, Quantity: 1}},
		DiscountType:  string(DiscountFixed),
		DiscountValue: 150,
		DueDate:       time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(0), inv.Total)
}

func TestUpdateRejectsPercentageDiscountOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.NoError(t, err)

	discount := 150.0
	_, err = svc.Update(context.Background(), inv.ID, UpdateInvoiceRequest{DiscountValue: &discount})
	require.ErrorIs(t, err, ErrInvalidDiscount)

	// The stored invoice keeps a non-negative total.
	got, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, money.Amount(2500), got.Total)
}

func TestUpdateRejectsNonDraft(t *testing.T) {
	svc, repo := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.NoError(t, err)
	repo.invoices[inv.ID].Status = StatusPending

	discount := 5.0
	_, err = svc.Update(context.Background(), inv.ID, UpdateInvoiceRequest{DiscountValue: &discount})
	require.ErrorIs(t, err, ErrNotDraft)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 4}},
		DueDate:    time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(10000), inv.Subtotal)

	discount := 10.0
	tax := 20.0
	updated, err := svc.Update(context.Background(), inv.ID, UpdateInvoiceRequest{
		DiscountValue: &discount,
		TaxRate:       &tax,
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(1000), updated.DiscountAmount)
	require.Equal(t, money.Amount(1800), updated.TaxAmount)
	require.Equal(t, money.Amount(10800), updated.Total)
}

func TestTransitionLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.NoError(t, err)

	// draft cannot jump straight to paid
	_, err = svc.Transition(context.Background(), inv.ID, StatusPaid)
	require.ErrorIs(t, err, ErrInvalidTransition)

	inv, err = svc.Transition(context.Background(), inv.ID, StatusPending)
	require.NoError(t, err)
	require.Equal(t, StatusPending, inv.Status)

	inv, err = svc.Transition(context.Background(), inv.ID, StatusPaid)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, inv.Status)

	// paid is terminal
	_, err = svc.Transition(context.Background(), inv.ID, StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteOnlyDrafts(t *testing.T) {
	svc, repo := newTestService(t)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID: 1,
		Lines:      []LineItemForm{{ProductID: 10, Quantity: 1}},
		DueDate:    time.Now(),
	})
	require.NoError(t, err)

	repo.invoices[inv.ID].Status = StatusPending
	require.ErrorIs(t, svc.Delete(context.Background(), inv.ID), ErrNotDraft)

	repo.invoices[inv.ID].Status = StatusDraft
	require.NoError(t, svc.Delete(context.Background(), inv.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), inv.ID), ErrNotFound)
}
