package ledger

import (
	"context"
	"errors"
	"fmt"
	"goods-tracker/internal/model"
	"goods-tracker/internal/storage"
	"goods-tracker/pkg/clock"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var txnIDPattern = regexp.MustCompile(`^[0-9A-F]{9}$`)

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return New(store, zap.NewNop(), opts...), store
}

func widget() model.NewProductInput {
	return model.NewProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
		Quantity:    10,
		ArrivalDate: "2025-01-01",
		Photos:      []string{"/uploads/p1.jpg", "/uploads/p2.jpg"},
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestAddDefaults(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	l, _ := newTestLedger(t, WithClock(clock.NewFake(now)))

	p, err := l.Add(context.Background(), widget())
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Regexp(t, txnIDPattern, p.TransactionID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 9.99, p.Price)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, 0, p.QuantitySent)
	assert.Equal(t, 10, p.QuantityLeft)
	assert.Equal(t, model.StatusPending, p.Status)
	assert.Equal(t, "2025-01-01", p.ArrivalDate)
	assert.Equal(t, "2025-03-04T05:06:07.890Z", p.UploadDate)
	assert.Equal(t, p.UploadDate, p.ShippingDate)
	assert.Equal(t, p.UploadDate, p.OrderDate)
	assert.Equal(t, []string{"/uploads/p1.jpg", "/uploads/p2.jpg"}, p.Photos)
	assert.Empty(t, p.SenderName)
	assert.Empty(t, p.ReceiverName)
}

func TestAddKeepsSuppliedOptionalFields(t *testing.T) {
	l, _ := newTestLedger(t)

	in := widget()
	in.OrderDate = "2024-12-24"
	in.Status = "processing"
	in.SenderName = "Alice"
	in.ReceiverName = "Bob"

	p, err := l.Add(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "2024-12-24", p.OrderDate)
	assert.Equal(t, "processing", p.Status)
	assert.Equal(t, "Alice", p.SenderName)
	assert.Equal(t, "Bob", p.ReceiverName)
}

func TestAddWithoutArrivalDateStillCreates(t *testing.T) {
	l, _ := newTestLedger(t)

	p, err := l.Add(context.Background(), model.NewProductInput{Name: "Bare"})
	require.NoError(t, err)
	assert.Empty(t, p.ArrivalDate)
	assert.NotNil(t, p.Photos)
}

func TestAddThenGet(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	created, err := l.Add(ctx, widget())
	require.NoError(t, err)

	byID, err := l.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)
	assert.Equal(t, byID.Quantity, byID.QuantityLeft)
	assert.Equal(t, 0, byID.QuantitySent)

	byTxn, err := l.GetByTransactionID(ctx, created.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, byID, byTxn)
}

func TestGetByTransactionIDIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, WithTransactionIDGenerator(func() (string, error) { return "ABCDEF123", nil }))

	_, err := l.Add(ctx, widget())
	require.NoError(t, err)

	_, err = l.GetByTransactionID(ctx, "abcdef123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUnknownID(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Get(context.Background(), "never-created")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEmpty(t *testing.T) {
	l, _ := newTestLedger(t)

	products, err := l.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListNullDocument(t *testing.T) {
	l := New(storage.NewMemoryStoreWith([]byte("null")), zap.NewNop())

	products, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	var ids []string
	for i := 0; i < 3; i++ {
		in := widget()
		in.Name = fmt.Sprintf("item-%d", i)
		p, err := l.Add(ctx, in)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	products, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i, p := range products {
		assert.Equal(t, ids[i], p.ID)
	}
}

func TestUpdateQuantitySent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p, err := l.Add(ctx, widget())
	require.NoError(t, err)

	updated, err := l.Update(ctx, p.ID, model.UpdateProductInput{QuantitySent: intPtr(4)})
	require.NoError(t, err)

	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, 4, updated.QuantitySent)
	assert.Equal(t, 6, updated.QuantityLeft)
}

func TestUpdateQuantityUsesStoredQuantitySent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p, err := l.Add(ctx, widget())
	require.NoError(t, err)
	_, err = l.Update(ctx, p.ID, model.UpdateProductInput{QuantitySent: intPtr(4)})
	require.NoError(t, err)

	updated, err := l.Update(ctx, p.ID, model.UpdateProductInput{Quantity: intPtr(8)})
	require.NoError(t, err)

	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, 4, updated.QuantitySent)
	assert.Equal(t, 4, updated.QuantityLeft)
}

func TestUpdateQuantityAndQuantitySentTogether(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p, err := l.Add(ctx, widget())
	require.NoError(t, err)
	_, err = l.Update(ctx, p.ID, model.UpdateProductInput{QuantitySent: intPtr(2)})
	require.NoError(t, err)

	updated, err := l.Update(ctx, p.ID, model.UpdateProductInput{
		Quantity:     intPtr(20),
		QuantitySent: intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, 5, updated.QuantitySent)
	assert.Equal(t, 15, updated.QuantityLeft)
}

func TestUpdateKeepsUnsuppliedFields(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	in := widget()
	in.SenderName = "Alice"
	p, err := l.Add(ctx, in)
	require.NoError(t, err)

	updated, err := l.Update(ctx, p.ID, model.UpdateProductInput{
		Status:       strPtr("shipped"),
		Price:        floatPtr(12.5),
		ShippingDate: strPtr("2025-02-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "2025-02-01", updated.ShippingDate)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, p.TransactionID, updated.TransactionID)
	assert.Equal(t, p.UploadDate, updated.UploadDate)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "Alice", updated.SenderName)
	assert.Equal(t, p.Photos, updated.Photos)
	assert.Equal(t, 10, updated.QuantityLeft)

	stored, err := l.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateReplacesPhotos(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p, err := l.Add(ctx, widget())
	require.NoError(t, err)

	updated, err := l.Update(ctx, p.ID, model.UpdateProductInput{Photos: []string{"/uploads/p3.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/p3.jpg"}, updated.Photos)
}

func TestUpdateUnknownID(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Update(context.Background(), "missing", model.UpdateProductInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	keep, err := l.Add(ctx, widget())
	require.NoError(t, err)
	drop, err := l.Add(ctx, widget())
	require.NoError(t, err)

	removed, err := l.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, drop.ID, removed.ID)

	products, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, keep.ID, products[0].ID)

	_, err = l.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownLeavesCollection(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	_, err := l.Add(ctx, widget())
	require.NoError(t, err)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	_, err = l.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTransactionIDCollisionRegenerates(t *testing.T) {
	ctx := context.Background()
	codes := []string{"AAAAAAAAA", "AAAAAAAAA", "BBBBBBBBB"}
	var n int
	gen := func() (string, error) {
		code := codes[n]
		n++
		return code, nil
	}
	l, _ := newTestLedger(t, WithTransactionIDGenerator(gen))

	first, err := l.Add(ctx, widget())
	require.NoError(t, err)
	second, err := l.Add(ctx, widget())
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAAA", first.TransactionID)
	assert.Equal(t, "BBBBBBBBB", second.TransactionID)
	assert.Equal(t, 3, n)
}

func TestTransactionIDExhausted(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, WithTransactionIDGenerator(func() (string, error) { return "SAMESAME1", nil }))

	_, err := l.Add(ctx, widget())
	require.NoError(t, err)

	_, err = l.Add(ctx, widget())
	assert.ErrorIs(t, err, ErrTransactionIDExhausted)

	products, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestMalformedDocument(t *testing.T) {
	ctx := context.Background()
	l := New(storage.NewMemoryStoreWith([]byte("{not json")), zap.NewNop())

	_, err := l.List(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = l.Add(ctx, widget())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = l.Get(ctx, "any")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

type failingStore struct {
	storage.MemoryStore
}

func (f *failingStore) Save(context.Context, []byte) error {
	return fmt.Errorf("%w: disk full", storage.ErrUnavailable)
}

func TestSaveFailure(t *testing.T) {
	store := &failingStore{}
	require.NoError(t, store.MemoryStore.Save(context.Background(), storage.EmptyDocument))
	l := New(store, zap.NewNop())

	_, err := l.Add(context.Background(), widget())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
}

func TestConcurrentAddsAreAllPersisted(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Add(ctx, widget())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	products, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 20)
}

func TestNewTransactionIDShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := NewTransactionID()
		require.NoError(t, err)
		assert.Regexp(t, txnIDPattern, id)
	}
}
