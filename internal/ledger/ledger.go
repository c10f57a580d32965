// Package ledger owns the collection of tracked orders and its persistence.
//
// Every operation reads the whole goods document from the configured store. Mutations
// rewrite the whole document, pretty printed, under one mutex per Ledger, so two writers
// in this process never interleave. The last writer wins; nothing is merged.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"goods-tracker/internal/model"
	"goods-tracker/internal/storage"
	"goods-tracker/pkg/clock"
	"sync"

	"go.uber.org/zap"
)

// Ledger is the product record collection backed by a storage.Store
type Ledger struct {
	store    storage.Store
	log      *zap.Logger
	clock    clock.Clock
	newID    IDGenerator
	newTxnID TransactionIDGenerator

	mu sync.Mutex
}

// Option customises a Ledger
type Option func(*Ledger)

// WithClock sets the time source used for generated timestamps
func WithClock(c clock.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithIDGenerator sets the record id generator
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) { l.newID = g }
}

// WithTransactionIDGenerator sets the transaction id generator
func WithTransactionIDGenerator(g TransactionIDGenerator) Option {
	return func(l *Ledger) { l.newTxnID = g }
}

// New creates a Ledger over store
func New(store storage.Store, log *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		log:      log,
		clock:    clock.RealClock{},
		newID:    NewRecordID,
		newTxnID: NewTransactionID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns every record in insertion order
func (l *Ledger) List(ctx context.Context) ([]model.Product, error) {
	return l.load(ctx)
}

// Get returns the record with the given id
func (l *Ledger) Get(ctx context.Context, id string) (*model.Product, error) {
	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(products, func(p *model.Product) bool { return p.ID == id }); i >= 0 {
		return &products[i], nil
	}
	return nil, ErrNotFound
}

// GetByTransactionID returns the record whose transaction id matches exactly
func (l *Ledger) GetByTransactionID(ctx context.Context, transactionID string) (*model.Product, error) {
	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(products, func(p *model.Product) bool { return p.TransactionID == transactionID }); i >= 0 {
		return &products[i], nil
	}
	return nil, ErrNotFound
}

// Add creates a record from in, appends it and persists the collection.
// No field is required here; missing values are stored empty.
func (l *Ledger) Add(ctx context.Context, in model.NewProductInput) (*model.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	txnID, err := l.uniqueTransactionID(products)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now().UTC().Format(model.TimeLayout)
	p := model.Product{
		ID:            l.newID(),
		TransactionID: txnID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Photos:        append([]string{}, in.Photos...),
		Quantity:      in.Quantity,
		UploadDate:    now,
		OrderDate:     orDefault(in.OrderDate, now),
		ArrivalDate:   in.ArrivalDate,
		ShippingDate:  now,
		QuantitySent:  0,
		QuantityLeft:  in.Quantity,
		Status:        orDefault(in.Status, model.StatusPending),
		SenderName:    in.SenderName,
		ReceiverName:  in.ReceiverName,
	}

	products = append(products, p)
	if err := l.save(ctx, products); err != nil {
		return nil, err
	}

	l.log.Info("Product added",
		zap.String("product_id", p.ID),
		zap.String("transaction_id", p.TransactionID),
		zap.Int("quantity", p.Quantity))
	return &p, nil
}

// Update applies the supplied fields of in to the record with the given id.
// A new quantity recomputes quantityLeft against the stored quantitySent first; a new
// quantitySent then recomputes it against the current quantity.
func (l *Ledger) Update(ctx context.Context, id string, in model.UpdateProductInput) (*model.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(products, func(p *model.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}

	p := products[i]
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
		p.QuantityLeft = p.Quantity - p.QuantitySent
	}
	setString(&p.ArrivalDate, in.ArrivalDate)
	setString(&p.ShippingDate, in.ShippingDate)
	if in.QuantitySent != nil {
		p.QuantitySent = *in.QuantitySent
		p.QuantityLeft = p.Quantity - p.QuantitySent
	}
	setString(&p.Status, in.Status)
	setString(&p.SenderName, in.SenderName)
	setString(&p.ReceiverName, in.ReceiverName)
	setString(&p.OrderDate, in.OrderDate)
	if len(in.Photos) > 0 {
		p.Photos = append([]string{}, in.Photos...)
	}

	products[i] = p
	if err := l.save(ctx, products); err != nil {
		return nil, err
	}

	l.log.Info("Product updated",
		zap.String("product_id", p.ID),
		zap.Int("quantity", p.Quantity),
		zap.Int("quantity_sent", p.QuantitySent),
		zap.Int("quantity_left", p.QuantityLeft))
	return &p, nil
}

// Delete removes the record with the given id permanently and returns it
func (l *Ledger) Delete(ctx context.Context, id string) (*model.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]model.Product, 0, len(products))
	var removed *model.Product
	for i := range products {
		if products[i].ID == id {
			removed = &products[i]
			continue
		}
		kept = append(kept, products[i])
	}
	if len(kept) == len(products) {
		return nil, ErrNotFound
	}

	if err := l.save(ctx, kept); err != nil {
		return nil, err
	}

	l.log.Info("Product deleted", zap.String("product_id", id))
	return removed, nil
}

func (l *Ledger) uniqueTransactionID(products []model.Product) (string, error) {
	taken := make(map[string]struct{}, len(products))
	for _, p := range products {
		taken[p.TransactionID] = struct{}{}
	}

	for attempt := 1; attempt <= maxTransactionIDAttempts; attempt++ {
		id, err := l.newTxnID()
		if err != nil {
			return "", fmt.Errorf("generate transaction id: %w", err)
		}
		if _, dup := taken[id]; !dup {
			return id, nil
		}
		l.log.Warn("Transaction id collision, regenerating",
			zap.String("transaction_id", id),
			zap.Int("attempt", attempt))
	}
	return "", ErrTransactionIDExhausted
}

func (l *Ledger) load(ctx context.Context) ([]model.Product, error) {
	data, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: parse goods document: %w", ErrStorageUnavailable, err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (l *Ledger) save(ctx context.Context, products []model.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode goods document: %w", ErrStorageUnavailable, err)
	}
	if err := l.store.Save(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func indexOf(products []model.Product, match func(*model.Product) bool) int {
	for i := range products {
		if match(&products[i]) {
			return i
		}
	}
	return -1
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
