package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	inverrors "invtrack/internal/errors"
	"invtrack/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saleTimeLayout is the human-readable timestamp written into sale entries.
const saleTimeLayout = "2006-01-02 15:04:05"

// Store owns the product list and the sales log. All mutations happen under
// one lock and are followed by a full-snapshot write of both collections to
// durable storage. If a write fails the store keeps serving from memory and
// flags itself as degraded until the next successful write.
type Store struct {
	mu         sync.RWMutex
	products   []Product
	salesLog   []SaleEntry
	lastSaleID int64

	snapshots storage.Snapshots
	logger    *slog.Logger
	degraded  atomic.Bool

	now func() time.Time
}

// New loads both collections from durable storage. A missing inventory
// snapshot seeds three default products; an unreadable storage backend is
// tolerated (the store starts empty-but-seeded and degraded). A present but
// corrupt snapshot is an error.
func New(ctx context.Context, snapshots storage.Snapshots, logger *slog.Logger) (*Store, error) {
	s := &Store{
		snapshots: snapshots,
		logger:    logger.With("component", "inventory"),
		now:       time.Now,
	}

	raw, err := snapshots.Load(ctx, KeyInventory)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.products = seedProducts()
	case err != nil:
		s.logger.Warn("inventory snapshot unavailable, operating in-memory only", "error", err)
		s.degraded.Store(true)
		s.products = seedProducts()
	default:
		if err := json.Unmarshal(raw, &s.products); err != nil {
			return nil, fmt.Errorf("failed to decode inventory snapshot: %w", err)
		}
	}

	raw, err = snapshots.Load(ctx, KeySalesLog)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.salesLog = []SaleEntry{}
	case err != nil:
		s.logger.Warn("sales log snapshot unavailable, operating in-memory only", "error", err)
		s.degraded.Store(true)
		s.salesLog = []SaleEntry{}
	default:
		if err := json.Unmarshal(raw, &s.salesLog); err != nil {
			return nil, fmt.Errorf("failed to decode sales log snapshot: %w", err)
		}
	}
	for _, e := range s.salesLog {
		if e.ID > s.lastSaleID {
			s.lastSaleID = e.ID
		}
	}

	return s, nil
}

// seedProducts returns the default inventory used when storage is empty.
func seedProducts() []Product {
	return []Product{
		{ID: uuid.NewString(), Name: "Apple", Barcode: "123456789", OriginalStock: 50, Stock: 50, Price: decimal.RequireFromString("1.5")},
		{ID: uuid.NewString(), Name: "Banana", Barcode: "987654321", OriginalStock: 30, Stock: 30, Price: decimal.RequireFromString("0.8")},
		{ID: uuid.NewString(), Name: "Orange", Barcode: "456123789", OriginalStock: 20, Stock: 20, Price: decimal.RequireFromString("1.2")},
	}
}

// Products returns a copy of the product list in collection order.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list
}

// SalesLog returns a copy of the sales log, most recent first.
func (s *Store) SalesLog() []SaleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]SaleEntry, len(s.salesLog))
	copy(list, s.salesLog)
	return list
}

// Add creates a new product and appends it to the collection. Duplicate names
// and barcodes are permitted; barcode lookups resolve to the first match in
// collection order.
func (s *Store) Add(ctx context.Context, in AddInput) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	original := in.Stock
	if in.OriginalStock != nil {
		original = *in.OriginalStock
	}
	product := Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Barcode:       in.Barcode,
		OriginalStock: original,
		Stock:         in.Stock,
		Price:         in.Price,
	}
	s.products = append(s.products, product)
	s.persistLocked(ctx)

	return product
}

// Edit replaces the name, barcode, stock and price of the product with the
// matching ID. The stored OriginalStock always wins over the one in the
// payload. Returns nil without touching state if the ID is unknown.
func (s *Store) Edit(ctx context.Context, updated Product) *Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != updated.ID {
			continue
		}
		updated.OriginalStock = s.products[i].OriginalStock
		s.products[i] = updated
		s.persistLocked(ctx)
		result := s.products[i]
		return &result
	}
	return nil
}

// Remove deletes the first product with the given ID. Unknown IDs are a
// silent no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		s.products = append(s.products[:i], s.products[i+1:]...)
		s.persistLocked(ctx)
		return
	}
}

// Sell decrements the stock of the first product whose barcode equals the
// argument by exactly one and prepends a sale entry to the log. The decrement
// and the log append are applied together under the lock; no reader can
// observe one without the other.
//
// Returns ErrProductNotFound for an unknown barcode and *OutOfStockError when
// the product's stock is already zero. Both are informational; state is
// untouched.
func (s *Store) Sell(ctx context.Context, barcode string) (*SaleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Barcode != barcode {
			continue
		}
		if s.products[i].Stock <= 0 {
			return nil, &inverrors.OutOfStockError{Name: s.products[i].Name}
		}
		s.products[i].Stock--

		entry := SaleEntry{
			ID:      s.nextSaleIDLocked(),
			Name:    s.products[i].Name,
			Barcode: s.products[i].Barcode,
			Time:    s.now().Format(saleTimeLayout),
		}
		s.salesLog = append([]SaleEntry{entry}, s.salesLog...)
		s.persistLocked(ctx)
		return &entry, nil
	}
	return nil, inverrors.ErrProductNotFound
}

// Degraded reports whether the last snapshot write failed. The store keeps
// operating from memory while degraded.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

// nextSaleIDLocked issues a timestamp-based sale entry ID, forced strictly
// monotonic so sells within the same millisecond cannot collide.
func (s *Store) nextSaleIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastSaleID {
		id = s.lastSaleID + 1
	}
	s.lastSaleID = id
	return id
}

// persistLocked writes both collections to durable storage. Write failures
// do not fail the mutation; they flip the degraded flag and are logged.
func (s *Store) persistLocked(ctx context.Context) {
	ok := true

	if raw, err := json.Marshal(s.products); err != nil {
		ok = false
		s.logger.Error("failed to encode inventory snapshot", "error", err)
	} else if err := s.snapshots.Save(ctx, KeyInventory, raw); err != nil {
		ok = false
		s.logger.Warn("persistence degraded: inventory snapshot not written", "error", err)
	}

	if raw, err := json.Marshal(s.salesLog); err != nil {
		ok = false
		s.logger.Error("failed to encode sales log snapshot", "error", err)
	} else if err := s.snapshots.Save(ctx, KeySalesLog, raw); err != nil {
		ok = false
		s.logger.Warn("persistence degraded: sales log snapshot not written", "error", err)
	}

	s.degraded.Store(!ok)
}
