package reconcile

import (
	"context"
	"sync"

	"github.com/lribeiro/feira/internal/model"
)

// MockLookup is a test implementation of the CatalogLookup interface.
// Products are keyed by barcode and id; price history by product id.
type MockLookup struct {
	byBarcode map[string]model.Product
	byID      map[string]model.Product
	history   map[string][]float64

	barcodeCalls []string
	historyCalls []string

	// LookupErr, when set, is returned by every barcode and id lookup to
	// simulate a failing catalog service.
	LookupErr error

	mu sync.Mutex
}

// NewMockLookup creates an empty mock catalog.
func NewMockLookup() *MockLookup {
	return &MockLookup{
		byBarcode: make(map[string]model.Product),
		byID:      make(map[string]model.Product),
		history:   make(map[string][]float64),
	}
}

// AddProduct registers a product, retrievable by id and by barcode.
func (m *MockLookup) AddProduct(p model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[p.ID] = p
	if p.Barcode != "" {
		m.byBarcode[p.Barcode] = p
	}
}

// SetHistory records price history for a product id.
func (m *MockLookup) SetHistory(productID string, prices []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[productID] = prices
}

// LookupProductByBarcode implements CatalogLookup.
func (m *MockLookup) LookupProductByBarcode(_ context.Context, code string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.barcodeCalls = append(m.barcodeCalls, code)
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if p, ok := m.byBarcode[code]; ok {
		return &p, nil
	}
	return nil, nil
}

// LookupProductByID implements CatalogLookup.
func (m *MockLookup) LookupProductByID(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if p, ok := m.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// FetchPriceHistory implements CatalogLookup.
func (m *MockLookup) FetchPriceHistory(_ context.Context, productID string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.historyCalls = append(m.historyCalls, productID)
	return m.history[productID]
}

// BarcodeCalls returns every barcode lookup made, in order.
func (m *MockLookup) BarcodeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.barcodeCalls))
	copy(out, m.barcodeCalls)
	return out
}

// HistoryCalls returns every price-history fetch made, in order.
func (m *MockLookup) HistoryCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.historyCalls))
	copy(out, m.historyCalls)
	return out
}
