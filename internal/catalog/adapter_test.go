package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/service"
)

// stubStorage implements the slice of service.Storage the adapter touches.
type stubStorage struct {
	service.Storage

	products   map[string]model.Product // by barcode
	byID       map[string]model.Product
	history    map[string][]float64
	failuresMu sync.Mutex
	failures   int // lookups to fail before succeeding
}

func newStubStorage() *stubStorage {
	return &stubStorage{
		products: make(map[string]model.Product),
		byID:     make(map[string]model.Product),
		history:  make(map[string][]float64),
	}
}

func (s *stubStorage) failNext(n int) {
	s.failuresMu.Lock()
	defer s.failuresMu.Unlock()
	s.failures = n
}

func (s *stubStorage) maybeFail() error {
	s.failuresMu.Lock()
	defer s.failuresMu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("database is locked")
	}
	return nil
}

func (s *stubStorage) GetProductByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	if p, ok := s.products[barcode]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *stubStorage) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	if p, ok := s.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *stubStorage) GetPriceHistory(_ context.Context, productID string) ([]float64, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	return s.history[productID], nil
}

func TestLookupProductByBarcode(t *testing.T) {
	storage := newStubStorage()
	storage.products["7891000100103"] = model.Product{ID: "p1", Name: "Refrigerante 2L", Barcode: "7891000100103"}

	adapter := NewAdapter(storage)

	product, err := adapter.LookupProductByBarcode(context.Background(), "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "p1", product.ID)

	// Clean miss: nil product, nil error.
	product, err = adapter.LookupProductByBarcode(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, product)

	// Empty code short-circuits without touching storage.
	product, err = adapter.LookupProductByBarcode(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestLookupRetriesTransientFailure(t *testing.T) {
	storage := newStubStorage()
	storage.byID["p1"] = model.Product{ID: "p1", Name: "Arroz 5kg"}
	storage.failNext(1)

	adapter := NewAdapter(storage)
	adapter.retry.InitialDelay = time.Millisecond

	product, err := adapter.LookupProductByID(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Arroz 5kg", product.Name)
}

func TestLookupReportsPersistentFailure(t *testing.T) {
	storage := newStubStorage()
	storage.failNext(10)

	adapter := NewAdapter(storage)
	adapter.retry.InitialDelay = time.Millisecond

	_, err := adapter.LookupProductByBarcode(context.Background(), "123")
	assert.ErrorIs(t, err, common.ErrLookupFailed)
}

func TestFetchPriceHistoryDegradesToEmpty(t *testing.T) {
	storage := newStubStorage()
	storage.history["p1"] = []float64{6.50, 7.50}

	adapter := NewAdapter(storage)
	adapter.retry.InitialDelay = time.Millisecond

	history := adapter.FetchPriceHistory(context.Background(), "p1")
	assert.Equal(t, []float64{6.50, 7.50}, history)

	// Persistent failure never surfaces as an error, only as no history.
	storage.failNext(10)
	history = adapter.FetchPriceHistory(context.Background(), "p1")
	assert.Empty(t, history)
}
