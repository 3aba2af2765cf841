package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/service"
	"github.com/lribeiro/feira/internal/testutil"
)

func TestProductRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t, model.Product{
		ID:      "cola-2l",
		Name:    "Refrigerante Cola 2L",
		Barcode: "7891000100103",
		Unit:    "un",
	})

	ctx := context.Background()

	byID, err := db.Storage.GetProductByID(ctx, "cola-2l")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Refrigerante Cola 2L", byID.Name)
	assert.Equal(t, "7891000100103", byID.Barcode)

	byBarcode, err := db.Storage.GetProductByBarcode(ctx, "7891000100103")
	require.NoError(t, err)
	require.NotNil(t, byBarcode)
	assert.Equal(t, "cola-2l", byBarcode.ID)

	// Misses are (nil, nil), not errors.
	missing, err := db.Storage.GetProductByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = db.Storage.GetProductByBarcode(ctx, "000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateProductRejectsDuplicateBarcode(t *testing.T) {
	db := testutil.SetupTestDB(t, model.Product{
		ID: "a", Name: "Produto A", Barcode: "111",
	})

	err := db.Storage.CreateProduct(context.Background(), &model.Product{
		ID: "b", Name: "Produto B", Barcode: "111",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestPriceHistoryOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t, model.Product{ID: "rice", Name: "Arroz 5kg"})
	db.SeedPrices("rice", 22.00, 24.90, 23.50)

	history, err := db.Storage.GetPriceHistory(context.Background(), "rice")
	require.NoError(t, err)
	assert.Equal(t, []float64{22.00, 24.90, 23.50}, history)
}

func TestPriceHistoryUnknownProductIsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	history, err := db.Storage.GetPriceHistory(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordPriceUnknownProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)

	err := db.Storage.RecordPrice(context.Background(), "ghost", 9.99, time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSavePurchasePersistsItemsAndPrices(t *testing.T) {
	db := testutil.SetupTestDB(t,
		model.Product{ID: "cola", Name: "Refrigerante 2L"},
		model.Product{ID: "rice", Name: "Arroz 5kg"},
	)

	ctx := context.Background()
	purchase := &model.ConfirmedPurchase{
		Items: []model.PurchaseItem{
			{ProductID: "cola", ProductName: "Refrigerante 2L", Quantity: 2, Price: 7.00, UnitDiscount: 1.00},
			{ProductID: "rice", ProductName: "Arroz 5kg", Quantity: 1, Price: 24.90},
		},
		PurchaseDiscount: 3.00,
	}

	saved, err := db.Storage.SavePurchase(ctx, purchase)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	// (7-1)*2 + 24.90 - 3.00
	assert.InDelta(t, 33.90, saved.Total, 1e-9)

	// Confirmed prices become history for future matching.
	history, err := db.Storage.GetPriceHistory(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, []float64{7.00}, history)

	purchases, err := db.Storage.GetPurchases(ctx, service.PurchaseFilter{})
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Len(t, purchases[0].Items, 2)
	assert.Equal(t, "cola", purchases[0].Items[0].ProductID)
	assert.InDelta(t, 3.00, purchases[0].PurchaseDiscount, 1e-9)
}

func TestSavePurchaseRejectsEmptyPayload(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, err := db.Storage.SavePurchase(context.Background(), &model.ConfirmedPurchase{})
	assert.Error(t, err)
}

func TestGetPurchasesLimit(t *testing.T) {
	db := testutil.SetupTestDB(t, model.Product{ID: "p", Name: "Produto"})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := db.Storage.SavePurchase(ctx, &model.ConfirmedPurchase{
			Items: []model.PurchaseItem{{ProductID: "p", ProductName: "Produto", Quantity: 1, Price: 1.00}},
		})
		require.NoError(t, err)
	}

	purchases, err := db.Storage.GetPurchases(ctx, service.PurchaseFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, purchases, 2)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Storage.Migrate(context.Background()))
	require.NoError(t, db.Storage.Migrate(context.Background()))
}
