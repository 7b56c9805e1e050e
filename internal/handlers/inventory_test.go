package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/stock"
)

func seedInventory(t *testing.T, db *gorm.DB, productID, inStock, reserved, reorder int) models.Inventory {
	t.Helper()
	inv := models.Inventory{
		ProductID: productID, QuantityInStock: inStock, QuantityReserved: reserved, ReorderPoint: reorder,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func TestGetProductStockStatus(t *testing.T) {
	db := newTestDB(t)
	h := &InventoryHandler{DB: db}
	product := seedProduct(t, db, "Lamp", "10.50")
	seedInventory(t, db, product.ProductID, 10, 3, 5)

	rec, c := doJSONRequest(t, http.MethodGet, fmt.Sprintf("/inventory/product/%d", product.ProductID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ProductID))
	require.NoError(t, h.GetProductStockStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp stockStatusResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "Lamp", resp.ProductName)
	require.Equal(t, 7, resp.AvailableQuantity)
	require.Equal(t, stock.StatusInStock, resp.StockStatus)
	require.True(t, resp.InStock)
	require.False(t, resp.LowStock)
}

func TestGetProductStockStatusMissingRowIsZeroStock(t *testing.T) {
	db := newTestDB(t)
	h := &InventoryHandler{DB: db}
	product := seedProduct(t, db, "Lamp", "10.50")

	rec, c := doJSONRequest(t, http.MethodGet, fmt.Sprintf("/inventory/product/%d", product.ProductID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ProductID))
	require.NoError(t, h.GetProductStockStatus(c))

	var resp stockStatusResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 0, resp.AvailableQuantity)
	require.Equal(t, stock.StatusOutOfStock, resp.StockStatus)
	require.False(t, resp.InStock)
}

func TestGetProductStockStatusUnknownProduct(t *testing.T) {
	h := &InventoryHandler{DB: newTestDB(t)}

	_, c := doJSONRequest(t, http.MethodGet, "/inventory/product/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.GetProductStockStatus(c), http.StatusNotFound)
}

func TestGetProductStockStatusFirstRowWins(t *testing.T) {
	db := newTestDB(t)
	h := &InventoryHandler{DB: db}
	product := seedProduct(t, db, "Lamp", "10.50")
	seedInventory(t, db, product.ProductID, 10, 3, 5)
	seedInventory(t, db, product.ProductID, 0, 0, 5)

	rec, c := doJSONRequest(t, http.MethodGet, fmt.Sprintf("/inventory/product/%d", product.ProductID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ProductID))
	require.NoError(t, h.GetProductStockStatus(c))

	var resp stockStatusResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 7, resp.AvailableQuantity)
}

func TestLowStockAndOutOfStockFilters(t *testing.T) {
	db := newTestDB(t)
	h := &InventoryHandler{DB: db}
	healthy := seedProduct(t, db, "Healthy", "1.00")
	low := seedProduct(t, db, "Low", "1.00")
	gone := seedProduct(t, db, "Gone", "1.00")

	seedInventory(t, db, healthy.ProductID, 10, 3, 5)
	seedInventory(t, db, low.ProductID, 10, 6, 5)
	seedInventory(t, db, gone.ProductID, 3, 5, 5)

	rec, c := doJSONRequest(t, http.MethodGet, "/inventory/low-stock", nil)
	require.NoError(t, h.GetLowStock(c))
	var lowStock []stockStatusResponse
	decodeBody(t, rec, &lowStock)
	require.Len(t, lowStock, 1)
	require.Equal(t, low.ProductID, lowStock[0].ProductID)
	require.Equal(t, 4, lowStock[0].AvailableQuantity)

	rec, c = doJSONRequest(t, http.MethodGet, "/inventory/out-of-stock", nil)
	require.NoError(t, h.GetOutOfStock(c))
	var outOfStock []stockStatusResponse
	decodeBody(t, rec, &outOfStock)
	require.Len(t, outOfStock, 1)
	require.Equal(t, gone.ProductID, outOfStock[0].ProductID)
	require.Equal(t, 0, outOfStock[0].AvailableQuantity)
}

func TestUpdateInventoryDerivesStatusOnRead(t *testing.T) {
	db := newTestDB(t)
	h := &InventoryHandler{DB: db}
	product := seedProduct(t, db, "Lamp", "10.50")
	inv := seedInventory(t, db, product.ProductID, 10, 3, 5)

	rec, c := doJSONRequest(t, http.MethodPut, fmt.Sprintf("/inventory/%d", inv.InventoryID), map[string]interface{}{
		"quantityReserved": 8,
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(inv.InventoryID))
	require.NoError(t, h.UpdateInventory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp stockStatusResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 2, resp.AvailableQuantity)
	require.Equal(t, stock.StatusLowStock, resp.StockStatus)

	// only the counters are persisted
	var stored models.Inventory
	require.NoError(t, db.First(&stored, inv.InventoryID).Error)
	require.Equal(t, 10, stored.QuantityInStock)
	require.Equal(t, 8, stored.QuantityReserved)

	_, c = doJSONRequest(t, http.MethodPut, "/inventory/999", map[string]interface{}{"reorderPoint": 1})
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.UpdateInventory(c), http.StatusNotFound)
}
