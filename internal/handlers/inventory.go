package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/stock"
)

type InventoryHandler struct {
	DB *gorm.DB
}

type stockStatusResponse struct {
	ProductID         int          `json:"productId"`
	ProductName       string       `json:"productName"`
	QuantityInStock   int          `json:"quantityInStock"`
	QuantityReserved  int          `json:"quantityReserved"`
	AvailableQuantity int          `json:"availableQuantity"`
	ReorderPoint      int          `json:"reorderPoint"`
	InStock           bool         `json:"inStock"`
	LowStock          bool         `json:"lowStock"`
	StockStatus       stock.Status `json:"stockStatus"`
}

func (h *InventoryHandler) toStatus(ctx context.Context, inv models.Inventory) stockStatusResponse {
	available, status := stock.Derive(inv.QuantityInStock, inv.QuantityReserved, inv.ReorderPoint)

	resp := stockStatusResponse{
		ProductID:         inv.ProductID,
		QuantityInStock:   inv.QuantityInStock,
		QuantityReserved:  inv.QuantityReserved,
		AvailableQuantity: available,
		ReorderPoint:      inv.ReorderPoint,
		InStock:           status != stock.StatusOutOfStock,
		LowStock:          status == stock.StatusLowStock,
		StockStatus:       status,
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, inv.ProductID).Error; err == nil {
		resp.ProductName = product.ProductName
	}
	return resp
}

func (h *InventoryHandler) GetInventory(c echo.Context) error {
	ctx := c.Request().Context()

	var rows []models.Inventory
	if err := h.DB.WithContext(ctx).Order("inventory_id ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get inventory")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *InventoryHandler) GetInventoryStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var rows []models.Inventory
	if err := h.DB.WithContext(ctx).Order("inventory_id ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get inventory")
	}

	statuses := make([]stockStatusResponse, len(rows))
	for i, inv := range rows {
		statuses[i] = h.toStatus(ctx, inv)
	}
	return c.JSON(http.StatusOK, statuses)
}

// GetProductStockStatus treats a product without an inventory row as zero
// stock rather than an error. An unknown product is a 404.
func (h *InventoryHandler) GetProductStockStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.product_status")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_status_failed", "status", 404, "productId", productID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	// Duplicates are possible; the first row wins.
	var inv models.Inventory
	if err := h.DB.WithContext(ctx).Where("product_id = ?", productID).Order("inventory_id ASC").First(&inv).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot get inventory")
		}
		inv = models.Inventory{ProductID: productID}
	}

	resp := h.toStatus(ctx, inv)
	resp.ProductName = product.ProductName
	return c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) GetLowStock(c echo.Context) error {
	return h.filtered(c, stock.StatusLowStock)
}

func (h *InventoryHandler) GetOutOfStock(c echo.Context) error {
	return h.filtered(c, stock.StatusOutOfStock)
}

func (h *InventoryHandler) filtered(c echo.Context, want stock.Status) error {
	ctx := c.Request().Context()

	var rows []models.Inventory
	if err := h.DB.WithContext(ctx).Order("inventory_id ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get inventory")
	}

	statuses := make([]stockStatusResponse, 0, len(rows))
	for _, inv := range rows {
		if _, status := stock.Derive(inv.QuantityInStock, inv.QuantityReserved, inv.ReorderPoint); status == want {
			statuses = append(statuses, h.toStatus(ctx, inv))
		}
	}
	return c.JSON(http.StatusOK, statuses)
}

// UpdateInventory partially updates the three counters. Status is derived on
// read and never persisted.
func (h *InventoryHandler) UpdateInventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		QuantityInStock  *int `json:"quantityInStock"`
		QuantityReserved *int `json:"quantityReserved"`
		ReorderPoint     *int `json:"reorderPoint"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var inv models.Inventory
	if err := h.DB.WithContext(ctx).First(&inv, id).Error; err != nil {
		l.Warn("update_inventory_failed", "status", 404, "inventoryId", id)
		return echo.NewHTTPError(http.StatusNotFound, "inventory not found")
	}

	if req.QuantityInStock != nil {
		inv.QuantityInStock = *req.QuantityInStock
	}
	if req.QuantityReserved != nil {
		inv.QuantityReserved = *req.QuantityReserved
	}
	if req.ReorderPoint != nil {
		inv.ReorderPoint = *req.ReorderPoint
	}

	if err := h.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		l.Error("update_inventory_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update inventory")
	}

	return c.JSON(http.StatusOK, h.toStatus(ctx, inv))
}
