package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/money"
)

type CartHandler struct {
	DB *gorm.DB
}

type cartProductSummary struct {
	ProductID    int    `json:"productId"`
	ProductName  string `json:"productName"`
	Description  string `json:"description"`
	FeatureImage string `json:"featureImage"`
}

type cartItemResponse struct {
	CartItemID int                 `json:"cartItemId"`
	UserID     int                 `json:"userId"`
	Product    *cartProductSummary `json:"product"`
	Quantity   int                 `json:"quantity"`
	Price      decimal.Decimal     `json:"price"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
}

func (h *CartHandler) toResponse(ctx context.Context, item models.CartItem) cartItemResponse {
	resp := cartItemResponse{
		CartItemID: item.CartItemID,
		UserID:     item.UserID,
		Quantity:   item.Quantity,
		Price:      item.Price,
		Subtotal:   money.Subtotal(item.Price, item.Quantity),
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, item.ProductID).Error; err == nil {
		resp.Product = &cartProductSummary{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Description:  product.Description,
			FeatureImage: product.FeatureImage,
		}
	}
	return resp
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is not an integer")
	}

	var items []models.CartItem
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Order("cart_item_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get cart")
	}

	resp := make([]cartItemResponse, len(items))
	for i, item := range items {
		resp[i] = h.toResponse(ctx, item)
	}
	return c.JSON(http.StatusOK, resp)
}

// AddToCart merges into an existing line for the same product, otherwise a
// new line is created capturing the product's current price.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		UserID    int `json:"userId"`
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var item models.CartItem
	err := h.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", req.UserID, req.ProductID).First(&item).Error
	if err == nil {
		item.Quantity += req.Quantity
		if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart item")
		}
		return c.JSON(http.StatusOK, h.toResponse(ctx, item))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, req.ProductID).Error; err != nil {
		l.Warn("add_to_cart_failed", "status", 404, "productId", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	item = models.CartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     product.Price,
	}
	if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	return c.JSON(http.StatusOK, h.toResponse(ctx, item))
}

// UpdateQuantity is an absolute replacement. The new quantity is persisted
// as-is, zero and negative values included.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		CartItemID int `json:"cartItemId"`
		Quantity   int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.CartItem
	if err := h.DB.WithContext(ctx).First(&item, req.CartItemID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	item.Quantity = req.Quantity
	if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart item")
	}
	return c.JSON(http.StatusOK, h.toResponse(ctx, item))
}

// RemoveFromCart deletes only when both the cart item id and the user id
// match, so one user cannot remove another user's line.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	cartItemID, err := strconv.Atoi(c.Param("cartItemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cartItemId is not an integer")
	}
	userID, err := strconv.Atoi(c.QueryParam("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	res := h.DB.WithContext(ctx).Where("cart_item_id = ? AND user_id = ?", cartItemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove cart item")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCartTotal sums price*quantity over the user's lines with decimal
// arithmetic.
func (h *CartHandler) GetCartTotal(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is not an integer")
	}

	var items []models.CartItem
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get cart")
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(money.Subtotal(item.Price, item.Quantity))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"userId": userID,
		"total":  total,
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is not an integer")
	}

	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}
	return c.NoContent(http.StatusNoContent)
}
