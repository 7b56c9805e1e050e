package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/models"
)

type WishlistHandler struct {
	DB *gorm.DB
}

type wishlistItemDto struct {
	WishlistID   int       `json:"wishlistId"`
	CustomerID   int       `json:"customerId"`
	ProductID    int       `json:"productId"`
	ProductName  string    `json:"productName"`
	FeatureImage string    `json:"featureImage"`
	AddedDate    time.Time `json:"addedDate"`
	WishlistName string    `json:"wishlistName"`
	Notes        string    `json:"notes"`
}

func (h *WishlistHandler) toDto(ctx context.Context, w models.Wishlist) wishlistItemDto {
	dto := wishlistItemDto{
		WishlistID:   w.WishlistID,
		CustomerID:   w.CustomerID,
		ProductID:    w.ProductID,
		AddedDate:    w.AddedDate,
		WishlistName: w.WishlistName,
		Notes:        w.Notes,
	}
	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, w.ProductID).Error; err == nil {
		dto.ProductName = product.ProductName
		dto.FeatureImage = product.FeatureImage
	}
	return dto
}

func (h *WishlistHandler) GetWishlistItems(c echo.Context) error {
	ctx := c.Request().Context()

	var items []models.Wishlist
	if err := h.DB.WithContext(ctx).Order("wishlist_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get wishlist")
	}
	return c.JSON(http.StatusOK, items)
}

// GetWishlistByCustomer yields an empty list for unknown customers.
func (h *WishlistHandler) GetWishlistByCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err := strconv.Atoi(c.Param("customerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "customerId is not an integer")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return c.JSON(http.StatusOK, []wishlistItemDto{})
	}

	var items []models.Wishlist
	if err := h.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("wishlist_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get wishlist")
	}

	dtos := make([]wishlistItemDto, len(items))
	for i, w := range items {
		dtos[i] = h.toDto(ctx, w)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *WishlistHandler) CheckWishlistItem(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err1 := strconv.Atoi(c.QueryParam("customerId"))
	productID, err2 := strconv.Atoi(c.QueryParam("productId"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"inWishlist": false})
	}

	var count int64
	if err := h.DB.WithContext(ctx).Model(&models.Wishlist{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check wishlist")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"inWishlist": count > 0})
}

// AddToWishlist reports an already-present pair without error; the unique
// index keeps concurrent duplicates out.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		CustomerID   *int   `json:"customerId"`
		ProductID    *int   `json:"productId"`
		WishlistName string `json:"wishlistName"`
		Notes        string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.CustomerID == nil || req.ProductID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "customerId and productId are required")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, *req.CustomerID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Customer not found")
	}
	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, *req.ProductID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Product not found")
	}

	var existing models.Wishlist
	err := h.DB.WithContext(ctx).Where("customer_id = ? AND product_id = ?", *req.CustomerID, *req.ProductID).First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Product already in wishlist",
			"exists":  true,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check wishlist")
	}

	name := req.WishlistName
	if name == "" {
		name = "My Wishlist"
	}

	item := models.Wishlist{
		CustomerID:   *req.CustomerID,
		ProductID:    *req.ProductID,
		AddedDate:    time.Now(),
		WishlistName: name,
		Notes:        req.Notes,
	}
	if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"message": "Product already in wishlist",
				"exists":  true,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to wishlist")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":    true,
		"wishlistId": item.WishlistID,
		"message":    "Added to wishlist",
	})
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Wishlist{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove wishlist item")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "wishlist item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHandler) RemoveFromWishlistByProduct(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err1 := strconv.Atoi(c.Param("customerId"))
	productID, err2 := strconv.Atoi(c.Param("productId"))
	if err1 != nil || err2 != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ids must be integers")
	}

	res := h.DB.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.Wishlist{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove wishlist item")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "wishlist item not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Removed from wishlist",
	})
}
