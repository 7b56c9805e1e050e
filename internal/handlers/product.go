package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/mykafka"
	"github.com/zelora/backend/internal/reviews"
	"github.com/zelora/backend/internal/service/search"
	"github.com/zelora/backend/internal/stock"
	"github.com/zelora/backend/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *ProductHandler) publishProductEvent(c echo.Context, event map[string]interface{}) {
	publish(c, h.Producer, "product_events", fmt.Sprint(event["productId"]), event)
}

// syncIndex keeps the ES product index in step with the database,
// best-effort.
func (h *ProductHandler) syncIndex(ctx context.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, h.ES, search.ProductIndex, p); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "productId", p.ProductID, "error", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var items []models.Product
	if err := h.DB.WithContext(ctx).Order("product_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404, "productId", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	product.ProductID = 0

	if err := h.DB.WithContext(ctx).Create(&product).Error; err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	h.syncIndex(ctx, &product)
	h.publishProductEvent(c, map[string]interface{}{
		"type":      "product_created",
		"productId": product.ProductID,
		"name":      product.ProductName,
	})

	l.Info("create_product_success", "productId", product.ProductID)
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites only the fields present in the request body.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		ProductName          *string          `json:"productName"`
		Description          *string          `json:"description"`
		Price                *decimal.Decimal `json:"price"`
		DiscountedPrice      *decimal.Decimal `json:"discountedPrice"`
		FeatureImage         *string          `json:"featureImage"`
		Size                 *string          `json:"size"`
		Colour               *string          `json:"colour"`
		Material             *string          `json:"material"`
		Manufacturer         *string          `json:"manufacturer"`
		SustainabilityRating *int             `json:"sustainabilityRating"`
		CategoryID           *int             `json:"categoryId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		l.Warn("update_product_failed", "status", 404, "productId", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if req.ProductName != nil {
		product.ProductName = *req.ProductName
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountedPrice != nil {
		product.DiscountedPrice = req.DiscountedPrice
	}
	if req.FeatureImage != nil {
		product.FeatureImage = *req.FeatureImage
	}
	if req.Size != nil {
		product.Size = *req.Size
	}
	if req.Colour != nil {
		product.Colour = *req.Colour
	}
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.SustainabilityRating != nil {
		product.SustainabilityRating = req.SustainabilityRating
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}

	if err := h.DB.WithContext(ctx).Save(&product).Error; err != nil {
		l.Error("update_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	h.syncIndex(ctx, &product)
	h.publishProductEvent(c, map[string]interface{}{
		"type":      "product_updated",
		"productId": product.ProductID,
		"name":      product.ProductName,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		l.Error("delete_product_failed", "status", 500, "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if h.ES != nil {
		if err := search.DeleteProduct(ctx, h.ES, search.ProductIndex, id); err != nil {
			l.Error("es_delete_failed", "productId", id, "error", err)
		}
	}
	h.publishProductEvent(c, map[string]interface{}{
		"type":      "product_deleted",
		"productId": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// SearchProducts tries the raw query first; when nothing matches a multi-word
// query, each word of three or more characters is retried as a partial match.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	if h.ES != nil {
		if _, hits, err := search.Search(ctx, h.ES, search.ProductIndex, query, 0, 50); err == nil && len(hits) > 0 {
			return c.JSON(http.StatusOK, h.enrichAll(ctx, hits))
		} else if err != nil {
			l.Warn("es_search_failed", "error", err, "reason", "falling back to database scan")
		}
	}

	results, err := h.searchByNameOrDescription(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search products")
	}

	if len(results) == 0 && strings.Contains(query, " ") {
		seen := make(map[int]bool)
		for _, word := range strings.Fields(query) {
			if len(word) < 3 {
				continue
			}
			partial, err := h.searchByNameOrDescription(ctx, word)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot search products")
			}
			for _, p := range partial {
				if !seen[p.ProductID] {
					seen[p.ProductID] = true
					results = append(results, p)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, h.enrichAll(ctx, results))
}

func (h *ProductHandler) searchByNameOrDescription(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var results []models.Product
	err := h.DB.WithContext(ctx).
		Where("LOWER(product_name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("product_id ASC").
		Find(&results).Error
	return results, err
}

func (h *ProductHandler) GetProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var items []models.Product
	if err := h.DB.WithContext(ctx).Where("category_id = ?", categoryID).Order("product_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}
	return c.JSON(http.StatusOK, h.enrichAll(ctx, items))
}

func (h *ProductHandler) GetSuggestions(c echo.Context) error {
	ctx := c.Request().Context()

	limit := util.ParseIntDefault(c.QueryParam("limit"), 8)

	var items []models.Product
	if err := h.DB.WithContext(ctx).Order("RANDOM()").Limit(limit).Find(&items).Error; err != nil {
		// RANDOM() support varies; fall back to the first N.
		if err := h.DB.WithContext(ctx).Order("product_id ASC").Limit(limit).Find(&items).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot get suggestions")
		}
	}
	return c.JSON(http.StatusOK, h.enrichAll(ctx, items))
}

func (h *ProductHandler) GetProductsWithReviews(c echo.Context) error {
	ctx := c.Request().Context()

	var items []models.Product
	if err := h.DB.WithContext(ctx).Order("product_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}
	return c.JSON(http.StatusOK, h.enrichAll(ctx, items))
}

func (h *ProductHandler) GetRecentProducts(c echo.Context) error {
	ctx := c.Request().Context()

	cutoff := time.Now().AddDate(0, 0, -7)
	var items []models.Product
	if err := h.DB.WithContext(ctx).Where("release_date >= ?", cutoff).Order("product_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}
	return c.JSON(http.StatusOK, h.enrichAll(ctx, items))
}

// GetProductDetails assembles the full product view: inventory block plus
// displayed reviews (rating >= 3, spam excluded) and aggregate rating.
func (h *ProductHandler) GetProductDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.details")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("details_failed", "status", 404, "productId", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	detail := h.enrich(ctx, product)

	var inv models.Inventory
	if err := h.DB.WithContext(ctx).Where("product_id = ?", id).Order("inventory_id ASC").First(&inv).Error; err == nil {
		available, status := stock.Derive(inv.QuantityInStock, inv.QuantityReserved, inv.ReorderPoint)
		detail["stockQuantity"] = inv.QuantityInStock
		detail["quantityReserved"] = inv.QuantityReserved
		detail["availableQuantity"] = available
		detail["reorderPoint"] = inv.ReorderPoint
		detail["stockStatus"] = status
		detail["inStock"] = available > 0
	} else {
		detail["stockQuantity"] = 0
		detail["quantityReserved"] = 0
		detail["availableQuantity"] = 0
		detail["reorderPoint"] = 0
		detail["stockStatus"] = stock.StatusOutOfStock
		detail["inStock"] = false
	}

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Where("product_id = ?", id).Find(&rs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reviews")
	}
	detail["reviews"] = reviews.Displayed(rs, 3)

	return c.JSON(http.StatusOK, detail)
}

func (h *ProductHandler) enrichAll(ctx context.Context, items []models.Product) []map[string]interface{} {
	out := make([]map[string]interface{}, len(items))
	for i, p := range items {
		out[i] = h.enrich(ctx, p)
	}
	return out
}

// enrich is the product-card view: product fields plus available stock and
// review statistics.
func (h *ProductHandler) enrich(ctx context.Context, p models.Product) map[string]interface{} {
	data := map[string]interface{}{
		"productId":            p.ProductID,
		"productName":          p.ProductName,
		"description":          p.Description,
		"price":                p.Price,
		"discountedPrice":      p.DiscountedPrice,
		"featureImage":         p.FeatureImage,
		"size":                 p.Size,
		"colour":               p.Colour,
		"material":             p.Material,
		"manufacturer":         p.Manufacturer,
		"sustainabilityRating": p.SustainabilityRating,
		"releaseDate":          p.ReleaseDate,
	}

	if p.CategoryID != nil {
		var category models.Category
		if err := h.DB.WithContext(ctx).First(&category, *p.CategoryID).Error; err == nil {
			data["categoryId"] = category.CategoryID
			data["categoryName"] = category.CategoryName
		}
	}

	stockQuantity := 0
	var inv models.Inventory
	if err := h.DB.WithContext(ctx).Where("product_id = ?", p.ProductID).Order("inventory_id ASC").First(&inv).Error; err == nil {
		stockQuantity = stock.Available(inv.QuantityInStock, inv.QuantityReserved)
	}
	data["stockQuantity"] = stockQuantity

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Where("product_id = ?", p.ProductID).Find(&rs).Error; err == nil {
		avg, _ := reviews.Aggregate(rs)
		data["averageRating"] = avg
		data["totalReviews"] = reviews.Count(rs)
	} else {
		data["averageRating"] = 0.0
		data["totalReviews"] = 0
	}

	return data
}
