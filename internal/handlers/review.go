package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/mykafka"
	"github.com/zelora/backend/internal/reviews"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type reviewDto struct {
	ReviewID      int       `json:"reviewId"`
	ProductID     int       `json:"productId"`
	ProductName   string    `json:"productName"`
	CustomerID    int       `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	Rating        *int      `json:"rating"`
	ReviewText    string    `json:"reviewText"`
	ReviewDate    time.Time `json:"reviewDate"`
	FlaggedAsSpam bool      `json:"flaggedAsSpam"`
}

func (h *ReviewHandler) toDto(ctx context.Context, r models.Review) reviewDto {
	dto := reviewDto{
		ReviewID:      r.ReviewID,
		ProductID:     r.ProductID,
		CustomerID:    r.CustomerID,
		Rating:        r.Rating,
		ReviewText:    r.ReviewText,
		ReviewDate:    r.ReviewDate,
		FlaggedAsSpam: r.FlaggedAsSpam,
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, r.ProductID).Error; err == nil {
		dto.ProductName = product.ProductName
	}
	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, r.CustomerID).Error; err == nil {
		dto.CustomerName = strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	}
	return dto
}

func (h *ReviewHandler) toDtos(ctx context.Context, rs []models.Review) []reviewDto {
	dtos := make([]reviewDto, len(rs))
	for i, r := range rs {
		dtos[i] = h.toDto(ctx, r)
	}
	return dtos
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Order("review_id ASC").Find(&rs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reviews")
	}
	return c.JSON(http.StatusOK, h.toDtos(ctx, rs))
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	}
	return c.JSON(http.StatusOK, h.toDto(ctx, review))
}

// GetReviewsByProduct lists a product's reviews for public display, spam
// excluded. An unknown product yields an empty list.
func (h *ReviewHandler) GetReviewsByProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		return c.JSON(http.StatusOK, []reviewDto{})
	}

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Where("product_id = ?", productID).Order("review_id ASC").Find(&rs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reviews")
	}
	return c.JSON(http.StatusOK, h.toDtos(ctx, reviews.Visible(rs)))
}

// GetReviewsByCustomer includes the customer's own spam-flagged reviews.
func (h *ReviewHandler) GetReviewsByCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return c.JSON(http.StatusOK, []reviewDto{})
	}

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("review_id ASC").Find(&rs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reviews")
	}
	return c.JSON(http.StatusOK, h.toDtos(ctx, rs))
}

func (h *ReviewHandler) GetProductRating(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var rs []models.Review
	if err := h.DB.WithContext(ctx).Where("product_id = ?", productID).Find(&rs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reviews")
	}

	avg, rated := reviews.Aggregate(rs)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"productId":     productID,
		"averageRating": avg,
		"totalReviews":  rated,
	})
}

// CreateReview enforces one review per (customer, product) pair: a scan gives
// the friendly error, the unique index closes the race between concurrent
// submissions.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	var req struct {
		ProductID  *int   `json:"productId"`
		CustomerID *int   `json:"customerId"`
		Rating     *int   `json:"rating"`
		ReviewText string `json:"reviewText"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == nil || req.CustomerID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "productId and customerId are required")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, *req.ProductID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Product not found")
	}
	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, *req.CustomerID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Customer not found")
	}

	var existing models.Review
	err := h.DB.WithContext(ctx).Where("product_id = ? AND customer_id = ?", *req.ProductID, *req.CustomerID).First(&existing).Error
	if err == nil {
		l.Warn("create_review_failed", "status", 400, "reason", "duplicate review", "customerId", *req.CustomerID, "productId", *req.ProductID)
		return echo.NewHTTPError(http.StatusBadRequest, "You have already reviewed this product")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check existing reviews")
	}

	review := models.Review{
		ProductID:     *req.ProductID,
		CustomerID:    *req.CustomerID,
		Rating:        req.Rating,
		ReviewText:    req.ReviewText,
		ReviewDate:    time.Now(),
		FlaggedAsSpam: false,
	}
	if err := h.DB.WithContext(ctx).Create(&review).Error; err != nil {
		// The unique index catches a duplicate that slipped past the scan.
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return echo.NewHTTPError(http.StatusBadRequest, "You have already reviewed this product")
		}
		l.Error("create_review_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create review")
	}

	l.Info("create_review_success", "reviewId", review.ReviewID)
	return c.JSON(http.StatusCreated, h.toDto(ctx, review))
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete review")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// FlagReview is idempotent: the flag is set regardless of its current state.
func (h *ReviewHandler) FlagReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.flag")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	}

	review.FlaggedAsSpam = true
	if err := h.DB.WithContext(ctx).Save(&review).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot flag review")
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(review.ReviewID), map[string]interface{}{
		"type":      "review_flagged",
		"reviewId":  review.ReviewID,
		"productId": review.ProductID,
	})

	l.Info("flag_review_success", "reviewId", review.ReviewID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Review flagged as spam",
	})
}
