package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/money"
	"github.com/zelora/backend/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Order("order_id ASC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var order models.Order
	if err := h.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order")
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrdersByCustomer returns an empty list, not an error, when the customer
// id does not resolve.
func (h *OrderHandler) GetOrdersByCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return c.JSON(http.StatusOK, []models.Order{})
	}

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("order_id ASC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get orders")
	}
	return c.JSON(http.StatusOK, orders)
}

type createOrderItemRequest struct {
	ProductID *int             `json:"productId"`
	Quantity  *int             `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	CustomerID        *int                     `json:"customerId"`
	Status            string                   `json:"status"`
	PaymentPreference string                   `json:"paymentPreference"`
	ShippingMethod    string                   `json:"shippingMethod"`
	TotalAmount       *decimal.Decimal         `json:"totalAmount"`
	OrderItems        []createOrderItemRequest `json:"orderItems"`
}

// CreateOrder materializes the order header and its line items in one
// transaction. Line items referencing unknown products are skipped; a missing
// quantity defaults to 1; subtotal is only computed when a price was
// supplied.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.CustomerID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Customer ID is required")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, *req.CustomerID).Error; err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "customer not found", "customerId", *req.CustomerID)
		return echo.NewHTTPError(http.StatusBadRequest, "Customer not found")
	}

	status := req.Status
	if status == "" {
		status = "Pending"
	}
	payment := req.PaymentPreference
	if payment == "" {
		payment = "card"
	}
	shipping := req.ShippingMethod
	if shipping == "" {
		shipping = "Standard"
	}

	order := models.Order{
		CustomerID:     customer.CustomerID,
		OrderDate:      time.Now(),
		OrderStatus:    status,
		PaymentMethod:  payment,
		ShippingMethod: shipping,
		TotalAmount:    req.TotalAmount,
	}

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, itemReq := range req.OrderItems {
			item := models.OrderItem{
				OrderID:  order.OrderID,
				Quantity: 1,
			}

			if itemReq.ProductID != nil {
				var product models.Product
				if err := tx.First(&product, *itemReq.ProductID).Error; err == nil {
					item.ProductID = &product.ProductID
				}
				// Unknown products leave the line without a reference.
			}
			if itemReq.Quantity != nil {
				item.Quantity = *itemReq.Quantity
			}
			if itemReq.Price != nil {
				item.ItemPrice = itemReq.Price
				subtotal := money.Subtotal(*itemReq.Price, item.Quantity)
				item.Subtotal = &subtotal
			}

			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.Error("create_order_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create order")
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.OrderID), map[string]interface{}{
		"type":       "order_created",
		"orderId":    order.OrderID,
		"customerId": order.CustomerID,
		"status":     order.OrderStatus,
	})

	l.Info("create_order_success", "orderId", order.OrderID, "customerId", order.CustomerID)
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"orderId": order.OrderID,
		"status":  order.OrderStatus,
		"message": "Order created successfully",
	})
}

// UpdateOrder overwrites only the provided fields. A deliveryDate key is
// accepted but not applied; it is logged so the gap stays visible.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		OrderStatus    *string `json:"orderStatus"`
		PaymentMethod  *string `json:"paymentMethod"`
		ShippingMethod *string `json:"shippingMethod"`
		DeliveryDate   *string `json:"deliveryDate"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var order models.Order
	if err := h.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	if req.OrderStatus != nil {
		order.OrderStatus = *req.OrderStatus
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.ShippingMethod != nil {
		order.ShippingMethod = *req.ShippingMethod
	}
	if req.DeliveryDate != nil {
		l.Warn("delivery_date_ignored", "orderId", id, "deliveryDate", *req.DeliveryDate)
	}

	if err := h.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete order")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) GetOrderItems(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var order models.Order
	if err := h.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return c.JSON(http.StatusOK, []models.OrderItem{})
	}

	var items []models.OrderItem
	if err := h.DB.WithContext(ctx).Where("order_id = ?", id).Order("order_item_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order items")
	}
	return c.JSON(http.StatusOK, items)
}
