package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/models"
)

func seedCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	t.Helper()
	customer := models.Customer{FirstName: "Test", Email: email, Password: "x", Role: "USER"}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	customer := seedCustomer(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	rec, c := doJSONRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"customerId":  customer.CustomerID,
		"totalAmount": "21.00",
		"orderItems": []map[string]interface{}{
			{"productId": product.ProductID, "quantity": 2, "price": "10.50"},
		},
	})
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OrderID int    `json:"orderId"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	require.NotZero(t, resp.OrderID)
	require.Equal(t, "Pending", resp.Status)

	var order models.Order
	require.NoError(t, db.First(&order, resp.OrderID).Error)
	require.Equal(t, "card", order.PaymentMethod)
	require.Equal(t, "Standard", order.ShippingMethod)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", resp.OrderID).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
	require.NotNil(t, items[0].Subtotal)
	require.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("21.00")))
}

func TestCreateOrderMissingCustomerWritesNothing(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	product := seedProduct(t, db, "Lamp", "10.50")

	_, c := doJSONRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"customerId": 999,
		"orderItems": []map[string]interface{}{
			{"productId": product.ProductID, "quantity": 1, "price": "10.50"},
		},
	})
	requireHTTPError(t, h.CreateOrder(c), http.StatusBadRequest)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.Zero(t, orders)
	require.Zero(t, items)
}

func TestCreateOrderItemDefaults(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	customer := seedCustomer(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	rec, c := doJSONRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"customerId": customer.CustomerID,
		"orderItems": []map[string]interface{}{
			// no quantity, no price
			{"productId": product.ProductID},
			// unknown product keeps the line without a reference
			{"productId": 999, "quantity": 3},
		},
	})
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var items []models.OrderItem
	require.NoError(t, db.Order("order_item_id ASC").Find(&items).Error)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].ProductID)
	require.Equal(t, 1, items[0].Quantity)
	require.Nil(t, items[0].ItemPrice)
	require.Nil(t, items[0].Subtotal)

	require.Nil(t, items[1].ProductID)
	require.Equal(t, 3, items[1].Quantity)
}

func TestUpdateOrderIgnoresDeliveryDate(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	customer := seedCustomer(t, db, "buyer@example.com")

	order := models.Order{CustomerID: customer.CustomerID, OrderStatus: "Pending"}
	require.NoError(t, db.Create(&order).Error)

	rec, c := doJSONRequest(t, http.MethodPut, fmt.Sprintf("/orders/%d", order.OrderID), map[string]interface{}{
		"orderStatus":  "Shipped",
		"deliveryDate": "2026-09-01",
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.OrderID))
	require.NoError(t, h.UpdateOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Order
	require.NoError(t, db.First(&updated, order.OrderID).Error)
	require.Equal(t, "Shipped", updated.OrderStatus)
}

func TestGetOrdersByCustomerUnknownIsEmptyList(t *testing.T) {
	h := &OrderHandler{DB: newTestDB(t)}

	rec, c := doJSONRequest(t, http.MethodGet, "/orders/customer/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.GetOrdersByCustomer(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestGetOrderItems(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	customer := seedCustomer(t, db, "buyer@example.com")

	order := models.Order{CustomerID: customer.CustomerID, OrderStatus: "Pending"}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.OrderID, Quantity: 2}).Error)

	rec, c := doJSONRequest(t, http.MethodGet, fmt.Sprintf("/orders/%d/items", order.OrderID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.OrderID))
	require.NoError(t, h.GetOrderItems(c))

	var items []models.OrderItem
	decodeBody(t, rec, &items)
	require.Len(t, items, 1)

	// unknown order is an empty list, not an error
	rec, c = doJSONRequest(t, http.MethodGet, "/orders/999/items", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.GetOrderItems(c))
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestDeleteOrder(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	customer := seedCustomer(t, db, "buyer@example.com")

	order := models.Order{CustomerID: customer.CustomerID}
	require.NoError(t, db.Create(&order).Error)

	rec, c := doJSONRequest(t, http.MethodDelete, fmt.Sprintf("/orders/%d", order.OrderID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.OrderID))
	require.NoError(t, h.DeleteOrder(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c = doJSONRequest(t, http.MethodDelete, "/orders/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.DeleteOrder(c), http.StatusNotFound)
}
