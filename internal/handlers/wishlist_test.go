package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zelora/backend/internal/models"
)

func TestAddToWishlist(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	rec, c := doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": customer.CustomerID, "productId": product.ProductID,
	})
	require.NoError(t, h.AddToWishlist(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success    bool   `json:"success"`
		WishlistID int    `json:"wishlistId"`
		Message    string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.NotZero(t, resp.WishlistID)

	var stored models.Wishlist
	require.NoError(t, db.First(&stored, resp.WishlistID).Error)
	require.Equal(t, "My Wishlist", stored.WishlistName)
}

func TestAddToWishlistExistingPair(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	body := map[string]interface{}{"customerId": customer.CustomerID, "productId": product.ProductID}
	_, c := doJSONRequest(t, http.MethodPost, "/wishlist", body)
	require.NoError(t, h.AddToWishlist(c))

	rec, c := doJSONRequest(t, http.MethodPost, "/wishlist", body)
	require.NoError(t, h.AddToWishlist(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Exists  bool   `json:"exists"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	require.True(t, resp.Exists)

	var count int64
	require.NoError(t, db.Model(&models.Wishlist{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddToWishlistUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	_, c := doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": 999, "productId": product.ProductID,
	})
	requireHTTPError(t, h.AddToWishlist(c), http.StatusBadRequest)

	_, c = doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": customer.CustomerID, "productId": 999,
	})
	requireHTTPError(t, h.AddToWishlist(c), http.StatusBadRequest)
}

func TestCheckWishlistItem(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	check := func(query string) bool {
		rec, c := doJSONRequest(t, http.MethodGet, "/wishlist/check?"+query, nil)
		require.NoError(t, h.CheckWishlistItem(c))
		var resp struct {
			InWishlist bool `json:"inWishlist"`
		}
		decodeBody(t, rec, &resp)
		return resp.InWishlist
	}

	query := fmt.Sprintf("customerId=%d&productId=%d", customer.CustomerID, product.ProductID)
	require.False(t, check(query))

	_, c := doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": customer.CustomerID, "productId": product.ProductID,
	})
	require.NoError(t, h.AddToWishlist(c))

	require.True(t, check(query))
	require.False(t, check("customerId=abc&productId=xyz"))
}

func TestGetWishlistByCustomer(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	_, c := doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": customer.CustomerID, "productId": product.ProductID,
	})
	require.NoError(t, h.AddToWishlist(c))

	rec, c := doJSONRequest(t, http.MethodGet, fmt.Sprintf("/wishlist/customer/%d", customer.CustomerID), nil)
	c.SetParamNames("customerId")
	c.SetParamValues(fmt.Sprint(customer.CustomerID))
	require.NoError(t, h.GetWishlistByCustomer(c))

	var items []wishlistItemDto
	decodeBody(t, rec, &items)
	require.Len(t, items, 1)
	require.Equal(t, "Lamp", items[0].ProductName)

	// unknown customer is an empty list
	rec, c = doJSONRequest(t, http.MethodGet, "/wishlist/customer/999", nil)
	c.SetParamNames("customerId")
	c.SetParamValues("999")
	require.NoError(t, h.GetWishlistByCustomer(c))
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestRemoveFromWishlistByProduct(t *testing.T) {
	db := newTestDB(t)
	h := &WishlistHandler{DB: db}
	customer := seedCustomer(t, db, "wisher@example.com")
	product := seedProduct(t, db, "Lamp", "10.50")

	_, c := doJSONRequest(t, http.MethodPost, "/wishlist", map[string]interface{}{
		"customerId": customer.CustomerID, "productId": product.ProductID,
	})
	require.NoError(t, h.AddToWishlist(c))

	rec, c := doJSONRequest(t, http.MethodDelete, "/wishlist/customer/1/product/1", nil)
	c.SetParamNames("customerId", "productId")
	c.SetParamValues(fmt.Sprint(customer.CustomerID), fmt.Sprint(product.ProductID))
	require.NoError(t, h.RemoveFromWishlistByProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Wishlist{}).Count(&count).Error)
	require.Zero(t, count)

	// removing again is a 404
	_, c = doJSONRequest(t, http.MethodDelete, "/wishlist/customer/1/product/1", nil)
	c.SetParamNames("customerId", "productId")
	c.SetParamValues(fmt.Sprint(customer.CustomerID), fmt.Sprint(product.ProductID))
	requireHTTPError(t, h.RemoveFromWishlistByProduct(c), http.StatusNotFound)
}
