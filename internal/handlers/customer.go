package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/hash"
	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	var customers []models.Customer
	if err := h.DB.WithContext(ctx).Order("customer_id ASC").Find(&customers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get customers")
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer applies only the supplied fields. A new password is
// re-hashed; email and role are not editable here.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Password  *string `json:"password"`
		VIP       *bool   `json:"vip"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		PostCode  *string `json:"postCode"`
		Country   *string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		l.Warn("update_customer_failed", "status", 404, "customerId", id)
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := hash.HashPassword(*req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
		}
		customer.Password = hashed
	}
	if req.VIP != nil {
		customer.VIP = *req.VIP
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.PostCode != nil {
		customer.PostCode = *req.PostCode
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}

	if err := h.DB.WithContext(ctx).Save(&customer).Error; err != nil {
		l.Error("update_customer_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete customer")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	return c.NoContent(http.StatusNoContent)
}
