package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/models"
)

type SupplierHandler struct {
	DB *gorm.DB
}

func (h *SupplierHandler) GetSuppliers(c echo.Context) error {
	ctx := c.Request().Context()

	var suppliers []models.Supplier
	if err := h.DB.WithContext(ctx).Order("supplier_id ASC").Find(&suppliers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get suppliers")
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var supplier models.Supplier
	if err := h.DB.WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "supplier not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var supplier models.Supplier
	if err := c.Bind(&supplier); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	supplier.SupplierID = 0

	if err := h.DB.WithContext(ctx).Create(&supplier).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create supplier")
	}
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		SupplierName *string `json:"supplierName"`
		ContactName  *string `json:"contactName"`
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		Address      *string `json:"address"`
		City         *string `json:"city"`
		Country      *string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var supplier models.Supplier
	if err := h.DB.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "supplier not found")
	}

	if req.SupplierName != nil {
		supplier.SupplierName = *req.SupplierName
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}

	if err := h.DB.WithContext(ctx).Save(&supplier).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete supplier")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "supplier not found")
	}
	return c.NoContent(http.StatusNoContent)
}
