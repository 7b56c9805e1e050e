package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/hash"
	"github.com/zelora/backend/internal/jwtmiddleware"
	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/models"
	"github.com/zelora/backend/internal/service/token"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.TokenService
}

type authResponse struct {
	CustomerID   int    `json:"customerId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Message      string `json:"message"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

func (h *AuthHandler) respondWithTokens(c echo.Context, customer *models.Customer, message string) error {
	access, err := h.Tokens.GenerateAccessToken(customer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}
	refresh, err := h.Tokens.GenerateRefreshToken(customer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}

	return c.JSON(http.StatusOK, authResponse{
		CustomerID:   customer.CustomerID,
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		Role:         customer.Role,
		Message:      message,
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    h.Tokens.AccessTTL.Milliseconds(),
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	var existing models.Customer
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		l.Warn("register_failed", "status", 400, "reason", "email already registered")
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check email")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	customer := models.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   hashed,
		Role:       "USER",
		DateJoined: time.Now(),
	}
	if err := h.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create customer", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create customer")
	}

	l.Info("register_success", "customerId", customer.CustomerID)
	return h.respondWithTokens(c, &customer, "Registration successful")
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var customer models.Customer
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&customer).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "unknown email")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !hash.CheckPassword(customer.Password, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "customerId", customer.CustomerID)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	l.Info("login_success", "customerId", customer.CustomerID)
	return h.respondWithTokens(c, &customer, "Login successful")
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	claims, err := h.Tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid refresh token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	email, _ := claims["sub"].(string)
	var customer models.Customer
	if err := h.DB.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "customer no longer exists")
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	return h.respondWithTokens(c, &customer, "Token refreshed successfully")
}

func (h *AuthHandler) Validate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.validate")

	raw := jwtmiddleware.BearerToken(c)
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	claims, err := h.Tokens.ParseAccess(raw)
	if err != nil {
		l.Warn("validate_failed", "status", 401, "reason", "invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	email, _ := claims["sub"].(string)
	var customer models.Customer
	if err := h.DB.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return c.JSON(http.StatusOK, authResponse{
		CustomerID: customer.CustomerID,
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		Email:      customer.Email,
		Role:       customer.Role,
		Message:    "Token valid",
	})
}
