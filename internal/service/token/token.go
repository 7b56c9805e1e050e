// Package token issues and validates the access/refresh token pair. Access
// tokens carry the customer identity for the frontend; refresh tokens are
// marked with a "type" claim and are only good for exchanging into a new pair.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zelora/backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotRefresh   = errors.New("not a refresh token")
)

type TokenService struct {
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService(jwtSecret, refreshSecret []byte) *TokenService {
	return &TokenService{
		JWTSecret:     jwtSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     24 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func (t *TokenService) GenerateAccessToken(customer *models.Customer) (string, error) {
	exp := time.Now().Add(t.AccessTTL)
	claims := jwt.MapClaims{
		"customerId": customer.CustomerID,
		"firstName":  customer.FirstName,
		"lastName":   customer.LastName,
		"role":       customer.Role,
		"sub":        customer.Email,
		"iat":        time.Now().Unix(),
		"exp":        exp.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.JWTSecret)
}

func (t *TokenService) GenerateRefreshToken(customer *models.Customer) (string, error) {
	exp := time.Now().Add(t.RefreshTTL)
	claims := jwt.MapClaims{
		"customerId": customer.CustomerID,
		"type":       "refresh",
		"sub":        customer.Email,
		"iat":        time.Now().Unix(),
		"exp":        exp.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.RefreshSecret)
}

func (t *TokenService) ParseAccess(raw string) (jwt.MapClaims, error) {
	return parse(raw, t.JWTSecret)
}

// ParseRefresh validates the signature and the "type" claim.
func (t *TokenService) ParseRefresh(raw string) (jwt.MapClaims, error) {
	claims, err := parse(raw, t.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if typ, ok := claims["type"]; !ok || typ != "refresh" {
		return nil, ErrNotRefresh
	}
	return claims, nil
}

func parse(raw string, secret []byte) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CustomerID pulls the customerId claim out of a parsed token.
func CustomerID(claims jwt.MapClaims) (int, error) {
	v, ok := claims["customerId"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int(v), nil
}
