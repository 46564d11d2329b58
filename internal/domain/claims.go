package domain

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin  = 1
	RoleTenant = 3
)

type Claims struct {
	TenantID string `json:"tenant_id"`
	RoleID   int    `json:"role_id"`
	jwt.RegisteredClaims
}
