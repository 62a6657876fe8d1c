package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID           int
	UserEmail        string
	UserRoleID       int
	OrganizationUUID string
	jwt.RegisteredClaims
}
