package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/internal/middleware"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

func roleFromContext(c *gin.Context) models.UserRole {
	if claims := claimsFromContext(c); claims != nil {
		return claims.Role
	}
	return ""
}
