package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/utiligas/casedesk/internal/middleware"
	"github.com/utiligas/casedesk/internal/service"
)

func claimsFromContext(c *gin.Context) *service.SessionClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*service.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorID(c *gin.Context) int64 {
	if claims := claimsFromContext(c); claims != nil {
		return claims.EmployeeID
	}
	return 0
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
