package handlers

import (
	"github.com/Biniljacobpro/nexcharge-sub001/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID reads the authenticated user's id from the request context.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get(middleware.CtxUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentUserRole(c *gin.Context) string {
	role, _ := c.Get(middleware.CtxUserRole)
	s, _ := role.(string)
	return s
}
