package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/api/middleware"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/auth"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/mailer"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FranchiseHandler struct {
	DB     *mongo.Database
	Mailer *mailer.Mailer
}

type CreateFranchiseRequest struct {
	Name       string         `json:"name" binding:"required"`
	Email      string         `json:"email" binding:"required,email"`
	Phone      string         `json:"phone"`
	Address    models.Address `json:"address"`
	OwnerName  string         `json:"ownerName" binding:"required"`
	OwnerEmail string         `json:"ownerEmail" binding:"required,email"`
}

// CreateFranchise provisions a franchise under the authenticated corporate
// admin's corporate, together with its franchise-owner account.
func (h *FranchiseHandler) CreateFranchise(c *gin.Context) {
	corporateID, ok := corporateScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No corporate scope on this account"})
		return
	}

	var req CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users := h.DB.Collection("users")
	count, err := users.CountDocuments(context.Background(), bson.M{"email": req.OwnerEmail})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	tempPassword := uuid.New().String()[:12]
	hashedPassword, err := auth.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	franchise := models.Franchise{
		ID:          primitive.NewObjectID(),
		CorporateID: corporateID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ownerUser := models.User{
		ID:       primitive.NewObjectID(),
		Email:    req.OwnerEmail,
		Name:     req.OwnerName,
		Password: hashedPassword,
		Role:     models.RoleFranchiseOwner,
		Scope: models.RoleScope{
			CorporateID: corporateID,
			FranchiseID: franchise.ID,
		},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	franchise.OwnerUserID = ownerUser.ID

	if _, err := h.DB.Collection("franchises").InsertOne(context.Background(), franchise); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create franchise"})
		return
	}

	if _, err := users.InsertOne(context.Background(), ownerUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create franchise owner user"})
		return
	}

	go h.Mailer.SendOnboarding(req.OwnerEmail, req.OwnerName, models.RoleFranchiseOwner, tempPassword)

	c.JSON(http.StatusCreated, franchise)
}

// GetMyFranchises lists the franchises under the authenticated corporate
// admin's corporate.
func (h *FranchiseHandler) GetMyFranchises(c *gin.Context) {
	corporateID, ok := corporateScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No corporate scope on this account"})
		return
	}

	cursor, err := h.DB.Collection("franchises").Find(context.Background(), bson.M{"corporateId": corporateID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query franchises"})
		return
	}
	defer cursor.Close(context.Background())

	var franchises []models.Franchise
	if err := cursor.All(context.Background(), &franchises); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode franchises"})
		return
	}

	if franchises == nil {
		franchises = []models.Franchise{}
	}

	c.JSON(http.StatusOK, franchises)
}

// corporateScope reads the corporate id the token was issued for.
func corporateScope(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get(middleware.CtxCorporateID)
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok || hex == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
