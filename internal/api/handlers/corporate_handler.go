package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/auth"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/mailer"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CorporateHandler struct {
	DB     *mongo.Database
	Mailer *mailer.Mailer
}

type CreateCorporateRequest struct {
	Name       string         `json:"name" binding:"required"`
	Email      string         `json:"email" binding:"required,email"`
	Phone      string         `json:"phone"`
	Address    models.Address `json:"address"`
	AdminName  string         `json:"adminName" binding:"required"`
	AdminEmail string         `json:"adminEmail" binding:"required,email"`
}

// CreateCorporate provisions a corporate together with its corporate-admin
// account. The admin receives a temporary password by mail.
func (h *CorporateHandler) CreateCorporate(c *gin.Context) {
	var req CreateCorporateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users := h.DB.Collection("users")
	count, err := users.CountDocuments(context.Background(), bson.M{"email": req.AdminEmail})
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
	corporate := models.Corporate{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	adminUser := models.User{
		ID:       primitive.NewObjectID(),
		Email:    req.AdminEmail,
		Name:     req.AdminName,
		Password: hashedPassword,
		Role:     models.RoleCorporateAdmin,
		Scope: models.RoleScope{
			CorporateID: corporate.ID,
		},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	corporate.AdminUserID = adminUser.ID

	if _, err := h.DB.Collection("corporates").InsertOne(context.Background(), corporate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create corporate"})
		return
	}

	if _, err := users.InsertOne(context.Background(), adminUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create corporate admin user"})
		return
	}

	// Best effort; account creation already succeeded.
	go h.Mailer.SendOnboarding(req.AdminEmail, req.AdminName, models.RoleCorporateAdmin, tempPassword)

	c.JSON(http.StatusCreated, corporate)
}

// GetAllCorporates lists all corporates on the platform.
func (h *CorporateHandler) GetAllCorporates(c *gin.Context) {
	cursor, err := h.DB.Collection("corporates").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query corporates"})
		return
	}
	defer cursor.Close(context.Background())

	var corporates []models.Corporate
	if err := cursor.All(context.Background(), &corporates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode corporates"})
		return
	}

	if corporates == nil {
		corporates = []models.Corporate{}
	}

	c.JSON(http.StatusOK, corporates)
}

// GetCorporateByID returns one corporate.
func (h *CorporateHandler) GetCorporateByID(c *gin.Context) {
	corporateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid corporate id"})
		return
	}

	var corporate models.Corporate
	err = h.DB.Collection("corporates").FindOne(context.Background(), bson.M{"_id": corporateID}).Decode(&corporate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Corporate not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve corporate"})
		}
		return
	}

	c.JSON(http.StatusOK, corporate)
}
