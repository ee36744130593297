package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleHandler struct {
	DB *mongo.Database
}

type CreateVehicleRequest struct {
	Make          string  `json:"make" binding:"required"`
	Model         string  `json:"model" binding:"required"`
	PlateNumber   string  `json:"plateNumber" binding:"required"`
	ConnectorType string  `json:"connectorType" binding:"required,oneof=ac_type2 dc_ccs dc_chademo"`
	BatteryKWh    float64 `json:"batteryKWh"`
}

// CreateVehicle registers an EV for the authenticated user.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newVehicle := models.Vehicle{
		UserID:        userID,
		Make:          req.Make,
		Model:         req.Model,
		PlateNumber:   req.PlateNumber,
		ConnectorType: req.ConnectorType,
		BatteryKWh:    req.BatteryKWh,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	result, err := h.DB.Collection("vehicles").InsertOne(context.Background(), newVehicle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newVehicle.ID = oid
	}

	c.JSON(http.StatusCreated, newVehicle)
}

// GetMyVehicles lists the authenticated user's vehicles.
func (h *VehicleHandler) GetMyVehicles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	cursor, err := h.DB.Collection("vehicles").Find(context.Background(), bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query vehicles"})
		return
	}
	defer cursor.Close(context.Background())

	var vehicles []models.Vehicle
	if err := cursor.All(context.Background(), &vehicles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode vehicles"})
		return
	}

	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	c.JSON(http.StatusOK, vehicles)
}

// UpdateVehicle applies a partial update to one of the user's vehicles.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	var patch models.VehiclePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Make != nil {
		set["make"] = *patch.Make
	}
	if patch.Model != nil {
		set["model"] = *patch.Model
	}
	if patch.PlateNumber != nil {
		set["plateNumber"] = *patch.PlateNumber
	}
	if patch.ConnectorType != nil {
		set["connectorType"] = *patch.ConnectorType
	}
	if patch.BatteryKWh != nil {
		set["batteryKWh"] = *patch.BatteryKWh
	}

	res, err := h.DB.Collection("vehicles").UpdateOne(context.Background(),
		bson.M{"_id": vehicleID, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle updated successfully"})
}

// DeleteVehicle removes one of the user's vehicles.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	res, err := h.DB.Collection("vehicles").DeleteOne(context.Background(), bson.M{"_id": vehicleID, "userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
