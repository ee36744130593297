package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StationHandler struct {
	DB *mongo.Database
}

type ChargerRequest struct {
	ConnectorType string  `json:"connectorType" binding:"required,oneof=ac_type2 dc_ccs dc_chademo"`
	PowerKW       float64 `json:"powerKW" binding:"required,gt=0"`
}

type CreateStationRequest struct {
	Name         string           `json:"name" binding:"required"`
	Address      models.Address   `json:"address" binding:"required"`
	Chargers     []ChargerRequest `json:"chargers" binding:"required,min=1,dive"`
	BillingModel string           `json:"billingModel" binding:"required,oneof=per_minute per_kwh"`
	UnitPrice    float64          `json:"unitPrice" binding:"required,gt=0"`
}

// CreateStation creates a station under the authenticated franchise owner's
// franchise. All chargers start available, so the advertised slot counter
// equals the charger count.
func (h *StationHandler) CreateStation(c *gin.Context) {
	owner, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}
	if owner.Scope.FranchiseID.IsZero() {
		c.JSON(http.StatusForbidden, gin.H{"error": "No franchise scope on this account"})
		return
	}

	var req CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chargers := make([]models.Charger, 0, len(req.Chargers))
	for _, cr := range req.Chargers {
		chargers = append(chargers, models.Charger{
			ChargerID:     newChargerID(),
			ConnectorType: cr.ConnectorType,
			PowerKW:       cr.PowerKW,
			IsAvailable:   true,
			Status:        "operational",
		})
	}

	now := time.Now()
	station := models.Station{
		Name:           req.Name,
		Address:        req.Address,
		Chargers:       chargers,
		AvailableSlots: len(chargers),
		Pricing:        models.Pricing{BillingModel: req.BillingModel, UnitPrice: req.UnitPrice},
		Status:         models.StationActive,
		FranchiseID:    owner.Scope.FranchiseID,
		CorporateID:    owner.Scope.CorporateID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := h.DB.Collection("stations").InsertOne(context.Background(), station)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create station"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		station.ID = oid
	}

	c.JSON(http.StatusCreated, station)
}

// GetAllStations lists stations, optionally filtered by connector type and
// city. End users only see active stations.
func (h *StationHandler) GetAllStations(c *gin.Context) {
	filter := bson.M{"status": models.StationActive}
	if city := c.Query("city"); city != "" {
		filter["address.city"] = city
	}
	if connType := c.Query("connectorType"); connType != "" {
		filter["chargers.connectorType"] = connType
	}

	cursor, err := h.DB.Collection("stations").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query stations"})
		return
	}
	defer cursor.Close(context.Background())

	var stations []models.Station
	if err := cursor.All(context.Background(), &stations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode stations"})
		return
	}

	if stations == nil {
		stations = []models.Station{}
	}

	c.JSON(http.StatusOK, stations)
}

// GetStationByID returns one station document, chargers included.
func (h *StationHandler) GetStationByID(c *gin.Context) {
	stationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station id"})
		return
	}

	var station models.Station
	err = h.DB.Collection("stations").FindOne(context.Background(), bson.M{"_id": stationID}).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve station"})
		}
		return
	}

	c.JSON(http.StatusOK, station)
}

// UpdateStation applies a partial update. Only the fields present in the
// patch end up in the $set document.
func (h *StationHandler) UpdateStation(c *gin.Context) {
	station, ok := h.loadOwnedStation(c)
	if !ok {
		return
	}

	var patch models.StationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.StationActive, models.StationInactive, models.StationMaintenance:
			set["status"] = *patch.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station status"})
			return
		}
	}
	if patch.BillingModel != nil {
		if *patch.BillingModel != models.BillingPerMinute && *patch.BillingModel != models.BillingPerKWh {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid billing model"})
			return
		}
		set["pricing.billingModel"] = *patch.BillingModel
	}
	if patch.UnitPrice != nil {
		if *patch.UnitPrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unit price must be positive"})
			return
		}
		set["pricing.unitPrice"] = *patch.UnitPrice
	}

	_, err := h.DB.Collection("stations").UpdateByID(context.Background(), station.ID, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update station"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Station updated successfully"})
}

// AddCharger appends a charger to an owned station and bumps the slot
// counter in the same update.
func (h *StationHandler) AddCharger(c *gin.Context) {
	station, ok := h.loadOwnedStation(c)
	if !ok {
		return
	}

	var req ChargerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	charger := models.Charger{
		ChargerID:     newChargerID(),
		ConnectorType: req.ConnectorType,
		PowerKW:       req.PowerKW,
		IsAvailable:   true,
		Status:        "operational",
	}

	_, err := h.DB.Collection("stations").UpdateByID(context.Background(), station.ID, bson.M{
		"$push": bson.M{"chargers": charger},
		"$inc":  bson.M{"availableSlots": 1},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add charger"})
		return
	}

	c.JSON(http.StatusCreated, charger)
}

type ChargerStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=operational faulty"`
}

// SetChargerStatus marks a charger faulty or operational. The availability
// flag and the slot counter move together: a faulty charger that was
// available is taken out of the pool, and a repaired charger with no open
// booking is put back. Conditional filters keep the counter exact even if
// the same request is replayed.
func (h *StationHandler) SetChargerStatus(c *gin.Context) {
	station, ok := h.loadManagedStation(c)
	if !ok {
		return
	}
	chargerID := c.Param("chargerId")

	var req ChargerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stations := h.DB.Collection("stations")
	now := time.Now()

	if req.Status == "faulty" {
		// Remove it from the available pool if it was in it.
		res, err := stations.UpdateOne(context.Background(),
			bson.M{"_id": station.ID, "chargers": bson.M{"$elemMatch": bson.M{"chargerId": chargerID, "isAvailable": true}}},
			bson.M{
				"$set": bson.M{"chargers.$.status": "faulty", "chargers.$.isAvailable": false, "updatedAt": now},
				"$inc": bson.M{"availableSlots": -1},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update charger"})
			return
		}
		if res.MatchedCount == 0 {
			// Already unavailable (booked or already faulty): just flag it.
			res, err = stations.UpdateOne(context.Background(),
				bson.M{"_id": station.ID, "chargers.chargerId": chargerID},
				bson.M{"$set": bson.M{"chargers.$.status": "faulty", "updatedAt": now}})
			if err != nil || res.MatchedCount == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
				return
			}
		}
	} else {
		// Put it back only if no booking currently holds it.
		res, err := stations.UpdateOne(context.Background(),
			bson.M{"_id": station.ID, "chargers": bson.M{"$elemMatch": bson.M{
				"chargerId":        chargerID,
				"status":           "faulty",
				"isAvailable":      false,
				"currentBookingId": bson.M{"$exists": false},
			}}},
			bson.M{
				"$set": bson.M{"chargers.$.status": "operational", "chargers.$.isAvailable": true, "updatedAt": now},
				"$inc": bson.M{"availableSlots": 1},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update charger"})
			return
		}
		if res.MatchedCount == 0 {
			res, err = stations.UpdateOne(context.Background(),
				bson.M{"_id": station.ID, "chargers.chargerId": chargerID},
				bson.M{"$set": bson.M{"chargers.$.status": "operational", "updatedAt": now}})
			if err != nil || res.MatchedCount == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Charger status updated"})
}

type AssignManagerRequest struct {
	ManagerEmail string `json:"managerEmail" binding:"required,email"`
}

// AssignManager attaches an existing user to an owned station as its
// station manager.
func (h *StationHandler) AssignManager(c *gin.Context) {
	station, ok := h.loadOwnedStation(c)
	if !ok {
		return
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var manager models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": req.ManagerEmail}).Decode(&manager)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		}
		return
	}

	now := time.Now()
	_, err = h.DB.Collection("users").UpdateByID(context.Background(), manager.ID, bson.M{
		"$set":      bson.M{"role": models.RoleStationManager, "scope.franchiseId": station.FranchiseID, "scope.corporateId": station.CorporateID, "updatedAt": now},
		"$addToSet": bson.M{"scope.stationIds": station.ID},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	_, err = h.DB.Collection("stations").UpdateByID(context.Background(), station.ID, bson.M{
		"$addToSet": bson.M{"managerUserIds": manager.ID},
		"$set":      bson.M{"updatedAt": now},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update station"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manager assigned successfully"})
}

// loadCurrentUser fetches the authenticated user's document; it writes the
// error response itself on failure.
func (h *StationHandler) loadCurrentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return nil, false
	}

	var user models.User
	if err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// loadOwnedStation resolves the :id station and checks the caller owns it
// (franchise owner of its franchise, or platform admin).
func (h *StationHandler) loadOwnedStation(c *gin.Context) (*models.Station, bool) {
	stationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station id"})
		return nil, false
	}

	var station models.Station
	err = h.DB.Collection("stations").FindOne(context.Background(), bson.M{"_id": stationID}).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve station"})
		}
		return nil, false
	}

	if currentUserRole(c) == models.RoleAdmin {
		return &station, true
	}

	user, ok := h.loadCurrentUser(c)
	if !ok {
		return nil, false
	}
	if user.Scope.FranchiseID != station.FranchiseID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Station belongs to another franchise"})
		return nil, false
	}
	return &station, true
}

// loadManagedStation resolves the :id station and checks the caller manages
// it (assigned station manager, its franchise owner, or platform admin).
func (h *StationHandler) loadManagedStation(c *gin.Context) (*models.Station, bool) {
	role := currentUserRole(c)
	if role != models.RoleStationManager {
		return h.loadOwnedStation(c)
	}

	stationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid station id"})
		return nil, false
	}

	var station models.Station
	err = h.DB.Collection("stations").FindOne(context.Background(), bson.M{"_id": stationID}).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve station"})
		}
		return nil, false
	}

	userID, _ := currentUserID(c)
	for _, managerID := range station.ManagerUserIDs {
		if managerID == userID {
			return &station, true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this station"})
	return nil, false
}

func newChargerID() string {
	return "CHG-" + uuid.New().String()[:8]
}
