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

// DashboardHandler serves the role-scoped read aggregations. Every request
// recomputes from the collections; nothing is cached or persisted.
type DashboardHandler struct {
	DB *mongo.Database
}

// windowFilter builds an optional createdAt range from the from/to query
// params (RFC 3339).
func windowFilter(c *gin.Context) (bson.M, bool) {
	window := bson.M{}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, false
		}
		window["$gte"] = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, false
		}
		window["$lt"] = t
	}
	return window, true
}

func bookingFilter(c *gin.Context, base bson.M) (bson.M, bool) {
	window, ok := windowFilter(c)
	if !ok {
		return nil, false
	}
	if len(window) > 0 {
		base["createdAt"] = window
	}
	return base, true
}

// bookingSummary reduces a booking result set to counts and revenue.
type bookingSummary struct {
	Total      int64   `json:"total"`
	Confirmed  int64   `json:"confirmed"`
	Active     int64   `json:"active"`
	Completed  int64   `json:"completed"`
	Cancelled  int64   `json:"cancelled"`
	Revenue    float64 `json:"revenue"`
	RefundsDue int64   `json:"refundsDue"`
}

func (h *DashboardHandler) summarizeBookings(ctx context.Context, filter bson.M) (bookingSummary, error) {
	var summary bookingSummary

	cursor, err := h.DB.Collection("bookings").Find(ctx, filter)
	if err != nil {
		return summary, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return summary, err
	}

	for _, b := range bookings {
		summary.Total++
		switch b.Status {
		case models.BookingConfirmed:
			summary.Confirmed++
		case models.BookingActive:
			summary.Active++
		case models.BookingCompleted:
			summary.Completed++
		case models.BookingCancelled:
			summary.Cancelled++
		}
		if b.Payment.Status == models.PaymentCompleted && !b.Payment.NeedsRefund {
			summary.Revenue += b.EstimatedCost
		} else if b.Status == models.BookingCompleted && b.Payment.OrderID == "" {
			// Pre-paid flow bookings have no gateway record.
			summary.Revenue += b.EstimatedCost
		}
		if b.Payment.NeedsRefund {
			summary.RefundsDue++
		}
	}

	return summary, nil
}

// AdminDashboard returns platform-wide totals.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	ctx := context.Background()

	users, err := h.DB.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}
	corporates, err := h.DB.Collection("corporates").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}
	franchises, err := h.DB.Collection("franchises").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}
	stations, err := h.DB.Collection("stations").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	filter, ok := bookingFilter(c, bson.M{})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}
	summary, err := h.summarizeBookings(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":      users,
		"totalCorporates": corporates,
		"totalFranchises": franchises,
		"totalStations":   stations,
		"bookings":        summary,
	})
}

// CorporateDashboard aggregates over the caller's corporate.
func (h *DashboardHandler) CorporateDashboard(c *gin.Context) {
	corporateID, ok := corporateScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No corporate scope on this account"})
		return
	}
	ctx := context.Background()

	franchises, err := h.DB.Collection("franchises").CountDocuments(ctx, bson.M{"corporateId": corporateID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	stationIDs, err := h.stationIDs(ctx, bson.M{"corporateId": corporateID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	filter, ok := bookingFilter(c, bson.M{"stationId": bson.M{"$in": stationIDs}})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}
	summary, err := h.summarizeBookings(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalFranchises": franchises,
		"totalStations":   len(stationIDs),
		"bookings":        summary,
	})
}

// FranchiseDashboard aggregates over the caller's franchise.
func (h *DashboardHandler) FranchiseDashboard(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if user.Scope.FranchiseID.IsZero() {
		c.JSON(http.StatusForbidden, gin.H{"error": "No franchise scope on this account"})
		return
	}
	ctx := context.Background()

	stations, chargerTotal, chargerAvailable, err := h.stationInventory(ctx, bson.M{"franchiseId": user.Scope.FranchiseID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	stationIDs := make([]primitive.ObjectID, 0, len(stations))
	for _, s := range stations {
		stationIDs = append(stationIDs, s.ID)
	}

	filter, ok := bookingFilter(c, bson.M{"stationId": bson.M{"$in": stationIDs}})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}
	summary, err := h.summarizeBookings(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalStations":     len(stations),
		"totalChargers":     chargerTotal,
		"availableChargers": chargerAvailable,
		"bookings":          summary,
	})
}

// StationDashboard aggregates over the stations assigned to the manager.
func (h *DashboardHandler) StationDashboard(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if len(user.Scope.StationIDs) == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "No stations assigned to this account"})
		return
	}
	ctx := context.Background()

	stations, chargerTotal, chargerAvailable, err := h.stationInventory(ctx, bson.M{"_id": bson.M{"$in": user.Scope.StationIDs}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	filter, ok := bookingFilter(c, bson.M{"stationId": bson.M{"$in": user.Scope.StationIDs}})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}
	summary, err := h.summarizeBookings(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalStations":     len(stations),
		"totalChargers":     chargerTotal,
		"availableChargers": chargerAvailable,
		"bookings":          summary,
	})
}

// UserDashboard summarizes the caller's own bookings and spend.
func (h *DashboardHandler) UserDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	filter, ok := bookingFilter(c, bson.M{"userId": userID})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}

	summary, err := h.summarizeBookings(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	vehicles, err := h.DB.Collection("vehicles").CountDocuments(context.Background(), bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":   summary,
		"totalSpend": summary.Revenue,
		"vehicles":   vehicles,
	})
}

func (h *DashboardHandler) loadUser(c *gin.Context) (*models.User, bool) {
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

func (h *DashboardHandler) stationIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	stations, _, _, err := h.stationInventory(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (h *DashboardHandler) stationInventory(ctx context.Context, filter bson.M) ([]models.Station, int, int, error) {
	cursor, err := h.DB.Collection("stations").Find(ctx, filter)
	if err != nil {
		return nil, 0, 0, err
	}
	defer cursor.Close(ctx)

	var stations []models.Station
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, 0, 0, err
	}

	total, available := 0, 0
	for _, s := range stations {
		total += len(s.Chargers)
		for _, ch := range s.Chargers {
			if ch.IsAvailable {
				available++
			}
		}
	}
	return stations, total, available, nil
}
