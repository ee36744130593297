package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/booking"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/notify"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/payment"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingHandler struct {
	DB       *mongo.Database
	Svc      *booking.Service
	Gateway  *payment.Client
	Notifier *notify.Notifier
}

type BookingRequest struct {
	StationID     string    `json:"stationId" binding:"required"`
	ConnectorType string    `json:"connectorType" binding:"required,oneof=ac_type2 dc_ccs dc_chademo"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
}

func (r *BookingRequest) toCreateRequest(userID primitive.ObjectID) (booking.CreateRequest, error) {
	stationID, err := primitive.ObjectIDFromHex(r.StationID)
	if err != nil {
		return booking.CreateRequest{}, errors.New("invalid station id")
	}
	return booking.CreateRequest{
		UserID:        userID,
		StationID:     stationID,
		ConnectorType: r.ConnectorType,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}, nil
}

// CreateBooking makes a confirmed booking in one step (pre-paid flow).
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createReq, err := req.toCreateRequest(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Svc.Create(context.Background(), createReq)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.Notifier.Notify(b.UserID, models.NotifBookingConfirmed, "Booking confirmed",
		fmt.Sprintf("Your booking %s is confirmed for charger %s.", b.BookingRef, b.ChargerID),
		b.ID, b.StationID)

	c.JSON(http.StatusCreated, b)
}

// InitiateBooking starts the payment-gated flow: a pending booking plus a
// gateway order. The charger is allocated only after payment verification.
func (h *BookingHandler) InitiateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createReq, err := req.toCreateRequest(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Svc.Initiate(context.Background(), createReq, h.Gateway)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":          b,
		"orderId":          b.Payment.OrderID,
		"amountMinorUnits": b.Payment.AmountMinorUnits,
		"currency":         "INR",
		"keyId":            h.Gateway.KeyID(),
	})
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking cancels the caller's own booking and frees its charger.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by user"
	}

	b, err := h.Svc.Cancel(context.Background(), bookingID, userID, reason)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.Notifier.Notify(b.UserID, models.NotifBookingCancelled, "Booking cancelled",
		fmt.Sprintf("Your booking %s has been cancelled.", b.BookingRef),
		b.ID, b.StationID)

	c.JSON(http.StatusOK, b)
}

// StartBooking marks a confirmed booking active when the session begins.
// Station-manager action.
func (h *BookingHandler) StartBooking(c *gin.Context) {
	b, ok := h.loadStaffBooking(c)
	if !ok {
		return
	}

	updated, err := h.Svc.Start(context.Background(), b.ID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CompleteBooking closes a confirmed or active booking and frees its
// charger. Station-manager action.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	b, ok := h.loadStaffBooking(c)
	if !ok {
		return
	}

	updated, err := h.Svc.Complete(context.Background(), b.ID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetMyBookings lists the caller's bookings, newest first, optionally
// filtered by status.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	filter := bson.M{"userId": userID}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("bookings").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query bookings"})
		return
	}
	defer cursor.Close(context.Background())

	var bookings []models.Booking
	if err := cursor.All(context.Background(), &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode bookings"})
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBookingByID returns one booking. End users only see their own.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var b models.Booking
	err = h.DB.Collection("bookings").FindOne(context.Background(), bson.M{"_id": bookingID}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if currentUserRole(c) == models.RoleEndUser {
		userID, _ := currentUserID(c)
		if b.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Booking belongs to another user"})
			return
		}
	}

	c.JSON(http.StatusOK, b)
}

// loadStaffBooking resolves the :id booking and checks the caller is staff
// for its station (assigned manager, or any non-end-user role).
func (h *BookingHandler) loadStaffBooking(c *gin.Context) (*models.Booking, bool) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return nil, false
	}

	var b models.Booking
	err = h.DB.Collection("bookings").FindOne(context.Background(), bson.M{"_id": bookingID}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return nil, false
	}

	if currentUserRole(c) == models.RoleStationManager {
		userID, _ := currentUserID(c)
		var station models.Station
		err := h.DB.Collection("stations").FindOne(context.Background(), bson.M{"_id": b.StationID}).Decode(&station)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve station"})
			return nil, false
		}
		assigned := false
		for _, managerID := range station.ManagerUserIDs {
			if managerID == userID {
				assigned = true
				break
			}
		}
		if !assigned {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this station"})
			return nil, false
		}
	}

	return &b, true
}

func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrStationNotFound), errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrWindowInverted),
		errors.Is(err, booking.ErrWindowInPast),
		errors.Is(err, booking.ErrStationInactive),
		errors.Is(err, booking.ErrNoChargerAvailable),
		errors.Is(err, booking.ErrOverlap),
		errors.Is(err, booking.ErrAlreadyClosed),
		errors.Is(err, booking.ErrBadTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process booking"})
	}
}
