package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/booking"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/notify"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/payment"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentHandler struct {
	DB       *mongo.Database
	Svc      *booking.Service
	Gateway  *payment.Client
	Notifier *notify.Notifier
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPayment is the gateway callback for the payment-gated flow. The
// signature is checked before anything is touched; a mismatch rejects the
// request with all booking and charger state unchanged.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		return
	}

	b, allocated, err := h.Svc.ConfirmPaid(context.Background(), req.OrderID, req.PaymentID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending booking for this order"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		}
		return
	}

	if !allocated {
		// Payment went through but no charger was left; the refund is an
		// operator action outside this service.
		h.Notifier.Notify(b.UserID, models.NotifRefundPending, "Booking could not be allocated",
			fmt.Sprintf("Payment for booking %s was received, but no charger is available. A refund will be issued.", b.BookingRef),
			b.ID, b.StationID)
		c.JSON(http.StatusOK, gin.H{
			"booking": b,
			"message": "Payment received but no charger is available; refund pending",
		})
		return
	}

	h.Notifier.Notify(b.UserID, models.NotifPaymentReceived, "Payment received",
		fmt.Sprintf("Payment for booking %s was received.", b.BookingRef), b.ID, b.StationID)
	h.Notifier.Notify(b.UserID, models.NotifBookingConfirmed, "Booking confirmed",
		fmt.Sprintf("Your booking %s is confirmed for charger %s.", b.BookingRef, b.ChargerID),
		b.ID, b.StationID)

	c.JSON(http.StatusOK, gin.H{"booking": b, "message": "Payment verified and booking confirmed"})
}
