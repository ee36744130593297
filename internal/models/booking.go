package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle statuses. A booking is never reopened once it reaches
// cancelled or completed. Nothing in-process moves a booking to expired;
// that requires an external sweeper.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingExpired   = "expired"
)

// Payment sub-record statuses.
const (
	PaymentCreated   = "created"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PaymentInfo is the gateway sub-record embedded in a booking. NeedsRefund
// is set when the payment succeeded but charger allocation failed; the
// refund itself is an external action.
type PaymentInfo struct {
	OrderID          string `bson:"orderId,omitempty" json:"orderId,omitempty"`
	PaymentID        string `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Status           string `bson:"status,omitempty" json:"status,omitempty"`
	AmountMinorUnits int64  `bson:"amountMinorUnits,omitempty" json:"amountMinorUnits,omitempty"`
	NeedsRefund      bool   `bson:"needsRefund,omitempty" json:"needsRefund,omitempty"`
}

// Booking reserves a specific charger for a user over a half-open time
// window [start, end).
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingRef    string             `bson:"bookingRef" json:"bookingRef"` // e.g. "BKG-a1b2c3d4"
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	StationID     primitive.ObjectID `bson:"stationId" json:"stationId"`
	ChargerID     string             `bson:"chargerId,omitempty" json:"chargerId,omitempty"` // empty while pending payment
	ConnectorType string             `bson:"connectorType" json:"connectorType"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	EndTime       time.Time          `bson:"endTime" json:"endTime"`
	Status        string             `bson:"status" json:"status"`
	Pricing       Pricing            `bson:"pricing" json:"pricing"` // snapshot at creation time
	EstimatedCost float64            `bson:"estimatedCost" json:"estimatedCost"`
	Payment       PaymentInfo        `bson:"payment,omitempty" json:"payment,omitempty"`
	CancelReason  string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledAt   *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
