package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds emitted by the platform.
const (
	NotifBookingConfirmed = "booking_confirmed"
	NotifBookingCancelled = "booking_cancelled"
	NotifPaymentReceived  = "payment_received"
	NotifRefundPending    = "refund_pending"
)

// Notification is a per-user in-app message, optionally deep-linked to a
// booking or station. Deletion is soft: the document is flagged, not removed.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Kind      string             `bson:"kind" json:"kind"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	BookingID primitive.ObjectID `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	StationID primitive.ObjectID `bson:"stationId,omitempty" json:"stationId,omitempty"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	IsDeleted bool               `bson:"isDeleted" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
