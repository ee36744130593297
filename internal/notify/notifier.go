package notify

import (
	"context"
	"log"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/socket"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Notifier persists in-app notifications and pushes them to connected
// clients. Delivery is fire-and-forget: failures are logged and never
// propagate to the operation that triggered the notification.
type Notifier struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

func New(db *mongo.Database, hub *socket.Hub) *Notifier {
	return &Notifier{DB: db, Hub: hub}
}

// Notify records a notification for a user and pushes it over WebSocket if
// the user is online.
func (n *Notifier) Notify(userID primitive.ObjectID, kind, title, message string, bookingID, stationID primitive.ObjectID) {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
		StationID: stationID,
		CreatedAt: time.Now(),
	}

	if _, err := n.DB.Collection("notifications").InsertOne(context.Background(), notification); err != nil {
		log.Printf("failed to save notification for user %s: %v", userID.Hex(), err)
		return
	}

	if n.Hub != nil {
		if err := n.Hub.SendJSON(userID.Hex(), notification); err != nil {
			log.Printf("failed to push notification to user %s: %v", userID.Hex(), err)
		}
	}
}
