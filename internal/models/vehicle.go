package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle is an end user's registered EV, used to prefill the connector
// type when requesting a booking.
type Vehicle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Make           string             `bson:"make" json:"make"`
	Model          string             `bson:"model" json:"model"`
	PlateNumber    string             `bson:"plateNumber" json:"plateNumber"`
	ConnectorType  string             `bson:"connectorType" json:"connectorType"`
	BatteryKWh     float64            `bson:"batteryKWh,omitempty" json:"batteryKWh,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VehiclePatch is a partial update for a vehicle.
type VehiclePatch struct {
	Make          *string  `json:"make,omitempty"`
	Model         *string  `json:"model,omitempty"`
	PlateNumber   *string  `json:"plateNumber,omitempty"`
	ConnectorType *string  `json:"connectorType,omitempty"`
	BatteryKWh    *float64 `json:"batteryKWh,omitempty"`
}
