package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connector types supported by the platform.
const (
	ConnectorACType2   = "ac_type2"
	ConnectorDCCCS     = "dc_ccs"
	ConnectorDCChademo = "dc_chademo"
)

// Station operational status.
const (
	StationActive      = "active"
	StationInactive    = "inactive"
	StationMaintenance = "maintenance"
)

// Billing models for station pricing.
const (
	BillingPerMinute = "per_minute"
	BillingPerKWh    = "per_kwh"
)

// Charger is an individually addressable connector unit embedded within a
// Station. Its lifecycle is bound to the owning station document.
type Charger struct {
	ChargerID        string             `bson:"chargerId" json:"chargerId"` // e.g. "CHG-a1b2c3d4"
	ConnectorType    string             `bson:"connectorType" json:"connectorType"`
	PowerKW          float64            `bson:"powerKW" json:"powerKW"`
	IsAvailable      bool               `bson:"isAvailable" json:"isAvailable"`
	CurrentBookingID primitive.ObjectID `bson:"currentBookingId,omitempty" json:"currentBookingId,omitempty"`
	Status           string             `bson:"status" json:"status"` // operational, faulty
}

// Pricing describes how a station bills a charging session.
type Pricing struct {
	BillingModel string  `bson:"billingModel" json:"billingModel"` // per_minute or per_kwh
	UnitPrice    float64 `bson:"unitPrice" json:"unitPrice"`       // INR per minute or per kWh
}

type Station struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	Address        Address              `bson:"address" json:"address"`
	Chargers       []Charger            `bson:"chargers" json:"chargers"`
	AvailableSlots int                  `bson:"availableSlots" json:"availableSlots"`
	Pricing        Pricing              `bson:"pricing" json:"pricing"`
	Status         string               `bson:"status" json:"status"`
	FranchiseID    primitive.ObjectID   `bson:"franchiseId" json:"franchiseId"`
	CorporateID    primitive.ObjectID   `bson:"corporateId" json:"corporateId"`
	ManagerUserIDs []primitive.ObjectID `bson:"managerUserIds,omitempty" json:"managerUserIds,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// StationPatch is a partial update for a station. Nil fields are left
// unchanged; the patch is applied as a single $set document.
type StationPatch struct {
	Name         *string  `json:"name,omitempty"`
	Address      *Address `json:"address,omitempty"`
	Status       *string  `json:"status,omitempty"`
	BillingModel *string  `json:"billingModel,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
}
