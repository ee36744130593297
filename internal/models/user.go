package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform roles. Each role sees a different dashboard and route group.
const (
	RoleAdmin          = "admin"
	RoleCorporateAdmin = "corporate_admin"
	RoleFranchiseOwner = "franchise_owner"
	RoleStationManager = "station_manager"
	RoleEndUser        = "end_user"
)

// RoleScope holds the role-specific references for a user. Only the fields
// relevant to the user's role are populated.
type RoleScope struct {
	CorporateID primitive.ObjectID   `bson:"corporateId,omitempty" json:"corporateId,omitempty"`
	FranchiseID primitive.ObjectID   `bson:"franchiseId,omitempty" json:"franchiseId,omitempty"`
	StationIDs  []primitive.ObjectID `bson:"stationIds,omitempty" json:"stationIds,omitempty"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string             `bson:"role" json:"role"`
	Scope     RoleScope          `bson:"scope,omitempty" json:"scope,omitempty"`
	Status    string             `bson:"status" json:"status"` // active, suspended
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserPatch is a partial update for a user. Nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}
