package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Franchise is an operating unit owned by a Corporate. It manages a set of
// stations through its franchise-owner user.
type Franchise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CorporateID primitive.ObjectID `bson:"corporateId" json:"corporateId"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     Address            `bson:"address,omitempty" json:"address,omitempty"`
	OwnerUserID primitive.ObjectID `bson:"ownerUserId" json:"ownerUserId"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
