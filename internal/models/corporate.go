package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Corporate is the top-level organizational container. A corporate owns
// franchises and has exactly one corporate-admin user.
type Corporate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     Address            `bson:"address,omitempty" json:"address,omitempty"`
	AdminUserID primitive.ObjectID `bson:"adminUserId" json:"adminUserId"`
	Status      string             `bson:"status" json:"status"` // active, suspended
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
