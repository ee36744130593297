package database

import (
	"context"
	"log"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/config"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/auth"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the platform admin account if it does not exist yet.
func SeedAdmin(db *mongo.Database, cfg config.SeedConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("Admin seed credentials not configured. Seeding skipped.")
		return nil
	}

	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": cfg.AdminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Platform admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Platform admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:     cfg.AdminEmail,
		Name:      "Platform Admin",
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		Status:    "active",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	log.Println("Platform admin seeded successfully.")
	return nil
}
