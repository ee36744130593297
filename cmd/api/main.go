package main

import (
	"context"
	"log"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/config"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/api/routes"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/auth"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/database"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/payment"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	auth.JwtSecret = []byte(cfg.JWT.Secret)
	if cfg.JWT.Expiration != "" {
		ttl, err := time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid jwt.expiration: %v", err)
		}
		auth.TokenTTL = ttl
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	dbManager, err := database.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := dbManager.Close(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := database.SeedAdmin(dbManager.DB(), cfg.Seed); err != nil {
		log.Fatalf("Could not seed platform admin: %v", err)
	}

	gateway := payment.NewClient(cfg.Razorpay)
	wsHub := socket.NewHub()

	router := routes.SetupRouter(cfg, dbManager.DB(), gateway, wsHub)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
