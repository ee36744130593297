package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Manager owns the MongoDB connection lifecycle. It is created once in main
// and injected into handlers; nothing imports it as ambient state.
type Manager struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the connection, pings it, and ensures indexes.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Manager, error) {
	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(cfg.URI))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	m := &Manager{client: client, db: client.Database(cfg.DBName)}
	if err := m.ensureIndexes(ctx); err != nil {
		log.Printf("Error creating indexes: %v", err)
	}

	log.Println("Connected to MongoDB")
	return m, nil
}

// DB returns the application database handle.
func (m *Manager) DB() *mongo.Database {
	return m.db
}

// Close tears down the connection. Call it on shutdown.
func (m *Manager) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *Manager) ensureIndexes(ctx context.Context) error {
	// Unique email for users.
	_, err := m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// Overlap checks filter bookings by station, charger and window.
	_, err = m.db.Collection("bookings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "stationId", Value: 1},
			{Key: "chargerId", Value: 1},
			{Key: "startTime", Value: 1},
		},
	})
	if err != nil {
		return err
	}

	// Notification lists are always per user, newest first.
	_, err = m.db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	return err
}

// maskMongoURI masks the password in a MongoDB URI for logging.
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
