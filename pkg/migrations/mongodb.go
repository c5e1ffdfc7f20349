package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoCollection creates the indexes the products collection
// needs for active-catalog reads and management listings.
func EnsureMongoCollection(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("products")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_products_active_updated_at"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_products_name"),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_products_updated_at"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return nil
}
