package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoCollections creates the indexes the pipeline queries rely on.
// Collections themselves are created lazily on first insert.
func EnsureMongoCollections(ctx context.Context, db *mongo.Database) error {
	indexesByCollection := map[string][]mongo.IndexModel{
		"opportunities": {
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetName("idx_opportunities_id").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "confidence", Value: -1}},
				Options: options.Index().SetName("idx_opportunities_status_confidence"),
			},
			{
				Keys:    bson.D{{Key: "analysis.program", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_opportunities_program_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_opportunities_created_at"),
			},
		},
		"market_data": {
			{
				Keys:    bson.D{{Key: "program", Value: 1}, {Key: "date", Value: -1}},
				Options: options.Index().SetName("idx_market_data_program_date"),
			},
		},
		"raw_messages": {
			{
				Keys:    bson.D{{Key: "message_id", Value: 1}, {Key: "channel", Value: 1}},
				Options: options.Index().SetName("idx_raw_messages_message_channel"),
			},
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("idx_raw_messages_date"),
			},
		},
		"user_profiles": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("idx_user_profiles_user_id").SetUnique(true),
			},
		},
		"analyses": {
			{
				Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_analyses_kind_created_at"),
			},
		},
	}

	for name, indexes := range indexesByCollection {
		collection := db.Collection(name)
		if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("failed to create indexes for %s: %w", name, err)
			}
		}
	}

	return nil
}
