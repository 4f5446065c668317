package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EntriesCollection = "validation_entries"
	FilesCollection   = "validation_files"
)

func createIndexes(ctx context.Context) {
	_, err := GetCollection(EntriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "report_id", Value: 1},
				{Key: "file_name", Value: 1},
				{Key: "line", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "rule", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600), // Expire after 30 days
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", EntriesCollection).Msg("Creating Index")
	}

	_, err = GetCollection(FilesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "report_id", Value: 1},
				{Key: "file_name", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", FilesCollection).Msg("Creating Index")
	}
}
