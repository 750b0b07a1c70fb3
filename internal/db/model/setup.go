package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
)

const setupTimeout = 30 * time.Second

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	SnapshotCollection: {
		{Indexes: map[string]int{"timestamp": -1}, Unique: false},
	},
	WalletMappingCollection: {
		{Indexes: map[string]int{"address": 1}, Unique: true},
	},
	IdentityCollection: {
		{Indexes: map[string]int{"score": -1}, Unique: false},
	},
}

// Setup creates the collections and indexes the validator relies on. Safe
// to call on every startup.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	database := client.Database(cfg.DbName)

	existing, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		existingSet[name] = struct{}{}
	}

	for name, indexes := range collections {
		if _, ok := existingSet[name]; !ok {
			if err := database.CreateCollection(ctx, name); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
			log.Debug().Str("collection", name).Msg("collection created")
		}
		for _, idx := range indexes {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	return client.Disconnect(ctx)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	if len(idx.Indexes) == 0 {
		return nil
	}

	keys := bson.D{}
	for field, direction := range idx.Indexes {
		keys = append(keys, bson.E{Key: field, Value: direction})
	}

	_, err := database.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	return nil
}
