package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
)

// UpsertIdentity refreshes the materialized state of one identity after an
// ingestion tick. An identity that lost its wallet mapping arrives with
// empty key and address; the stored binding is kept so the historical row
// stays intact.
func (db *Database) UpsertIdentity(ctx context.Context, doc *model.IdentityDocument) error {
	filter := bson.M{"_id": doc.UID}
	set := bson.M{
		"daily_volumes":   doc.DailyVolumes,
		"weighted_volume": doc.WeightedVolume,
		"score":           doc.Score,
		"last_seen_epoch": doc.LastSeenEpoch,
		"active":          doc.Active,
		"last_updated":    time.Now().Unix(),
	}
	if doc.IdentityKey != "" {
		set["identity_key"] = doc.IdentityKey
	}
	if doc.Address != "" {
		set["address"] = doc.Address
	}
	update := bson.M{"$set": set}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.IdentityCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetIdentity(ctx context.Context, uid uint64) (*model.IdentityDocument, error) {
	var result model.IdentityDocument
	err := db.collection(model.IdentityCollection).
		FindOne(ctx, bson.M{"_id": uid}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     fmt.Sprintf("%d", uid),
			Message: fmt.Sprintf("identity %d not found", uid),
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAllIdentities returns all known identities ordered by score descending.
func (db *Database) GetAllIdentities(ctx context.Context) ([]model.IdentityDocument, error) {
	opts := options.Find().SetSort(bson.M{"score": -1})

	cursor, err := db.collection(model.IdentityCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.IdentityDocument
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// MarkIdentitiesInactive flags identities absent from the latest refresh.
// Identities are never deleted.
func (db *Database) MarkIdentitiesInactive(ctx context.Context, activeUIDs []uint64) error {
	filter := bson.M{"_id": bson.M{"$nin": activeUIDs}, "active": true}
	update := bson.M{"$set": bson.M{"active": false}}

	_, err := db.collection(model.IdentityCollection).UpdateMany(ctx, filter, update)
	return err
}
