package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
)

// SaveSnapshot appends a snapshot to the publication history. The insert is
// atomic at the document level, and the block-keyed _id makes a second
// append for the same publication fail with a DuplicateKeyError.
func (db *Database) SaveSnapshot(ctx context.Context, snapshot *model.SnapshotDocument) error {
	_, err := db.collection(model.SnapshotCollection).InsertOne(ctx, snapshot)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{
			Key:     fmt.Sprintf("%d", snapshot.Block),
			Message: err.Error(),
		}
	}
	return err
}

func (db *Database) LatestSnapshot(ctx context.Context) (*model.SnapshotDocument, error) {
	opts := options.FindOne().SetSort(bson.M{"_id": -1})

	var result model.SnapshotDocument
	err := db.collection(model.SnapshotCollection).
		FindOne(ctx, bson.M{}, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     "latest",
			Message: "no snapshots stored yet",
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (db *Database) GetSnapshotByBlock(ctx context.Context, block uint64) (*model.SnapshotDocument, error) {
	var result model.SnapshotDocument
	err := db.collection(model.SnapshotCollection).
		FindOne(ctx, bson.M{"_id": block}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     fmt.Sprintf("%d", block),
			Message: fmt.Sprintf("no snapshot found for block %d", block),
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSnapshots returns up to limit snapshot summaries, newest first.
func (db *Database) ListSnapshots(ctx context.Context, limit int64) ([]model.SnapshotSummary, error) {
	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetLimit(limit).
		SetProjection(bson.M{"entries": 0})

	cursor, err := db.collection(model.SnapshotCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.SnapshotSummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
