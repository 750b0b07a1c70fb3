package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
)

// GetWalletMappingByAddress returns the verified mapping that currently
// claims the given address, if any.
func (db *Database) GetWalletMappingByAddress(ctx context.Context, address string) (*model.WalletMappingDocument, error) {
	var result model.WalletMappingDocument
	err := db.collection(model.WalletMappingCollection).
		FindOne(ctx, bson.M{"address": address}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     address,
			Message: fmt.Sprintf("no wallet mapping found for address %s", address),
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (db *Database) GetWalletMappingByUID(ctx context.Context, uid uint64) (*model.WalletMappingDocument, error) {
	var result model.WalletMappingDocument
	err := db.collection(model.WalletMappingCollection).
		FindOne(ctx, bson.M{"_id": uid}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     fmt.Sprintf("%d", uid),
			Message: fmt.Sprintf("no wallet mapping found for uid %d", uid),
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpsertWalletMapping stores a verified mapping, superseding any earlier
// mapping for the same uid. The unique index on address turns a race
// between two uids claiming one address into a DuplicateKeyError.
func (db *Database) UpsertWalletMapping(ctx context.Context, mapping *model.WalletMappingDocument) error {
	filter := bson.M{"_id": mapping.UID}
	update := bson.M{
		"$set": bson.M{
			"identity_key": mapping.IdentityKey,
			"address":      mapping.Address,
			"message":      mapping.Message,
			"identity_sig": mapping.IdentitySig,
			"address_sig":  mapping.AddressSig,
			"timestamp_ms": mapping.TimestampMs,
			"verified_at":  mapping.VerifiedAt,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.WalletMappingCollection).UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{
			Key:     mapping.Address,
			Message: err.Error(),
		}
	}
	return err
}

// GetAllWalletMappings returns every verified mapping, newest first.
func (db *Database) GetAllWalletMappings(ctx context.Context) ([]model.WalletMappingDocument, error) {
	opts := options.Find().SetSort(bson.M{"verified_at": -1})

	cursor, err := db.collection(model.WalletMappingCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.WalletMappingDocument
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
