package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/btcpeg/custody-api-service/internal/db/model"
)

func (db *Database) SavePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.PauseCreditCollection)
	_, err := client.InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     doc.ID,
						Message: "pause credit record already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindPauseCreditByID(ctx context.Context, custodianID string) (*model.PauseCreditDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.PauseCreditCollection)
	filter := bson.M{"_id": custodianID}
	var credit model.PauseCreditDocument
	err := client.FindOne(ctx, filter).Decode(&credit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     custodianID,
				Message: "pause credit record not found",
			}
		}
		return nil, err
	}
	return &credit, nil
}

// UpdatePauseCredit replaces the whole record. Pause credit state is one
// document, so the replacement is atomic.
func (db *Database) UpdatePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.PauseCreditCollection)
	result, err := client.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: doc.ID, Message: "pause credit record not found"}
	}
	return nil
}
