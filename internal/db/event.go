package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/btcpeg/custody-api-service/internal/db/model"
)

func (db *Database) SaveEvent(ctx context.Context, doc *model.EventDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.EventCollection)
	_, err := client.InsertOne(ctx, doc)
	return err
}

func (db *Database) FindEventsByCustodian(ctx context.Context, custodianID string, paginationToken string) (*DbResultMap[model.EventDocument], error) {
	client := db.Client.Database(db.DbName).Collection(model.EventCollection)

	filter := bson.M{"custodian": custodianID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).SetLimit(db.cfg.MaxPaginationLimit)
	if paginationToken != "" {
		decodedToken, err := model.DecodePaginationToken[model.EventPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "invalid pagination token",
			}
		}
		filter = bson.M{
			"custodian": custodianID,
			"$or": []bson.M{
				{"created_at": bson.M{"$lt": decodedToken.CreatedAt}},
				{"created_at": decodedToken.CreatedAt, "_id": bson.M{"$gt": decodedToken.ID}},
			},
		}
	}

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []model.EventDocument
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, events, model.BuildEventPaginationToken)
}
