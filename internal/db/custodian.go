package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

func (db *Database) SaveCustodian(ctx context.Context, doc *model.CustodianDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	_, err := client.InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     doc.ID,
						Message: "custodian already registered",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindCustodianByID(ctx context.Context, custodianID string) (*model.CustodianDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	filter := bson.M{"_id": custodianID}
	var custodian model.CustodianDocument
	err := client.FindOne(ctx, filter).Decode(&custodian)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     custodianID,
				Message: "custodian not found",
			}
		}
		return nil, err
	}
	return &custodian, nil
}

func (db *Database) FindCustodians(ctx context.Context, paginationToken string) (*DbResultMap[model.CustodianDocument], error) {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)

	filter := bson.M{}
	opts := options.Find().SetSort(bson.M{"_id": 1}).SetLimit(db.cfg.MaxPaginationLimit)
	if paginationToken != "" {
		decodedToken, err := model.DecodePaginationToken[model.CustodianPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "invalid pagination token",
			}
		}
		filter = bson.M{"_id": bson.M{"$gt": decodedToken.ID}}
	}

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var custodians []model.CustodianDocument
	if err = cursor.All(ctx, &custodians); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, custodians, model.BuildCustodianPaginationToken)
}

// TransitionCustodianStatus updates the custodian's status when the current
// status is in the eligible set. The status change and any implied minting
// freeze/unfreeze live in the same document, so the update is atomic.
func (db *Database) TransitionCustodianStatus(
	ctx context.Context, custodianID string, newStatus types.CustodianStatus,
	eligiblePreviousStates []types.CustodianStatus, updatedAt time.Time,
) error {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	filter := bson.M{
		"_id":    custodianID,
		"status": bson.M{"$in": utils.StatusesToStrings(eligiblePreviousStates)},
	}
	update := bson.M{"$set": bson.M{"status": newStatus.ToString(), "status_updated_at": updatedAt}}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing custodian from one in the wrong state.
		if _, findErr := db.FindCustodianByID(ctx, custodianID); findErr != nil {
			return findErr
		}
		return &NotEligibleError{
			Key:     custodianID,
			Message: "custodian not in eligible state to transition",
		}
	}
	return nil
}

func (db *Database) IncrementMinted(ctx context.Context, custodianID string, delta int64) error {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	filter := bson.M{"_id": custodianID}
	update := bson.M{"$inc": bson.M{"minted": delta}}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	return nil
}

func (db *Database) UpdateBacking(ctx context.Context, custodianID string, backing uint64) error {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	filter := bson.M{"_id": custodianID}
	update := bson.M{"$set": bson.M{"backing": backing}}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	return nil
}

func (db *Database) UpdateMaxCapacity(ctx context.Context, custodianID string, maxCapacity uint64) error {
	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	filter := bson.M{"_id": custodianID}
	update := bson.M{"$set": bson.M{"max_capacity": maxCapacity}}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	return nil
}

func (db *Database) UpdateSyncState(ctx context.Context, custodianID string, update *SyncStateUpdate) error {
	set := bson.M{}
	if update.Backing != nil {
		set["backing"] = *update.Backing
	}
	if update.OracleFailureDetected != nil {
		set["oracle_failure_detected"] = *update.OracleFailureDetected
	}
	if update.CachedBalance != nil {
		set["last_known_reserve_balance"] = *update.CachedBalance
	}
	if update.CachedAt != nil {
		set["last_known_balance_cached_at"] = *update.CachedAt
	}
	if update.LastSyncAt != nil {
		set["last_sync_at"] = *update.LastSyncAt
	}
	if len(set) == 0 {
		return nil
	}

	client := db.Client.Database(db.DbName).Collection(model.CustodianCollection)
	result, err := client.UpdateOne(ctx, bson.M{"_id": custodianID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	return nil
}
