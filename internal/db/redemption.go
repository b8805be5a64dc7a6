package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

func (db *Database) SaveRedemption(ctx context.Context, doc *model.RedemptionDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionCollection)
	_, err := client.InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     doc.ID,
						Message: "redemption already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindRedemptionByID(ctx context.Context, redemptionID string) (*model.RedemptionDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionCollection)
	filter := bson.M{"_id": redemptionID}
	var redemption model.RedemptionDocument
	err := client.FindOne(ctx, filter).Decode(&redemption)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     redemptionID,
				Message: "redemption not found",
			}
		}
		return nil, err
	}
	return &redemption, nil
}

// TransitionRedemptionStatus moves a redemption into a terminal state when its
// current status is in the eligible set. A second terminal transition misses
// the filter and reports NotEligibleError, which guards the obligation
// counters against double decrement.
func (db *Database) TransitionRedemptionStatus(
	ctx context.Context, redemptionID string, newStatus model.RedemptionStatus,
	eligiblePreviousStates []model.RedemptionStatus, fulfillmentTxHash string, resolvedAt time.Time,
) error {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionCollection)
	filter := bson.M{
		"_id":    redemptionID,
		"status": bson.M{"$in": utils.StatusesToStrings(eligiblePreviousStates)},
	}
	set := bson.M{"status": newStatus.ToString(), "resolved_at": resolvedAt}
	if fulfillmentTxHash != "" {
		set["fulfillment_tx_hash"] = fulfillmentTxHash
	}
	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, findErr := db.FindRedemptionByID(ctx, redemptionID); findErr != nil {
			return findErr
		}
		return &NotEligibleError{
			Key:     redemptionID,
			Message: "redemption not in eligible state to transition",
		}
	}
	return nil
}

// IncrementObligation upserts the per-scope counters: bumps the active count
// and total, and lowers the earliest deadline if the new one is earlier.
func (db *Database) IncrementObligation(ctx context.Context, scopeKey string, amountSats uint64, deadline time.Time) error {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionObligationCollection)
	filter := bson.M{"_id": scopeKey}
	update := bson.M{
		"$inc": bson.M{"active_count": 1, "total_amount_sats": int64(amountSats)},
		"$min": bson.M{"earliest_deadline": deadline},
	}
	opts := options.Update().SetUpsert(true)
	_, err := client.UpdateOne(ctx, filter, update, opts)
	return err
}

// DecrementObligation lowers the counters after a terminal redemption
// transition. The earliest deadline is deliberately not recomputed.
func (db *Database) DecrementObligation(ctx context.Context, scopeKey string, amountSats uint64) error {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionObligationCollection)
	filter := bson.M{"_id": scopeKey, "active_count": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"active_count": -1, "total_amount_sats": -int64(amountSats)},
	}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{Key: scopeKey, Message: "no active obligations for scope"}
	}
	return nil
}

func (db *Database) FindObligationByScope(ctx context.Context, scopeKey string) (*model.RedemptionObligationDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.RedemptionObligationCollection)
	filter := bson.M{"_id": scopeKey}
	var obligation model.RedemptionObligationDocument
	err := client.FindOne(ctx, filter).Decode(&obligation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     scopeKey,
				Message: "obligation record not found",
			}
		}
		return nil, err
	}
	return &obligation, nil
}
