package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/btcpeg/custody-api-service/internal/config"
)

const (
	CustodianCollection            = "custodians"
	PauseCreditCollection          = "pause_credits"
	RedemptionCollection           = "redemptions"
	RedemptionObligationCollection = "redemption_obligations"
	EventCollection                = "events"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	CustodianCollection: {
		{Indexes: map[string]int{"status": 1}, Unique: false},
	},
	PauseCreditCollection: {{Indexes: map[string]int{}}},
	RedemptionCollection: {
		{Indexes: map[string]int{"wallet": 1, "created_at": -1}, Unique: false},
		{Indexes: map[string]int{"custodian": 1, "created_at": -1}, Unique: false},
	},
	RedemptionObligationCollection: {{Indexes: map[string]int{}}},
	EventCollection: {
		{Indexes: map[string]int{"custodian": 1, "created_at": -1}, Unique: false},
	},
}

func Setup(ctx context.Context, cfg *config.Config) error {
	clientOps := options.Client().ApplyURI(cfg.Db.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	// Create a context with timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database := client.Database(cfg.Db.DbName)

	for collection := range collections {
		createCollection(ctx, database, collection)
	}

	for name, idxs := range collections {
		for _, idx := range idxs {
			createIndex(ctx, database, name, idx)
		}
	}

	log.Info().Msg("Collections and indexes created successfully")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	// Check if the collection already exists.
	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{}); err != nil {
		log.Debug().Msg(fmt.Sprintf("Collection maybe already exists: %s, skip the creation.", collectionName))
		return
	}

	// Create the collection.
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to create collection: %s, skip the creation.", collectionName))
		return
	}

	log.Debug().Msg(fmt.Sprintf("Collection created successfully: %s", collectionName))
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) {
	if len(idx.Indexes) == 0 {
		return
	}

	indexKeys := bson.D{}
	for k, v := range idx.Indexes {
		indexKeys = append(indexKeys, bson.E{Key: k, Value: v})
	}

	indexModel := mongo.IndexModel{
		Keys:    indexKeys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to create index on collection '%s': %v", collectionName, err))
		return
	}

	log.Debug().Msg("Index created successfully on collection: " + collectionName)
}
