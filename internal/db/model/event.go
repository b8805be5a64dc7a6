package model

import (
	"time"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// EventDocument is the persisted audit record for one emitted event.
type EventDocument struct {
	ID        string                 `bson:"_id"` // uuid
	Kind      types.EventKind        `bson:"kind"`
	Custodian string                 `bson:"custodian"`
	Caller    string                 `bson:"caller"`
	Payload   map[string]interface{} `bson:"payload"`
	CreatedAt time.Time              `bson:"created_at"`
}

type EventPagination struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

func BuildEventPaginationToken(d EventDocument) (string, error) {
	return GetPaginationToken(EventPagination{CreatedAt: d.CreatedAt, ID: d.ID})
}
