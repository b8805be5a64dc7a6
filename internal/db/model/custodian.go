package model

import (
	"time"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// CustodianDocument is the ledger record for one qualified custodian. All
// amounts are satoshis. The invariants minted <= backing and
// minted <= max_capacity must hold after every successful mint.
type CustodianDocument struct {
	ID                       string                `bson:"_id"` // custodian identifier, 0x-hex
	BtcAddress               string                `bson:"btc_address"`
	Status                   types.CustodianStatus `bson:"status"`
	MaxCapacity              uint64                `bson:"max_capacity"`
	Backing                  uint64                `bson:"backing"`
	Minted                   uint64                `bson:"minted"`
	RegisteredAt             time.Time             `bson:"registered_at"`
	StatusUpdatedAt          time.Time             `bson:"status_updated_at"`
	OracleFailureDetected    bool                  `bson:"oracle_failure_detected"`
	LastKnownReserveBalance  uint64                `bson:"last_known_reserve_balance"`
	LastKnownBalanceCachedAt time.Time             `bson:"last_known_balance_cached_at"`
	LastSyncAt               time.Time             `bson:"last_sync_at"`
}

type CustodianPagination struct {
	ID string `json:"id"`
}

func BuildCustodianPaginationToken(d CustodianDocument) (string, error) {
	return GetPaginationToken(CustodianPagination{ID: d.ID})
}
