package oracle

import (
	"context"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// ReserveBalance is the oracle's attested view of a custodian's Bitcoin reserves.
type ReserveBalance struct {
	BalanceSats uint64 `json:"balance_sats"`
	IsStale     bool   `json:"is_stale"`
	AttestedAt  string `json:"attested_at"`
}

type OracleClientInterface interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() int
	GetHttpClient() *http.Client
	GetReserveBalance(ctx context.Context, custodianID string) (*ReserveBalance, *types.Error)
}
