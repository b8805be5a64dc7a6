package model

import (
	"fmt"
	"time"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionDefaulted RedemptionStatus = "defaulted"
)

func (s RedemptionStatus) ToString() string {
	return string(s)
}

// RedemptionDocument is one outstanding redemption request.
type RedemptionDocument struct {
	ID                string           `bson:"_id"` // uuid
	Wallet            string           `bson:"wallet"`
	Custodian         string           `bson:"custodian"`
	AmountSats        uint64           `bson:"amount_sats"`
	Deadline          time.Time        `bson:"deadline"`
	Status            RedemptionStatus `bson:"status"`
	CreatedAt         time.Time        `bson:"created_at"`
	ResolvedAt        time.Time        `bson:"resolved_at"`
	FulfillmentTxHash string           `bson:"fulfillment_tx_hash"`
}

// RedemptionObligationDocument aggregates outstanding redemptions per scope.
// The earliest deadline is only lowered on insertion; resolving a redemption
// does not recompute it, which keeps pause-safety checks conservative.
type RedemptionObligationDocument struct {
	ID               string    `bson:"_id"` // scope key, see WalletScopeKey / CustodianScopeKey
	ActiveCount      uint64    `bson:"active_count"`
	TotalAmountSats  uint64    `bson:"total_amount_sats"`
	EarliestDeadline time.Time `bson:"earliest_deadline"`
}

func WalletScopeKey(wallet string) string {
	return fmt.Sprintf("wallet:%s", wallet)
}

func CustodianScopeKey(custodianID string) string {
	return fmt.Sprintf("qc:%s", custodianID)
}
