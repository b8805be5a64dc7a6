package model

import (
	"time"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// PauseCreditDocument tracks the rate-limited emergency pause entitlement for
// one custodian. Zero timestamps mean "never".
type PauseCreditDocument struct {
	ID              string          `bson:"_id"` // custodian identifier
	HasCredit       bool            `bson:"has_credit"`
	LastUsed        time.Time       `bson:"last_used"`
	CreditRenewTime time.Time       `bson:"credit_renew_time"`
	IsPaused        bool            `bson:"is_paused"`
	PauseEndTime    time.Time       `bson:"pause_end_time"`
	PauseReasonHash string          `bson:"pause_reason_hash"`
	PauseKind       types.PauseKind `bson:"pause_kind"`
}
