package db

import (
	"context"
	"time"

	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// SyncStateUpdate describes the custodian fields touched by a backing sync.
// Nil fields are left untouched.
type SyncStateUpdate struct {
	Backing               *uint64
	OracleFailureDetected *bool
	CachedBalance         *uint64
	CachedAt              *time.Time
	LastSyncAt            *time.Time
}

type DBClient interface {
	Ping(ctx context.Context) error

	// Custodian ledger records
	SaveCustodian(ctx context.Context, doc *model.CustodianDocument) error
	FindCustodianByID(ctx context.Context, custodianID string) (*model.CustodianDocument, error)
	FindCustodians(ctx context.Context, paginationToken string) (*DbResultMap[model.CustodianDocument], error)
	TransitionCustodianStatus(
		ctx context.Context, custodianID string, newStatus types.CustodianStatus,
		eligiblePreviousStates []types.CustodianStatus, updatedAt time.Time,
	) error
	IncrementMinted(ctx context.Context, custodianID string, delta int64) error
	UpdateBacking(ctx context.Context, custodianID string, backing uint64) error
	UpdateMaxCapacity(ctx context.Context, custodianID string, maxCapacity uint64) error
	UpdateSyncState(ctx context.Context, custodianID string, update *SyncStateUpdate) error

	// Pause credits
	SavePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error
	FindPauseCreditByID(ctx context.Context, custodianID string) (*model.PauseCreditDocument, error)
	UpdatePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error

	// Redemptions and per-scope obligations
	SaveRedemption(ctx context.Context, doc *model.RedemptionDocument) error
	FindRedemptionByID(ctx context.Context, redemptionID string) (*model.RedemptionDocument, error)
	TransitionRedemptionStatus(
		ctx context.Context, redemptionID string, newStatus model.RedemptionStatus,
		eligiblePreviousStates []model.RedemptionStatus, fulfillmentTxHash string, resolvedAt time.Time,
	) error
	IncrementObligation(ctx context.Context, scopeKey string, amountSats uint64, deadline time.Time) error
	DecrementObligation(ctx context.Context, scopeKey string, amountSats uint64) error
	FindObligationByScope(ctx context.Context, scopeKey string) (*model.RedemptionObligationDocument, error)

	// Audit events
	SaveEvent(ctx context.Context, doc *model.EventDocument) error
	FindEventsByCustodian(ctx context.Context, custodianID string, paginationToken string) (*DbResultMap[model.EventDocument], error)
}
