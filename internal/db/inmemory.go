package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

// InMemoryDatabase is a map-backed DBClient used by tests and local runs. It
// mirrors the mongo implementation's semantics, including its error types.
// All tables are owned by this one instance; a single mutex serializes access,
// matching the engine's sequential execution model.
type InMemoryDatabase struct {
	mu          sync.Mutex
	custodians  map[string]model.CustodianDocument
	credits     map[string]model.PauseCreditDocument
	redemptions map[string]model.RedemptionDocument
	obligations map[string]model.RedemptionObligationDocument
	events      []model.EventDocument
}

func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{
		custodians:  make(map[string]model.CustodianDocument),
		credits:     make(map[string]model.PauseCreditDocument),
		redemptions: make(map[string]model.RedemptionDocument),
		obligations: make(map[string]model.RedemptionObligationDocument),
	}
}

func (db *InMemoryDatabase) Ping(ctx context.Context) error {
	return nil
}

func (db *InMemoryDatabase) SaveCustodian(ctx context.Context, doc *model.CustodianDocument) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.custodians[doc.ID]; exists {
		return &DuplicateKeyError{Key: doc.ID, Message: "custodian already registered"}
	}
	db.custodians[doc.ID] = *doc
	return nil
}

func (db *InMemoryDatabase) FindCustodianByID(ctx context.Context, custodianID string) (*model.CustodianDocument, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return nil, &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	return &doc, nil
}

func (db *InMemoryDatabase) FindCustodians(ctx context.Context, paginationToken string) (*DbResultMap[model.CustodianDocument], error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	after := ""
	if paginationToken != "" {
		decoded, err := model.DecodePaginationToken[model.CustodianPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{Message: "invalid pagination token"}
		}
		after = decoded.ID
	}
	var out []model.CustodianDocument
	for id, doc := range db.custodians {
		if id > after {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &DbResultMap[model.CustodianDocument]{Data: out}, nil
}

func (db *InMemoryDatabase) TransitionCustodianStatus(
	ctx context.Context, custodianID string, newStatus types.CustodianStatus,
	eligiblePreviousStates []types.CustodianStatus, updatedAt time.Time,
) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	if !utils.Contains(eligiblePreviousStates, doc.Status) {
		return &NotEligibleError{Key: custodianID, Message: "custodian not in eligible state to transition"}
	}
	doc.Status = newStatus
	doc.StatusUpdatedAt = updatedAt
	db.custodians[custodianID] = doc
	return nil
}

func (db *InMemoryDatabase) IncrementMinted(ctx context.Context, custodianID string, delta int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	doc.Minted = uint64(int64(doc.Minted) + delta)
	db.custodians[custodianID] = doc
	return nil
}

func (db *InMemoryDatabase) UpdateBacking(ctx context.Context, custodianID string, backing uint64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	doc.Backing = backing
	db.custodians[custodianID] = doc
	return nil
}

func (db *InMemoryDatabase) UpdateMaxCapacity(ctx context.Context, custodianID string, maxCapacity uint64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	doc.MaxCapacity = maxCapacity
	db.custodians[custodianID] = doc
	return nil
}

func (db *InMemoryDatabase) UpdateSyncState(ctx context.Context, custodianID string, update *SyncStateUpdate) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.custodians[custodianID]
	if !exists {
		return &NotFoundError{Key: custodianID, Message: "custodian not found"}
	}
	if update.Backing != nil {
		doc.Backing = *update.Backing
	}
	if update.OracleFailureDetected != nil {
		doc.OracleFailureDetected = *update.OracleFailureDetected
	}
	if update.CachedBalance != nil {
		doc.LastKnownReserveBalance = *update.CachedBalance
	}
	if update.CachedAt != nil {
		doc.LastKnownBalanceCachedAt = *update.CachedAt
	}
	if update.LastSyncAt != nil {
		doc.LastSyncAt = *update.LastSyncAt
	}
	db.custodians[custodianID] = doc
	return nil
}

func (db *InMemoryDatabase) SavePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.credits[doc.ID]; exists {
		return &DuplicateKeyError{Key: doc.ID, Message: "pause credit record already exists"}
	}
	db.credits[doc.ID] = *doc
	return nil
}

func (db *InMemoryDatabase) FindPauseCreditByID(ctx context.Context, custodianID string) (*model.PauseCreditDocument, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.credits[custodianID]
	if !exists {
		return nil, &NotFoundError{Key: custodianID, Message: "pause credit record not found"}
	}
	return &doc, nil
}

func (db *InMemoryDatabase) UpdatePauseCredit(ctx context.Context, doc *model.PauseCreditDocument) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.credits[doc.ID]; !exists {
		return &NotFoundError{Key: doc.ID, Message: "pause credit record not found"}
	}
	db.credits[doc.ID] = *doc
	return nil
}

func (db *InMemoryDatabase) SaveRedemption(ctx context.Context, doc *model.RedemptionDocument) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.redemptions[doc.ID]; exists {
		return &DuplicateKeyError{Key: doc.ID, Message: "redemption already exists"}
	}
	db.redemptions[doc.ID] = *doc
	return nil
}

func (db *InMemoryDatabase) FindRedemptionByID(ctx context.Context, redemptionID string) (*model.RedemptionDocument, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.redemptions[redemptionID]
	if !exists {
		return nil, &NotFoundError{Key: redemptionID, Message: "redemption not found"}
	}
	return &doc, nil
}

func (db *InMemoryDatabase) TransitionRedemptionStatus(
	ctx context.Context, redemptionID string, newStatus model.RedemptionStatus,
	eligiblePreviousStates []model.RedemptionStatus, fulfillmentTxHash string, resolvedAt time.Time,
) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.redemptions[redemptionID]
	if !exists {
		return &NotFoundError{Key: redemptionID, Message: "redemption not found"}
	}
	if !utils.Contains(eligiblePreviousStates, doc.Status) {
		return &NotEligibleError{Key: redemptionID, Message: "redemption not in eligible state to transition"}
	}
	doc.Status = newStatus
	doc.ResolvedAt = resolvedAt
	if fulfillmentTxHash != "" {
		doc.FulfillmentTxHash = fulfillmentTxHash
	}
	db.redemptions[redemptionID] = doc
	return nil
}

func (db *InMemoryDatabase) IncrementObligation(ctx context.Context, scopeKey string, amountSats uint64, deadline time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.obligations[scopeKey]
	if !exists {
		doc = model.RedemptionObligationDocument{ID: scopeKey, EarliestDeadline: deadline}
	}
	doc.ActiveCount++
	doc.TotalAmountSats += amountSats
	if deadline.Before(doc.EarliestDeadline) {
		doc.EarliestDeadline = deadline
	}
	db.obligations[scopeKey] = doc
	return nil
}

func (db *InMemoryDatabase) DecrementObligation(ctx context.Context, scopeKey string, amountSats uint64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.obligations[scopeKey]
	if !exists || doc.ActiveCount == 0 {
		return &NotFoundError{Key: scopeKey, Message: "no active obligations for scope"}
	}
	doc.ActiveCount--
	doc.TotalAmountSats -= amountSats
	db.obligations[scopeKey] = doc
	return nil
}

func (db *InMemoryDatabase) FindObligationByScope(ctx context.Context, scopeKey string) (*model.RedemptionObligationDocument, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, exists := db.obligations[scopeKey]
	if !exists {
		return nil, &NotFoundError{Key: scopeKey, Message: "obligation record not found"}
	}
	return &doc, nil
}

func (db *InMemoryDatabase) SaveEvent(ctx context.Context, doc *model.EventDocument) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.events = append(db.events, *doc)
	return nil
}

func (db *InMemoryDatabase) FindEventsByCustodian(ctx context.Context, custodianID string, paginationToken string) (*DbResultMap[model.EventDocument], error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.EventDocument
	for _, e := range db.events {
		if e.Custodian == custodianID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return &DbResultMap[model.EventDocument]{Data: out}, nil
}
