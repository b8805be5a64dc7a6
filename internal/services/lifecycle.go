package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

// CustodianPublic is the API view of a custodian ledger record.
type CustodianPublic struct {
	ID                    string `json:"id"`
	BtcAddress            string `json:"btc_address"`
	Status                string `json:"status"`
	MaxCapacity           uint64 `json:"max_capacity"`
	Backing               uint64 `json:"backing"`
	Minted                uint64 `json:"minted"`
	OracleFailureDetected bool   `json:"oracle_failure_detected"`
	RegisteredAt          string `json:"registered_at"`
	StatusUpdatedAt       string `json:"status_updated_at"`
}

func fromCustodianDocument(d model.CustodianDocument) CustodianPublic {
	return CustodianPublic{
		ID:                    d.ID,
		BtcAddress:            d.BtcAddress,
		Status:                d.Status.ToString(),
		MaxCapacity:           d.MaxCapacity,
		Backing:               d.Backing,
		Minted:                d.Minted,
		OracleFailureDetected: d.OracleFailureDetected,
		RegisteredAt:          d.RegisteredAt.UTC().Format(time.RFC3339),
		StatusUpdatedAt:       d.StatusUpdatedAt.UTC().Format(time.RFC3339),
	}
}

// RegisterCustodian creates the ledger record and the empty pause-credit
// record for a new qualified custodian. Registration is idempotent-rejecting:
// a second call for the same identifier always fails, regardless of params.
func (s *Services) RegisterCustodian(
	ctx context.Context, caller *types.Caller, custodianID, btcAddress string, maxCapacity uint64,
) (*CustodianPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleRegistrar); err != nil {
		return nil, err
	}

	if !utils.IsValidCustodianID(custodianID) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidAddress, "invalid custodian identifier",
		)
	}
	if err := utils.IsValidBtcAddress(btcAddress, s.cfg.Server.BTCNetParam); err != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidAddress, "invalid custodian btc address",
		)
	}
	if maxCapacity == 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidCapacity, "minting capacity must be positive",
		)
	}

	now := s.now()
	doc := &model.CustodianDocument{
		ID:              custodianID,
		BtcAddress:      btcAddress,
		Status:          types.Registered,
		MaxCapacity:     maxCapacity,
		RegisteredAt:    now,
		StatusUpdatedAt: now,
	}
	if err := s.DbClient.SaveCustodian(ctx, doc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.AlreadyRegistered, "custodian already registered",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to save custodian")
		return nil, types.NewInternalServiceError(err)
	}

	credit := &model.PauseCreditDocument{ID: custodianID}
	if err := s.DbClient.SavePauseCredit(ctx, credit); err != nil && !db.IsDuplicateKeyError(err) {
		log.Ctx(ctx).Error().Err(err).Msg("failed to create pause credit record")
		return nil, types.NewInternalServiceError(err)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventCustodianRegistered,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"btc_address":  btcAddress,
			"max_capacity": maxCapacity,
		},
	})

	public := fromCustodianDocument(*doc)
	return &public, nil
}

// ChangeStatus moves a custodian through the lifecycle state machine. The
// governance path follows the adjacency table; the dispute-arbiter path may
// bypass it only for transitions into under_review or revoked. Both paths
// reject same-state transitions and any transition out of revoked.
func (s *Services) ChangeStatus(
	ctx context.Context, caller *types.Caller, custodianID string, newStatusStr string,
) (*CustodianPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleGovernance, types.RoleDisputeArbiter); err != nil {
		return nil, err
	}

	newStatus, parseErr := types.FromStringToCustodianStatus(newStatusStr)
	if parseErr != nil {
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, parseErr)
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}

	arbiterPath := caller.HasRole(types.RoleDisputeArbiter) && !caller.HasRole(types.RoleGovernance)
	allowed := utils.IsValidTransition(doc.Status, newStatus)
	if arbiterPath {
		allowed = utils.IsArbiterTransitionAllowed(doc.Status, newStatus)
	}
	if doc.Status == newStatus || !allowed {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.InvalidStatusTransition,
			"transition from "+doc.Status.ToString()+" to "+newStatus.ToString()+" is not allowed",
		)
	}

	now := s.now()
	if err := s.DbClient.TransitionCustodianStatus(
		ctx, custodianID, newStatus, []types.CustodianStatus{doc.Status}, now,
	); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to transition custodian status")
		return nil, types.NewInternalServiceError(err)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventStatusChanged,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"from":    doc.Status.ToString(),
			"to":      newStatus.ToString(),
			"arbiter": arbiterPath,
		},
	})

	doc.Status = newStatus
	doc.StatusUpdatedAt = now
	public := fromCustodianDocument(*doc)
	return &public, nil
}

// IncreaseMintCapacity raises the custodian's minting cap. Capacity is
// monotonic: it can only ever increase through this operation.
func (s *Services) IncreaseMintCapacity(
	ctx context.Context, caller *types.Caller, custodianID string, newCapacity uint64,
) (*CustodianPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleGovernance); err != nil {
		return nil, err
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}

	if newCapacity <= doc.MaxCapacity {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.CapMustIncrease, "new capacity must exceed current capacity",
		)
	}

	if err := s.DbClient.UpdateMaxCapacity(ctx, custodianID, newCapacity); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to update max capacity")
		return nil, types.NewInternalServiceError(err)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventCapacityIncreased,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"from": doc.MaxCapacity,
			"to":   newCapacity,
		},
	})

	doc.MaxCapacity = newCapacity
	public := fromCustodianDocument(*doc)
	return &public, nil
}

func (s *Services) GetCustodian(ctx context.Context, custodianID string) (*CustodianPublic, *types.Error) {
	doc, err := s.findCustodian(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	public := fromCustodianDocument(*doc)
	return &public, nil
}

func (s *Services) ListCustodians(ctx context.Context, pageToken string) ([]CustodianPublic, string, *types.Error) {
	resultMap, err := s.DbClient.FindCustodians(ctx, pageToken)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("Invalid pagination token when listing custodians")
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to list custodians")
		return nil, "", types.NewInternalServiceError(err)
	}
	var custodians []CustodianPublic
	for _, d := range resultMap.Data {
		custodians = append(custodians, fromCustodianDocument(d))
	}
	return custodians, resultMap.PaginationToken, nil
}

// findCustodian maps storage lookup failures onto the service error taxonomy.
func (s *Services) findCustodian(ctx context.Context, custodianID string) (*model.CustodianDocument, *types.Error) {
	doc, err := s.DbClient.FindCustodianByID(ctx, custodianID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotRegistered, "custodian not registered",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to find custodian")
		return nil, types.NewInternalServiceError(err)
	}
	return doc, nil
}
