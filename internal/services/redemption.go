package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

// RedemptionPublic is the API view of a redemption request.
type RedemptionPublic struct {
	ID                string `json:"id"`
	Wallet            string `json:"wallet"`
	Custodian         string `json:"custodian"`
	AmountSats        uint64 `json:"amount_sats"`
	Deadline          string `json:"deadline"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
	ResolvedAt        string `json:"resolved_at,omitempty"`
	FulfillmentTxHash string `json:"fulfillment_tx_hash,omitempty"`
}

func fromRedemptionDocument(d model.RedemptionDocument) RedemptionPublic {
	p := RedemptionPublic{
		ID:                d.ID,
		Wallet:            d.Wallet,
		Custodian:         d.Custodian,
		AmountSats:        d.AmountSats,
		Deadline:          d.Deadline.UTC().Format(time.RFC3339),
		Status:            d.Status.ToString(),
		CreatedAt:         d.CreatedAt.UTC().Format(time.RFC3339),
		FulfillmentTxHash: d.FulfillmentTxHash,
	}
	if !d.ResolvedAt.IsZero() {
		p.ResolvedAt = d.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return p
}

// CreateRedemption burns the wallet's tokens and opens a tracked obligation
// for the custodian to release the underlying Bitcoin by the deadline. The
// minted supply is decremented before the burn call, mirroring the ordering
// used by Mint, and re-incremented if the burn fails.
func (s *Services) CreateRedemption(
	ctx context.Context, caller *types.Caller,
	wallet, custodianID, amountFine string, deadline time.Time,
) (*RedemptionPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleRedeemer); err != nil {
		return nil, err
	}

	sats, parseErr := parseMintAmount(amountFine)
	if parseErr != nil {
		return nil, parseErr
	}
	now := s.now()
	if !deadline.After(now) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "redemption deadline must be in the future",
		)
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}
	if sats > doc.Minted {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.AmountExceedsMinted,
			"redemption amount exceeds minted supply",
		)
	}

	if err := s.DbClient.IncrementMinted(ctx, custodianID, -int64(sats)); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to decrement minted balance")
		return nil, types.NewInternalServiceError(err)
	}

	if _, burnErr := s.Clients.Token.BurnFrom(ctx, wallet, utils.SatsToFine(sats).String()); burnErr != nil {
		if err := s.DbClient.IncrementMinted(ctx, custodianID, int64(sats)); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("custodian", custodianID).
				Uint64("amount_sats", sats).
				Msg("failed to restore minted balance after token burn failure")
		}
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.TokenPrimitiveFailure, "token burn failed",
		)
	}

	redemption := &model.RedemptionDocument{
		ID:         uuid.NewString(),
		Wallet:     wallet,
		Custodian:  custodianID,
		AmountSats: sats,
		Deadline:   deadline,
		Status:     model.RedemptionPending,
		CreatedAt:  now,
	}
	if err := s.DbClient.SaveRedemption(ctx, redemption); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to save redemption")
		return nil, types.NewInternalServiceError(err)
	}
	for _, scope := range []string{model.WalletScopeKey(wallet), model.CustodianScopeKey(custodianID)} {
		if err := s.DbClient.IncrementObligation(ctx, scope, sats, deadline); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("scope", scope).Msg("failed to increment obligation")
			return nil, types.NewInternalServiceError(err)
		}
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventRedemptionCreated,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"redemption_id": redemption.ID,
			"wallet":        wallet,
			"amount_sats":   sats,
			"deadline":      deadline.UTC().Format(time.RFC3339),
		},
	})

	public := fromRedemptionDocument(*redemption)
	return &public, nil
}

// FulfillRedemption closes a pending redemption after the custodian proves
// the Bitcoin payout with an SPV merkle proof of transaction inclusion.
func (s *Services) FulfillRedemption(
	ctx context.Context, caller *types.Caller, redemptionID, btcTxHash string,
	merkleProof []string, merkleRoot string, txIndex uint32,
) (*RedemptionPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleCustodian, types.RoleMonitor); err != nil {
		return nil, err
	}
	if !utils.IsValidTxHash(btcTxHash) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid btc transaction hash",
		)
	}
	if spvErr := utils.VerifySPVProof(btcTxHash, merkleProof, merkleRoot, txIndex); spvErr != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.SPVVerificationFailed,
			"spv proof does not verify against the supplied merkle root",
		)
	}

	return s.resolveRedemption(
		ctx, caller, redemptionID, model.RedemptionFulfilled, btcTxHash, types.EventRedemptionFulfilled,
	)
}

// DefaultRedemption marks a pending redemption as defaulted. Reserved to the
// dispute arbiter; typically followed by an arbiter status bypass into
// under_review or revoked for the custodian.
func (s *Services) DefaultRedemption(
	ctx context.Context, caller *types.Caller, redemptionID string,
) (*RedemptionPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleDisputeArbiter); err != nil {
		return nil, err
	}
	return s.resolveRedemption(
		ctx, caller, redemptionID, model.RedemptionDefaulted, "", types.EventRedemptionDefaulted,
	)
}

// resolveRedemption moves a redemption out of pending exactly once and
// releases its obligation counters. A second resolution attempt fails on the
// eligible-state filter, which keeps the counters from double-decrementing.
func (s *Services) resolveRedemption(
	ctx context.Context, caller *types.Caller, redemptionID string,
	newStatus model.RedemptionStatus, txHash string, eventKind types.EventKind,
) (*RedemptionPublic, *types.Error) {
	redemption, findErr := s.findRedemption(ctx, redemptionID)
	if findErr != nil {
		return nil, findErr
	}

	now := s.now()
	if err := s.DbClient.TransitionRedemptionStatus(
		ctx, redemptionID, newStatus,
		[]model.RedemptionStatus{model.RedemptionPending}, txHash, now,
	); err != nil {
		if db.IsNotEligibleError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.RedemptionNotPending, "redemption is not pending",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to transition redemption status")
		return nil, types.NewInternalServiceError(err)
	}

	for _, scope := range []string{
		model.WalletScopeKey(redemption.Wallet),
		model.CustodianScopeKey(redemption.Custodian),
	} {
		if err := s.DbClient.DecrementObligation(ctx, scope, redemption.AmountSats); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("scope", scope).Msg("failed to decrement obligation")
			return nil, types.NewInternalServiceError(err)
		}
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      eventKind,
		Custodian: redemption.Custodian,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"redemption_id": redemptionID,
			"wallet":        redemption.Wallet,
			"amount_sats":   redemption.AmountSats,
			"tx_hash":       txHash,
		},
	})

	redemption.Status = newStatus
	redemption.ResolvedAt = now
	redemption.FulfillmentTxHash = txHash
	public := fromRedemptionDocument(*redemption)
	return &public, nil
}

func (s *Services) GetRedemption(ctx context.Context, redemptionID string) (*RedemptionPublic, *types.Error) {
	redemption, err := s.findRedemption(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	public := fromRedemptionDocument(*redemption)
	return &public, nil
}

// ObligationPublic summarizes outstanding redemptions for one scope.
type ObligationPublic struct {
	Scope            string `json:"scope"`
	ActiveCount      uint64 `json:"active_count"`
	TotalAmountSats  uint64 `json:"total_amount_sats"`
	EarliestDeadline string `json:"earliest_deadline,omitempty"`
}

// GetCustodianObligations reports the custodian-scope obligation aggregate.
// A custodian with no redemption history reports zeroes rather than an error.
func (s *Services) GetCustodianObligations(ctx context.Context, custodianID string) (*ObligationPublic, *types.Error) {
	scope := model.CustodianScopeKey(custodianID)
	obligation, err := s.DbClient.FindObligationByScope(ctx, scope)
	if err != nil {
		if db.IsNotFoundError(err) {
			return &ObligationPublic{Scope: scope}, nil
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to look up obligations")
		return nil, types.NewInternalServiceError(err)
	}
	public := &ObligationPublic{
		Scope:           scope,
		ActiveCount:     obligation.ActiveCount,
		TotalAmountSats: obligation.TotalAmountSats,
	}
	if obligation.ActiveCount > 0 && !obligation.EarliestDeadline.IsZero() {
		public.EarliestDeadline = obligation.EarliestDeadline.UTC().Format(time.RFC3339)
	}
	return public, nil
}

func (s *Services) findRedemption(ctx context.Context, redemptionID string) (*model.RedemptionDocument, *types.Error) {
	redemption, err := s.DbClient.FindRedemptionByID(ctx, redemptionID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound, "redemption not found",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to find redemption")
		return nil, types.NewInternalServiceError(err)
	}
	return redemption, nil
}
