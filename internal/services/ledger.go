package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/observability/metrics"
	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

// MintResult is returned to the minter after a successful mint.
type MintResult struct {
	Custodian   string `json:"custodian"`
	Recipient   string `json:"recipient"`
	AmountSats  uint64 `json:"amount_sats"`
	AmountFine  string `json:"amount_fine"`
	MintedAfter uint64 `json:"minted_after"`
	TxHash      string `json:"tx_hash"`
}

// parseMintAmount converts a fine-unit decimal string into satoshis. Amounts
// that are not a whole multiple of the satoshi granularity are rejected, never
// truncated.
func parseMintAmount(amountFine string) (uint64, *types.Error) {
	fine, err := utils.ParseFineAmount(amountFine)
	if err != nil {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid fine amount: "+amountFine,
		)
	}
	sats, err := utils.FineToSats(fine)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrBadPrecision):
			return 0, types.NewErrorWithMsg(
				http.StatusBadRequest, types.BadPrecision,
				"amount is not a whole satoshi multiple",
			)
		case errors.Is(err, utils.ErrAmountOverflow):
			return 0, types.NewErrorWithMsg(
				http.StatusBadRequest, types.AmountTooLarge, "amount exceeds representable range",
			)
		default:
			return 0, types.NewErrorWithMsg(
				http.StatusBadRequest, types.BadRequest, "amount must be positive",
			)
		}
	}
	return sats, nil
}

// Mint issues tokens against a custodian's attested backing. The ledger is
// incremented before the token primitive is invoked so a reentrant read can
// never observe headroom that is already spoken for; the increment is
// compensated if the external mint fails.
func (s *Services) Mint(
	ctx context.Context, caller *types.Caller, custodianID, recipient, amountFine string,
) (*MintResult, *types.Error) {
	if err := s.authorize(caller, types.RoleMinter); err != nil {
		return nil, err
	}

	sats, parseErr := parseMintAmount(amountFine)
	if parseErr != nil {
		metrics.RecordMintOutcome("rejected")
		return nil, parseErr
	}
	if sats < s.cfg.Engine.MinMintSats {
		metrics.RecordMintOutcome("rejected")
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.AmountTooSmall, "amount below minimum mint size",
		)
	}
	if sats > s.cfg.Engine.MaxMintSats {
		metrics.RecordMintOutcome("rejected")
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.AmountTooLarge, "amount above maximum mint size",
		)
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		metrics.RecordMintOutcome("rejected")
		return nil, findErr
	}
	if doc.Status != types.Active {
		metrics.RecordMintOutcome("rejected")
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.CustodianNotActive, "custodian is not active",
		)
	}
	if doc.OracleFailureDetected {
		metrics.RecordMintOutcome("denied_fallback")
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.MintingDeniedFallback,
			"minting is denied while operating on fallback reserve data",
		)
	}
	if doc.Minted+sats > doc.Backing {
		metrics.RecordMintOutcome("rejected")
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.InsufficientBacking,
			"mint would exceed attested backing",
		)
	}
	if doc.Minted+sats > doc.MaxCapacity {
		metrics.RecordMintOutcome("rejected")
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.CapExceeded, "mint would exceed the custodian cap",
		)
	}

	if err := s.DbClient.IncrementMinted(ctx, custodianID, int64(sats)); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to increment minted balance")
		metrics.RecordMintOutcome("error")
		return nil, types.NewInternalServiceError(err)
	}

	txResult, mintErr := s.Clients.Token.Mint(ctx, recipient, utils.SatsToFine(sats).String())
	if mintErr != nil {
		// Compensating decrement. If this also fails the ledger over-counts
		// minted supply, which fails safe for solvency.
		if err := s.DbClient.IncrementMinted(ctx, custodianID, -int64(sats)); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("custodian", custodianID).
				Uint64("amount_sats", sats).
				Msg("failed to compensate minted balance after token mint failure")
		}
		metrics.RecordMintOutcome("error")
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.TokenPrimitiveFailure, "token mint failed",
		)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventMintExecuted,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"recipient":     recipient,
			"amount_sats":   sats,
			"minted_before": doc.Minted,
			"minted_after":  doc.Minted + sats,
			"tx_hash":       txResult.TxHash,
		},
	})
	metrics.RecordMintOutcome("success")

	return &MintResult{
		Custodian:   custodianID,
		Recipient:   recipient,
		AmountSats:  sats,
		AmountFine:  utils.SatsToFine(sats).String(),
		MintedAfter: doc.Minted + sats,
		TxHash:      txResult.TxHash,
	}, nil
}

// NotifyRedemption reduces the custodian's minted supply after tokens have
// already been burned out of circulation elsewhere. The freed headroom becomes
// available to subsequent mints immediately.
func (s *Services) NotifyRedemption(
	ctx context.Context, caller *types.Caller, custodianID string, amountFine string,
) (*CustodianPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleRedeemer); err != nil {
		return nil, err
	}

	sats, parseErr := parseMintAmount(amountFine)
	if parseErr != nil {
		return nil, parseErr
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

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventRedemptionExecuted,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"amount_sats":   sats,
			"minted_before": doc.Minted,
			"minted_after":  doc.Minted - sats,
		},
	})

	doc.Minted -= sats
	public := fromCustodianDocument(*doc)
	return &public, nil
}

// UpdateBacking records a fresh attestation of the custodian's reserves
// pushed by the oracle attestor, outside the pull-based sync cycle.
func (s *Services) UpdateBacking(
	ctx context.Context, caller *types.Caller, custodianID string, backingSats uint64,
	attestationSig string,
) (*CustodianPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleOracleAttestor); err != nil {
		return nil, err
	}

	if attestationSig != "" && !utils.IsValidSignatureFormat(attestationSig) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid attestation signature format",
		)
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}

	if err := s.DbClient.UpdateBacking(ctx, custodianID, backingSats); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to update backing")
		return nil, types.NewInternalServiceError(err)
	}

	payload := map[string]interface{}{
		"from": doc.Backing,
		"to":   backingSats,
	}
	if attestationSig != "" {
		payload["attestation_sig"] = attestationSig
	}
	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventBackingUpdated,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload:   payload,
	})

	doc.Backing = backingSats
	public := fromCustodianDocument(*doc)
	return &public, nil
}
