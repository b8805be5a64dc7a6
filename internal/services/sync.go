package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/observability/metrics"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// SyncResult reports what a backing sync actually did. Skipped syncs count as
// success for batch accounting but change no state.
type SyncResult struct {
	Custodian    string `json:"custodian"`
	Skipped      bool   `json:"skipped"`
	UsedFallback bool   `json:"used_fallback"`
	StaleData    bool   `json:"stale_data"`
	BackingSats  uint64 `json:"backing_sats"`
}

// SolvencyResult is the outcome of a solvency verification.
type SolvencyResult struct {
	Custodian   string `json:"custodian"`
	Solvent     bool   `json:"solvent"`
	MintedSats  uint64 `json:"minted_sats"`
	BackingSats uint64 `json:"backing_sats"`
	DeficitSats uint64 `json:"deficit_sats"`
}

// SyncBacking refreshes a custodian's attested backing from the reserve
// oracle. Syncs inside the rate-limit window are silently skipped. Oracle
// outages degrade to the last cached balance for up to the fallback timeout
// when graceful degradation is enabled.
func (s *Services) SyncBacking(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*SyncResult, *types.Error) {
	if err := s.authorize(caller, types.RoleMonitor, types.RoleOracleAttestor); err != nil {
		return nil, err
	}
	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}
	return s.syncBackingInternal(ctx, caller, doc)
}

func (s *Services) syncBackingInternal(
	ctx context.Context, caller *types.Caller, doc *model.CustodianDocument,
) (*SyncResult, *types.Error) {
	now := s.now()
	if !doc.LastSyncAt.IsZero() && now.Before(doc.LastSyncAt.Add(s.cfg.Engine.MinSyncInterval)) {
		metrics.RecordSyncOutcome("skipped")
		return &SyncResult{Custodian: doc.ID, Skipped: true, BackingSats: doc.Backing}, nil
	}

	reserve, oracleErr := s.Clients.Oracle.GetReserveBalance(ctx, doc.ID)
	if oracleErr != nil {
		return s.handleOracleFailure(ctx, caller, doc, now)
	}

	if reserve.IsStale {
		// Stale attestations never update the ledger. An active custodian is
		// pushed into minting_paused until fresh data arrives.
		if derr := s.DbClient.TransitionCustodianStatus(
			ctx, doc.ID, types.MintingPaused, []types.CustodianStatus{types.Active}, now,
		); derr != nil && !db.IsNotEligibleError(derr) {
			log.Ctx(ctx).Error().Err(derr).Msg("failed to pause minting on stale oracle data")
			metrics.RecordSyncOutcome("error")
			return nil, types.NewInternalServiceError(derr)
		}
		if derr := s.DbClient.UpdateSyncState(ctx, doc.ID, &db.SyncStateUpdate{LastSyncAt: &now}); derr != nil {
			log.Ctx(ctx).Error().Err(derr).Msg("failed to record sync time")
			metrics.RecordSyncOutcome("error")
			return nil, types.NewInternalServiceError(derr)
		}
		s.emitEvent(ctx, &types.Event{
			Kind:      types.EventSyncStaleData,
			Custodian: doc.ID,
			Caller:    caller.ID,
			Payload: map[string]interface{}{
				"attested_at": reserve.AttestedAt,
			},
		})
		metrics.RecordSyncOutcome("stale")
		return &SyncResult{Custodian: doc.ID, StaleData: true, BackingSats: doc.Backing}, nil
	}

	wasFailed := doc.OracleFailureDetected
	failureCleared := false
	update := &db.SyncStateUpdate{
		Backing:               &reserve.BalanceSats,
		OracleFailureDetected: &failureCleared,
		CachedBalance:         &reserve.BalanceSats,
		CachedAt:              &now,
		LastSyncAt:            &now,
	}
	if err := s.DbClient.UpdateSyncState(ctx, doc.ID, update); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to persist synced backing")
		metrics.RecordSyncOutcome("error")
		return nil, types.NewInternalServiceError(err)
	}

	if wasFailed {
		s.emitEvent(ctx, &types.Event{
			Kind:      types.EventOracleRecovered,
			Custodian: doc.ID,
			Caller:    caller.ID,
		})
	}
	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventSyncSucceeded,
		Custodian: doc.ID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"backing_before": doc.Backing,
			"backing_after":  reserve.BalanceSats,
		},
	})
	metrics.RecordSyncOutcome("success")
	return &SyncResult{Custodian: doc.ID, BackingSats: reserve.BalanceSats}, nil
}

// handleOracleFailure applies the fallback policy: the failure flag is raised
// so mints are denied, and the sync either degrades to the cached balance or
// surfaces the outage depending on configuration and cache freshness.
func (s *Services) handleOracleFailure(
	ctx context.Context, caller *types.Caller, doc *model.CustodianDocument, now time.Time,
) (*SyncResult, *types.Error) {
	// Only the failure flag is persisted. The sync timestamp stays untouched
	// so a retry is never rate-limit-skipped while the oracle is down.
	failed := true
	if err := s.DbClient.UpdateSyncState(ctx, doc.ID, &db.SyncStateUpdate{
		OracleFailureDetected: &failed,
	}); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to record oracle failure")
		metrics.RecordSyncOutcome("error")
		return nil, types.NewInternalServiceError(err)
	}
	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventSyncFailed,
		Custodian: doc.ID,
		Caller:    caller.ID,
	})

	if !s.cfg.Engine.GracefulDegradation {
		metrics.RecordSyncOutcome("failed")
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.OracleFailure, "reserve oracle is unavailable",
		)
	}

	cacheFresh := !doc.LastKnownBalanceCachedAt.IsZero() &&
		now.Sub(doc.LastKnownBalanceCachedAt) <= s.cfg.Engine.FallbackTimeout
	if !cacheFresh {
		metrics.RecordSyncOutcome("fallback_expired")
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.FallbackDataExpired,
			"oracle unavailable and cached reserve data has expired",
		)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventFallbackUsed,
		Custodian: doc.ID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"cached_balance_sats": doc.LastKnownReserveBalance,
			"cached_at":           doc.LastKnownBalanceCachedAt.UTC().Format(time.RFC3339),
		},
	})
	metrics.RecordSyncOutcome("fallback")
	return &SyncResult{
		Custodian:    doc.ID,
		UsedFallback: true,
		BackingSats:  doc.LastKnownReserveBalance,
	}, nil
}

// VerifySolvency compares minted supply against attested backing. A deficit
// on an active custodian pauses its minting automatically.
func (s *Services) VerifySolvency(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*SolvencyResult, *types.Error) {
	if err := s.authorize(caller, types.RoleMonitor, types.RoleGovernance); err != nil {
		return nil, err
	}
	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}
	return s.verifySolvencyInternal(ctx, caller, doc)
}

func (s *Services) verifySolvencyInternal(
	ctx context.Context, caller *types.Caller, doc *model.CustodianDocument,
) (*SolvencyResult, *types.Error) {
	var deficit uint64
	if doc.Minted > doc.Backing {
		deficit = doc.Minted - doc.Backing
	}

	if deficit > 0 {
		if err := s.DbClient.TransitionCustodianStatus(
			ctx, doc.ID, types.MintingPaused, []types.CustodianStatus{types.Active}, s.now(),
		); err != nil && !db.IsNotEligibleError(err) {
			log.Ctx(ctx).Error().Err(err).Msg("failed to pause minting on solvency deficit")
			return nil, types.NewInternalServiceError(err)
		}
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventSolvencyChecked,
		Custodian: doc.ID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"solvent":      deficit == 0,
			"minted_sats":  doc.Minted,
			"backing_sats": doc.Backing,
			"deficit_sats": deficit,
		},
	})

	return &SolvencyResult{
		Custodian:   doc.ID,
		Solvent:     deficit == 0,
		MintedSats:  doc.Minted,
		BackingSats: doc.Backing,
		DeficitSats: deficit,
	}, nil
}
