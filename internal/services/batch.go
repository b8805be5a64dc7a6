package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/observability/metrics"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// BatchResult summarizes a batch run. Processed + Skipped + Failed may be
// less than Total when the budget ran out partway through.
type BatchResult struct {
	Operation     string `json:"operation"`
	Total         int    `json:"total"`
	Processed     int    `json:"processed"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
	BudgetLimited bool   `json:"budget_limited"`
}

// batchItemFn runs the per-custodian operation. skipped reports a no-op that
// should not count as processed work.
type batchItemFn func(ctx context.Context, doc *model.CustodianDocument) (skipped bool, err *types.Error)

// BatchSyncBacking syncs reserve attestations for a whole list of custodians
// in a single call. One failing custodian never aborts the rest.
func (s *Services) BatchSyncBacking(
	ctx context.Context, caller *types.Caller, custodianIDs []string,
) (*BatchResult, *types.Error) {
	if err := s.authorize(caller, types.RoleMonitor, types.RoleOracleAttestor); err != nil {
		return nil, err
	}
	return s.runBatch(ctx, caller, "sync_backing", custodianIDs,
		func(ctx context.Context, doc *model.CustodianDocument) (bool, *types.Error) {
			result, err := s.syncBackingInternal(ctx, caller, doc)
			if err != nil {
				return false, err
			}
			return result.Skipped, nil
		})
}

// BatchVerifySolvency runs the solvency check across a list of custodians.
func (s *Services) BatchVerifySolvency(
	ctx context.Context, caller *types.Caller, custodianIDs []string,
) (*BatchResult, *types.Error) {
	if err := s.authorize(caller, types.RoleMonitor, types.RoleGovernance); err != nil {
		return nil, err
	}
	return s.runBatch(ctx, caller, "verify_solvency", custodianIDs,
		func(ctx context.Context, doc *model.CustodianDocument) (bool, *types.Error) {
			_, err := s.verifySolvencyInternal(ctx, caller, doc)
			return false, err
		})
}

// runBatch walks the list under a fixed work budget. Each attempted item
// consumes one budget unit; duplicates are deduplicated up front and consume
// nothing. When the remaining budget cannot cover another item the batch
// stops early and reports partial completion rather than failing outright.
func (s *Services) runBatch(
	ctx context.Context, caller *types.Caller, operation string, custodianIDs []string, fn batchItemFn,
) (*BatchResult, *types.Error) {
	if len(custodianIDs) > s.cfg.Engine.MaxBatchSize {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BatchTooLarge, "batch exceeds the maximum batch size",
		)
	}

	result := &BatchResult{Operation: operation, Total: len(custodianIDs)}
	remaining := s.cfg.Engine.BatchBudget
	itemCost := s.cfg.Engine.BatchItemCost
	seen := make(map[string]bool, len(custodianIDs))

	for _, id := range custodianIDs {
		if seen[id] {
			result.Skipped++
			continue
		}
		seen[id] = true

		if remaining < itemCost {
			result.BudgetLimited = true
			metrics.RecordBatchPartialCompletion()
			log.Ctx(ctx).Warn().
				Str("operation", operation).
				Int("processed", result.Processed).
				Int("total", result.Total).
				Msg("batch stopped early on exhausted budget")
			break
		}
		remaining -= itemCost

		doc, findErr := s.findCustodian(ctx, id)
		if findErr != nil {
			result.Failed++
			log.Ctx(ctx).Warn().
				Str("operation", operation).
				Str("custodian", id).
				Str("error_code", string(findErr.ErrorCode)).
				Msg("batch item failed")
			continue
		}
		skipped, itemErr := fn(ctx, doc)
		if itemErr != nil {
			result.Failed++
			log.Ctx(ctx).Warn().
				Str("operation", operation).
				Str("custodian", id).
				Str("error_code", string(itemErr.ErrorCode)).
				Msg("batch item failed")
			continue
		}
		if skipped {
			result.Skipped++
			continue
		}
		result.Processed++
	}

	s.emitEvent(ctx, &types.Event{
		Kind:   types.EventBatchCompleted,
		Caller: caller.ID,
		Payload: map[string]interface{}{
			"operation":      operation,
			"total":          result.Total,
			"processed":      result.Processed,
			"skipped":        result.Skipped,
			"failed":         result.Failed,
			"budget_limited": result.BudgetLimited,
		},
	})
	return result, nil
}
