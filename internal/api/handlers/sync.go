package handlers

import (
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// SyncBacking godoc
// @Summary Sync a custodian's backing from the reserve oracle
// @Description Refreshes the attested backing. Syncs inside the rate-limit window are skipped; oracle outages degrade to cached data within the fallback window.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.SyncResult] "The sync outcome"
// @Failure 409 {object} ErrorResponse "Cached reserve data has expired"
// @Failure 502 {object} ErrorResponse "Oracle unavailable and degradation disabled"
// @Router /v1/custodians/{custodianID}/sync [post]
func (h *Handler) SyncBacking(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.SyncBacking(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

// VerifySolvency godoc
// @Summary Verify a custodian's solvency
// @Description Compares minted supply against attested backing. A deficit pauses the custodian's minting.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.SolvencyResult] "The solvency outcome"
// @Router /v1/custodians/{custodianID}/solvency [post]
func (h *Handler) VerifySolvency(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.VerifySolvency(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}
