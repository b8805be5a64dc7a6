package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

type BatchRequestPayload struct {
	CustodianIDs []string `json:"custodian_ids"`
}

func parseBatchRequestPayload(request *http.Request) (*BatchRequestPayload, *types.Error) {
	payload := &BatchRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	return payload, nil
}

// BatchSyncBacking godoc
// @Summary Sync backing for a batch of custodians
// @Description Runs the backing sync across the list under the configured work budget. Stops early with partial completion when the budget runs out.
// @Accept json
// @Produce json
// @Param payload body BatchRequestPayload true "Custodian identifiers"
// @Success 200 {object} PublicResponse[services.BatchResult] "The batch outcome"
// @Failure 400 {object} ErrorResponse "Batch exceeds the maximum size"
// @Router /v1/batch/sync [post]
func (h *Handler) BatchSyncBacking(request *http.Request) (*Result, *types.Error) {
	payload, err := parseBatchRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.BatchSyncBacking(request.Context(), caller(request), payload.CustodianIDs)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

// BatchVerifySolvency godoc
// @Summary Verify solvency for a batch of custodians
// @Accept json
// @Produce json
// @Param payload body BatchRequestPayload true "Custodian identifiers"
// @Success 200 {object} PublicResponse[services.BatchResult] "The batch outcome"
// @Failure 400 {object} ErrorResponse "Batch exceeds the maximum size"
// @Router /v1/batch/solvency [post]
func (h *Handler) BatchVerifySolvency(request *http.Request) (*Result, *types.Error) {
	payload, err := parseBatchRequestPayload(request)
	if err != nil {
		return nil, err
	}
	result, err := h.services.BatchVerifySolvency(request.Context(), caller(request), payload.CustodianIDs)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}
