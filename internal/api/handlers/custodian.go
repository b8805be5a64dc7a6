package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

type RegisterCustodianRequestPayload struct {
	CustodianID string `json:"custodian_id"`
	BtcAddress  string `json:"btc_address"`
	MaxCapacity uint64 `json:"max_capacity"`
}

// RegisterCustodian godoc
// @Summary Register a qualified custodian
// @Description Creates the ledger record and pause-credit record for a new custodian in the registered state.
// @Accept json
// @Produce json
// @Param payload body RegisterCustodianRequestPayload true "Registration Payload"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The registered custodian"
// @Failure 400 {object} ErrorResponse "Invalid identifier, address or capacity"
// @Failure 409 {object} ErrorResponse "Custodian already registered"
// @Router /v1/custodians [post]
func (h *Handler) RegisterCustodian(request *http.Request) (*Result, *types.Error) {
	payload := &RegisterCustodianRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	custodian, err := h.services.RegisterCustodian(
		request.Context(), caller(request), payload.CustodianID, payload.BtcAddress, payload.MaxCapacity,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}

type ChangeStatusRequestPayload struct {
	Status string `json:"status"`
}

// ChangeStatus godoc
// @Summary Change custodian lifecycle status
// @Description Moves the custodian through the lifecycle state machine. Dispute arbiters may bypass adjacency into under_review or revoked.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body ChangeStatusRequestPayload true "Target status"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The custodian after the transition"
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Router /v1/custodians/{custodianID}/status [put]
func (h *Handler) ChangeStatus(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &ChangeStatusRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	custodian, err := h.services.ChangeStatus(request.Context(), caller(request), custodianID, payload.Status)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}

type IncreaseCapacityRequestPayload struct {
	MaxCapacity uint64 `json:"max_capacity"`
}

// IncreaseMintCapacity godoc
// @Summary Increase custodian minting capacity
// @Description Raises the custodian's cap. Capacity can only ever increase.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body IncreaseCapacityRequestPayload true "New capacity in satoshis"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The custodian with the new cap"
// @Failure 409 {object} ErrorResponse "New capacity does not exceed the current cap"
// @Router /v1/custodians/{custodianID}/capacity [put]
func (h *Handler) IncreaseMintCapacity(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &IncreaseCapacityRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	custodian, err := h.services.IncreaseMintCapacity(request.Context(), caller(request), custodianID, payload.MaxCapacity)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}

// GetCustodian godoc
// @Summary Get a custodian
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The custodian"
// @Failure 404 {object} ErrorResponse "Custodian not registered"
// @Router /v1/custodians/{custodianID} [get]
func (h *Handler) GetCustodian(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	custodian, err := h.services.GetCustodian(request.Context(), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}

// ListCustodians godoc
// @Summary List custodians
// @Produce json
// @Param pagination_key query string false "Pagination key to fetch the next page"
// @Success 200 {object} PublicResponse[[]services.CustodianPublic] "List of custodians and pagination token"
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Router /v1/custodians [get]
func (h *Handler) ListCustodians(request *http.Request) (*Result, *types.Error) {
	paginationKey := request.URL.Query().Get("pagination_key")
	custodians, newPaginationKey, err := h.services.ListCustodians(request.Context(), paginationKey)
	if err != nil {
		return nil, err
	}
	return NewResultWithPagination(custodians, newPaginationKey), nil
}
