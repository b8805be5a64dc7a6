package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/btcpeg/custody-api-service/internal/types"
	"github.com/btcpeg/custody-api-service/internal/utils"
)

type CreateRedemptionRequestPayload struct {
	Wallet      string `json:"wallet"`
	CustodianID string `json:"custodian_id"`
	AmountFine  string `json:"amount_fine"`
	Deadline    string `json:"deadline"` // RFC3339
}

// CreateRedemption godoc
// @Summary Open a redemption request
// @Description Burns the wallet's tokens and opens a tracked obligation for the custodian to release the Bitcoin by the deadline.
// @Accept json
// @Produce json
// @Param payload body CreateRedemptionRequestPayload true "Redemption Payload"
// @Success 200 {object} PublicResponse[services.RedemptionPublic] "The pending redemption"
// @Failure 409 {object} ErrorResponse "Amount exceeds minted supply"
// @Failure 502 {object} ErrorResponse "Token primitive failure"
// @Router /v1/redemptions [post]
func (h *Handler) CreateRedemption(request *http.Request) (*Result, *types.Error) {
	payload := &CreateRedemptionRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.Wallet == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "wallet is required")
	}
	if !utils.IsValidCustodianID(payload.CustodianID) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidAddress, "invalid custodian identifier",
		)
	}
	deadline, parseErr := time.Parse(time.RFC3339, payload.Deadline)
	if parseErr != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "deadline must be an RFC3339 timestamp",
		)
	}

	redemption, err := h.services.CreateRedemption(
		request.Context(), caller(request),
		payload.Wallet, payload.CustodianID, payload.AmountFine, deadline,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(redemption), nil
}

type FulfillRedemptionRequestPayload struct {
	BtcTxHash   string   `json:"btc_tx_hash"`
	MerkleProof []string `json:"merkle_proof"`
	MerkleRoot  string   `json:"merkle_root"`
	TxIndex     uint32   `json:"tx_index"`
}

// FulfillRedemption godoc
// @Summary Fulfill a pending redemption
// @Description Closes the redemption after verifying an SPV merkle proof that the Bitcoin payout transaction was included in a block.
// @Accept json
// @Produce json
// @Param redemptionID path string true "Redemption identifier"
// @Param payload body FulfillRedemptionRequestPayload true "SPV proof"
// @Success 200 {object} PublicResponse[services.RedemptionPublic] "The fulfilled redemption"
// @Failure 400 {object} ErrorResponse "SPV proof does not verify"
// @Failure 409 {object} ErrorResponse "Redemption is not pending"
// @Router /v1/redemptions/{redemptionID}/fulfill [post]
func (h *Handler) FulfillRedemption(request *http.Request) (*Result, *types.Error) {
	redemptionID := chi.URLParam(request, "redemptionID")
	payload := &FulfillRedemptionRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	redemption, err := h.services.FulfillRedemption(
		request.Context(), caller(request), redemptionID,
		payload.BtcTxHash, payload.MerkleProof, payload.MerkleRoot, payload.TxIndex,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(redemption), nil
}

// DefaultRedemption godoc
// @Summary Mark a pending redemption as defaulted
// @Produce json
// @Param redemptionID path string true "Redemption identifier"
// @Success 200 {object} PublicResponse[services.RedemptionPublic] "The defaulted redemption"
// @Failure 409 {object} ErrorResponse "Redemption is not pending"
// @Router /v1/redemptions/{redemptionID}/default [post]
func (h *Handler) DefaultRedemption(request *http.Request) (*Result, *types.Error) {
	redemptionID := chi.URLParam(request, "redemptionID")
	redemption, err := h.services.DefaultRedemption(request.Context(), caller(request), redemptionID)
	if err != nil {
		return nil, err
	}
	return NewResult(redemption), nil
}

// GetRedemption godoc
// @Summary Get a redemption
// @Produce json
// @Param redemptionID path string true "Redemption identifier"
// @Success 200 {object} PublicResponse[services.RedemptionPublic] "The redemption"
// @Failure 404 {object} ErrorResponse "Redemption not found"
// @Router /v1/redemptions/{redemptionID} [get]
func (h *Handler) GetRedemption(request *http.Request) (*Result, *types.Error) {
	redemptionID := chi.URLParam(request, "redemptionID")
	redemption, err := h.services.GetRedemption(request.Context(), redemptionID)
	if err != nil {
		return nil, err
	}
	return NewResult(redemption), nil
}

// GetCustodianObligations godoc
// @Summary Get a custodian's outstanding redemption obligations
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.ObligationPublic] "The obligation aggregate"
// @Router /v1/custodians/{custodianID}/obligations [get]
func (h *Handler) GetCustodianObligations(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	obligations, err := h.services.GetCustodianObligations(request.Context(), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(obligations), nil
}
