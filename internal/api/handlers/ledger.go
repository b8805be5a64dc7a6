package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

type MintRequestPayload struct {
	Recipient  string `json:"recipient"`
	AmountFine string `json:"amount_fine"`
}

// Mint godoc
// @Summary Mint tokens against a custodian's backing
// @Description Issues tokens to the recipient. The amount is a fine-unit decimal string and must be a whole satoshi multiple.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body MintRequestPayload true "Mint Payload"
// @Success 200 {object} PublicResponse[services.MintResult] "The executed mint"
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 409 {object} ErrorResponse "Insufficient backing, cap exceeded or custodian not active"
// @Failure 502 {object} ErrorResponse "Token primitive failure"
// @Router /v1/custodians/{custodianID}/mint [post]
func (h *Handler) Mint(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &MintRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.Recipient == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "recipient is required")
	}

	mint, err := h.services.Mint(request.Context(), caller(request), custodianID, payload.Recipient, payload.AmountFine)
	if err != nil {
		return nil, err
	}
	return NewResult(mint), nil
}

type RedemptionNoticeRequestPayload struct {
	AmountFine string `json:"amount_fine"`
}

// NotifyRedemption godoc
// @Summary Notify the ledger of burned tokens
// @Description Reduces the custodian's minted supply after tokens were burned out of circulation.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body RedemptionNoticeRequestPayload true "Redemption Notice Payload"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The custodian after the supply reduction"
// @Failure 409 {object} ErrorResponse "Amount exceeds minted supply"
// @Router /v1/custodians/{custodianID}/redemption-notice [post]
func (h *Handler) NotifyRedemption(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &RedemptionNoticeRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	custodian, err := h.services.NotifyRedemption(request.Context(), caller(request), custodianID, payload.AmountFine)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}

type UpdateBackingRequestPayload struct {
	BackingSats uint64 `json:"backing_sats"`
	// Schnorr signature over the attestation, hex encoded. Optional; when
	// present only the format is checked, verification happens off-chain.
	AttestationSig string `json:"attestation_sig,omitempty"`
}

// UpdateBacking godoc
// @Summary Record a pushed reserve attestation
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body UpdateBackingRequestPayload true "Attested backing in satoshis"
// @Success 200 {object} PublicResponse[services.CustodianPublic] "The custodian with the new backing"
// @Router /v1/custodians/{custodianID}/backing [put]
func (h *Handler) UpdateBacking(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &UpdateBackingRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	custodian, err := h.services.UpdateBacking(
		request.Context(), caller(request), custodianID, payload.BackingSats, payload.AttestationSig,
	)
	if err != nil {
		return nil, err
	}
	return NewResult(custodian), nil
}
