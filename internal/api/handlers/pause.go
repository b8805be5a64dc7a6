package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

type PauseRequestPayload struct {
	Reason string `json:"reason"`
}

type SelfPauseRequestPayload struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// InitializePauseCredit godoc
// @Summary Grant a custodian its initial pause credit
// @Description One-time grant of the emergency pause entitlement. Fails once the custodian has ever held or used a credit.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The pause credit record"
// @Failure 409 {object} ErrorResponse "Credit already initialized"
// @Router /v1/custodians/{custodianID}/pause-credit [post]
func (h *Handler) InitializePauseCredit(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	credit, err := h.services.InitializePauseCredit(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// UseEmergencyPause godoc
// @Summary Consume the pause credit and halt the custodian
// @Description Pauses all of the custodian's operations for the configured duration. Refused when the pause would run past an outstanding redemption deadline.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body PauseRequestPayload true "Pause reason"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The pause credit record after consumption"
// @Failure 409 {object} ErrorResponse "No credit, or deadline breach"
// @Router /v1/custodians/{custodianID}/pause [post]
func (h *Handler) UseEmergencyPause(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &PauseRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	credit, err := h.services.UseEmergencyPause(request.Context(), caller(request), custodianID, payload.Reason)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// SelfPause godoc
// @Summary Custodian-initiated pause
// @Description Pauses minting only, or the whole custodian, without spending the emergency credit.
// @Accept json
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Param payload body SelfPauseRequestPayload true "Pause kind and reason"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The pause record"
// @Failure 409 {object} ErrorResponse "Custodian not active"
// @Router /v1/custodians/{custodianID}/self-pause [post]
func (h *Handler) SelfPause(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	payload := &SelfPauseRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	credit, err := h.services.SelfPause(request.Context(), caller(request), custodianID, payload.Kind, payload.Reason)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// ResumeIfExpired godoc
// @Summary Lift an expired pause
// @Description Reactivates the custodian once the pause window has passed. Callable by any authenticated caller.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The cleared pause record"
// @Failure 409 {object} ErrorResponse "Not paused, or window not expired"
// @Router /v1/custodians/{custodianID}/resume [post]
func (h *Handler) ResumeIfExpired(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	credit, err := h.services.ResumeIfExpired(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// ResumeEarly godoc
// @Summary End a pause before its window expires
// @Description Refused while the custodian carries outstanding redemption obligations.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The cleared pause record"
// @Failure 409 {object} ErrorResponse "Pending redemptions"
// @Router /v1/custodians/{custodianID}/resume-early [post]
func (h *Handler) ResumeEarly(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	credit, err := h.services.ResumeEarly(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// RenewPauseCredit godoc
// @Summary Renew a spent pause credit
// @Description Restores the credit once the renewal period since last use has elapsed. Credits never stack.
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The renewed credit record"
// @Failure 409 {object} ErrorResponse "Renewal period not met, or credit already available"
// @Router /v1/custodians/{custodianID}/pause-credit/renew [post]
func (h *Handler) RenewPauseCredit(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	credit, err := h.services.RenewPauseCredit(request.Context(), caller(request), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}

// GetPauseCredit godoc
// @Summary Get a custodian's pause credit record
// @Produce json
// @Param custodianID path string true "Custodian identifier"
// @Success 200 {object} PublicResponse[services.PauseCreditPublic] "The pause credit record"
// @Router /v1/custodians/{custodianID}/pause-credit [get]
func (h *Handler) GetPauseCredit(request *http.Request) (*Result, *types.Error) {
	custodianID, err := parseCustodianIDParam(request)
	if err != nil {
		return nil, err
	}
	credit, err := h.services.GetPauseCredit(request.Context(), custodianID)
	if err != nil {
		return nil, err
	}
	return NewResult(credit), nil
}
