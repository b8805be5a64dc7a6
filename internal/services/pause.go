package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// PauseCreditPublic is the API view of a custodian's pause entitlement.
type PauseCreditPublic struct {
	Custodian       string `json:"custodian"`
	HasCredit       bool   `json:"has_credit"`
	IsPaused        bool   `json:"is_paused"`
	PauseKind       string `json:"pause_kind,omitempty"`
	PauseEndTime    string `json:"pause_end_time,omitempty"`
	PauseReasonHash string `json:"pause_reason_hash,omitempty"`
	LastUsed        string `json:"last_used,omitempty"`
	CreditRenewTime string `json:"credit_renew_time,omitempty"`
}

func fromPauseCreditDocument(d model.PauseCreditDocument) PauseCreditPublic {
	p := PauseCreditPublic{
		Custodian: d.ID,
		HasCredit: d.HasCredit,
		IsPaused:  d.IsPaused,
		PauseKind: string(d.PauseKind),
	}
	if !d.PauseEndTime.IsZero() {
		p.PauseEndTime = d.PauseEndTime.UTC().Format(time.RFC3339)
	}
	if !d.LastUsed.IsZero() {
		p.LastUsed = d.LastUsed.UTC().Format(time.RFC3339)
	}
	if !d.CreditRenewTime.IsZero() {
		p.CreditRenewTime = d.CreditRenewTime.UTC().Format(time.RFC3339)
	}
	p.PauseReasonHash = d.PauseReasonHash
	return p
}

func hashPauseReason(reason string) string {
	sum := sha256.Sum256([]byte(reason))
	return hex.EncodeToString(sum[:])
}

// InitializePauseCredit grants a custodian its first emergency pause credit.
// It can only be done once per custodian, ever.
func (s *Services) InitializePauseCredit(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*PauseCreditPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleEmergency); err != nil {
		return nil, err
	}
	if _, findErr := s.findCustodian(ctx, custodianID); findErr != nil {
		return nil, findErr
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	if credit.HasCredit || !credit.LastUsed.IsZero() {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.AlreadyInitialized, "pause credit already initialized",
		)
	}

	credit.HasCredit = true
	if dbErr := s.DbClient.UpdatePauseCredit(ctx, credit); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to grant pause credit")
		return nil, types.NewInternalServiceError(dbErr)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventPauseCreditGranted,
		Custodian: custodianID,
		Caller:    caller.ID,
	})

	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

// UseEmergencyPause consumes the custodian's pause credit and halts all of
// its operations for the configured pause duration. The pause is refused when
// it would push past an outstanding redemption deadline.
func (s *Services) UseEmergencyPause(
	ctx context.Context, caller *types.Caller, custodianID, reason string,
) (*PauseCreditPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleEmergency); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ReasonRequired, "pause reason is required",
		)
	}
	if _, findErr := s.findCustodian(ctx, custodianID); findErr != nil {
		return nil, findErr
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	if !credit.HasCredit {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.NoCredit, "no pause credit available",
		)
	}

	now := s.now()
	pauseEnd := now.Add(s.cfg.Engine.PauseDuration)
	if deadlineErr := s.checkRedemptionDeadlines(ctx, custodianID, pauseEnd); deadlineErr != nil {
		return nil, deadlineErr
	}

	credit.HasCredit = false
	credit.LastUsed = now
	credit.CreditRenewTime = now.Add(s.cfg.Engine.RenewalPeriod)
	credit.IsPaused = true
	credit.PauseEndTime = pauseEnd
	credit.PauseReasonHash = hashPauseReason(reason)
	credit.PauseKind = types.PauseKindComplete
	if dbErr := s.DbClient.UpdatePauseCredit(ctx, credit); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to consume pause credit")
		return nil, types.NewInternalServiceError(dbErr)
	}

	if dbErr := s.DbClient.TransitionCustodianStatus(
		ctx, custodianID, types.Paused,
		[]types.CustodianStatus{types.Active, types.MintingPaused}, now,
	); dbErr != nil && !db.IsNotEligibleError(dbErr) {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to pause custodian")
		return nil, types.NewInternalServiceError(dbErr)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventPauseCreditUsed,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"pause_end_time": pauseEnd.UTC().Format(time.RFC3339),
			"reason_hash":    credit.PauseReasonHash,
		},
	})

	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

// SelfPause lets a custodian pause itself without spending an emergency
// credit. A minting pause only halts mints; a complete pause also takes the
// custodian out of redemption duty, so it runs the same deadline check as the
// emergency path.
func (s *Services) SelfPause(
	ctx context.Context, caller *types.Caller, custodianID, kindStr, reason string,
) (*PauseCreditPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleCustodian); err != nil {
		return nil, err
	}
	kind, parseErr := types.FromStringToPauseKind(kindStr)
	if parseErr != nil {
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, parseErr)
	}
	if reason == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ReasonRequired, "pause reason is required",
		)
	}

	doc, findErr := s.findCustodian(ctx, custodianID)
	if findErr != nil {
		return nil, findErr
	}
	if doc.Status != types.Active {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.NotActive, "custodian is not active",
		)
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pauseEnd := now.Add(s.cfg.Engine.PauseDuration)
	newStatus := types.MintingPaused
	if kind == types.PauseKindComplete {
		newStatus = types.Paused
		if deadlineErr := s.checkRedemptionDeadlines(ctx, custodianID, pauseEnd); deadlineErr != nil {
			return nil, deadlineErr
		}
	}

	credit.IsPaused = true
	credit.PauseEndTime = pauseEnd
	credit.PauseReasonHash = hashPauseReason(reason)
	credit.PauseKind = kind
	if dbErr := s.DbClient.UpdatePauseCredit(ctx, credit); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to record self pause")
		return nil, types.NewInternalServiceError(dbErr)
	}

	if dbErr := s.DbClient.TransitionCustodianStatus(
		ctx, custodianID, newStatus, []types.CustodianStatus{types.Active}, now,
	); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to transition custodian on self pause")
		return nil, types.NewInternalServiceError(dbErr)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventSelfPause,
		Custodian: custodianID,
		Caller:    caller.ID,
		Payload: map[string]interface{}{
			"kind":           string(kind),
			"pause_end_time": pauseEnd.UTC().Format(time.RFC3339),
			"reason_hash":    credit.PauseReasonHash,
		},
	})

	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

// ResumeIfExpired lifts a pause whose end time has passed. Anyone may call
// it; the clock is the authority, not the caller.
func (s *Services) ResumeIfExpired(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*PauseCreditPublic, *types.Error) {
	if caller == nil {
		return nil, types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "missing caller identity")
	}
	if _, findErr := s.findCustodian(ctx, custodianID); findErr != nil {
		return nil, findErr
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	if !credit.IsPaused {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.NotPaused, "custodian is not paused",
		)
	}
	now := s.now()
	if now.Before(credit.PauseEndTime) {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.PauseNotExpired, "pause window has not expired yet",
		)
	}

	return s.clearPause(ctx, caller, custodianID, credit, types.EventPauseExpired, now)
}

// ResumeEarly ends a pause before its window expires. Refused while the
// custodian still carries outstanding redemption obligations, since resuming
// early would otherwise let it dodge a deadline it paused through.
func (s *Services) ResumeEarly(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*PauseCreditPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleCustodian, types.RoleEmergency); err != nil {
		return nil, err
	}
	if _, findErr := s.findCustodian(ctx, custodianID); findErr != nil {
		return nil, findErr
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	if !credit.IsPaused {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.NotPaused, "custodian is not paused",
		)
	}

	obligation, obErr := s.DbClient.FindObligationByScope(ctx, model.CustodianScopeKey(custodianID))
	if obErr != nil && !db.IsNotFoundError(obErr) {
		log.Ctx(ctx).Error().Err(obErr).Msg("failed to look up redemption obligations")
		return nil, types.NewInternalServiceError(obErr)
	}
	if obligation != nil && obligation.ActiveCount > 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.HasPendingRedemptions,
			"cannot resume early with pending redemptions",
		)
	}

	return s.clearPause(ctx, caller, custodianID, credit, types.EventEmergencyCleared, s.now())
}

func (s *Services) clearPause(
	ctx context.Context, caller *types.Caller, custodianID string,
	credit *model.PauseCreditDocument, kind types.EventKind, now time.Time,
) (*PauseCreditPublic, *types.Error) {
	credit.IsPaused = false
	credit.PauseEndTime = time.Time{}
	credit.PauseReasonHash = ""
	credit.PauseKind = ""
	if dbErr := s.DbClient.UpdatePauseCredit(ctx, credit); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to clear pause")
		return nil, types.NewInternalServiceError(dbErr)
	}

	if dbErr := s.DbClient.TransitionCustodianStatus(
		ctx, custodianID, types.Active,
		[]types.CustodianStatus{types.Paused, types.MintingPaused}, now,
	); dbErr != nil && !db.IsNotEligibleError(dbErr) {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to reactivate custodian")
		return nil, types.NewInternalServiceError(dbErr)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      kind,
		Custodian: custodianID,
		Caller:    caller.ID,
	})

	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

// RenewPauseCredit restores a spent credit once the renewal period since the
// last use has fully elapsed. Credits never stack.
func (s *Services) RenewPauseCredit(
	ctx context.Context, caller *types.Caller, custodianID string,
) (*PauseCreditPublic, *types.Error) {
	if err := s.authorize(caller, types.RoleCustodian, types.RoleEmergency); err != nil {
		return nil, err
	}
	if _, findErr := s.findCustodian(ctx, custodianID); findErr != nil {
		return nil, findErr
	}
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	if credit.LastUsed.IsZero() {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.NeverUsedCredit, "credit has never been used",
		)
	}
	if credit.HasCredit {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.CreditAlreadyAvailable, "credit is already available",
		)
	}
	if s.now().Before(credit.LastUsed.Add(s.cfg.Engine.RenewalPeriod)) {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.RenewalPeriodNotMet, "renewal period has not elapsed",
		)
	}

	credit.HasCredit = true
	credit.CreditRenewTime = time.Time{}
	if dbErr := s.DbClient.UpdatePauseCredit(ctx, credit); dbErr != nil {
		log.Ctx(ctx).Error().Err(dbErr).Msg("failed to renew pause credit")
		return nil, types.NewInternalServiceError(dbErr)
	}

	s.emitEvent(ctx, &types.Event{
		Kind:      types.EventPauseCreditRenewed,
		Custodian: custodianID,
		Caller:    caller.ID,
	})

	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

func (s *Services) GetPauseCredit(ctx context.Context, custodianID string) (*PauseCreditPublic, *types.Error) {
	credit, err := s.findPauseCredit(ctx, custodianID)
	if err != nil {
		return nil, err
	}
	public := fromPauseCreditDocument(*credit)
	return &public, nil
}

// checkRedemptionDeadlines refuses a pause that would run past an outstanding
// redemption deadline minus the safety buffer.
func (s *Services) checkRedemptionDeadlines(
	ctx context.Context, custodianID string, pauseEnd time.Time,
) *types.Error {
	obligation, err := s.DbClient.FindObligationByScope(ctx, model.CustodianScopeKey(custodianID))
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to look up redemption obligations")
		return types.NewInternalServiceError(err)
	}
	if obligation.ActiveCount == 0 {
		return nil
	}
	if pauseEnd.Add(s.cfg.Engine.MinRedemptionBuffer).After(obligation.EarliestDeadline) {
		return types.NewErrorWithMsg(
			http.StatusConflict, types.WouldBreachRedemptionDeadline,
			"pause would run past an outstanding redemption deadline",
		)
	}
	return nil
}

func (s *Services) findPauseCredit(ctx context.Context, custodianID string) (*model.PauseCreditDocument, *types.Error) {
	credit, err := s.DbClient.FindPauseCreditByID(ctx, custodianID)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotRegistered, "custodian not registered",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to find pause credit")
		return nil, types.NewInternalServiceError(err)
	}
	return credit, nil
}
