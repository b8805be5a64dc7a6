package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpeg/custody-api-service/internal/types"
)

func setupPausableCustodian(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)
	_, err := env.services.InitializePauseCredit(ctx, emergencyCaller, testCustodianID)
	require.Nil(t, err)
}

func TestInitializePauseCreditOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	credit, err := env.services.InitializePauseCredit(ctx, emergencyCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, credit.HasCredit)

	_, err = env.services.InitializePauseCredit(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.AlreadyInitialized, err.ErrorCode)
}

func TestUseEmergencyPause(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	credit, err := env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "oracle dispute")
	require.Nil(t, err)
	assert.False(t, credit.HasCredit)
	assert.True(t, credit.IsPaused)
	assert.NotEmpty(t, credit.PauseReasonHash)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "paused", custodian.Status)

	// No credit left for a second pause.
	_, err = env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "again")
	require.NotNil(t, err)
	assert.Equal(t, types.NoCredit, err.ErrorCode)
}

func TestUseEmergencyPauseRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	_, err := env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "")
	require.NotNil(t, err)
	assert.Equal(t, types.ReasonRequired, err.ErrorCode)
}

func TestResumeIfExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	_, err := env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "incident")
	require.Nil(t, err)

	// Before the window passes the resume is refused.
	env.advance(23 * time.Hour)
	_, err = env.services.ResumeIfExpired(ctx, monitorCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.PauseNotExpired, err.ErrorCode)

	// After the window any caller can lift it.
	env.advance(2 * time.Hour)
	credit, err := env.services.ResumeIfExpired(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, credit.IsPaused)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "active", custodian.Status)

	// Resuming again fails: nothing is paused.
	_, err = env.services.ResumeIfExpired(ctx, monitorCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.NotPaused, err.ErrorCode)
}

func TestRenewPauseCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	// A never-used credit cannot be renewed.
	_, err := env.services.RenewPauseCredit(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.NeverUsedCredit, err.ErrorCode)

	_, err = env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "incident")
	require.Nil(t, err)

	// Too early.
	env.advance(30 * 24 * time.Hour)
	_, err = env.services.RenewPauseCredit(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.RenewalPeriodNotMet, err.ErrorCode)

	// After the renewal period the credit comes back.
	env.advance(61 * 24 * time.Hour)
	credit, err := env.services.RenewPauseCredit(ctx, emergencyCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, credit.HasCredit)

	// Credits never stack.
	_, err = env.services.RenewPauseCredit(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.CreditAlreadyAvailable, err.ErrorCode)
}

func TestRenewNeverUsedCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	// Registered but the credit was never granted nor used.
	_, err := env.services.RenewPauseCredit(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.NeverUsedCredit, err.ErrorCode)
}

func TestSelfPauseMintingOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	credit, err := env.services.SelfPause(ctx, custodianCaller, testCustodianID, "minting", "maintenance")
	require.Nil(t, err)
	assert.True(t, credit.IsPaused)
	assert.Equal(t, "minting", credit.PauseKind)
	// Self pause never consumes the emergency credit.
	assert.True(t, credit.HasCredit)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "minting_paused", custodian.Status)

	// Only an active custodian can self-pause.
	_, err = env.services.SelfPause(ctx, custodianCaller, testCustodianID, "complete", "again")
	require.NotNil(t, err)
	assert.Equal(t, types.NotActive, err.ErrorCode)
}

func TestSelfPauseComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	credit, err := env.services.SelfPause(ctx, custodianCaller, testCustodianID, "complete", "maintenance")
	require.Nil(t, err)
	assert.Equal(t, "complete", credit.PauseKind)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "paused", custodian.Status)
}

func TestPauseBlockedByRedemptionDeadline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	// Open a redemption due in 12 hours: well inside the 24-hour pause
	// window plus the safety buffer.
	deadline := env.services.now().Add(12 * time.Hour)
	_, err = env.services.CreateRedemption(ctx, redeemerCaller, testWallet, testCustodianID, "10000000000000000", deadline)
	require.Nil(t, err)

	_, err = env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "incident")
	require.NotNil(t, err)
	assert.Equal(t, types.WouldBreachRedemptionDeadline, err.ErrorCode)

	// A complete self pause is blocked the same way.
	_, err = env.services.SelfPause(ctx, custodianCaller, testCustodianID, "complete", "maintenance")
	require.NotNil(t, err)
	assert.Equal(t, types.WouldBreachRedemptionDeadline, err.ErrorCode)

	// A minting-only self pause does not affect redemption duty.
	_, err = env.services.SelfPause(ctx, custodianCaller, testCustodianID, "minting", "maintenance")
	require.Nil(t, err)
}

func TestResumeEarlyBlockedByObligations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupPausableCustodian(t, env)

	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	// Redemption due far enough out that pausing is allowed.
	deadline := env.services.now().Add(30 * 24 * time.Hour)
	redemption, err := env.services.CreateRedemption(ctx, redeemerCaller, testWallet, testCustodianID, "10000000000000000", deadline)
	require.Nil(t, err)

	_, err = env.services.UseEmergencyPause(ctx, emergencyCaller, testCustodianID, "incident")
	require.Nil(t, err)

	// Early resume refused while the redemption is outstanding.
	_, err = env.services.ResumeEarly(ctx, emergencyCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.HasPendingRedemptions, err.ErrorCode)

	// Once it defaults (terminal), the early resume goes through.
	_, err = env.services.DefaultRedemption(ctx, arbiterCaller, redemption.ID)
	require.Nil(t, err)

	credit, err := env.services.ResumeEarly(ctx, emergencyCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, credit.IsPaused)
}
