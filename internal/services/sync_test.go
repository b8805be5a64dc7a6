package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpeg/custody-api-service/internal/clients/oracle"
	"github.com/btcpeg/custody-api-service/internal/types"
)

func TestSyncBackingUpdatesLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)

	env.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: 20_000_000}
	env.advance(10 * time.Minute)

	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, uint64(20_000_000), result.BackingSats)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, uint64(20_000_000), custodian.Backing)
}

func TestSyncBackingRateLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)
	callsAfterSetup := env.oracle.calls

	// Inside the 5-minute window the sync is a silent no-op.
	env.advance(time.Minute)
	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, callsAfterSetup, env.oracle.calls)

	// Once the window passes the oracle is consulted again.
	env.advance(5 * time.Minute)
	result, err = env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, callsAfterSetup+1, env.oracle.calls)
}

func TestSyncBackingStaleData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)

	env.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: 99_000_000, IsStale: true}
	env.advance(10 * time.Minute)

	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.StaleData)
	// Stale data never updates the ledger.
	assert.Equal(t, uint64(10_000_000), result.BackingSats)

	// The active custodian was pushed into minting_paused.
	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "minting_paused", custodian.Status)
	assert.Equal(t, uint64(10_000_000), custodian.Backing)
}

func TestSyncBackingFallbackWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)

	env.oracle.down = true

	// Cached data is still fresh: graceful degradation serves it.
	env.advance(47 * time.Hour)
	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, uint64(10_000_000), result.BackingSats)

	// Past the 48-hour window the cached data is refused.
	env.advance(2 * time.Hour)
	_, err = env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.FallbackDataExpired, err.ErrorCode)
}

func TestSyncBackingDegradationDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)
	env.services.cfg.Engine.GracefulDegradation = false

	env.oracle.down = true
	env.advance(10 * time.Minute)

	_, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.OracleFailure, err.ErrorCode)
}

func TestSyncBackingRetryAfterOracleFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)
	env.services.cfg.Engine.GracefulDegradation = false

	env.oracle.down = true
	env.advance(10 * time.Minute)
	_, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.NotNil(t, err)
	assert.Equal(t, types.OracleFailure, err.ErrorCode)
	callsAfterFailure := env.oracle.calls

	// A failed sync does not start a new rate-limit window: once the oracle
	// is back, an immediate retry consults it again and updates the ledger.
	env.oracle.down = false
	env.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: 42_000_000}
	env.advance(time.Minute)
	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, callsAfterFailure+1, env.oracle.calls)
	assert.Equal(t, uint64(42_000_000), result.BackingSats)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, uint64(42_000_000), custodian.Backing)
	assert.False(t, custodian.OracleFailureDetected)
}

func TestSyncBackingRecovery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 10_000_000)

	env.oracle.down = true
	env.advance(10 * time.Minute)
	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.UsedFallback)

	env.oracle.down = false
	env.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: 12_000_000}
	env.advance(10 * time.Minute)
	result, err = env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, uint64(12_000_000), result.BackingSats)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.False(t, custodian.OracleFailureDetected)
}

func TestVerifySolvency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	result, err := env.services.VerifySolvency(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.Solvent)
	assert.Equal(t, uint64(0), result.DeficitSats)

	// Backing drops below minted supply.
	env.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: 4_000_000}
	env.advance(10 * time.Minute)
	_, err = env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)

	result, err = env.services.VerifySolvency(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.False(t, result.Solvent)
	assert.Equal(t, uint64(6_000_000), result.DeficitSats)

	// The deficit pauses minting automatically.
	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, "minting_paused", custodian.Status)
}
