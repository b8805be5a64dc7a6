package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpeg/custody-api-service/internal/types"
)

func TestMint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	// 10^17 fine units = 10,000,000 sats
	mint, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)
	assert.Equal(t, uint64(10_000_000), mint.AmountSats)
	assert.Equal(t, uint64(10_000_000), mint.MintedAfter)
	assert.Equal(t, 1, env.token.mints)

	custodian, err := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, err)
	assert.Equal(t, uint64(10_000_000), custodian.Minted)
}

func TestMintRejectsBadPrecision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	// Not a whole satoshi multiple; must be rejected, never truncated.
	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "123456789000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.BadPrecision, err.ErrorCode)
	assert.Equal(t, 0, env.token.mints)

	custodian, getErr := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(0), custodian.Minted)
}

func TestMintAmountBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 200_000_000)

	// Exactly the 1000-sat minimum is accepted.
	result, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "10000000000000")
	require.Nil(t, err)
	assert.Equal(t, uint64(1000), result.AmountSats)

	// One satoshi below the minimum.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "9990000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountTooSmall, err.ErrorCode)

	// 100 sats, well below the minimum.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "1000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountTooSmall, err.ErrorCode)

	// Exactly the 1-BTC per-transaction maximum is accepted.
	result, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "1000000000000000000")
	require.Nil(t, err)
	assert.Equal(t, uint64(100_000_000), result.AmountSats)

	// One satoshi above the maximum.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "1000000010000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountTooLarge, err.ErrorCode)

	// 2 BTC, well above the maximum.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "2000000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountTooLarge, err.ErrorCode)

	// Larger than any uint64 satoshi amount.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "999999999999999999999999999990000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountTooLarge, err.ErrorCode)

	// Zero and negative amounts.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "0")
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)

	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "-10000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)

	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "not-a-number")
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)
}

func TestMintSolvencyChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 15_000_000)

	// First mint nearly exhausts the backing.
	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	// Second mint of the same size would exceed backing.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.InsufficientBacking, err.ErrorCode)

	custodian, getErr := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(10_000_000), custodian.Minted)
}

func TestMintCapExceeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.RegisterCustodian(ctx, registrarCaller, testCustodianID, testBtcAddress, 5_000_000)
	require.Nil(t, err)
	_, err = env.services.ChangeStatus(ctx, governanceCaller, testCustodianID, "active")
	require.Nil(t, err)
	_, err = env.services.UpdateBacking(ctx, &types.Caller{ID: "oracle", Roles: []types.Role{types.RoleOracleAttestor}}, testCustodianID, 50_000_000, "")
	require.Nil(t, err)

	// Backing covers it but the cap does not.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.CapExceeded, err.ErrorCode)
}

func TestMintRequiresActiveCustodian(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.RegisterCustodian(ctx, registrarCaller, testCustodianID, testBtcAddress, 50_000_000)
	require.Nil(t, err)

	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.CustodianNotActive, err.ErrorCode)
}

func TestMintDeniedOnFallbackData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	// Oracle goes down; the sync degrades to cached data and flags the
	// failure. Minting must be denied while the flag is set.
	env.oracle.down = true
	env.advance(time.Hour)
	result, err := env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)
	assert.True(t, result.UsedFallback)

	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.MintingDeniedFallback, err.ErrorCode)

	// Oracle recovers; minting is allowed again.
	env.oracle.down = false
	env.advance(time.Hour)
	_, err = env.services.SyncBacking(ctx, monitorCaller, testCustodianID)
	require.Nil(t, err)

	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)
}

func TestMintCompensatesOnTokenFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	env.token.failNext = true
	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.TokenPrimitiveFailure, err.ErrorCode)

	// The provisional increment was rolled back.
	custodian, getErr := env.services.GetCustodian(ctx, testCustodianID)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(0), custodian.Minted)

	// Headroom is usable again.
	_, err = env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)
}

func TestNotifyRedemption(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	custodian, err := env.services.NotifyRedemption(ctx, redeemerCaller, testCustodianID, "40000000000000000")
	require.Nil(t, err)
	assert.Equal(t, uint64(6_000_000), custodian.Minted)

	// Cannot redeem more than is minted.
	_, err = env.services.NotifyRedemption(ctx, redeemerCaller, testCustodianID, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.AmountExceedsMinted, err.ErrorCode)
}

func TestMintRequiresMinterRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	_, err := env.services.Mint(ctx, governanceCaller, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.MissingRole, err.ErrorCode)

	_, err = env.services.Mint(ctx, nil, testCustodianID, testRecipient, "100000000000000000")
	require.NotNil(t, err)
	assert.Equal(t, types.Forbidden, err.ErrorCode)
}

func TestUpdateBackingAttestationSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)
	attestor := &types.Caller{ID: "oracle", Roles: []types.Role{types.RoleOracleAttestor}}

	// A well-formed 64-byte schnorr signature is accepted and recorded.
	sig := strings.Repeat("01", 64)
	custodian, err := env.services.UpdateBacking(ctx, attestor, testCustodianID, 60_000_000, sig)
	require.Nil(t, err)
	assert.Equal(t, uint64(60_000_000), custodian.Backing)

	_, err = env.services.UpdateBacking(ctx, attestor, testCustodianID, 60_000_000, "not-hex")
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)

	// Truncated signature.
	_, err = env.services.UpdateBacking(ctx, attestor, testCustodianID, 60_000_000, strings.Repeat("01", 32))
	require.NotNil(t, err)
	assert.Equal(t, types.BadRequest, err.ErrorCode)

	// Omitting the signature stays valid.
	_, err = env.services.UpdateBacking(ctx, attestor, testCustodianID, 55_000_000, "")
	require.Nil(t, err)
}
