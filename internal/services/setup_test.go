package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/btcpeg/custody-api-service/internal/clients"
	"github.com/btcpeg/custody-api-service/internal/clients/oracle"
	"github.com/btcpeg/custody-api-service/internal/clients/token"
	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/queue"
	"github.com/btcpeg/custody-api-service/internal/types"
)

const (
	testCustodianID = "0x1111111111111111111111111111111111111111"
	testBtcAddress  = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	testRecipient   = "0x2222222222222222222222222222222222222222"
	testWallet      = "0x3333333333333333333333333333333333333333"
)

var (
	governanceCaller = &types.Caller{ID: "gov", Roles: []types.Role{types.RoleGovernance}}
	registrarCaller  = &types.Caller{ID: "registrar", Roles: []types.Role{types.RoleRegistrar}}
	monitorCaller    = &types.Caller{ID: "monitor", Roles: []types.Role{types.RoleMonitor}}
	arbiterCaller    = &types.Caller{ID: "arbiter", Roles: []types.Role{types.RoleDisputeArbiter}}
	emergencyCaller  = &types.Caller{ID: "emergency", Roles: []types.Role{types.RoleEmergency}}
	minterCaller     = &types.Caller{ID: "minter", Roles: []types.Role{types.RoleMinter}}
	redeemerCaller   = &types.Caller{ID: "redeemer", Roles: []types.Role{types.RoleRedeemer}}
	custodianCaller  = &types.Caller{ID: "qc-operator", Roles: []types.Role{types.RoleCustodian}}
)

// fakeOracleClient serves scripted reserve balances per custodian and can be
// flipped into outage mode.
type fakeOracleClient struct {
	balances map[string]*oracle.ReserveBalance
	down     bool
	calls    int
}

func (f *fakeOracleClient) GetBaseURL() string            { return "fake-oracle" }
func (f *fakeOracleClient) GetDefaultRequestTimeout() int { return 1000 }
func (f *fakeOracleClient) GetHttpClient() *http.Client   { return nil }

func (f *fakeOracleClient) GetReserveBalance(ctx context.Context, custodianID string) (*oracle.ReserveBalance, *types.Error) {
	f.calls++
	if f.down {
		return nil, types.NewErrorWithMsg(http.StatusBadGateway, types.OracleFailure, "oracle unreachable")
	}
	balance, ok := f.balances[custodianID]
	if !ok {
		return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "no attestation")
	}
	return balance, nil
}

// fakeTokenClient records calls and can be set to fail the next operation.
type fakeTokenClient struct {
	failNext bool
	mints    int
	burns    int
}

func (f *fakeTokenClient) GetBaseURL() string            { return "fake-token" }
func (f *fakeTokenClient) GetDefaultRequestTimeout() int { return 1000 }
func (f *fakeTokenClient) GetHttpClient() *http.Client   { return nil }

func (f *fakeTokenClient) Mint(ctx context.Context, to, amountFine string) (*token.TxResult, *types.Error) {
	if f.failNext {
		f.failNext = false
		return nil, types.NewErrorWithMsg(http.StatusBadGateway, types.TokenPrimitiveFailure, "mint reverted")
	}
	f.mints++
	return &token.TxResult{TxHash: "0xmint"}, nil
}

func (f *fakeTokenClient) BurnFrom(ctx context.Context, from, amountFine string) (*token.TxResult, *types.Error) {
	if f.failNext {
		f.failNext = false
		return nil, types.NewErrorWithMsg(http.StatusBadGateway, types.TokenPrimitiveFailure, "burn reverted")
	}
	f.burns++
	return &token.TxResult{TxHash: "0xburn"}, nil
}

func (f *fakeTokenClient) BalanceOf(ctx context.Context, address string) (*token.Balance, *types.Error) {
	return &token.Balance{AmountFine: "0"}, nil
}

func (f *fakeTokenClient) TransferFrom(ctx context.Context, from, to, amountFine string) (*token.TxResult, *types.Error) {
	return &token.TxResult{TxHash: "0xtransfer"}, nil
}

type testEnv struct {
	services *Services
	oracle   *fakeOracleClient
	token    *fakeTokenClient
	clock    *time.Time
}

// advance moves the injected clock forward.
func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BTCNet:      "mainnet",
			BTCNetParam: &chaincfg.MainNetParams,
		},
		Engine: config.EngineConfig{
			MinMintSats:         1_000,
			MaxMintSats:         100_000_000,
			MinSyncInterval:     5 * time.Minute,
			FallbackTimeout:     48 * time.Hour,
			GracefulDegradation: true,
			MaxBatchSize:        100,
			BatchBudget:         50,
			BatchItemCost:       10,
			PauseDuration:       24 * time.Hour,
			RenewalPeriod:       90 * 24 * time.Hour,
			MinRedemptionBuffer: time.Hour,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	oracleClient := &fakeOracleClient{balances: make(map[string]*oracle.ReserveBalance)}
	tokenClient := &fakeTokenClient{}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := &Services{
		DbClient: db.NewInMemoryDatabase(),
		Clients: &clients.Clients{
			Oracle: oracleClient,
			Token:  tokenClient,
		},
		Publisher: &queue.EventPublisher{},
		cfg:       testConfig(),
		now:       func() time.Time { return clock },
	}

	return &testEnv{services: svc, oracle: oracleClient, token: tokenClient, clock: &clock}
}

// registerActiveCustodian registers a custodian, activates it and gives it
// attested backing through the oracle path.
func (e *testEnv) registerActiveCustodian(t *testing.T, backingSats uint64) {
	t.Helper()
	ctx := context.Background()

	_, err := e.services.RegisterCustodian(ctx, registrarCaller, testCustodianID, testBtcAddress, 10*backingSats)
	if err != nil {
		t.Fatalf("failed to register custodian: %v", err)
	}
	if _, err := e.services.ChangeStatus(ctx, governanceCaller, testCustodianID, "active"); err != nil {
		t.Fatalf("failed to activate custodian: %v", err)
	}
	e.oracle.balances[testCustodianID] = &oracle.ReserveBalance{BalanceSats: backingSats}
	if _, err := e.services.SyncBacking(ctx, monitorCaller, testCustodianID); err != nil {
		t.Fatalf("failed to sync backing: %v", err)
	}
}
