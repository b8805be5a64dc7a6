package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpeg/custody-api-service/internal/types"
)

const validConfigYml = `
server:
  host: 0.0.0.0
  port: 8092
  write-timeout: 60s
  read-timeout: 60s
  idle-timeout: 60s
  allowed-origins: ["*"]
  btc-net: "mainnet"
  log-level: debug
  max-content-length: 4096
  health-check-interval: 300
db:
  address: "mongodb://localhost:27017"
  db-name: custody-api-service
  max-pagination-limit: 10
metrics:
  host: 0.0.0.0
  port: 2112
queue:
  enabled: false
oracle:
  base-url: "http://localhost:8199"
  timeout: 1000
token:
  base-url: "http://localhost:8299"
  timeout: 1000
auth:
  api-keys:
    - name: governance-ops
      key: gov-key-1
      roles: ["governance", "emergency"]
    - name: reserve-monitor
      key: mon-key-1
      roles: ["monitor", "oracle-attestor"]
engine:
  min-mint-sats: 1000
  max-mint-sats: 100000000
  max-batch-size: 100
  batch-budget: 50
  batch-item-cost: 10
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfigFromFile(t *testing.T) {
	cfg, err := New(writeConfigFile(t, validConfigYml))
	require.NoError(t, err)

	assert.Equal(t, 8092, cfg.Server.Port)
	assert.Equal(t, "mainnet", cfg.Server.BTCNet)
	require.NotNil(t, cfg.Server.BTCNetParam)
	assert.Equal(t, "custody-api-service", cfg.Db.DbName)
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, "http://localhost:8199", cfg.Oracle.BaseURL)

	// Engine durations not present in the file pick up their defaults.
	assert.Equal(t, 5*time.Minute, cfg.Engine.MinSyncInterval)
	assert.Equal(t, 48*time.Hour, cfg.Engine.FallbackTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Engine.PauseDuration)
	assert.Equal(t, 90*24*time.Hour, cfg.Engine.RenewalPeriod)
	assert.Equal(t, time.Hour, cfg.Engine.MinRedemptionBuffer)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	assert.Error(t, err)
}

func TestAuthConfigResolvesCaller(t *testing.T) {
	cfg, err := New(writeConfigFile(t, validConfigYml))
	require.NoError(t, err)

	caller := cfg.Auth.CallerForKey("gov-key-1")
	require.NotNil(t, caller)
	assert.Equal(t, "governance-ops", caller.ID)
	assert.True(t, caller.HasRole(types.RoleGovernance))
	assert.True(t, caller.HasRole(types.RoleEmergency))
	assert.False(t, caller.HasRole(types.RoleMinter))

	assert.Nil(t, cfg.Auth.CallerForKey("unknown-key"))
}

func TestAuthConfigValidation(t *testing.T) {
	base := func() AuthConfig {
		return AuthConfig{ApiKeys: []ApiKeyConfig{
			{Name: "ops", Key: "k1", Roles: []string{"governance"}},
		}}
	}

	cfg := AuthConfig{}
	assert.ErrorContains(t, cfg.Validate(), "missing auth api-keys")

	cfg = base()
	cfg.ApiKeys[0].Key = ""
	assert.ErrorContains(t, cfg.Validate(), "empty api key")

	cfg = base()
	cfg.ApiKeys[0].Roles = []string{"superuser"}
	assert.ErrorContains(t, cfg.Validate(), "unknown role")

	cfg = base()
	cfg.ApiKeys = append(cfg.ApiKeys, ApiKeyConfig{Name: "other", Key: "k1", Roles: []string{"monitor"}})
	assert.ErrorContains(t, cfg.Validate(), "duplicated api key")
}

func TestDbConfigValidation(t *testing.T) {
	cfg := DbConfig{
		Address:            "mongodb://localhost:27017",
		DbName:             "custody-api-service",
		MaxPaginationLimit: 10,
	}
	require.NoError(t, cfg.Validate())

	cfg.Address = "postgres://localhost:5432"
	assert.ErrorContains(t, cfg.Validate(), "unsupported db scheme")

	// The in-memory store needs no address at all.
	assert.NoError(t, (&DbConfig{InMemory: true}).Validate())
}

func TestEngineConfigValidation(t *testing.T) {
	base := func() EngineConfig {
		return EngineConfig{
			MinMintSats:   1000,
			MaxMintSats:   100_000_000,
			MaxBatchSize:  100,
			BatchBudget:   50,
			BatchItemCost: 10,
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.MinMintSats = 0
	assert.ErrorContains(t, cfg.Validate(), "min-mint-sats")

	cfg = base()
	cfg.MaxMintSats = 999
	assert.ErrorContains(t, cfg.Validate(), "max-mint-sats")

	cfg = base()
	cfg.BatchBudget = 5
	assert.ErrorContains(t, cfg.Validate(), "batch-budget")

	cfg = base()
	cfg.MinSyncInterval = -time.Minute
	assert.ErrorContains(t, cfg.Validate(), "cannot be negative")
}

func TestServerConfigValidation(t *testing.T) {
	base := func() ServerConfig {
		return ServerConfig{
			Host:                "127.0.0.1",
			Port:                8092,
			MaxContentLength:    4096,
			HealthCheckInterval: 300,
			BTCNet:              "signet",
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "signet", cfg.BTCNetParam.Name)

	cfg = base()
	cfg.Host = "not-an-ip"
	assert.ErrorContains(t, cfg.Validate(), "invalid host")

	cfg = base()
	cfg.BTCNet = "fakenet"
	assert.ErrorContains(t, cfg.Validate(), "invalid btc-net")
}
