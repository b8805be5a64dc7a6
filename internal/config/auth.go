package config

import (
	"fmt"

	"github.com/btcpeg/custody-api-service/internal/types"
)

// ApiKeyConfig binds one API key to a caller name and its granted roles.
type ApiKeyConfig struct {
	Name  string   `mapstructure:"name"`
	Key   string   `mapstructure:"key"`
	Roles []string `mapstructure:"roles"`
}

// AuthConfig is the static API-key registry gating every mutating operation.
type AuthConfig struct {
	ApiKeys []ApiKeyConfig `mapstructure:"api-keys"`
}

var knownRoles = map[string]struct{}{
	types.RoleGovernance.String():     {},
	types.RoleRegistrar.String():      {},
	types.RoleMonitor.String():        {},
	types.RoleOracleAttestor.String(): {},
	types.RoleDisputeArbiter.String(): {},
	types.RoleEmergency.String():      {},
	types.RoleMinter.String():         {},
	types.RoleRedeemer.String():       {},
	types.RoleCustodian.String():      {},
}

func (cfg *AuthConfig) Validate() error {
	if len(cfg.ApiKeys) == 0 {
		return fmt.Errorf("missing auth api-keys")
	}

	seen := make(map[string]struct{})
	for _, k := range cfg.ApiKeys {
		if k.Key == "" {
			return fmt.Errorf("empty api key for caller %q", k.Name)
		}
		if k.Name == "" {
			return fmt.Errorf("missing caller name for an api key")
		}
		if _, dup := seen[k.Key]; dup {
			return fmt.Errorf("duplicated api key for caller %q", k.Name)
		}
		seen[k.Key] = struct{}{}
		if len(k.Roles) == 0 {
			return fmt.Errorf("api key for caller %q has no roles", k.Name)
		}
		for _, r := range k.Roles {
			if _, ok := knownRoles[r]; !ok {
				return fmt.Errorf("unknown role %q for caller %q", r, k.Name)
			}
		}
	}
	return nil
}

// CallerForKey resolves an API key into the caller identity, or nil when unknown.
func (cfg *AuthConfig) CallerForKey(key string) *types.Caller {
	for _, k := range cfg.ApiKeys {
		if k.Key == key {
			roles := make([]types.Role, 0, len(k.Roles))
			for _, r := range k.Roles {
				roles = append(roles, types.Role(r))
			}
			return &types.Caller{ID: k.Name, Roles: roles}
		}
	}
	return nil
}
