package types

type Role string

const (
	RoleGovernance     Role = "governance"
	RoleRegistrar      Role = "registrar"
	RoleMonitor        Role = "monitor"
	RoleOracleAttestor Role = "oracle-attestor"
	RoleDisputeArbiter Role = "dispute-arbiter"
	RoleEmergency      Role = "emergency"
	RoleMinter         Role = "minter"
	RoleRedeemer       Role = "redeemer"
	RoleCustodian      Role = "custodian"
)

func (r Role) String() string {
	return string(r)
}

// Caller identifies the authenticated caller of a mutating operation
// along with the roles granted to its API key.
type Caller struct {
	ID    string
	Roles []Role
}

func (c *Caller) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *Caller) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}
