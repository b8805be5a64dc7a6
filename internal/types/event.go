package types

type EventKind string

const (
	EventCustodianRegistered EventKind = "custodian_registered"
	EventStatusChanged       EventKind = "status_changed"
	EventCapacityIncreased   EventKind = "capacity_increased"
	EventBackingUpdated      EventKind = "backing_updated"
	EventMintExecuted        EventKind = "mint_executed"
	EventRedemptionExecuted  EventKind = "redemption_executed"
	EventSyncSucceeded       EventKind = "sync_succeeded"
	EventSyncStaleData       EventKind = "sync_stale_data"
	EventSyncFailed          EventKind = "sync_failed"
	EventFallbackUsed        EventKind = "fallback_used"
	EventOracleRecovered     EventKind = "oracle_recovered"
	EventBatchCompleted      EventKind = "batch_completed"
	EventSolvencyChecked     EventKind = "solvency_checked"
	EventPauseCreditGranted  EventKind = "pause_credit_granted"
	EventPauseCreditUsed     EventKind = "pause_credit_used"
	EventPauseCreditRenewed  EventKind = "pause_credit_renewed"
	EventPauseExpired        EventKind = "pause_expired"
	EventSelfPause           EventKind = "self_pause"
	EventEmergencyCleared    EventKind = "emergency_cleared"
	EventRedemptionCreated   EventKind = "redemption_created"
	EventRedemptionFulfilled EventKind = "redemption_fulfilled"
	EventRedemptionDefaulted EventKind = "redemption_defaulted"
)

func (k EventKind) String() string {
	return string(k)
}

// Event is the audit record emitted by every state-changing operation.
// Payload carries before/after values so off-chain monitors do not have to
// re-derive them from storage reads.
type Event struct {
	Kind      EventKind              `json:"kind"`
	Custodian string                 `json:"custodian,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
