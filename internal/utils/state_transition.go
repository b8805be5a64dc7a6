package utils

import (
	"github.com/btcpeg/custody-api-service/internal/types"
)

// QualifiedStatesToActive returns the qualified existing states to transition to "active"
func QualifiedStatesToActive() []types.CustodianStatus {
	return []types.CustodianStatus{types.Registered, types.MintingPaused, types.Paused, types.UnderReview}
}

// QualifiedStatesToMintingPaused returns the qualified existing states to transition to "minting_paused"
func QualifiedStatesToMintingPaused() []types.CustodianStatus {
	return []types.CustodianStatus{types.Active}
}

// QualifiedStatesToPaused returns the qualified existing states to transition to "paused"
func QualifiedStatesToPaused() []types.CustodianStatus {
	return []types.CustodianStatus{types.Active}
}

// QualifiedStatesToUnderReview returns the qualified existing states to transition to "under_review".
// A custodian under review must have been paused first; the dispute-arbiter path
// may bypass this.
func QualifiedStatesToUnderReview() []types.CustodianStatus {
	return []types.CustodianStatus{types.MintingPaused, types.Paused}
}

// QualifiedStatesToRevoked returns the qualified existing states to transition to "revoked".
// Any state except revoked itself qualifies; revoked is terminal.
func QualifiedStatesToRevoked() []types.CustodianStatus {
	return []types.CustodianStatus{types.Registered, types.Active, types.MintingPaused, types.Paused, types.UnderReview}
}

// QualifiedPreviousStates returns the set of states allowed to transition into newStatus
// under the ordinary (non-arbiter) adjacency rules.
func QualifiedPreviousStates(newStatus types.CustodianStatus) []types.CustodianStatus {
	switch newStatus {
	case types.Active:
		return QualifiedStatesToActive()
	case types.MintingPaused:
		return QualifiedStatesToMintingPaused()
	case types.Paused:
		return QualifiedStatesToPaused()
	case types.UnderReview:
		return QualifiedStatesToUnderReview()
	case types.Revoked:
		return QualifiedStatesToRevoked()
	default:
		return nil
	}
}

// IsValidTransition reports whether the ordinary adjacency table permits from -> to.
func IsValidTransition(from, to types.CustodianStatus) bool {
	return Contains(QualifiedPreviousStates(to), from)
}

// ArbiterBypassTargets lists the terminal-adjacent states the dispute-arbiter may
// force a custodian into regardless of the adjacency table. Same-state transitions
// and transitions out of revoked are rejected even on this path.
var ArbiterBypassTargets = []types.CustodianStatus{types.UnderReview, types.Revoked}

// IsArbiterTransitionAllowed reports whether the dispute-arbiter path permits from -> to.
func IsArbiterTransitionAllowed(from, to types.CustodianStatus) bool {
	if from == to || from == types.Revoked {
		return false
	}
	if IsValidTransition(from, to) {
		return true
	}
	return Contains(ArbiterBypassTargets, to)
}
