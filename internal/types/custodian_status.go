package types

import "fmt"

type CustodianStatus string

const (
	Registered    CustodianStatus = "registered"
	Active        CustodianStatus = "active"
	MintingPaused CustodianStatus = "minting_paused"
	Paused        CustodianStatus = "paused"
	UnderReview   CustodianStatus = "under_review"
	Revoked       CustodianStatus = "revoked"
)

func (s CustodianStatus) ToString() string {
	return string(s)
}

func FromStringToCustodianStatus(s string) (CustodianStatus, error) {
	switch s {
	case "registered":
		return Registered, nil
	case "active":
		return Active, nil
	case "minting_paused":
		return MintingPaused, nil
	case "paused":
		return Paused, nil
	case "under_review":
		return UnderReview, nil
	case "revoked":
		return Revoked, nil
	default:
		return "", fmt.Errorf("invalid custodian status: %s", s)
	}
}

type PauseKind string

const (
	PauseKindMinting  PauseKind = "minting"
	PauseKindComplete PauseKind = "complete"
)

func FromStringToPauseKind(s string) (PauseKind, error) {
	switch s {
	case "minting":
		return PauseKindMinting, nil
	case "complete":
		return PauseKindComplete, nil
	default:
		return "", fmt.Errorf("invalid pause kind: %s", s)
	}
}
