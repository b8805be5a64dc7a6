package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// Generic
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"
	Forbidden            ErrorCode = "FORBIDDEN"
	RequestTimeout       ErrorCode = "REQUEST_TIMEOUT"

	// Validation
	InvalidAddress  ErrorCode = "INVALID_ADDRESS"
	InvalidCapacity ErrorCode = "INVALID_CAPACITY"
	BadPrecision    ErrorCode = "BAD_PRECISION"
	AmountTooSmall  ErrorCode = "AMOUNT_TOO_SMALL"
	AmountTooLarge  ErrorCode = "AMOUNT_TOO_LARGE"
	ReasonRequired  ErrorCode = "REASON_REQUIRED"

	// Authorization
	MissingRole ErrorCode = "MISSING_ROLE"

	// Ledger / lifecycle invariants
	AlreadyRegistered       ErrorCode = "ALREADY_REGISTERED"
	NotRegistered           ErrorCode = "NOT_REGISTERED"
	InsufficientBacking     ErrorCode = "INSUFFICIENT_BACKING"
	CapExceeded             ErrorCode = "CAP_EXCEEDED"
	CapMustIncrease         ErrorCode = "CAP_MUST_INCREASE"
	AmountExceedsMinted     ErrorCode = "AMOUNT_EXCEEDS_MINTED"
	InvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	CustodianNotActive      ErrorCode = "CUSTODIAN_NOT_ACTIVE"
	MintingDeniedFallback   ErrorCode = "MINTING_DENIED_FALLBACK"
	BatchTooLarge           ErrorCode = "BATCH_TOO_LARGE"

	// Pause credit
	AlreadyInitialized            ErrorCode = "ALREADY_INITIALIZED"
	NoCredit                      ErrorCode = "NO_CREDIT"
	NotPaused                     ErrorCode = "NOT_PAUSED"
	NotActive                     ErrorCode = "NOT_ACTIVE"
	PauseNotExpired               ErrorCode = "PAUSE_NOT_EXPIRED"
	RenewalPeriodNotMet           ErrorCode = "RENEWAL_PERIOD_NOT_MET"
	CreditAlreadyAvailable        ErrorCode = "CREDIT_ALREADY_AVAILABLE"
	NeverUsedCredit               ErrorCode = "NEVER_USED_CREDIT"
	HasPendingRedemptions         ErrorCode = "HAS_PENDING_REDEMPTIONS"
	WouldBreachRedemptionDeadline ErrorCode = "WOULD_BREACH_REDEMPTION_DEADLINE"

	// Redemption tracker
	RedemptionNotPending ErrorCode = "REDEMPTION_NOT_PENDING"

	// External dependencies
	OracleFailure         ErrorCode = "ORACLE_FAILURE"
	FallbackDataExpired   ErrorCode = "FALLBACK_DATA_EXPIRED"
	SPVVerificationFailed ErrorCode = "SPV_VERIFICATION_FAILED"
	TokenPrimitiveFailure ErrorCode = "TOKEN_PRIMITIVE_FAILURE"
)

// Error represents an error with an HTTP status code and an application-specific error code.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}
