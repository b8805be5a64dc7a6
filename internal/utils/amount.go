package utils

import (
	"errors"
	"math/big"
)

// One satoshi of accounting backing covers 10^10 fine token units: the token
// carries 18 decimals while Bitcoin carries 8.
var satoshiMultiplier = big.NewInt(10_000_000_000)

var (
	ErrBadPrecision      = errors.New("amount is not an exact multiple of the satoshi multiplier")
	ErrAmountOverflow    = errors.New("amount exceeds the representable satoshi range")
	ErrAmountNotPositive = errors.New("amount must be positive")
)

// FineToSats converts a fine token amount into satoshis. Any amount that is not
// an exact multiple of the conversion factor is rejected; nothing is truncated.
func FineToSats(fine *big.Int) (uint64, error) {
	if fine == nil || fine.Sign() <= 0 {
		return 0, ErrAmountNotPositive
	}
	quo, rem := new(big.Int).QuoRem(fine, satoshiMultiplier, new(big.Int))
	if rem.Sign() != 0 {
		return 0, ErrBadPrecision
	}
	if !quo.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return quo.Uint64(), nil
}

// SatsToFine converts satoshis back into fine token units.
func SatsToFine(sats uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(sats), satoshiMultiplier)
}

// ParseFineAmount parses a decimal string into a fine token amount.
func ParseFineAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("invalid decimal amount")
	}
	return v, nil
}
