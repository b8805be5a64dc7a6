package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFineToSats(t *testing.T) {
	// 10^17 fine units is exactly 10^7 sats.
	fine, err := ParseFineAmount("100000000000000000")
	require.NoError(t, err)
	sats, err := FineToSats(fine)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), sats)

	// One satoshi worth of fine units.
	sats, err = FineToSats(big.NewInt(10_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sats)
}

func TestFineToSatsRejectsPartialSatoshi(t *testing.T) {
	cases := []string{
		"123456789000000000", // 12345678.9 sats
		"1",
		"9999999999",
		"10000000001",
	}
	for _, c := range cases {
		fine, err := ParseFineAmount(c)
		require.NoError(t, err)
		_, err = FineToSats(fine)
		assert.ErrorIs(t, err, ErrBadPrecision, "case %s", c)
	}
}

func TestFineToSatsRejectsNonPositive(t *testing.T) {
	_, err := FineToSats(big.NewInt(0))
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = FineToSats(big.NewInt(-10_000_000_000))
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = FineToSats(nil)
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestFineToSatsOverflow(t *testing.T) {
	// (2^64) * 10^10 fine units does not fit a uint64 satoshi balance.
	overflow := new(big.Int).Lsh(big.NewInt(1), 64)
	overflow.Mul(overflow, big.NewInt(10_000_000_000))
	_, err := FineToSats(overflow)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	// Max uint64 sats is still fine.
	max := new(big.Int).SetUint64(^uint64(0))
	max.Mul(max, big.NewInt(10_000_000_000))
	sats, err := FineToSats(max)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), sats)
}

func TestSatsToFineRoundTrip(t *testing.T) {
	for _, sats := range []uint64{1, 1_000, 10_000_000, 2_100_000_000_000_000} {
		back, err := FineToSats(SatsToFine(sats))
		require.NoError(t, err)
		assert.Equal(t, sats, back)
	}
}

func TestParseFineAmount(t *testing.T) {
	_, err := ParseFineAmount("not-a-number")
	assert.Error(t, err)

	_, err = ParseFineAmount("")
	assert.Error(t, err)

	_, err = ParseFineAmount("1.5")
	assert.Error(t, err)

	v, err := ParseFineAmount("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v.Int64())
}
