package utils

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
)

func TestIsValidCustodianID(t *testing.T) {
	assert.True(t, IsValidCustodianID("0x1111111111111111111111111111111111111111"))
	assert.True(t, IsValidCustodianID("0xAbCdEf0123456789aBcDeF0123456789abcdef01"))

	assert.False(t, IsValidCustodianID(""))
	assert.False(t, IsValidCustodianID("1111111111111111111111111111111111111111"))
	assert.False(t, IsValidCustodianID("0x111111111111111111111111111111111111111"))   // too short
	assert.False(t, IsValidCustodianID("0x11111111111111111111111111111111111111111")) // too long
	assert.False(t, IsValidCustodianID("0xzz11111111111111111111111111111111111111"))
	// The zero identifier is reserved.
	assert.False(t, IsValidCustodianID("0x0000000000000000000000000000000000000000"))
}

func TestIsValidBtcAddress(t *testing.T) {
	// P2WPKH
	assert.NoError(t, IsValidBtcAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", &chaincfg.MainNetParams))
	// Taproot
	assert.NoError(t, IsValidBtcAddress("bc1p5d7rjq7g6rdk2yhzks9smlaqtedr4dekq08ge8ztwac72sfr9rusxg3297", &chaincfg.MainNetParams))

	// Legacy P2PKH is not accepted.
	assert.Error(t, IsValidBtcAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", &chaincfg.MainNetParams))
	// Wrong network.
	assert.Error(t, IsValidBtcAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", &chaincfg.SigNetParams))
	assert.Error(t, IsValidBtcAddress("garbage", &chaincfg.MainNetParams))
}

func TestIsValidTxHash(t *testing.T) {
	assert.True(t, IsValidTxHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"))
	assert.False(t, IsValidTxHash("xyz"))
	assert.False(t, IsValidTxHash(""))
}

func TestGetBtcNetParamsFromString(t *testing.T) {
	for _, net := range []string{"mainnet", "testnet3", "regtest", "signet"} {
		params, err := GetBtcNetParamsFromString(net)
		assert.NoError(t, err)
		assert.NotNil(t, params)
	}
	_, err := GetBtcNetParamsFromString("moonnet")
	assert.Error(t, err)
}
