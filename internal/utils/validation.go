package utils

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var custodianIDRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidCustodianID checks that the custodian identifier is a well-formed,
// non-zero 20-byte hex identifier.
func IsValidCustodianID(id string) bool {
	if !custodianIDRegex.MatchString(id) {
		return false
	}
	// The zero identifier is reserved and never a valid custodian.
	return strings.Trim(id[2:], "0") != ""
}

// IsValidBtcAddress checks if the provided address is a valid BTC address
// We only support Taproot addresses and native SegWit addresses
func IsValidBtcAddress(btcAddress string, params *chaincfg.Params) error {
	decodedAddr, err := btcutil.DecodeAddress(btcAddress, params)
	if err != nil {
		return fmt.Errorf("can not decode btc address: %w", err)
	}
	switch decodedAddr.(type) {
	case *btcutil.AddressWitnessPubKeyHash:
		// Native SegWit (P2WPKH)
		return nil
	case *btcutil.AddressTaproot:
		return nil
	default:
		return fmt.Errorf("unsupported btc address type")
	}
}

// IsValidTxHash checks if the given string is a valid BTC transaction hash
// Note: it does not check the actual content of the hash.
func IsValidTxHash(txHash string) bool {
	_, err := chainhash.NewHashFromStr(txHash)
	return err == nil
}

// IsValidSignatureFormat checks if the given string is a valid signature in hex format
// Note: it does not check the actual content of the signature.
func IsValidSignatureFormat(sigHex string) bool {
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	_, err = schnorr.ParseSignature(sigBytes)
	return err == nil
}

// GetBtcNetParamsFromString maps a configured network name onto chain params.
func GetBtcNetParamsFromString(net string) (*chaincfg.Params, error) {
	switch net {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("invalid btc network: %s", net)
	}
}
