package utils

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// VerifySPVProof checks a Bitcoin merkle branch: it folds the transaction hash
// with the supplied sibling hashes and compares the result against the block's
// merkle root. The index encodes the transaction's position in the block; its
// low bit at each level tells which side the sibling sits on.
func VerifySPVProof(txHashHex string, merkleProofHex []string, merkleRootHex string, index uint32) error {
	current, err := chainhash.NewHashFromStr(txHashHex)
	if err != nil {
		return fmt.Errorf("invalid transaction hash: %w", err)
	}
	root, err := chainhash.NewHashFromStr(merkleRootHex)
	if err != nil {
		return fmt.Errorf("invalid merkle root: %w", err)
	}

	for _, siblingHex := range merkleProofHex {
		sibling, err := chainhash.NewHashFromStr(siblingHex)
		if err != nil {
			return fmt.Errorf("invalid merkle branch node: %w", err)
		}
		var combined [chainhash.HashSize * 2]byte
		if index&1 == 1 {
			copy(combined[:chainhash.HashSize], sibling[:])
			copy(combined[chainhash.HashSize:], current[:])
		} else {
			copy(combined[:chainhash.HashSize], current[:])
			copy(combined[chainhash.HashSize:], sibling[:])
		}
		next := chainhash.DoubleHashH(combined[:])
		current = &next
		index >>= 1
	}

	if !current.IsEqual(root) {
		return fmt.Errorf("merkle branch does not connect transaction to root")
	}
	return nil
}
