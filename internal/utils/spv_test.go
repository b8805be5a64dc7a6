package utils

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMerkleTree pairs hashes level by level the way Bitcoin blocks do and
// returns the root plus the branch for the leaf at the given index.
func buildMerkleBranch(leaves []chainhash.Hash, index uint32) (root chainhash.Hash, branch []string) {
	level := make([]chainhash.Hash, len(leaves))
	copy(level, leaves)
	idx := index

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		sibling := idx ^ 1
		branch = append(branch, level[sibling].String())

		next := make([]chainhash.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			var combined [chainhash.HashSize * 2]byte
			copy(combined[:chainhash.HashSize], level[i][:])
			copy(combined[chainhash.HashSize:], level[i+1][:])
			next = append(next, chainhash.DoubleHashH(combined[:]))
		}
		level = next
		idx /= 2
	}
	return level[0], branch
}

func testLeaves(n int) []chainhash.Hash {
	leaves := make([]chainhash.Hash, n)
	for i := range leaves {
		leaves[i] = chainhash.DoubleHashH([]byte{byte(i)})
	}
	return leaves
}

func TestVerifySPVProof(t *testing.T) {
	leaves := testLeaves(4)
	for index := uint32(0); index < 4; index++ {
		root, branch := buildMerkleBranch(leaves, index)
		err := VerifySPVProof(leaves[index].String(), branch, root.String(), index)
		assert.NoError(t, err, "leaf %d", index)
	}
}

func TestVerifySPVProofSingleTxBlock(t *testing.T) {
	// With one transaction the merkle root is the transaction hash itself.
	h := chainhash.DoubleHashH([]byte("only tx"))
	assert.NoError(t, VerifySPVProof(h.String(), nil, h.String(), 0))
}

func TestVerifySPVProofOddBlock(t *testing.T) {
	// Odd levels duplicate their last node.
	leaves := testLeaves(5)
	root, branch := buildMerkleBranch(leaves, 4)
	assert.NoError(t, VerifySPVProof(leaves[4].String(), branch, root.String(), 4))
}

func TestVerifySPVProofRejectsMismatch(t *testing.T) {
	leaves := testLeaves(4)
	root, branch := buildMerkleBranch(leaves, 1)

	// Wrong index breaks the left/right folding order.
	assert.Error(t, VerifySPVProof(leaves[1].String(), branch, root.String(), 2))
	// Wrong leaf.
	assert.Error(t, VerifySPVProof(leaves[0].String(), branch, root.String(), 1))
	// Wrong root.
	other := chainhash.DoubleHashH([]byte("other"))
	assert.Error(t, VerifySPVProof(leaves[1].String(), branch, other.String(), 1))

	// Malformed inputs.
	require.Error(t, VerifySPVProof("nothex", branch, root.String(), 1))
	require.Error(t, VerifySPVProof(leaves[1].String(), []string{"nothex"}, root.String(), 1))
	require.Error(t, VerifySPVProof(leaves[1].String(), branch, "nothex", 1))
}
