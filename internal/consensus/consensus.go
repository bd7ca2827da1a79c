// Package consensus walls off compact-bits / proof-of-work arithmetic
// behind an explicit compress/expand boundary: the difficulty target a
// compact `bits` value encodes, and the amount of
// work a block at that target contributes to its chain's cumulative
// total. Both are delegated to btcsuite/btcd/blockchain rather than
// reimplemented, to preserve byte-exact consensus behavior including the
// compact encoding's documented asymmetric negative-bit handling.
package consensus

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
)

// Target expands a compact-bits value into the full-precision proof of
// work target it represents.
func Target(bits uint32) *big.Int {
	return blockchain.CompactToBig(bits)
}

// Compress re-encodes a target back into its compact-bits representation,
// the inverse of Target.
func Compress(target *big.Int) uint32 {
	return blockchain.BigToCompact(target)
}

// Work returns the amount of proof-of-work a block at the given compact
// bits contributes, given bits reassembled from the store's split
// bits_head/bits_body columns by model.Header.Bits.
func Work(bits uint32) (uint64, error) {
	work := blockchain.CalcWork(bits)
	if !work.IsUint64() {
		return 0, fmt.Errorf("work for bits %#x overflows uint64", bits)
	}
	return work.Uint64(), nil
}
