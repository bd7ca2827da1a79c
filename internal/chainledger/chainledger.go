// Package chainledger implements the chains table operations: split,
// credit, debit, and renumber. All operations are restricted to space 0,
// the canonical tree.
package chainledger

import (
	"context"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/consensus"
	"github.com/blocktreedb/chainvalidator/internal/model"
)

// Store is the subset of the store adapter chainledger needs.
type Store interface {
	ShiftChainIDsAbove(ctx context.Context, threshold, delta int64) error
	CloneChain(ctx context.Context, sourceChainID, newChainID int64) error
	CreditChains(ctx context.Context, spanLeft, spanRight int64, work uint64, newDepth int64) error
	SumValidBitsAbove(ctx context.Context, column, depthFloor int64) ([]model.Header, error)
	DebitChain(ctx context.Context, chainID int64, amount uint64) error
	DeleteChainsRange(ctx context.Context, left, right int64) error
}

// Split handles a new fork introducing width new leaf columns starting
// at column parentSpanLeft+start: existing chain_ids above parentSpanRight
// (the parent's own rightmost existing column) shift up by width, then
// width new rows are cloned from the original chain at parentSpanLeft so
// the fork inherits the shared prefix's work.
func Split(ctx context.Context, s Store, parentSpanLeft, parentSpanRight, start, width int64) error {
	if err := s.ShiftChainIDsAbove(ctx, parentSpanRight, width); err != nil {
		return fmt.Errorf("shift chain ids: %w", err)
	}

	for k := start; k < start+width; k++ {
		newChainID := parentSpanLeft + k
		if err := s.CloneChain(ctx, parentSpanLeft, newChainID); err != nil {
			return fmt.Errorf("clone chain %d: %w", newChainID, err)
		}
	}
	return nil
}

// Credit adds work to every chain in [spanLeft, spanRight] and raises
// its depth to max(depth, depth). Invoked by the validator when a block
// becomes valid.
func Credit(ctx context.Context, s Store, spanLeft, spanRight int64, work uint64, depth int64) error {
	return s.CreditChains(ctx, spanLeft, spanRight, work, depth)
}

// Debit subtracts the sum of difficulty over all valid blocks in space 0
// at depth >= depthFloor enclosing column, from chain span_left. Used
// during branch deletion to undo the work a deleted branch had already
// contributed.
func Debit(ctx context.Context, s Store, spanLeft, depthFloor int64) error {
	headers, err := s.SumValidBitsAbove(ctx, spanLeft, depthFloor)
	if err != nil {
		return fmt.Errorf("sum valid bits: %w", err)
	}

	var total uint64
	for _, h := range headers {
		work, err := consensus.Work(h.Bits())
		if err != nil {
			return fmt.Errorf("work for bits %#x: %w", h.Bits(), err)
		}
		total += work
	}

	if total == 0 {
		return nil
	}
	return s.DebitChain(ctx, spanLeft, total)
}

// Renumber deletes the chain rows in [left, right] after a branch
// deletion and shifts higher chain_ids down by the removed width, so
// chain_id stays a contiguous [0, L) range.
func Renumber(ctx context.Context, s Store, left, right int64) error {
	return s.DeleteChainsRange(ctx, left, right)
}
