// Package organizer discovers orphan roots whose parent hash now exists
// in the tree, and re-parents them by driving the tree and chain-ledger
// packages.
package organizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/chainledger"
	"github.com/blocktreedb/chainvalidator/internal/metrics"
	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/internal/store"
	"github.com/blocktreedb/chainvalidator/internal/tree"
)

// Store is the subset of the store adapter the organizer needs, on top
// of the narrower tree.Store and chainledger.Store interfaces.
type Store interface {
	tree.Store
	chainledger.Store

	FindOrphanRootsWithKnownParents(ctx context.Context) ([]store.OrphanRootParent, error)
	GetPosition(ctx context.Context, blockID int64) (model.Position, error)
	SetPrevBlockID(ctx context.Context, blockID, prevBlockID int64) error
}

// Executor runs a txBody against a store bound to one SERIALIZABLE
// transaction — the organizer's re-parent step (reserve + split +
// splice + prev_block_id update) is one atomic unit.
type Executor interface {
	ExecTx(ctx context.Context, txBody func(Store) error) error
}

// Organizer re-parents orphan roots onto newly arrived parents.
type Organizer struct {
	exec   Executor
	logger *zap.Logger
}

// New constructs an Organizer driven by exec.
func New(exec Executor, logger *zap.Logger) *Organizer {
	return &Organizer{exec: exec, logger: logger}
}

// Organize queries the candidate set of orphan roots with known parents
// once, then processes each (child, parent) pair in query order,
// tolerating the tree mutating underneath it by re-reading parent and
// child positions before every splice.
func (o *Organizer) Organize(ctx context.Context, s Store) error {
	candidates, err := s.FindOrphanRootsWithKnownParents(ctx)
	if err != nil {
		return fmt.Errorf("find orphan roots: %w", err)
	}

	for _, c := range candidates {
		err := o.reparentOne(ctx, s, c)
		metrics.Reparented(err)
		if err != nil {
			return fmt.Errorf("reparent block %d onto %d: %w",
				c.ChildBlockID, c.ParentBlockID, err)
		}
	}
	return nil
}

func (o *Organizer) reparentOne(ctx context.Context, s Store, c store.OrphanRootParent) error {
	return o.exec.ExecTx(ctx, func(tx Store) error {
		if err := tx.SetPrevBlockID(ctx, c.ChildBlockID, c.ParentBlockID); err != nil {
			return fmt.Errorf("set prev_block_id: %w", err)
		}

		// Re-read the parent's position: it may have moved due to
		// an earlier splice this pass.
		parent, err := tx.GetPosition(ctx, c.ParentBlockID)
		if err != nil {
			return fmt.Errorf("re-read parent position: %w", err)
		}

		child, err := tx.GetPosition(ctx, c.ChildBlockID)
		if err != nil {
			return fmt.Errorf("re-read child position: %w", err)
		}
		if child.SpanLeft != 0 {
			return fmt.Errorf("child %d has non-zero span_left %d in its own orphan space",
				c.ChildBlockID, child.SpanLeft)
		}

		parentWidth, err := tree.Width(ctx, tx, parent)
		if err != nil {
			return fmt.Errorf("parent width: %w", err)
		}
		childWidth := child.SpanRight - child.SpanLeft + 1
		newDepth := parent.Depth + 1

		newSpanLeft := parent.SpanRight
		if parentWidth > 0 {
			newSpanLeft++
		}

		if err := tree.Reserve(ctx, tx, parent, newDepth, childWidth); err != nil {
			return fmt.Errorf("reserve: %w", err)
		}

		if parent.Space == 0 {
			if err := chainledger.Split(ctx, tx, parent.SpanLeft, parent.SpanRight, parentWidth, childWidth); err != nil {
				return fmt.Errorf("split chain ledger: %w", err)
			}
		}

		if err := tree.Splice(ctx, tx, child.Space, parent.Space, newDepth, newSpanLeft); err != nil {
			return fmt.Errorf("splice: %w", err)
		}

		o.logger.Debug("reparented orphan root",
			zap.Int64("child_block_id", c.ChildBlockID),
			zap.Int64("parent_block_id", c.ParentBlockID),
			zap.Int64("new_depth", newDepth),
			zap.Int64("new_span_left", newSpanLeft))

		return nil
	})
}
