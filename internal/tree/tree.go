// Package tree implements the pure nested-set arithmetic the organizer
// and validator build on: width, reserve, splice, and delete_branch.
// Every operation is expressed against a narrow Store
// interface so it can be driven by either a live *store.Queries or a
// test double.
package tree

import (
	"context"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// Store is the subset of the store adapter the tree operations need.
// Defined here (not in package store) so callers can supply a fake in
// unit tests without pulling in database/sql.
type Store interface {
	HasDescendant(ctx context.Context, space, depth, spanLeft, spanRight int64) (bool, error)
	ShiftSpanRight(ctx context.Context, space, threshold, delta int64) error
	ShiftSpanLeft(ctx context.Context, space, threshold, delta int64) error
	WidenAncestorBracket(ctx context.Context, space, newChildDepth, threshold, delta int64) error
	MoveSpace(ctx context.Context, fromSpace, toSpace, depthDelta, spanDelta int64) error
	DeleteRange(ctx context.Context, space, depth, l, r int64) error
	CollapseToLeaf(ctx context.Context, space, depth, spanLeft, spanRight int64) error
}

// Width returns the number of leaf columns below pos. A node with
// span_left < span_right is already an internal node and its width is
// read directly off the bracket; otherwise it probes the store for any
// deeper row whose bracket encloses it.
func Width(ctx context.Context, s Store, pos model.Position) (int64, error) {
	if pos.SpanLeft < pos.SpanRight {
		return pos.SpanRight - pos.SpanLeft + 1, nil
	}

	has, err := s.HasDescendant(ctx, pos.Space, pos.Depth, pos.SpanLeft, pos.SpanRight)
	if err != nil {
		return 0, fmt.Errorf("probe descendant: %w", err)
	}
	if has {
		return 1, nil
	}
	return 0, nil
}

// Reserve makes room for childWidth new leaf columns immediately to the
// right of parent.SpanRight, within parent.Space. It is a no-op when the
// parent has no existing children and the new child is a single leaf —
// the first child slots into the parent's existing column.
func Reserve(ctx context.Context, s Store, parent model.Position, newChildDepth, childWidth int64) error {
	parentWidth, err := Width(ctx, s, parent)
	if err != nil {
		return err
	}

	if parentWidth == 0 && childWidth == 1 {
		return nil
	}

	if err := s.ShiftSpanRight(ctx, parent.Space, parent.SpanRight, childWidth); err != nil {
		return fmt.Errorf("shift span_right: %w", err)
	}
	if err := s.ShiftSpanLeft(ctx, parent.Space, parent.SpanRight, childWidth); err != nil {
		return fmt.Errorf("shift span_left: %w", err)
	}
	if err := s.WidenAncestorBracket(ctx, parent.Space, newChildDepth, parent.SpanRight, childWidth); err != nil {
		return fmt.Errorf("widen ancestor bracket: %w", err)
	}
	return nil
}

// Splice moves every row of childSpace into parentSpace, shifting depth
// by newDepth and both span endpoints by newSpanLeft. After Splice,
// childSpace contains no rows.
func Splice(ctx context.Context, s Store, childSpace, parentSpace, newDepth, newSpanLeft int64) error {
	if err := s.MoveSpace(ctx, childSpace, parentSpace, newDepth, newSpanLeft); err != nil {
		return fmt.Errorf("move space: %w", err)
	}
	return nil
}

// DeleteBranch removes the subtree rooted at the block spanning [l, r]
// at depth, and collapses the resulting gap. If the immediate parent had
// no other child, one leaf column is preserved (the parent becomes a
// leaf); otherwise all r-l+1 columns are removed. Span coordinates above
// r are shifted left by the removed width either way.
func DeleteBranch(ctx context.Context, s Store, space, depth, l, r int64, parentHadOtherChildren bool) error {
	width := r - l + 1

	if err := s.DeleteRange(ctx, space, depth, l, r); err != nil {
		return fmt.Errorf("delete range: %w", err)
	}

	shiftWidth := width
	if !parentHadOtherChildren {
		// The parent had no other child: one leaf column survives and
		// the parent collapses onto it instead of vanishing, so only
		// width-1 columns actually close up.
		shiftWidth = width - 1
		if err := s.CollapseToLeaf(ctx, space, depth-1, l, l); err != nil {
			return fmt.Errorf("collapse to leaf: %w", err)
		}
	}

	if shiftWidth == 0 {
		return nil
	}
	if err := s.ShiftSpanRight(ctx, space, r, -shiftWidth); err != nil {
		return fmt.Errorf("shift span_right after delete: %w", err)
	}
	if err := s.ShiftSpanLeft(ctx, space, r, -shiftWidth); err != nil {
		return fmt.Errorf("shift span_left after delete: %w", err)
	}
	return nil
}
