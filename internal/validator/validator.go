// Package validator implements the per-block consensus checks that
// require ancestor context, and the orphan -> valid state transition.
// Checks that don't need ancestor context (PoW against target, merkle
// root equality, transaction structural checks) are out of scope here
// and delegated to the external consensus module.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/chainledger"
	"github.com/blocktreedb/chainvalidator/internal/consensus"
	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/internal/store"
	"github.com/blocktreedb/chainvalidator/internal/tree"
)

// CoinbaseMaturity is the minimum depth gap between a coinbase output
// and any input that spends it.
const CoinbaseMaturity = 100

// MaxMoney bounds any single output or accumulated input value, in
// satoshis.
const MaxMoney = uint64(btcutil.MaxSatoshi)

// ErrConsensusRejected marks a block that failed a consensus check; the
// caller deletes the block's branch rather than aborting the process.
var ErrConsensusRejected = errors.New("block rejected by consensus validation")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// ScriptRunner evaluates a spending script against a locking script.
type ScriptRunner interface {
	Run(sigScript, pubScript model.Script, tx model.Transaction, inputIndex int) (bool, error)
}

// Store is the subset of the store adapter the validator needs.
type Store interface {
	tree.Store
	chainledger.Store

	GetAncestorAtDepth(ctx context.Context, spanLeft, spanRight, depth int64) (model.Position, error)
	GetHeader(ctx context.Context, blockID int64) (model.Header, error)
	GetWhenCreated(ctx context.Context, blockID int64) (time.Time, error)
	MedianWindow(ctx context.Context, spanLeft, spanRight, selfDepth int64) ([]store.AncestorWindow, error)

	TransactionIDByBlockIndex(ctx context.Context, blockID, indexInBlock int64) (int64, error)
	TransactionByHash(ctx context.Context, hash [32]byte) (int64, error)
	OutputByIndex(ctx context.Context, transactionID, index int64) (model.Output, error)
	IsCoinbaseTransaction(ctx context.Context, transactionID int64) (bool, error)
	ContainingBlock(ctx context.Context, transactionID int64) (model.Position, error)
	FindConflictingInputs(ctx context.Context, prevHash [32]byte, prevIndex uint32,
		excludeTransactionID, excludeIndexInParent int64) ([]store.ConflictingInput, error)

	SetStatus(ctx context.Context, blockID int64, status model.Status) error
}

// Executor runs a txBody against a store bound to one SERIALIZABLE
// transaction — the validator's finalize step (credit + status update)
// is one atomic unit.
type Executor interface {
	ExecTx(ctx context.Context, txBody func(Store) error) error
}

// Validator drives orphan -> valid transitions.
type Validator struct {
	exec    Executor
	scripts ScriptRunner
	logger  *zap.Logger
}

// New constructs a Validator.
func New(exec Executor, scripts ScriptRunner, logger *zap.Logger) *Validator {
	return &Validator{exec: exec, scripts: scripts, logger: logger}
}

// ancestorAtDepth finds the unique ancestor of pos at
// depth d, located via the ancestor-range predicate that matches at most
// one row for any given (space, depth) pair.
func ancestorAtDepth(ctx context.Context, s Store, pos model.Position, d int64) (model.Position, error) {
	return s.GetAncestorAtDepth(ctx, pos.SpanLeft, pos.SpanRight, d)
}

// PreviousBlockBits returns the compact-bits value of pos's immediate
// parent.
func PreviousBlockBits(ctx context.Context, s Store, pos model.Position) (uint32, error) {
	anc, err := ancestorAtDepth(ctx, s, pos, pos.Depth-1)
	if err != nil {
		return 0, fmt.Errorf("ancestor at depth-1: %w", err)
	}
	header, err := s.GetHeader(ctx, anc.BlockID)
	if err != nil {
		return 0, fmt.Errorf("header of ancestor: %w", err)
	}
	return header.Bits(), nil
}

// ActualTimespan measures the real elapsed time across the last interval
// blocks ending at pos's parent. Precondition: pos.Depth >=
// interval.
func ActualTimespan(ctx context.Context, s Store, pos model.Position, interval int64) (uint64, error) {
	if pos.Depth < interval {
		return 0, fmt.Errorf("depth %d below interval %d", pos.Depth, interval)
	}

	begin := pos.Depth - interval
	end := pos.Depth - 1

	beginBlock, err := ancestorAtDepth(ctx, s, pos, begin)
	if err != nil {
		return 0, fmt.Errorf("ancestor at begin depth %d: %w", begin, err)
	}
	endBlock, err := ancestorAtDepth(ctx, s, pos, end)
	if err != nil {
		return 0, fmt.Errorf("ancestor at end depth %d: %w", end, err)
	}

	beginWhen, err := s.GetWhenCreated(ctx, beginBlock.BlockID)
	if err != nil {
		return 0, fmt.Errorf("when_created for begin block: %w", err)
	}
	endWhen, err := s.GetWhenCreated(ctx, endBlock.BlockID)
	if err != nil {
		return 0, fmt.Errorf("when_created for end block: %w", err)
	}

	return uint64(endWhen.Unix() - beginWhen.Unix()), nil
}

// MedianTimePast returns the median when_created timestamp over the
// nearest ancestor window, capped at 11 blocks. Precondition: pos.Depth > 0.
func MedianTimePast(ctx context.Context, s Store, pos model.Position) (uint64, error) {
	if pos.Depth <= 0 {
		return 0, fmt.Errorf("median_time_past requires depth > 0, got %d", pos.Depth)
	}

	offset := pos.Depth / 2
	if offset > 5 {
		offset = 5
	}

	window, err := s.MedianWindow(ctx, pos.SpanLeft, pos.SpanRight, pos.Depth)
	if err != nil {
		return 0, fmt.Errorf("median window: %w", err)
	}
	if len(window) == 0 {
		return 0, fmt.Errorf("median window empty for block depth %d", pos.Depth)
	}

	idx := int(offset)
	if idx >= len(window) {
		idx = (len(window) - 1) / 2
	}
	return uint64(window[idx].WhenCreated.Unix()), nil
}

// ValidateTransaction locates the transaction
// attached at indexInBlock, then checks every input against its previous
// output, coinbase maturity, script validity, and double-spend freedom.
// It returns the accumulated input value alongside the pass/fail bool.
func ValidateTransaction(ctx context.Context, s Store, scripts ScriptRunner,
	block model.Position, tx model.Transaction, indexInBlock int64) (bool, uint64, error) {

	transactionID, err := s.TransactionIDByBlockIndex(ctx, block.BlockID, indexInBlock)
	if err != nil {
		return false, 0, fmt.Errorf("locate transaction at index %d: %w", indexInBlock, err)
	}

	var valueIn uint64
	for i, in := range tx.Inputs {
		ok, value, err := validateInput(ctx, s, scripts, block, tx, transactionID, i, in)
		if err != nil {
			return false, 0, err
		}
		if !ok {
			return false, 0, nil
		}

		valueIn += value
		if valueIn > MaxMoney {
			return false, 0, nil
		}
	}

	return true, valueIn, nil
}

func validateInput(ctx context.Context, s Store, scripts ScriptRunner, block model.Position,
	tx model.Transaction, transactionID int64, inputIndex int, in model.Input) (bool, uint64, error) {

	prevTxID, err := s.TransactionByHash(ctx, in.PreviousOutputHash)
	if err != nil {
		return false, 0, nil //nolint:nilerr // absent previous tx is a validation failure, not an error
	}

	prevOutput, err := s.OutputByIndex(ctx, prevTxID, int64(in.PreviousOutputIndex))
	if err != nil {
		return false, 0, nil //nolint:nilerr
	}

	value := uint64(prevOutput.Value)
	if value > MaxMoney {
		return false, 0, nil
	}

	isCoinbase, err := s.IsCoinbaseTransaction(ctx, prevTxID)
	if err != nil {
		return false, 0, fmt.Errorf("is coinbase: %w", err)
	}
	if isCoinbase {
		containing, err := s.ContainingBlock(ctx, prevTxID)
		if err != nil {
			return false, 0, fmt.Errorf("containing block of coinbase: %w", err)
		}
		if block.Depth-containing.Depth <= CoinbaseMaturity {
			return false, 0, nil
		}
	}

	ok, err := scripts.Run(in.Script, prevOutput.Script, tx, inputIndex)
	if err != nil {
		return false, 0, fmt.Errorf("script run: %w", err)
	}
	if !ok {
		return false, 0, nil
	}

	doubleSpent, err := searchDoubleSpends(ctx, s, block, transactionID, in, inputIndex)
	if err != nil {
		return false, 0, fmt.Errorf("search double spends: %w", err)
	}
	if doubleSpent {
		return false, 0, nil
	}

	return true, value, nil
}

// searchDoubleSpends reports whether tx's input at inputIndex conflicts
// with a spend already committed on the same branch: candidates are found across
// the whole inputs relation, then narrowed to the ones whose containing
// block lies on the current block's own branch via the ancestor-range
// predicate, so conflicting spends on disjoint forks do not falsely
// reject a valid block.
func searchDoubleSpends(ctx context.Context, s Store, block model.Position,
	transactionID int64, in model.Input, inputIndex int) (bool, error) {

	candidates, err := s.FindConflictingInputs(ctx, in.PreviousOutputHash, in.PreviousOutputIndex,
		transactionID, int64(inputIndex))
	if err != nil {
		return false, err
	}

	for _, c := range candidates {
		containing, err := s.ContainingBlock(ctx, c.TransactionID)
		if err != nil {
			return false, fmt.Errorf("containing block of conflict: %w", err)
		}
		if onSameBranch(block, containing) {
			return true, nil
		}
	}
	return false, nil
}

// onSameBranch reports whether other is an ancestor of, descendant of,
// or equal to block within space 0, using the span-bracket containment
// predicate in both directions.
func onSameBranch(block, other model.Position) bool {
	if block.Space != 0 || other.Space != 0 {
		return false
	}
	ancestorOfBlock := other.Depth <= block.Depth && other.SpanLeft <= block.SpanLeft && other.SpanRight >= block.SpanRight
	ancestorOfOther := block.Depth <= other.Depth && block.SpanLeft <= other.SpanLeft && block.SpanRight >= other.SpanRight
	return ancestorOfBlock || ancestorOfOther
}

// Finalize atomically credits the
// chain ledger and marks the block valid.
func (v *Validator) Finalize(ctx context.Context, block model.Position, bits uint32) error {
	work, err := consensus.Work(bits)
	if err != nil {
		return fmt.Errorf("work for bits: %w", err)
	}

	return v.exec.ExecTx(ctx, func(s Store) error {
		if err := chainledger.Credit(ctx, s, block.SpanLeft, block.SpanRight, work, block.Depth); err != nil {
			return fmt.Errorf("credit chain ledger: %w", err)
		}
		if err := s.SetStatus(ctx, block.BlockID, model.StatusValid); err != nil {
			return fmt.Errorf("set status valid: %w", err)
		}
		return nil
	})
}
