// Package engine implements the entry point: a two-threshold batch
// trigger (block count OR timeout) that runs an organize pass followed
// by a validate pass, and deletes a rejected block's branch instead of
// aborting the process.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/blockreader"
	"github.com/blocktreedb/chainvalidator/internal/metrics"
	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/internal/organizer"
	"github.com/blocktreedb/chainvalidator/internal/validator"
	"github.com/blocktreedb/chainvalidator/pkg/workerpool"
)

const (
	// DefaultClearanceLevel is the accepted-block threshold that forces
	// an immediate pass.
	DefaultClearanceLevel = 400

	// DefaultTimeout is how long the engine waits for more blocks before
	// running a pass anyway.
	DefaultTimeout = 500 * time.Millisecond

	// depthValidationWorkers bounds how many same-depth blocks the
	// validator checks concurrently; there is no cross-sibling
	// dependency at equal depth.
	depthValidationWorkers = 8
)

// Store is the union of what the organizer and validator need, plus the
// pending-orphan listing the entry point drives a validate pass from.
type Store interface {
	organizer.Store
	validator.Store

	PendingOrphans(ctx context.Context) ([]model.Position, error)
}

// BranchDeleter deletes a rejected block's branch and undoes its
// contribution to the chain ledger.
type BranchDeleter interface {
	DeleteBranch(ctx context.Context, block model.Position) error
}

// Engine is the batch-trigger entry point. Exactly one organize+validate
// pass runs at a time; a single pending deadline timer coalesces bursts
// of arrivals into one pass.
type Engine struct {
	store     Store
	organizer *organizer.Organizer
	validator *validator.Validator
	scripts   validator.ScriptRunner
	reader    *blockreader.Reader
	deleter   BranchDeleter
	logger    *zap.Logger

	clearanceLevel int
	timeout        time.Duration

	mu      sync.Mutex
	counter int
	timer   *time.Timer

	// passMu serializes runPass so passes never overlap.
	passMu sync.Mutex
}

// New constructs an Engine.
func New(store Store, org *organizer.Organizer, val *validator.Validator, scripts validator.ScriptRunner,
	reader *blockreader.Reader, deleter BranchDeleter, logger *zap.Logger) *Engine {

	return &Engine{
		store:          store,
		organizer:      org,
		validator:      val,
		scripts:        scripts,
		reader:         reader,
		deleter:        deleter,
		logger:         logger,
		clearanceLevel: DefaultClearanceLevel,
		timeout:        DefaultTimeout,
	}
}

// OnBlockAccepted implements the two-threshold trigger: crossing the
// clearance level forces an immediate pass; otherwise a single pending
// timer runs the pass on expiry.
func (e *Engine) OnBlockAccepted(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.counter++
	if e.counter > e.clearanceLevel {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.counter = 0
		go e.runPass(ctx)
		return
	}

	if e.timer == nil {
		e.timer = time.AfterFunc(e.timeout, func() {
			e.mu.Lock()
			e.timer = nil
			e.counter = 0
			e.mu.Unlock()
			e.runPass(ctx)
		})
	}
}

// Cancel discards a pending trigger without starting a pass. It must not
// be called while a pass is in flight; an in-flight pass always runs to
// completion.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.counter = 0
}

func (e *Engine) runPass(ctx context.Context) {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	started := time.Now()
	err := e.organizer.Organize(ctx, e.store)
	metrics.Pass("organize", err, started)
	if err != nil {
		e.logger.Error("organize pass aborted", zap.Error(err))
		return
	}

	started = time.Now()
	err = e.validatePass(ctx)
	metrics.Pass("validate", err, started)
	if err != nil {
		e.logger.Error("validate pass aborted", zap.Error(err))
	}
}

// validatePass processes pending orphans in strict ascending depth
// order, checking equal-depth siblings concurrently since neither can
// depend on the other's outcome.
func (e *Engine) validatePass(ctx context.Context) error {
	pending, err := e.store.PendingOrphans(ctx)
	if err != nil {
		return fmt.Errorf("list pending orphans: %w", err)
	}
	metrics.SetPendingOrphans(len(pending))

	for _, batch := range groupByDepth(pending) {
		err := workerpool.Process(ctx, depthValidationWorkers, batch,
			func(ctx context.Context, pos model.Position) error {
				return e.validateOne(ctx, pos)
			},
			func() {},
		)
		if err != nil {
			return fmt.Errorf("validate depth batch: %w", err)
		}
	}
	return nil
}

func (e *Engine) validateOne(ctx context.Context, pos model.Position) error {
	block, err := e.reader.ReadBlock(ctx, pos.BlockID)
	if err != nil {
		return fmt.Errorf("read block %d: %w", pos.BlockID, err)
	}

	for i, tx := range block.Transactions {
		ok, _, err := validator.ValidateTransaction(ctx, e.store, e.scripts, pos, tx, int64(i))
		if err != nil {
			return fmt.Errorf("validate tx %d of block %d: %w", i, pos.BlockID, err)
		}
		if !ok {
			if err := e.rejectBlock(ctx, pos); err != nil {
				return fmt.Errorf("reject block %d: %w", pos.BlockID, err)
			}
			return nil
		}
	}

	if err := e.validator.Finalize(ctx, pos, block.Header.Bits()); err != nil {
		return fmt.Errorf("finalize block %d: %w", pos.BlockID, err)
	}
	metrics.BlockValidated("accepted")
	return nil
}

// rejectBlock deletes the block's branch and undoes its ledger
// contribution. It reports storage errors but a consensus rejection
// itself is not an error: the branch is gone and the pass moves on.
func (e *Engine) rejectBlock(ctx context.Context, pos model.Position) error {
	e.logger.Info("block rejected by validator, deleting branch",
		zap.Int64("block_id", pos.BlockID), zap.Int64("depth", pos.Depth))

	metrics.BlockValidated("rejected")
	if err := e.deleter.DeleteBranch(ctx, pos); err != nil {
		return err
	}
	metrics.BranchDeleted()
	return nil
}

func groupByDepth(positions []model.Position) [][]model.Position {
	var groups [][]model.Position
	var current []model.Position
	var currentDepth int64 = -1

	for _, p := range positions {
		if p.Depth != currentDepth {
			if len(current) > 0 {
				groups = append(groups, current)
			}
			current = nil
			currentDepth = p.Depth
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
