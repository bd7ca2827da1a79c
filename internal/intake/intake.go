// Package intake is the write path for newly-arrived blocks: each block
// (already decoded off the wire by an external collaborator) is
// persisted as a fresh orphan root, batched through pkg/batcher so a
// burst of arrivals pays for one round of rate-limited flush work
// instead of one round trip per block.
package intake

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/metrics"
	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/pkg/batcher"
)

const (
	// DefaultFlushSize is how many orphan blocks accumulate before a
	// batch flushes early.
	DefaultFlushSize = 64

	// DefaultFlushInterval bounds how long a partial batch waits before
	// flushing anyway.
	DefaultFlushInterval = 250 * time.Millisecond

	// DefaultFlushRPS caps how many flushes run per second, so a thundering
	// herd of arrivals cannot starve the store of connections.
	DefaultFlushRPS = 20
)

// Block is a fully decoded block ready to enter the tree as a new orphan
// root.
type Block struct {
	Header       model.Header
	Hash         [32]byte
	Transactions []model.Transaction
}

// Store is the subset of the store adapter intake needs to persist a
// block and its transactions.
type Store interface {
	NextFreeSpace(ctx context.Context) (int64, error)
	InsertOrphanBlock(ctx context.Context, space int64, h model.Header, hash [32]byte) (int64, error)
	InsertTransaction(ctx context.Context, blockID, indexInBlock int64, tx model.Transaction) (int64, error)
}

// Notifier is the entry point intake drives once for every block it
// persists.
type Notifier interface {
	OnBlockAccepted(ctx context.Context)
}

// Intake buffers and persists incoming blocks.
type Intake struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	batcher  *batcher.Batcher[Block]
}

// New constructs an Intake. Call Start before Submit and Stop on
// shutdown.
func New(store Store, notifier Notifier, logger *zap.Logger) *Intake {
	in := &Intake{store: store, notifier: notifier, logger: logger}
	in.batcher = batcher.New[Block](logger, in.flush, DefaultFlushSize, DefaultFlushInterval, DefaultFlushRPS)
	return in
}

// Start begins the background batch-flushing loop.
func (in *Intake) Start(ctx context.Context) { in.batcher.Start(ctx) }

// Stop drains any buffered blocks and stops the flushing loop.
func (in *Intake) Stop() { in.batcher.Stop() }

// Submit enqueues a decoded block for persistence as a new orphan root.
func (in *Intake) Submit(ctx context.Context, b Block) error {
	return in.batcher.Add(ctx, b)
}

func (in *Intake) flush(ctx context.Context, blocks []Block) error {
	for _, b := range blocks {
		err := in.persistOne(ctx, b)
		metrics.IntakeBlock(err)
		if err != nil {
			in.logger.Error("failed to persist incoming block", zap.Error(err))
			continue
		}
		in.notifier.OnBlockAccepted(ctx)
	}
	return nil
}

func (in *Intake) persistOne(ctx context.Context, b Block) error {
	space, err := in.store.NextFreeSpace(ctx)
	if err != nil {
		return fmt.Errorf("allocate space: %w", err)
	}

	blockID, err := in.store.InsertOrphanBlock(ctx, space, b.Header, b.Hash)
	if err != nil {
		return fmt.Errorf("insert orphan block: %w", err)
	}

	for i, tx := range b.Transactions {
		if _, err := in.store.InsertTransaction(ctx, blockID, int64(i), tx); err != nil {
			return fmt.Errorf("insert transaction %d of block %d: %w", i, blockID, err)
		}
	}
	return nil
}
