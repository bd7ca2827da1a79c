package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/clock"
)

const (
	// DefaultNumTxRetries is how many attempts, the first included, a
	// transaction gets before repeated serialization conflicts give up.
	DefaultNumTxRetries = 20

	// DefaultRetryDelay seeds the randomized, exponentially-growing
	// backoff between retries.
	DefaultRetryDelay = 50 * time.Millisecond

	// DefaultMaxRetryDelay caps the backoff growth.
	DefaultMaxRetryDelay = time.Second
)

// TxOptions controls whether a transaction is read-only. The organizer's
// re-parent step and the validator's finalize step both run as write
// transactions; ancestor-scoped reads may run read-only.
type TxOptions interface {
	ReadOnly() bool
}

type txOptions struct{ readOnly bool }

func (t *txOptions) ReadOnly() bool { return t.readOnly }

// WriteTxOpt requests a read-write transaction.
func WriteTxOpt() TxOptions { return &txOptions{readOnly: false} }

// ReadTxOpt requests a read-only transaction.
func ReadTxOpt() TxOptions { return &txOptions{readOnly: true} }

type txExecutorOptions struct {
	numRetries int
	retryDelay time.Duration
}

func defaultTxExecutorOptions() *txExecutorOptions {
	return &txExecutorOptions{
		numRetries: DefaultNumTxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// TxExecutorOption configures a TransactionExecutor.
type TxExecutorOption func(*txExecutorOptions)

// WithTxRetries overrides the total number of attempts, the first included.
func WithTxRetries(n int) TxExecutorOption {
	return func(o *txExecutorOptions) { o.numRetries = n }
}

// WithTxRetryDelay overrides the base retry backoff.
func WithTxRetryDelay(d time.Duration) TxExecutorOption {
	return func(o *txExecutorOptions) { o.retryDelay = d }
}

// QueryCreator builds a Q (typically a *Queries) bound to a single *sql.Tx,
// so every call inside a transaction body shares the same underlying
// connection and isolation level.
type QueryCreator[Q any] func(*sql.Tx) Q

// BatchedQuerier can begin a transaction given a TxOptions.
type BatchedQuerier interface {
	BeginTx(ctx context.Context, opts TxOptions) (*sql.Tx, error)
}

// TransactionExecutor runs a txBody against a Q created from a fresh
// *sql.Tx, retrying with randomized exponential backoff whenever the
// store reports a serialization conflict. This is how the organizer's
// reserve+split+splice+prev_block_id update, and the validator's
// credit+status update, each execute as one atomic SERIALIZABLE unit.
type TransactionExecutor[Q any] struct {
	BatchedQuerier

	createQuery QueryCreator[Q]
	logger      *zap.Logger
	opts        *txExecutorOptions
}

// NewTransactionExecutor constructs a TransactionExecutor bound to db,
// using createQuery to build a Q for each attempt.
func NewTransactionExecutor[Q any](db BatchedQuerier, logger *zap.Logger,
	createQuery QueryCreator[Q], opts ...TxExecutorOption) *TransactionExecutor[Q] {

	txOpts := defaultTxExecutorOptions()
	for _, opt := range opts {
		opt(txOpts)
	}

	return &TransactionExecutor[Q]{
		BatchedQuerier: db,
		createQuery:    createQuery,
		logger:         logger,
		opts:           txOpts,
	}
}

func randRetryDelay(base, max time.Duration, attempt int) time.Duration {
	half := base / 2
	jittered := half + time.Duration(rand.Int63n(int64(base))) //nolint:gosec

	if attempt == 0 {
		return jittered
	}

	factor := time.Duration(math.Pow(2, math.Min(float64(attempt), 32)))
	delay := jittered * factor
	if delay > max {
		return max
	}
	return delay
}

// ExecTx runs txBody in a fresh transaction, retrying on serialization
// conflicts for at most the configured number of attempts in total.
func (t *TransactionExecutor[Q]) ExecTx(ctx context.Context, opts TxOptions,
	txBody func(Q) error) error {

	for attempt := 0; attempt < t.opts.numRetries; attempt++ {
		err := t.execOnce(ctx, opts, txBody)
		if err == nil {
			return nil
		}

		dbErr := MapSQLError(err)
		if !IsSerializationError(dbErr) {
			return dbErr
		}

		delay := randRetryDelay(t.opts.retryDelay, DefaultMaxRetryDelay, attempt)
		t.logger.Debug("retrying transaction after serialization conflict",
			zap.Int("attempt", attempt), zap.Duration("delay", delay))

		if err := clock.SleepWithContext(ctx, delay); err != nil {
			return err
		}
	}

	return ErrRetriesExceeded
}

func (t *TransactionExecutor[Q]) execOnce(ctx context.Context, opts TxOptions,
	txBody func(Q) error) (err error) {

	sqlTx, err := t.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = txBody(t.createQuery(sqlTx)); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
