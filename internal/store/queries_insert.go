package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// InsertScript persists an ordered opcode/data sequence and returns the
// new script_id.
func (q *Queries) InsertScript(ctx context.Context, ops []model.Operation) (int64, error) {
	scriptID, err := q.nextScriptID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate script id: %w", err)
	}

	for i, op := range ops {
		query := fmt.Sprintf(`INSERT INTO operations (script_id, opcode, data) VALUES (%s, %s, %s)`,
			q.ph(1), q.ph(2), q.ph(3))
		var data any
		if len(op.Data) > 0 {
			data = op.Data
		}
		if _, err := q.db.ExecContext(ctx, query, scriptID, int32(op.OpCode), data); err != nil {
			return 0, fmt.Errorf("insert operation %d: %w", i, err)
		}
	}
	return scriptID, nil
}

// nextScriptID allocates a fresh script_id from the same sequence space
// as existing operations rows, since operations has no owning table with
// its own serial primary key to borrow from.
func (q *Queries) nextScriptID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := q.db.QueryRowContext(ctx, `SELECT MAX(script_id) FROM operations`).Scan(&max); err != nil {
		return 0, err
	}
	return max.Int64 + 1, nil
}

// InsertTransaction inserts a transaction's own row (hash, version,
// locktime) if not already present, then persists its inputs and
// outputs with their scripts, and attaches it to blockID at
// indexInBlock. It returns the transaction_id, existing or new.
func (q *Queries) InsertTransaction(ctx context.Context, blockID, indexInBlock int64, tx model.Transaction) (int64, error) {
	transactionID, err := q.TransactionByHash(ctx, tx.Hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		transactionID, err = q.insertTransactionRow(ctx, tx)
		if err != nil {
			return 0, fmt.Errorf("insert transaction row: %w", err)
		}
		if err := q.insertInputsAndOutputs(ctx, transactionID, tx); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, fmt.Errorf("look up existing transaction: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO transactions_parents (block_id, transaction_id, index_in_block)
		VALUES (%s, %s, %s)`, q.ph(1), q.ph(2), q.ph(3))
	if _, err := q.db.ExecContext(ctx, query, blockID, transactionID, indexInBlock); err != nil {
		return 0, fmt.Errorf("attach transaction to block: %w", err)
	}
	return transactionID, nil
}

func (q *Queries) insertTransactionRow(ctx context.Context, tx model.Transaction) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO transactions (transaction_hash, version, locktime)
		VALUES (%s, %s, %s)`, q.ph(1), q.ph(2), q.ph(3))
	res, err := q.db.ExecContext(ctx, query, tx.Hash[:], tx.Version, tx.LockTime)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) insertInputsAndOutputs(ctx context.Context, transactionID int64, tx model.Transaction) error {
	for i, in := range tx.Inputs {
		scriptID, err := q.InsertScript(ctx, in.Script.Ops)
		if err != nil {
			return fmt.Errorf("insert input %d script: %w", i, err)
		}
		query := fmt.Sprintf(`INSERT INTO inputs
			(transaction_id, index_in_parent, previous_output_hash, previous_output_index, script_id, sequence)
			VALUES (%s, %s, %s, %s, %s, %s)`,
			q.ph(1), q.ph(2), q.ph(3), q.ph(4), q.ph(5), q.ph(6))
		if _, err := q.db.ExecContext(ctx, query, transactionID, int64(i),
			in.PreviousOutputHash[:], in.PreviousOutputIndex, scriptID, in.Sequence); err != nil {
			return fmt.Errorf("insert input %d: %w", i, err)
		}
	}

	for i, out := range tx.Outputs {
		scriptID, err := q.InsertScript(ctx, out.Script.Ops)
		if err != nil {
			return fmt.Errorf("insert output %d script: %w", i, err)
		}
		query := fmt.Sprintf(`INSERT INTO outputs (transaction_id, index_in_parent, value, script_id)
			VALUES (%s, %s, %s, %s)`, q.ph(1), q.ph(2), q.ph(3), q.ph(4))
		if _, err := q.db.ExecContext(ctx, query, transactionID, int64(i), out.Value, scriptID); err != nil {
			return fmt.Errorf("insert output %d: %w", i, err)
		}
	}
	return nil
}
