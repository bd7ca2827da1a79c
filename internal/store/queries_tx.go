package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// TransactionsForBlock returns a block's transactions ordered by
// index_in_block, each with its inputs and outputs populated — the join
// the block reader needs to materialize a full block.
func (q *Queries) TransactionsForBlock(ctx context.Context, blockID int64) ([]model.Transaction, error) {
	query := fmt.Sprintf(`SELECT t.transaction_id, t.transaction_hash, t.version, t.locktime, tp.index_in_block
		FROM transactions_parents tp JOIN transactions t ON t.transaction_id = tp.transaction_id
		WHERE tp.block_id = %s ORDER BY tp.index_in_block ASC`, q.ph(1))

	rows, err := q.db.QueryContext(ctx, query, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var hash []byte
		if err := rows.Scan(&t.TransactionID, &hash, &t.Version, &t.LockTime, &t.IndexInBlock); err != nil {
			return nil, err
		}
		copy(t.Hash[:], hash)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range txs {
		inputs, err := q.InputsForTransaction(ctx, txs[i].TransactionID)
		if err != nil {
			return nil, err
		}
		outputs, err := q.OutputsForTransaction(ctx, txs[i].TransactionID)
		if err != nil {
			return nil, err
		}
		txs[i].Inputs = inputs
		txs[i].Outputs = outputs
	}
	return txs, nil
}

// InputsForTransaction returns a transaction's inputs ordered by
// index_in_parent, each with its script materialized.
func (q *Queries) InputsForTransaction(ctx context.Context, transactionID int64) ([]model.Input, error) {
	query := fmt.Sprintf(`SELECT input_id, transaction_id, index_in_parent,
		previous_output_hash, previous_output_index, script_id, sequence
		FROM inputs WHERE transaction_id = %s ORDER BY index_in_parent ASC`, q.ph(1))

	rows, err := q.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []model.Input
	for rows.Next() {
		var in model.Input
		var prevHash []byte
		var scriptID int64
		if err := rows.Scan(&in.InputID, &in.TransactionID, &in.IndexInParent,
			&prevHash, &in.PreviousOutputIndex, &scriptID, &in.Sequence); err != nil {
			return nil, err
		}
		copy(in.PreviousOutputHash[:], prevHash)

		script, err := q.ScriptByID(ctx, scriptID)
		if err != nil {
			return nil, err
		}
		in.Script = script
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// OutputsForTransaction returns a transaction's outputs ordered by
// index_in_parent, each with its script materialized.
func (q *Queries) OutputsForTransaction(ctx context.Context, transactionID int64) ([]model.Output, error) {
	query := fmt.Sprintf(`SELECT output_id, transaction_id, index_in_parent, value, script_id
		FROM outputs WHERE transaction_id = %s ORDER BY index_in_parent ASC`, q.ph(1))

	rows, err := q.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []model.Output
	for rows.Next() {
		var out model.Output
		var scriptID int64
		if err := rows.Scan(&out.OutputID, &out.TransactionID, &out.IndexInParent, &out.Value, &scriptID); err != nil {
			return nil, err
		}
		script, err := q.ScriptByID(ctx, scriptID)
		if err != nil {
			return nil, err
		}
		out.Script = script
		outputs = append(outputs, out)
	}
	return outputs, rows.Err()
}

// ScriptByID materializes a script from operations in operation_id order.
func (q *Queries) ScriptByID(ctx context.Context, scriptID int64) (model.Script, error) {
	query := fmt.Sprintf(`SELECT operation_id, opcode, data FROM operations
		WHERE script_id = %s ORDER BY operation_id ASC`, q.ph(1))

	rows, err := q.db.QueryContext(ctx, query, scriptID)
	if err != nil {
		return model.Script{}, err
	}
	defer rows.Close()

	script := model.Script{ScriptID: scriptID}
	for rows.Next() {
		var op model.Operation
		var opcode int
		if err := rows.Scan(&op.OperationID, &opcode, &op.Data); err != nil {
			return model.Script{}, err
		}
		op.OpCode = byte(opcode)
		script.Ops = append(script.Ops, op)
	}
	return script, rows.Err()
}

// TransactionByHash looks up a transaction by its hash, used to resolve
// an input's previous_output_hash. This lookup is deliberately NOT
// restricted to the containing block's branch — any caller that needs
// branch scoping applies it itself, against the resolved transaction's
// containing block.
func (q *Queries) TransactionByHash(ctx context.Context, hash [32]byte) (int64, error) {
	query := fmt.Sprintf(`SELECT transaction_id FROM transactions WHERE transaction_hash = %s`, q.ph(1))
	var id int64
	err := q.db.QueryRowContext(ctx, query, hash[:]).Scan(&id)
	return id, err
}

// OutputByIndex resolves a previous output by (transaction, index).
func (q *Queries) OutputByIndex(ctx context.Context, transactionID, index int64) (model.Output, error) {
	query := fmt.Sprintf(`SELECT output_id, transaction_id, index_in_parent, value, script_id
		FROM outputs WHERE transaction_id = %s AND index_in_parent = %s`, q.ph(1), q.ph(2))

	var out model.Output
	var scriptID int64
	err := q.db.QueryRowContext(ctx, query, transactionID, index).Scan(
		&out.OutputID, &out.TransactionID, &out.IndexInParent, &out.Value, &scriptID)
	if err != nil {
		return model.Output{}, err
	}
	out.Script, err = q.ScriptByID(ctx, scriptID)
	return out, err
}

// ContainingBlock returns the position of the block that attaches a
// given transaction, used for coinbase-maturity and branch-scoped
// double-spend checks.
func (q *Queries) ContainingBlock(ctx context.Context, transactionID int64) (model.Position, error) {
	query := fmt.Sprintf(`SELECT b.block_id, b.space, b.depth, b.span_left, b.span_right,
		b.prev_block_id, b.status FROM blocks b
		JOIN transactions_parents tp ON tp.block_id = b.block_id
		WHERE tp.transaction_id = %s`, q.ph(1))
	return scanPosition(q.db.QueryRowContext(ctx, query, transactionID))
}

// IsCoinbaseTransaction reports whether a transaction's sole input is
// the synthetic coinbase input.
func (q *Queries) IsCoinbaseTransaction(ctx context.Context, transactionID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM inputs WHERE transaction_id = %s`, q.ph(1))
	var count int
	if err := q.db.QueryRowContext(ctx, query, transactionID).Scan(&count); err != nil {
		return false, err
	}
	if count != 1 {
		return false, nil
	}

	query = fmt.Sprintf(`SELECT previous_output_hash, previous_output_index FROM inputs
		WHERE transaction_id = %s`, q.ph(1))
	var prevHash []byte
	var prevIndex int64
	if err := q.db.QueryRowContext(ctx, query, transactionID).Scan(&prevHash, &prevIndex); err != nil {
		return false, err
	}

	var zero [32]byte
	return equalHash(prevHash, zero) && prevIndex == 0xffffffff, nil
}

func equalHash(b []byte, z [32]byte) bool {
	if len(b) != 32 {
		return false
	}
	for i := range b {
		if b[i] != z[i] {
			return false
		}
	}
	return true
}

// ConflictingInput is a candidate double-spend: another input spending
// the same previous output from a different transaction.
type ConflictingInput struct {
	TransactionID int64
	IndexInParent int64
}

// FindConflictingInputs returns every other input spending
// (prevHash, prevIndex), excluding the given (transactionID,
// indexInParent) itself. It intentionally returns the full candidate set
// across every branch; the caller narrows it to the current branch via
// ContainingBlock plus the ancestor-range predicate.
func (q *Queries) FindConflictingInputs(ctx context.Context, prevHash [32]byte, prevIndex uint32,
	excludeTransactionID, excludeIndexInParent int64) ([]ConflictingInput, error) {

	query := fmt.Sprintf(`SELECT transaction_id, index_in_parent FROM inputs
		WHERE previous_output_hash = %s AND previous_output_index = %s
		AND NOT (transaction_id = %s AND index_in_parent = %s)`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4))

	rows, err := q.db.QueryContext(ctx, query, prevHash[:], prevIndex, excludeTransactionID, excludeIndexInParent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConflictingInput
	for rows.Next() {
		var c ConflictingInput
		if err := rows.Scan(&c.TransactionID, &c.IndexInParent); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TransactionIDByBlockIndex resolves transactions_parents(block_id,
// index_in_block) -> transaction_id, the lookup validate_transaction
// starts from.
func (q *Queries) TransactionIDByBlockIndex(ctx context.Context, blockID, indexInBlock int64) (int64, error) {
	query := fmt.Sprintf(`SELECT transaction_id FROM transactions_parents
		WHERE block_id = %s AND index_in_block = %s`, q.ph(1), q.ph(2))
	var id int64
	err := q.db.QueryRowContext(ctx, query, blockID, indexInBlock).Scan(&id)
	return id, err
}

// ErrNoRows is sql.ErrNoRows itself, returned when an expected row is
// missing — a store-inconsistency condition distinct from a transport or
// constraint failure.
var ErrNoRows = sql.ErrNoRows
