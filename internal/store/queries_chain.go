package store

import (
	"context"
	"fmt"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// GetChain loads one chains row by chain_id.
func (q *Queries) GetChain(ctx context.Context, chainID int64) (model.Chain, error) {
	query := fmt.Sprintf(`SELECT chain_id, work, depth FROM chains WHERE chain_id = %s`, q.ph(1))
	var c model.Chain
	var work int64
	err := q.db.QueryRowContext(ctx, query, chainID).Scan(&c.ChainID, &work, &c.Depth)
	c.Work = uint64(work)
	return c, err
}

// ShiftChainIDsAbove shifts every chains row with chain_id greater than
// threshold up by delta — the first half of ChainLedger.split.
func (q *Queries) ShiftChainIDsAbove(ctx context.Context, threshold, delta int64) error {
	query := fmt.Sprintf(`UPDATE chains SET chain_id = chain_id + %s WHERE chain_id > %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, delta, threshold)
	return err
}

// CloneChain inserts a new chains row at newChainID copying the work and
// depth of sourceChainID — ChainLedger.split's "fork inherits the
// cumulative work of the shared prefix."
func (q *Queries) CloneChain(ctx context.Context, sourceChainID, newChainID int64) error {
	query := fmt.Sprintf(`INSERT INTO chains (chain_id, work, depth)
		SELECT %s, work, depth FROM chains WHERE chain_id = %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, newChainID, sourceChainID)
	return err
}

// CreditChains adds work to every chain in [spanLeft, spanRight] and
// raises its depth to max(depth, newDepth) — ChainLedger.credit.
func (q *Queries) CreditChains(ctx context.Context, spanLeft, spanRight int64, work uint64, newDepth int64) error {
	query := fmt.Sprintf(`UPDATE chains SET work = work + %s,
		depth = CASE WHEN depth < %s THEN %s ELSE depth END
		WHERE chain_id >= %s AND chain_id <= %s`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4), q.ph(5))
	_, err := q.db.ExecContext(ctx, query, int64(work), newDepth, newDepth, spanLeft, spanRight)
	return err
}

// SumValidBitsAbove returns the bits of every valid block in space 0 at
// depth >= depthFloor enclosing column; ChainLedger.debit sums their work
// to compute the amount to subtract.
func (q *Queries) SumValidBitsAbove(ctx context.Context, column, depthFloor int64) ([]model.Header, error) {
	query := fmt.Sprintf(`SELECT bits_head, bits_body FROM blocks
		WHERE space = 0 AND status = 'valid' AND depth >= %s
		AND span_left <= %s AND span_right >= %s`, q.ph(1), q.ph(2), q.ph(3))

	rows, err := q.db.QueryContext(ctx, query, depthFloor, column, column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Header
	for rows.Next() {
		var h model.Header
		if err := rows.Scan(&h.BitsHead, &h.BitsBody); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// DebitChain subtracts work from a single chain — ChainLedger.debit's
// second half once the caller has summed the amount to remove.
func (q *Queries) DebitChain(ctx context.Context, chainID int64, amount uint64) error {
	query := fmt.Sprintf(`UPDATE chains SET work = work - %s WHERE chain_id = %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, int64(amount), chainID)
	return err
}

// DeleteChainsRange deletes chains rows in [left, right] and shifts
// higher chain_ids down by the deleted width — ChainLedger.renumber.
func (q *Queries) DeleteChainsRange(ctx context.Context, left, right int64) error {
	query := fmt.Sprintf(`DELETE FROM chains WHERE chain_id >= %s AND chain_id <= %s`, q.ph(1), q.ph(2))
	if _, err := q.db.ExecContext(ctx, query, left, right); err != nil {
		return err
	}

	width := right - left + 1
	query = fmt.Sprintf(`UPDATE chains SET chain_id = chain_id - %s WHERE chain_id > %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, width, right)
	return err
}

// ChainCount returns the current leaf count of space 0, the exclusive
// upper bound on valid chain_id values.
func (q *Queries) ChainCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chains`).Scan(&count)
	return count, err
}
