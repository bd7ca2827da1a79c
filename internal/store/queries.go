package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blocktreedb/chainvalidator/internal/model"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, letting Queries run
// either standalone or bound to a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries is the typed relation-access layer over the block-tree schema.
// It is backend-aware only for placeholder syntax; every method issues
// the same predicates against either driver.
type Queries struct {
	db      DBTX
	backend Backend
}

// New wraps db (a *sql.DB, a *sql.Tx, or anything satisfying DBTX) as a
// Queries bound to backend's placeholder dialect.
func New(db DBTX, backend Backend) *Queries {
	return &Queries{db: db, backend: backend}
}

// NewQueryCreator returns a QueryCreator that binds a fresh Queries to
// each transaction a TransactionExecutor opens, matching lnd's
// sqlc.Queries-per-tx pattern.
func NewQueryCreator(backend Backend) QueryCreator[*Queries] {
	return func(tx *sql.Tx) *Queries {
		return New(tx, backend)
	}
}

// ph renders the n-th (1-indexed) positional placeholder for the active
// backend: $n for postgres, ? for sqlite.
func (q *Queries) ph(n int) string {
	if q.backend == BackendPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// GetPosition loads a block's nested-set coordinate by block_id.
func (q *Queries) GetPosition(ctx context.Context, blockID int64) (model.Position, error) {
	query := fmt.Sprintf(`SELECT block_id, space, depth, span_left, span_right,
		prev_block_id, status FROM blocks WHERE block_id = %s`, q.ph(1))
	return scanPosition(q.db.QueryRowContext(ctx, query, blockID))
}

// GetAncestorAtDepth locates the unique ancestor of a block at depth d
// within space 0, via the span-bracket containment predicate.
func (q *Queries) GetAncestorAtDepth(ctx context.Context, spanLeft, spanRight, depth int64) (model.Position, error) {
	query := fmt.Sprintf(`SELECT block_id, space, depth, span_left, span_right,
		prev_block_id, status FROM blocks
		WHERE space = 0 AND depth = %s AND span_left <= %s AND span_right >= %s`,
		q.ph(1), q.ph(2), q.ph(3))
	return scanPosition(q.db.QueryRowContext(ctx, query, depth, spanLeft, spanRight))
}

func scanPosition(row *sql.Row) (model.Position, error) {
	var p model.Position
	var prevBlockID sql.NullInt64
	var status string
	if err := row.Scan(&p.BlockID, &p.Space, &p.Depth, &p.SpanLeft, &p.SpanRight,
		&prevBlockID, &status); err != nil {
		return model.Position{}, err
	}
	if prevBlockID.Valid {
		p.PrevBlockID = &prevBlockID.Int64
	}
	p.Status = model.Status(status)
	return p, nil
}

// HasDescendant probes for any row in the same space strictly deeper
// than (depth, spanLeft, spanRight) whose bracket encloses it — the
// width() fallback for a would-be leaf whose span collapsed to a point.
func (q *Queries) HasDescendant(ctx context.Context, space, depth, spanLeft, spanRight int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM blocks WHERE space = %s
		AND depth > %s AND span_left <= %s AND span_right >= %s)`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4))
	var exists bool
	err := q.db.QueryRowContext(ctx, query, space, depth, spanLeft, spanRight).Scan(&exists)
	return exists, err
}

// ShiftSpanRight adds delta to span_right for every row in space with
// span_right greater than threshold.
func (q *Queries) ShiftSpanRight(ctx context.Context, space, threshold, delta int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET span_right = span_right + %s
		WHERE space = %s AND span_right > %s`, q.ph(1), q.ph(2), q.ph(3))
	_, err := q.db.ExecContext(ctx, query, delta, space, threshold)
	return err
}

// ShiftSpanLeft adds delta to span_left for every row in space with
// span_left greater than threshold.
func (q *Queries) ShiftSpanLeft(ctx context.Context, space, threshold, delta int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET span_left = span_left + %s
		WHERE space = %s AND span_left > %s`, q.ph(1), q.ph(2), q.ph(3))
	_, err := q.db.ExecContext(ctx, query, delta, space, threshold)
	return err
}

// WidenAncestorBracket adds delta to span_right for every ancestor row
// (depth strictly above newChildDepth) whose span_right sits exactly at
// threshold — the parent-widening step of tree.Reserve.
func (q *Queries) WidenAncestorBracket(ctx context.Context, space, newChildDepth, threshold, delta int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET span_right = span_right + %s
		WHERE space = %s AND depth < %s AND span_right = %s`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4))
	_, err := q.db.ExecContext(ctx, query, delta, space, newChildDepth, threshold)
	return err
}

// MoveSpace relocates every row of fromSpace into toSpace, shifting
// depth and both span endpoints — tree.Splice. After this call,
// fromSpace has no rows.
func (q *Queries) MoveSpace(ctx context.Context, fromSpace, toSpace, depthDelta, spanDelta int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET space = %s, depth = depth + %s,
		span_left = span_left + %s, span_right = span_right + %s WHERE space = %s`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4), q.ph(5))
	_, err := q.db.ExecContext(ctx, query, toSpace, depthDelta, spanDelta, spanDelta, fromSpace)
	return err
}

// SetPrevBlockID links a child block to its newly-discovered parent.
func (q *Queries) SetPrevBlockID(ctx context.Context, blockID, prevBlockID int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET prev_block_id = %s WHERE block_id = %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, prevBlockID, blockID)
	return err
}

// ShiftSpansAbove supports delete_branch's gap-closing shift: it moves
// span_right and span_left down by delta for columns strictly greater than r.
func (q *Queries) ShiftSpansAbove(ctx context.Context, space, r, delta int64) error {
	if err := q.ShiftSpanRight(ctx, space, r, -delta); err != nil {
		return err
	}
	return q.ShiftSpanLeft(ctx, space, r, -delta)
}

// DeleteRange removes every row in space whose bracket falls within
// [l, r] at depth or deeper, used by delete_branch to drop the rejected
// subtree.
func (q *Queries) DeleteRange(ctx context.Context, space, depth, l, r int64) error {
	query := fmt.Sprintf(`DELETE FROM blocks WHERE space = %s AND depth >= %s
		AND span_left >= %s AND span_right <= %s`, q.ph(1), q.ph(2), q.ph(3), q.ph(4))
	_, err := q.db.ExecContext(ctx, query, space, depth, l, r)
	return err
}

// CollapseToLeaf converts the surviving parent of a deleted subtree back
// into a leaf by setting span_right to spanLeft; delete_branch calls it
// when the parent had no other child. spanRight is not used.
func (q *Queries) CollapseToLeaf(ctx context.Context, space, depth, spanLeft, spanRight int64) error {
	query := fmt.Sprintf(`UPDATE blocks SET span_right = %s
		WHERE space = %s AND depth = %s AND span_left = %s`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4))
	_, err := q.db.ExecContext(ctx, query, spanLeft, space, depth, spanLeft)
	return err
}

// OrphanRootParent is a candidate organizer re-parenting: an orphan
// space's root block whose prev_hash now matches a known block's hash.
type OrphanRootParent struct {
	ChildBlockID  int64
	ChildSpace    int64
	ParentBlockID int64
}

// FindOrphanRootsWithKnownParents implements organizer step 1: every
// space>0, depth==0 block whose prev_hash matches a present block hash.
func (q *Queries) FindOrphanRootsWithKnownParents(ctx context.Context) ([]OrphanRootParent, error) {
	query := `SELECT child.block_id, child.space, parent.block_id
		FROM blocks child JOIN blocks parent ON child.prev_block_hash = parent.block_hash
		WHERE child.space > 0 AND child.depth = 0`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrphanRootParent
	for rows.Next() {
		var o OrphanRootParent
		if err := rows.Scan(&o.ChildBlockID, &o.ChildSpace, &o.ParentBlockID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// InsertOrphanBlock inserts a newly-arrived block as the root of a fresh
// orphan space: space=nextFreeSpace, depth=0, span_left=span_right=0,
// prev_block_id=null, status=orphan.
func (q *Queries) InsertOrphanBlock(ctx context.Context, space int64, h model.Header, hash [32]byte) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO blocks
		(space, depth, span_left, span_right, prev_block_id, prev_block_hash,
		 block_hash, version, bits_head, bits_body, nonce, merkle, when_created, status)
		VALUES (%s, 0, 0, 0, NULL, %s, %s, %s, %s, %s, %s, %s, %s, 'orphan')`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4), q.ph(5), q.ph(6), q.ph(7), q.ph(8), q.ph(9))

	res, err := q.db.ExecContext(ctx, query, space, h.PrevHash[:], hash[:], h.Version,
		h.BitsHead, h.BitsBody, h.Nonce, h.MerkleRoot[:], h.WhenCreated.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// NextFreeSpace returns one greater than the highest space currently in
// use, for assigning a new orphan's space identifier. On an empty blocks
// table it returns 0, so the very first block to arrive roots space 0 —
// the canonical tree the organizer splices every other space into — and
// is not itself stranded in an orphan space nothing ever attaches to.
func (q *Queries) NextFreeSpace(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := q.db.QueryRowContext(ctx, `SELECT MAX(space) FROM blocks`).Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64 + 1, nil
}

// SetStatus transitions a block's status; the caller is responsible for
// only ever moving orphan -> valid or orphan -> invalid.
func (q *Queries) SetStatus(ctx context.Context, blockID int64, status model.Status) error {
	query := fmt.Sprintf(`UPDATE blocks SET status = %s WHERE block_id = %s`, q.ph(1), q.ph(2))
	_, err := q.db.ExecContext(ctx, query, string(status), blockID)
	return err
}

// PendingOrphans returns space==0 orphan blocks in ascending depth order,
// the order in which validation must walk them so a block is never
// checked before its own parent.
func (q *Queries) PendingOrphans(ctx context.Context) ([]model.Position, error) {
	query := `SELECT block_id, space, depth, span_left, span_right, prev_block_id, status
		FROM blocks WHERE space = 0 AND status = 'orphan' ORDER BY depth ASC, block_id ASC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Position
	for rows.Next() {
		var p model.Position
		var prevBlockID sql.NullInt64
		var status string
		if err := rows.Scan(&p.BlockID, &p.Space, &p.Depth, &p.SpanLeft, &p.SpanRight,
			&prevBlockID, &status); err != nil {
			return nil, err
		}
		if prevBlockID.Valid {
			p.PrevBlockID = &prevBlockID.Int64
		}
		p.Status = model.Status(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetHeader loads the header fields needed for consensus checks.
func (q *Queries) GetHeader(ctx context.Context, blockID int64) (model.Header, error) {
	query := fmt.Sprintf(`SELECT version, prev_block_hash, merkle, when_created,
		bits_head, bits_body, nonce FROM blocks WHERE block_id = %s`, q.ph(1))

	var h model.Header
	var prevHash, merkle []byte
	var when time.Time
	err := q.db.QueryRowContext(ctx, query, blockID).Scan(
		&h.Version, &prevHash, &merkle, &when, &h.BitsHead, &h.BitsBody, &h.Nonce)
	if err != nil {
		return model.Header{}, err
	}
	copy(h.PrevHash[:], prevHash)
	copy(h.MerkleRoot[:], merkle)
	h.WhenCreated = when
	return h, nil
}

// GetWhenCreated returns only the creation timestamp, used by
// actual_timespan and median_time_past.
func (q *Queries) GetWhenCreated(ctx context.Context, blockID int64) (time.Time, error) {
	query := fmt.Sprintf(`SELECT when_created FROM blocks WHERE block_id = %s`, q.ph(1))
	var when time.Time
	err := q.db.QueryRowContext(ctx, query, blockID).Scan(&when)
	return when, err
}

// AncestorWindow is one row of the <=11-block window median_time_past
// scans.
type AncestorWindow struct {
	BlockID     int64
	WhenCreated time.Time
}

// MedianWindow returns the ancestors enclosing (spanLeft, spanRight) with
// depth in [selfDepth-11, selfDepth), ordered by creation time ascending.
func (q *Queries) MedianWindow(ctx context.Context, spanLeft, spanRight, selfDepth int64) ([]AncestorWindow, error) {
	query := fmt.Sprintf(`SELECT block_id, when_created FROM blocks
		WHERE space = 0 AND depth < %s AND depth >= %s
		AND span_left <= %s AND span_right >= %s
		ORDER BY when_created ASC`,
		q.ph(1), q.ph(2), q.ph(3), q.ph(4))

	rows, err := q.db.QueryContext(ctx, query, selfDepth, selfDepth-11, spanLeft, spanRight)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AncestorWindow
	for rows.Next() {
		var w AncestorWindow
		if err := rows.Scan(&w.BlockID, &w.WhenCreated); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
