package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PreparedStatements is the process-global, immutable table of prepared
// statement templates for the engine's hottest reads: built once at Open
// and never mutated afterward, safe for concurrent use by every reader.
type PreparedStatements struct {
	GetPosition       *sql.Stmt
	GetAncestor       *sql.Stmt
	GetHeader         *sql.Stmt
	HasDescendant     *sql.Stmt
	TransactionByHash *sql.Stmt
}

func prepareStatements(ctx context.Context, db *sql.DB, backend Backend) (*PreparedStatements, error) {
	ph := func(n int) string {
		if backend == BackendPostgres {
			return fmt.Sprintf("$%d", n)
		}
		return "?"
	}

	templates := map[string]string{
		"GetPosition": fmt.Sprintf(`SELECT block_id, space, depth, span_left, span_right,
			prev_block_id, status FROM blocks WHERE block_id = %s`, ph(1)),
		"GetAncestor": fmt.Sprintf(`SELECT block_id, space, depth, span_left, span_right,
			prev_block_id, status FROM blocks
			WHERE space = 0 AND depth = %s AND span_left <= %s AND span_right >= %s`,
			ph(1), ph(2), ph(3)),
		"GetHeader": fmt.Sprintf(`SELECT version, prev_block_hash, merkle, when_created,
			bits_head, bits_body, nonce FROM blocks WHERE block_id = %s`, ph(1)),
		"HasDescendant": fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM blocks WHERE space = %s
			AND depth > %s AND span_left <= %s AND span_right >= %s)`,
			ph(1), ph(2), ph(3), ph(4)),
		"TransactionByHash": fmt.Sprintf(`SELECT transaction_id FROM transactions
			WHERE transaction_hash = %s`, ph(1)),
	}

	stmts := make(map[string]*sql.Stmt, len(templates))
	for name, query := range templates {
		stmt, err := db.PrepareContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("prepare %s: %w", name, err)
		}
		stmts[name] = stmt
	}

	return &PreparedStatements{
		GetPosition:       stmts["GetPosition"],
		GetAncestor:       stmts["GetAncestor"],
		GetHeader:         stmts["GetHeader"],
		HasDescendant:     stmts["HasDescendant"],
		TransactionByHash: stmts["TransactionByHash"],
	}, nil
}

// Close releases every prepared statement. Called once at shutdown,
// after the last reader relying on the cache has stopped.
func (p *PreparedStatements) Close() error {
	stmts := []*sql.Stmt{p.GetPosition, p.GetAncestor, p.GetHeader, p.HasDescendant, p.TransactionByHash}
	var firstErr error
	for _, s := range stmts {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
